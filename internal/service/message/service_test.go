package message

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindline/practice-api/internal/apperror"
	"github.com/mindline/practice-api/internal/model"
	"github.com/mindline/practice-api/internal/repository/memory"
)

func newMessageFixture(t *testing.T) (*Service, *model.Account, *model.Account) {
	t.Helper()

	accounts := memory.NewAccountRepository()
	sender := &model.Account{Base: model.Base{ID: uuid.New()}, Kind: model.AccountKindPractitioner, Email: "a@example.com"}
	recipient := &model.Account{Base: model.Base{ID: uuid.New()}, Kind: model.AccountKindClient, Email: "b@example.com"}
	require.NoError(t, accounts.Create(context.Background(), sender))
	require.NoError(t, accounts.Create(context.Background(), recipient))

	return NewService(memory.NewMessageRepository(), accounts), sender, recipient
}

func TestSendAndList(t *testing.T) {
	svc, sender, recipient := newMessageFixture(t)
	ctx := context.Background()

	sent, err := svc.Send(ctx, sender.ID, &model.SendMessageRequest{
		RecipientID: recipient.ID,
		Body:        "See you Tuesday.",
	})
	require.NoError(t, err)
	assert.Nil(t, sent.ReadAt)

	forRecipient, err := svc.ListFor(ctx, recipient.ID)
	require.NoError(t, err)
	require.Len(t, forRecipient, 1)
	assert.Equal(t, "See you Tuesday.", forRecipient[0].Body)

	forSender, err := svc.ListFor(ctx, sender.ID)
	require.NoError(t, err)
	assert.Len(t, forSender, 1)
}

func TestSendValidation(t *testing.T) {
	svc, sender, recipient := newMessageFixture(t)
	ctx := context.Background()

	_, err := svc.Send(ctx, sender.ID, &model.SendMessageRequest{
		RecipientID: recipient.ID,
		Body:        "   ",
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = svc.Send(ctx, sender.ID, &model.SendMessageRequest{
		RecipientID: sender.ID,
		Body:        "note to self",
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))

	_, err = svc.Send(ctx, sender.ID, &model.SendMessageRequest{
		RecipientID: uuid.New(),
		Body:        "hello?",
	})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestMarkReadOnceAndIdempotent(t *testing.T) {
	svc, sender, recipient := newMessageFixture(t)
	ctx := context.Background()

	sent, err := svc.Send(ctx, sender.ID, &model.SendMessageRequest{
		RecipientID: recipient.ID,
		Body:        "See you Tuesday.",
	})
	require.NoError(t, err)

	read, err := svc.MarkRead(ctx, sent.ID, recipient.ID)
	require.NoError(t, err)
	require.NotNil(t, read.ReadAt)
	first := *read.ReadAt

	again, err := svc.MarkRead(ctx, sent.ID, recipient.ID)
	require.NoError(t, err)
	require.NotNil(t, again.ReadAt)
	assert.Equal(t, first, *again.ReadAt, "read-at is set at most once")

	_, err = svc.MarkRead(ctx, sent.ID, sender.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden), "sender cannot mark read")
}

func TestSoftDeletePerSide(t *testing.T) {
	svc, sender, recipient := newMessageFixture(t)
	ctx := context.Background()

	sent, err := svc.Send(ctx, sender.ID, &model.SendMessageRequest{
		RecipientID: recipient.ID,
		Body:        "See you Tuesday.",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(ctx, sent.ID, sender.ID))

	forSender, err := svc.ListFor(ctx, sender.ID)
	require.NoError(t, err)
	assert.Empty(t, forSender, "deleted on sender side")

	forRecipient, err := svc.ListFor(ctx, recipient.ID)
	require.NoError(t, err)
	assert.Len(t, forRecipient, 1, "recipient still sees it")

	require.NoError(t, svc.SoftDelete(ctx, sent.ID, recipient.ID))
	forRecipient, err = svc.ListFor(ctx, recipient.ID)
	require.NoError(t, err)
	assert.Empty(t, forRecipient)
}

func TestSoftDeleteByStrangerForbidden(t *testing.T) {
	svc, sender, recipient := newMessageFixture(t)
	ctx := context.Background()

	sent, err := svc.Send(ctx, sender.ID, &model.SendMessageRequest{
		RecipientID: recipient.ID,
		Body:        "See you Tuesday.",
	})
	require.NoError(t, err)

	err = svc.SoftDelete(ctx, sent.ID, uuid.New())
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
}
