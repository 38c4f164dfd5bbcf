package message

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mindline/practice-api/internal/apperror"
	"github.com/mindline/practice-api/internal/model"
	"github.com/mindline/practice-api/internal/repository"
)

type Service struct {
	repo     repository.MessageRepository
	accounts repository.AccountRepository
}

func NewService(repo repository.MessageRepository, accounts repository.AccountRepository) *Service {
	return &Service{repo: repo, accounts: accounts}
}

func (s *Service) Send(ctx context.Context, senderID uuid.UUID, req *model.SendMessageRequest) (*model.Message, error) {
	if strings.TrimSpace(req.Body) == "" {
		return nil, apperror.Validation("message body is required")
	}
	if req.RecipientID == senderID {
		return nil, apperror.Validation("cannot send a message to yourself")
	}

	if _, err := s.accounts.Get(ctx, req.RecipientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("recipient")
		}
		return nil, apperror.Internal(err)
	}

	message := &model.Message{
		ID:          uuid.New(),
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		Body:        req.Body,
		SentAt:      time.Now(),
	}

	if err := s.repo.Create(ctx, message); err != nil {
		return nil, apperror.Internal(err)
	}
	return message, nil
}

// ListFor returns the account's messages, minus those it soft-deleted.
func (s *Service) ListFor(ctx context.Context, accountID uuid.UUID) ([]*model.Message, error) {
	messages, err := s.repo.ListFor(ctx, accountID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return messages, nil
}

// MarkRead sets read-at once; marking an already read message is a
// no-op. Only the recipient may mark a message read.
func (s *Service) MarkRead(ctx context.Context, id, accountID uuid.UUID) (*model.Message, error) {
	message, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if message.RecipientID != accountID {
		return nil, apperror.Forbidden("only the recipient can mark a message as read")
	}

	if message.ReadAt != nil {
		return message, nil
	}

	now := time.Now()
	message.ReadAt = &now
	if err := s.repo.Update(ctx, message); err != nil {
		return nil, apperror.Internal(err)
	}
	return message, nil
}

// SoftDelete hides the message for whichever side accountID matches.
// The row itself stays.
func (s *Service) SoftDelete(ctx context.Context, id, accountID uuid.UUID) error {
	message, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	switch accountID {
	case message.SenderID:
		message.DeletedBySender = true
	case message.RecipientID:
		message.DeletedByRecipient = true
	default:
		return apperror.Forbidden("message belongs to another conversation")
	}

	if err := s.repo.Update(ctx, message); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	message, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("message")
		}
		return nil, apperror.Internal(err)
	}
	return message, nil
}
