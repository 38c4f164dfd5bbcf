package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mindline/practice-api/internal/model"
	"github.com/mindline/practice-api/internal/repository"
)

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	query := `
		INSERT INTO messages (
			id, sender_id, recipient_id, body, sent_at,
			deleted_by_sender, deleted_by_recipient
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		message.ID,
		message.SenderID,
		message.RecipientID,
		message.Body,
		message.SentAt,
		message.DeletedBySender,
		message.DeletedByRecipient,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *messageRepository) Get(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	query := `
		SELECT id, sender_id, recipient_id, body, sent_at, read_at,
			   deleted_by_sender, deleted_by_recipient
		FROM messages
		WHERE id = $1
	`
	var message model.Message
	err := r.db.GetContext(ctx, &message, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return &message, nil
}

func (r *messageRepository) Update(ctx context.Context, message *model.Message) error {
	query := `
		UPDATE messages
		SET read_at = $1, deleted_by_sender = $2, deleted_by_recipient = $3
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query,
		message.ReadAt,
		message.DeletedBySender,
		message.DeletedByRecipient,
		message.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *messageRepository) ListFor(ctx context.Context, accountID uuid.UUID) ([]*model.Message, error) {
	query := `
		SELECT id, sender_id, recipient_id, body, sent_at, read_at,
			   deleted_by_sender, deleted_by_recipient
		FROM messages
		WHERE (sender_id = $1 AND NOT deleted_by_sender)
		   OR (recipient_id = $1 AND NOT deleted_by_recipient)
		ORDER BY sent_at DESC
	`
	var messages []*model.Message
	err := r.db.SelectContext(ctx, &messages, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}
