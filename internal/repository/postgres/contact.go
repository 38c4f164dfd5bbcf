package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/mindline/practice-api/internal/model"
)

func (r *contactRepository) Create(ctx context.Context, req *model.ContactRequest) error {
	query := `
		INSERT INTO contact_requests (
			id, name, email, message, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`
	req.CreatedAt = time.Now()
	req.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		req.ID,
		req.Name,
		req.Email,
		req.Message,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contact request: %w", err)
	}
	return nil
}

func (r *contactRepository) List(ctx context.Context, page model.Pagination) ([]*model.ContactRequest, error) {
	query := `
		SELECT id, name, email, message, created_at, updated_at
		FROM contact_requests
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	var requests []*model.ContactRequest
	err := r.db.SelectContext(ctx, &requests, query, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list contact requests: %w", err)
	}
	return requests, nil
}
