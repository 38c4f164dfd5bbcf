package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mindline/practice-api/internal/model"
	"github.com/mindline/practice-api/internal/repository"
)

const accountColumns = `
	id, kind, email, password_hash, name, phone, bio, timezone,
	invite_code, linked_practitioner_id, linked_patient_id,
	last_login_at, created_at, updated_at
`

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	query := `
		INSERT INTO accounts (
			id, kind, email, password_hash, name, phone, bio, timezone,
			invite_code, linked_practitioner_id, linked_patient_id,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	account.CreatedAt = time.Now()
	account.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Kind,
		account.Email,
		account.PasswordHash,
		account.Name,
		account.Phone,
		account.Bio,
		account.Timezone,
		account.InviteCode,
		account.LinkedPractitionerID,
		account.LinkedPatientID,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	var account model.Account
	err := r.db.GetContext(ctx, &account, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	var account model.Account
	err := r.db.GetContext(ctx, &account, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) GetByInviteCode(ctx context.Context, code string) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE invite_code = $1`

	var account model.Account
	err := r.db.GetContext(ctx, &account, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by invite code: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) GetByLinkedPatient(ctx context.Context, patientID uuid.UUID) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE linked_patient_id = $1`

	var account model.Account
	err := r.db.GetContext(ctx, &account, query, patientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by linked patient: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) Update(ctx context.Context, account *model.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, phone = $2, bio = $3, timezone = $4,
			invite_code = $5, linked_practitioner_id = $6,
			linked_patient_id = $7, last_login_at = $8, updated_at = $9
		WHERE id = $10
	`
	account.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		account.Name,
		account.Phone,
		account.Bio,
		account.Timezone,
		account.InviteCode,
		account.LinkedPractitionerID,
		account.LinkedPatientID,
		account.LastLoginAt,
		account.UpdatedAt,
		account.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to update account: %w", err)
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
