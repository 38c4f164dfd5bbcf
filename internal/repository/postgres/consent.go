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

func (r *consentRepository) CreateTemplate(ctx context.Context, template *model.ConsentTemplate) error {
	query := `
		INSERT INTO consent_templates (
			id, practitioner_id, title, content, version,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	template.CreatedAt = time.Now()
	template.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		template.ID,
		template.PractitionerID,
		template.Title,
		template.Content,
		template.Version,
		template.CreatedAt,
		template.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create consent template: %w", err)
	}
	return nil
}

func (r *consentRepository) GetTemplate(ctx context.Context, id uuid.UUID) (*model.ConsentTemplate, error) {
	query := `
		SELECT id, practitioner_id, title, content, version,
			   created_at, updated_at
		FROM consent_templates
		WHERE id = $1
	`
	var template model.ConsentTemplate
	err := r.db.GetContext(ctx, &template, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get consent template: %w", err)
	}
	return &template, nil
}

func (r *consentRepository) UpdateTemplate(ctx context.Context, template *model.ConsentTemplate) error {
	query := `
		UPDATE consent_templates
		SET title = $1, content = $2, version = $3, updated_at = $4
		WHERE id = $5
	`
	template.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		template.Title,
		template.Content,
		template.Version,
		template.UpdatedAt,
		template.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update consent template: %w", err)
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

func (r *consentRepository) ListTemplates(ctx context.Context, practitionerID uuid.UUID) ([]*model.ConsentTemplate, error) {
	query := `
		SELECT id, practitioner_id, title, content, version,
			   created_at, updated_at
		FROM consent_templates
		WHERE practitioner_id = $1
		ORDER BY title ASC
	`
	var templates []*model.ConsentTemplate
	err := r.db.SelectContext(ctx, &templates, query, practitionerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list consent templates: %w", err)
	}
	return templates, nil
}

func (r *consentRepository) CreateSigned(ctx context.Context, signed *model.SignedConsent) error {
	query := `
		INSERT INTO signed_consents (
			id, patient_id, template_id, template_version,
			signature, signed_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		signed.ID,
		signed.PatientID,
		signed.TemplateID,
		signed.TemplateVersion,
		signed.Signature,
		signed.SignedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create signed consent: %w", err)
	}
	return nil
}

func (r *consentRepository) ListSigned(ctx context.Context, practitionerID uuid.UUID) ([]*model.SignedConsent, error) {
	query := `
		SELECT s.id, s.patient_id, s.template_id, s.template_version,
			   s.signature, s.signed_at
		FROM signed_consents s
		JOIN patients p ON p.id = s.patient_id
		WHERE p.practitioner_id = $1
		ORDER BY s.signed_at DESC
	`
	var signed []*model.SignedConsent
	err := r.db.SelectContext(ctx, &signed, query, practitionerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list signed consents: %w", err)
	}
	return signed, nil
}
