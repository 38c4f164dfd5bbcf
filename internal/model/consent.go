package model

import (
	"time"

	"github.com/google/uuid"
)

type ConsentTemplate struct {
	Base
	PractitionerID uuid.UUID `json:"practitioner_id" db:"practitioner_id"`
	Title          string    `json:"title" db:"title"`
	Content        string    `json:"content" db:"content"`
	Version        int       `json:"version" db:"version"`
}

// SignedConsent is append-only: once written it never changes, and the
// version captured at signing time survives later template edits.
type SignedConsent struct {
	ID              uuid.UUID `json:"id" db:"id"`
	PatientID       uuid.UUID `json:"patient_id" db:"patient_id"`
	TemplateID      uuid.UUID `json:"template_id" db:"template_id"`
	TemplateVersion int       `json:"template_version" db:"template_version"`
	Signature       string    `json:"signature" db:"signature"`
	SignedAt        time.Time `json:"signed_at" db:"signed_at"`
}

type CreateConsentTemplateRequest struct {
	Title   string `json:"title" binding:"required,min=3"`
	Content string `json:"content" binding:"required,min=50"`
}

type UpdateConsentTemplateRequest struct {
	Title   *string `json:"title" binding:"omitempty,min=3"`
	Content *string `json:"content" binding:"omitempty,min=50"`
}

type SignConsentRequest struct {
	PatientID uuid.UUID `json:"patient_id" binding:"required"`
	Signature string    `json:"signature" binding:"required"`
}
