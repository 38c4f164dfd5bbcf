package model

import (
	"github.com/google/uuid"
)

type Patient struct {
	Base
	PractitionerID uuid.UUID `json:"practitioner_id" db:"practitioner_id"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	Phone          string    `json:"phone,omitempty" db:"phone"`
	Notes          string    `json:"notes,omitempty" db:"notes"`
}

type CreatePatientRequest struct {
	Name  string `json:"name" binding:"required,min=3"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"omitempty,max=32"`
	Notes string `json:"notes" binding:"omitempty,max=5000"`
}

type UpdatePatientRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=3"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone" binding:"omitempty,max=32"`
	Notes *string `json:"notes" binding:"omitempty,max=5000"`
}
