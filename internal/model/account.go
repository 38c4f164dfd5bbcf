package model

import (
	"time"

	"github.com/google/uuid"
)

type AccountKind string

const (
	AccountKindPractitioner AccountKind = "practitioner"
	AccountKindClient       AccountKind = "client"
)

type Account struct {
	Base
	Kind                 AccountKind `json:"kind" db:"kind"`
	Email                string      `json:"email" db:"email"`
	PasswordHash         string      `json:"-" db:"password_hash"`
	Name                 string      `json:"name" db:"name"`
	Phone                string      `json:"phone,omitempty" db:"phone"`
	Bio                  string      `json:"bio,omitempty" db:"bio"`
	Timezone             string      `json:"timezone,omitempty" db:"timezone"`
	InviteCode           *string     `json:"invite_code,omitempty" db:"invite_code"`
	LinkedPractitionerID *uuid.UUID  `json:"linked_practitioner_id,omitempty" db:"linked_practitioner_id"`
	LinkedPatientID      *uuid.UUID  `json:"linked_patient_id,omitempty" db:"linked_patient_id"`
	LastLoginAt          *time.Time  `json:"last_login_at,omitempty" db:"last_login_at"`
}

// IsPractitioner reports whether the account owns patients and appointments.
func (a *Account) IsPractitioner() bool {
	return a.Kind == AccountKindPractitioner
}

// PractitionerID resolves the practitioner scope for the account: the
// account's own id for practitioners, the linked practitioner for clients.
func (a *Account) PractitionerID() (uuid.UUID, bool) {
	if a.Kind == AccountKindPractitioner {
		return a.ID, true
	}
	if a.LinkedPractitionerID != nil {
		return *a.LinkedPractitionerID, true
	}
	return uuid.Nil, false
}

type RegisterRequest struct {
	Kind       AccountKind `json:"kind" binding:"required,oneof=practitioner client"`
	Email      string      `json:"email" binding:"required,email"`
	Password   string      `json:"password" binding:"required,min=8"`
	Name       string      `json:"name" binding:"required,min=2"`
	Phone      string      `json:"phone" binding:"omitempty,max=32"`
	Timezone   string      `json:"timezone" binding:"omitempty,max=64"`
	InviteCode string      `json:"invite_code" binding:"omitempty,invitecode"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2"`
	Phone    *string `json:"phone" binding:"omitempty,max=32"`
	Bio      *string `json:"bio" binding:"omitempty,max=2000"`
	Timezone *string `json:"timezone" binding:"omitempty,max=64"`
}
