package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusApproved  AppointmentStatus = "approved"
	AppointmentStatusRejected  AppointmentStatus = "rejected"
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusMissed    AppointmentStatus = "missed"
)

// Terminal reports whether no further status change is defined from s.
func (s AppointmentStatus) Terminal() bool {
	switch s {
	case AppointmentStatusRejected, AppointmentStatusCompleted,
		AppointmentStatusCancelled, AppointmentStatusMissed:
		return true
	}
	return false
}

type Appointment struct {
	Base
	PractitionerID  uuid.UUID         `json:"practitioner_id" db:"practitioner_id"`
	PatientID       uuid.UUID         `json:"patient_id" db:"patient_id"`
	StartTime       time.Time         `json:"start_time" db:"start_time"`
	DurationMinutes int               `json:"duration_minutes" db:"duration_minutes"`
	Status          AppointmentStatus `json:"status" db:"status"`
	Notes           string            `json:"notes,omitempty" db:"notes"`
}

// EndTime derives the end of the slot from start and duration.
func (a *Appointment) EndTime() time.Time {
	return a.StartTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

type CreateAppointmentRequest struct {
	PatientID       uuid.UUID `json:"patient_id" binding:"required"`
	StartTime       time.Time `json:"start_time" binding:"required"`
	DurationMinutes int       `json:"duration_minutes" binding:"required,gt=0"`
	Notes           string    `json:"notes" binding:"omitempty,max=2000"`
}

type AppointmentActionRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=2000"`
}

type RejectAppointmentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type AppointmentFilters struct {
	PatientID uuid.UUID
	Status    AppointmentStatus
	From      time.Time
	To        time.Time
}
