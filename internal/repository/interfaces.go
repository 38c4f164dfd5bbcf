package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mindline/practice-api/internal/model"
)

// Sentinel errors translated by the service layer into the API error
// taxonomy.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	Get(ctx context.Context, id uuid.UUID) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	GetByInviteCode(ctx context.Context, code string) (*model.Account, error)
	GetByLinkedPatient(ctx context.Context, patientID uuid.UUID) (*model.Account, error)
	Update(ctx context.Context, account *model.Account) error
}

type PatientRepository interface {
	Create(ctx context.Context, patient *model.Patient) error
	Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	Update(ctx context.Context, patient *model.Patient) error
	List(ctx context.Context, practitionerID uuid.UUID) ([]*model.Patient, error)
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	Update(ctx context.Context, appointment *model.Appointment) error
	List(ctx context.Context, practitionerID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error)
}

type ConsentRepository interface {
	CreateTemplate(ctx context.Context, template *model.ConsentTemplate) error
	GetTemplate(ctx context.Context, id uuid.UUID) (*model.ConsentTemplate, error)
	UpdateTemplate(ctx context.Context, template *model.ConsentTemplate) error
	ListTemplates(ctx context.Context, practitionerID uuid.UUID) ([]*model.ConsentTemplate, error)
	CreateSigned(ctx context.Context, signed *model.SignedConsent) error
	ListSigned(ctx context.Context, practitionerID uuid.UUID) ([]*model.SignedConsent, error)
}

type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	Get(ctx context.Context, id uuid.UUID) (*model.Message, error)
	Update(ctx context.Context, message *model.Message) error
	ListFor(ctx context.Context, accountID uuid.UUID) ([]*model.Message, error)
}

type ContactRepository interface {
	Create(ctx context.Context, req *model.ContactRequest) error
	List(ctx context.Context, page model.Pagination) ([]*model.ContactRequest, error)
}
