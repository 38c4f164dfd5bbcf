// Package memory provides in-process repository implementations used by
// unit tests and local development without Postgres.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mindline/practice-api/internal/model"
	"github.com/mindline/practice-api/internal/repository"
)

type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]model.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[uuid.UUID]model.Account)}
}

func (r *AccountRepository) Create(_ context.Context, account *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.Email == account.Email {
			return repository.ErrDuplicate
		}
		if account.InviteCode != nil && a.InviteCode != nil && *a.InviteCode == *account.InviteCode {
			return repository.ErrDuplicate
		}
	}
	account.CreatedAt = time.Now()
	account.UpdatedAt = time.Now()
	r.accounts[account.ID] = *account
	return nil
}

func (r *AccountRepository) Get(_ context.Context, id uuid.UUID) (*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := account
	return &out, nil
}

func (r *AccountRepository) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.Email == email {
			out := a
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *AccountRepository) GetByInviteCode(_ context.Context, code string) (*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.InviteCode != nil && *a.InviteCode == code {
			out := a
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *AccountRepository) GetByLinkedPatient(_ context.Context, patientID uuid.UUID) (*model.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.LinkedPatientID != nil && *a.LinkedPatientID == patientID {
			out := a
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *AccountRepository) Update(_ context.Context, account *model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.accounts[account.ID]; !ok {
		return repository.ErrNotFound
	}
	account.UpdatedAt = time.Now()
	r.accounts[account.ID] = *account
	return nil
}

// Delete removes an account outright. Not part of the repository
// interface; tests use it to simulate an account vanishing under a
// live session.
func (r *AccountRepository) Delete(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.accounts, id)
}

type PatientRepository struct {
	mu       sync.RWMutex
	patients map[uuid.UUID]model.Patient
}

func NewPatientRepository() *PatientRepository {
	return &PatientRepository{patients: make(map[uuid.UUID]model.Patient)}
}

func (r *PatientRepository) Create(_ context.Context, patient *model.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()
	r.patients[patient.ID] = *patient
	return nil
}

func (r *PatientRepository) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	patient, ok := r.patients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := patient
	return &out, nil
}

func (r *PatientRepository) Update(_ context.Context, patient *model.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.patients[patient.ID]; !ok {
		return repository.ErrNotFound
	}
	patient.UpdatedAt = time.Now()
	r.patients[patient.ID] = *patient
	return nil
}

func (r *PatientRepository) List(_ context.Context, practitionerID uuid.UUID) ([]*model.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.Patient
	for _, p := range r.patients {
		if p.PractitionerID == practitionerID {
			cp := p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type AppointmentRepository struct {
	mu           sync.RWMutex
	appointments map[uuid.UUID]model.Appointment
}

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{appointments: make(map[uuid.UUID]model.Appointment)}
}

func (r *AppointmentRepository) Create(_ context.Context, appointment *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()
	r.appointments[appointment.ID] = *appointment
	return nil
}

func (r *AppointmentRepository) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appointment, ok := r.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := appointment
	return &out, nil
}

func (r *AppointmentRepository) Update(_ context.Context, appointment *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[appointment.ID]; !ok {
		return repository.ErrNotFound
	}
	appointment.UpdatedAt = time.Now()
	r.appointments[appointment.ID] = *appointment
	return nil
}

func (r *AppointmentRepository) List(_ context.Context, practitionerID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.Appointment
	for _, a := range r.appointments {
		if a.PractitionerID != practitionerID {
			continue
		}
		if filters != nil {
			if filters.PatientID != uuid.Nil && a.PatientID != filters.PatientID {
				continue
			}
			if filters.Status != "" && a.Status != filters.Status {
				continue
			}
			if !filters.From.IsZero() && a.StartTime.Before(filters.From) {
				continue
			}
			if !filters.To.IsZero() && a.StartTime.After(filters.To) {
				continue
			}
		}
		cp := a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

type ConsentRepository struct {
	mu        sync.RWMutex
	templates map[uuid.UUID]model.ConsentTemplate
	signed    map[uuid.UUID]model.SignedConsent
	patients  *PatientRepository
}

// NewConsentRepository needs the patient repository to resolve the
// ownership join for ListSigned.
func NewConsentRepository(patients *PatientRepository) *ConsentRepository {
	return &ConsentRepository{
		templates: make(map[uuid.UUID]model.ConsentTemplate),
		signed:    make(map[uuid.UUID]model.SignedConsent),
		patients:  patients,
	}
}

func (r *ConsentRepository) CreateTemplate(_ context.Context, template *model.ConsentTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	template.CreatedAt = time.Now()
	template.UpdatedAt = time.Now()
	r.templates[template.ID] = *template
	return nil
}

func (r *ConsentRepository) GetTemplate(_ context.Context, id uuid.UUID) (*model.ConsentTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	template, ok := r.templates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := template
	return &out, nil
}

func (r *ConsentRepository) UpdateTemplate(_ context.Context, template *model.ConsentTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.templates[template.ID]; !ok {
		return repository.ErrNotFound
	}
	template.UpdatedAt = time.Now()
	r.templates[template.ID] = *template
	return nil
}

func (r *ConsentRepository) ListTemplates(_ context.Context, practitionerID uuid.UUID) ([]*model.ConsentTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.ConsentTemplate
	for _, t := range r.templates {
		if t.PractitionerID == practitionerID {
			cp := t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *ConsentRepository) CreateSigned(_ context.Context, signed *model.SignedConsent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signed[signed.ID] = *signed
	return nil
}

func (r *ConsentRepository) ListSigned(ctx context.Context, practitionerID uuid.UUID) ([]*model.SignedConsent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.SignedConsent
	for _, s := range r.signed {
		patient, err := r.patients.Get(ctx, s.PatientID)
		if err != nil {
			continue
		}
		if patient.PractitionerID == practitionerID {
			cp := s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SignedAt.After(out[j].SignedAt) })
	return out, nil
}

type MessageRepository struct {
	mu       sync.RWMutex
	messages map[uuid.UUID]model.Message
}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{messages: make(map[uuid.UUID]model.Message)}
}

func (r *MessageRepository) Create(_ context.Context, message *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[message.ID] = *message
	return nil
}

func (r *MessageRepository) Get(_ context.Context, id uuid.UUID) (*model.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	message, ok := r.messages[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := message
	return &out, nil
}

func (r *MessageRepository) Update(_ context.Context, message *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.messages[message.ID]; !ok {
		return repository.ErrNotFound
	}
	r.messages[message.ID] = *message
	return nil
}

func (r *MessageRepository) ListFor(_ context.Context, accountID uuid.UUID) ([]*model.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*model.Message
	for _, m := range r.messages {
		if m.VisibleTo(accountID) {
			cp := m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.After(out[j].SentAt) })
	return out, nil
}

type ContactRepository struct {
	mu       sync.RWMutex
	requests []model.ContactRequest
}

func NewContactRepository() *ContactRepository {
	return &ContactRepository{}
}

func (r *ContactRepository) Create(_ context.Context, req *model.ContactRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	req.CreatedAt = time.Now()
	req.UpdatedAt = time.Now()
	r.requests = append(r.requests, *req)
	return nil
}

func (r *ContactRepository) List(_ context.Context, page model.Pagination) ([]*model.ContactRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*model.ContactRequest, 0, len(r.requests))
	for i := len(r.requests) - 1; i >= 0; i-- {
		cp := r.requests[i]
		all = append(all, &cp)
	}

	offset := page.Offset()
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + page.Limit()
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}
