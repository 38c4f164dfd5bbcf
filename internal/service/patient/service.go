package patient

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/mindline/practice-api/internal/apperror"
	"github.com/mindline/practice-api/internal/model"
	"github.com/mindline/practice-api/internal/repository"
	"github.com/mindline/practice-api/pkg/cache"
)

type Service struct {
	repo  repository.PatientRepository
	cache *cache.Cache
}

func NewService(repo repository.PatientRepository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

func (s *Service) Create(ctx context.Context, practitionerID uuid.UUID, req *model.CreatePatientRequest) (*model.Patient, error) {
	name := strings.TrimSpace(req.Name)
	if len(name) < 3 {
		return nil, apperror.Validation("patient name must be at least 3 characters")
	}

	patient := &model.Patient{
		Base:           model.Base{ID: uuid.New()},
		PractitionerID: practitionerID,
		Name:           name,
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          req.Phone,
		Notes:          req.Notes,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, apperror.Internal(err)
	}

	s.cache.Invalidate(listKey(practitionerID))
	return patient, nil
}

// Get enforces ownership: a mismatched practitioner gets Forbidden, not
// NotFound, and never sees whether the id exists for someone else.
func (s *Service) Get(ctx context.Context, id, practitionerID uuid.UUID) (*model.Patient, error) {
	if v, ok := s.cache.Get(getKey(id)); ok {
		patient := v.(*model.Patient)
		if patient.PractitionerID != practitionerID {
			return nil, apperror.Forbidden("patient belongs to another practitioner")
		}
		return patient, nil
	}

	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("patient")
		}
		return nil, apperror.Internal(err)
	}

	if patient.PractitionerID != practitionerID {
		return nil, apperror.Forbidden("patient belongs to another practitioner")
	}

	s.cache.Set(getKey(id), patient)
	return patient, nil
}

func (s *Service) Update(ctx context.Context, id, practitionerID uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.Get(ctx, id, practitionerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if len(name) < 3 {
			return nil, apperror.Validation("patient name must be at least 3 characters")
		}
		patient.Name = name
	}
	if req.Email != nil {
		patient.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.Notes != nil {
		patient.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, apperror.Internal(err)
	}

	s.cache.Invalidate(getKey(id), listKey(practitionerID))
	return patient, nil
}

func (s *Service) List(ctx context.Context, practitionerID uuid.UUID) ([]*model.Patient, error) {
	if v, ok := s.cache.Get(listKey(practitionerID)); ok {
		return v.([]*model.Patient), nil
	}

	patients, err := s.repo.List(ctx, practitionerID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	s.cache.Set(listKey(practitionerID), patients)
	return patients, nil
}

func getKey(id uuid.UUID) string {
	return "patient:" + id.String()
}

func listKey(practitionerID uuid.UUID) string {
	return "patients:" + practitionerID.String()
}
