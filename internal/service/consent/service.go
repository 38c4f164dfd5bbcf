package consent

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mindline/practice-api/internal/apperror"
	"github.com/mindline/practice-api/internal/model"
	"github.com/mindline/practice-api/internal/repository"
)

type Service struct {
	repo     repository.ConsentRepository
	patients repository.PatientRepository
}

func NewService(repo repository.ConsentRepository, patients repository.PatientRepository) *Service {
	return &Service{repo: repo, patients: patients}
}

func (s *Service) CreateTemplate(ctx context.Context, practitionerID uuid.UUID, req *model.CreateConsentTemplateRequest) (*model.ConsentTemplate, error) {
	title := strings.TrimSpace(req.Title)
	if len(title) < 3 {
		return nil, apperror.Validation("title must be at least 3 characters")
	}
	if len(strings.TrimSpace(req.Content)) < 50 {
		return nil, apperror.Validation("content must be at least 50 characters")
	}

	template := &model.ConsentTemplate{
		Base:           model.Base{ID: uuid.New()},
		PractitionerID: practitionerID,
		Title:          title,
		Content:        req.Content,
		Version:        1,
	}

	if err := s.repo.CreateTemplate(ctx, template); err != nil {
		return nil, apperror.Internal(err)
	}
	return template, nil
}

func (s *Service) GetTemplate(ctx context.Context, id, practitionerID uuid.UUID) (*model.ConsentTemplate, error) {
	template, err := s.repo.GetTemplate(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("consent template")
		}
		return nil, apperror.Internal(err)
	}

	if template.PractitionerID != practitionerID {
		return nil, apperror.Forbidden("consent template belongs to another practitioner")
	}
	return template, nil
}

// UpdateTemplate bumps the version. Existing signed records keep the
// version they captured at signing time.
func (s *Service) UpdateTemplate(ctx context.Context, id, practitionerID uuid.UUID, req *model.UpdateConsentTemplateRequest) (*model.ConsentTemplate, error) {
	template, err := s.GetTemplate(ctx, id, practitionerID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if len(title) < 3 {
			return nil, apperror.Validation("title must be at least 3 characters")
		}
		template.Title = title
	}
	if req.Content != nil {
		if len(strings.TrimSpace(*req.Content)) < 50 {
			return nil, apperror.Validation("content must be at least 50 characters")
		}
		template.Content = *req.Content
	}
	template.Version++

	if err := s.repo.UpdateTemplate(ctx, template); err != nil {
		return nil, apperror.Internal(err)
	}
	return template, nil
}

func (s *Service) ListTemplates(ctx context.Context, practitionerID uuid.UUID) ([]*model.ConsentTemplate, error) {
	templates, err := s.repo.ListTemplates(ctx, practitionerID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return templates, nil
}

// Sign records a signature against the template's current version. The
// patient and template must resolve to the same practitioner.
func (s *Service) Sign(ctx context.Context, templateID uuid.UUID, req *model.SignConsentRequest) (*model.SignedConsent, error) {
	if strings.TrimSpace(req.Signature) == "" {
		return nil, apperror.Validation("signature is required")
	}

	template, err := s.repo.GetTemplate(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("consent template")
		}
		return nil, apperror.Internal(err)
	}

	patient, err := s.patients.Get(ctx, req.PatientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("patient")
		}
		return nil, apperror.Internal(err)
	}

	if patient.PractitionerID != template.PractitionerID {
		return nil, apperror.Forbidden("patient and consent template belong to different practitioners")
	}

	signed := &model.SignedConsent{
		ID:              uuid.New(),
		PatientID:       patient.ID,
		TemplateID:      template.ID,
		TemplateVersion: template.Version,
		Signature:       req.Signature,
		SignedAt:        time.Now(),
	}

	if err := s.repo.CreateSigned(ctx, signed); err != nil {
		return nil, apperror.Internal(err)
	}
	return signed, nil
}

func (s *Service) ListSigned(ctx context.Context, practitionerID uuid.UUID) ([]*model.SignedConsent, error) {
	signed, err := s.repo.ListSigned(ctx, practitionerID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return signed, nil
}
