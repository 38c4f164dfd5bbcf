package contact

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/mindline/practice-api/internal/apperror"
	"github.com/mindline/practice-api/internal/model"
	"github.com/mindline/practice-api/internal/repository"
)

type Service struct {
	repo repository.ContactRepository
}

func NewService(repo repository.ContactRepository) *Service {
	return &Service{repo: repo}
}

// Submit stores a lead from the public contact form.
func (s *Service) Submit(ctx context.Context, req *model.CreateContactRequest) (*model.ContactRequest, error) {
	request := &model.ContactRequest{
		Base:    model.Base{ID: uuid.New()},
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Message: req.Message,
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return nil, apperror.Internal(err)
	}
	return request, nil
}

func (s *Service) List(ctx context.Context, page model.Pagination) ([]*model.ContactRequest, error) {
	requests, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return requests, nil
}
