package account

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mindline/practice-api/internal/apperror"
	"github.com/mindline/practice-api/internal/email"
	"github.com/mindline/practice-api/internal/model"
	"github.com/mindline/practice-api/internal/repository"
	"github.com/mindline/practice-api/pkg/security"
)

const (
	inviteCodeLen      = 10
	inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

type Service struct {
	accounts repository.AccountRepository
	patients repository.PatientRepository
	hasher   security.PasswordHasher
	mailer   email.Service
}

func NewService(accounts repository.AccountRepository, patients repository.PatientRepository,
	hasher security.PasswordHasher, mailer email.Service) *Service {
	return &Service{
		accounts: accounts,
		patients: patients,
		hasher:   hasher,
		mailer:   mailer,
	}
}

// Register creates an account. Practitioners receive a generated invite
// code; a client supplying an invite code is linked to that practitioner
// and gets a patient record created under them.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.Account, error) {
	account := &model.Account{
		Base:     model.Base{ID: uuid.New()},
		Kind:     req.Kind,
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Name:     strings.TrimSpace(req.Name),
		Phone:    req.Phone,
		Timezone: req.Timezone,
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.Validation("%v", err)
	}
	account.PasswordHash = hash

	var practitioner *model.Account
	switch req.Kind {
	case model.AccountKindPractitioner:
		code, err := newInviteCode()
		if err != nil {
			return nil, apperror.Internal(err)
		}
		account.InviteCode = &code

	case model.AccountKindClient:
		if req.InviteCode != "" {
			practitioner, err = s.accounts.GetByInviteCode(ctx, req.InviteCode)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, apperror.Validation("invalid invite code")
				}
				return nil, apperror.Internal(err)
			}
			account.LinkedPractitionerID = &practitioner.ID
		}
	}

	// The account insert goes first: registration is unauthenticated, so
	// a rejected account (duplicate email) must not leave a patient row
	// behind on the practitioner's roster.
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("email is already registered")
		}
		return nil, apperror.Internal(err)
	}

	if practitioner != nil {
		patient := &model.Patient{
			Base:           model.Base{ID: uuid.New()},
			PractitionerID: practitioner.ID,
			Name:           account.Name,
			Email:          account.Email,
			Phone:          account.Phone,
		}
		if err := s.patients.Create(ctx, patient); err != nil {
			return nil, apperror.Internal(err)
		}

		account.LinkedPatientID = &patient.ID
		if err := s.accounts.Update(ctx, account); err != nil {
			return nil, apperror.Internal(err)
		}
	}

	if err := s.mailer.SendWelcome(ctx, account.Email, account.Name); err != nil {
		log.Warn().Err(err).Str("email", account.Email).Msg("failed to send welcome email")
	}

	return account, nil
}

// Verify checks credentials without revealing which part failed.
func (s *Service) Verify(ctx context.Context, emailAddr, password string) (*model.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(emailAddr)))
	if err != nil {
		return nil, apperror.Unauthenticated("invalid credentials")
	}

	if err := s.hasher.Compare(account.PasswordHash, password); err != nil {
		return nil, apperror.Unauthenticated("invalid credentials")
	}
	return account, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	account, err := s.accounts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("account")
		}
		return nil, apperror.Internal(err)
	}
	return account, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req *model.UpdateProfileRequest) (*model.Account, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		account.Phone = *req.Phone
	}
	if req.Bio != nil {
		account.Bio = *req.Bio
	}
	if req.Timezone != nil {
		account.Timezone = *req.Timezone
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, apperror.Internal(err)
	}
	return account, nil
}

// RegenerateInviteCode replaces a practitioner's invite code. Codes
// already used keep their links; only future registrations are affected.
func (s *Service) RegenerateInviteCode(ctx context.Context, practitionerID uuid.UUID) (*model.Account, error) {
	account, err := s.Get(ctx, practitionerID)
	if err != nil {
		return nil, err
	}
	if !account.IsPractitioner() {
		return nil, apperror.Forbidden("only practitioners have invite codes")
	}

	code, err := newInviteCode()
	if err != nil {
		return nil, apperror.Internal(err)
	}
	account.InviteCode = &code

	if err := s.accounts.Update(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("invite code collision, retry")
		}
		return nil, apperror.Internal(err)
	}
	return account, nil
}

func newInviteCode() (string, error) {
	buf := make([]byte, inviteCodeLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}
	for i, b := range buf {
		buf[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}
	return string(buf), nil
}
