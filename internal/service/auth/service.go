package auth

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mindline/practice-api/internal/apperror"
	"github.com/mindline/practice-api/internal/model"
	"github.com/mindline/practice-api/internal/repository"
	"github.com/mindline/practice-api/internal/session"
)

const (
	// SlidingTTL is how long a session survives without activity.
	SlidingTTL = 7 * 24 * time.Hour
	// MaxLifetime caps the sliding renewal: no session outlives this,
	// no matter how active.
	MaxLifetime = 30 * 24 * time.Hour
)

// Verifier checks credentials; satisfied by the account service.
type Verifier interface {
	Verify(ctx context.Context, email, password string) (*model.Account, error)
}

// Service is the session manager. It owns the store handle; there is no
// package-level session state, so tests can inject a memory store.
type Service struct {
	accounts repository.AccountRepository
	verifier Verifier
	store    session.Store
}

func NewService(accounts repository.AccountRepository, verifier Verifier, store session.Store) *Service {
	return &Service{
		accounts: accounts,
		verifier: verifier,
		store:    store,
	}
}

// Login verifies credentials and issues a new session.
func (s *Service) Login(ctx context.Context, email, password string) (*session.Session, *model.Account, error) {
	account, err := s.verifier.Verify(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}

	token, err := session.NewToken()
	if err != nil {
		return nil, nil, apperror.Internal(err)
	}

	now := time.Now()
	sess := &session.Session{
		Token:     token,
		AccountID: account.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(SlidingTTL),
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, nil, apperror.Internal(err)
	}

	account.LastLoginAt = &now
	if err := s.accounts.Update(ctx, account); err != nil {
		log.Warn().Err(err).Str("account_id", account.ID.String()).Msg("failed to record login time")
	}

	return sess, account, nil
}

// CurrentAccount resolves the account behind a session token and slides
// the expiry forward. A session whose account no longer exists is
// removed from the store before failing.
func (s *Service) CurrentAccount(ctx context.Context, token string) (*model.Account, error) {
	if token == "" {
		return nil, apperror.Unauthenticated("not logged in")
	}

	sess, err := s.store.Get(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, apperror.Unauthenticated("session expired")
		}
		return nil, apperror.Internal(err)
	}

	account, err := s.accounts.Get(ctx, sess.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if delErr := s.store.Delete(ctx, token); delErr != nil {
				log.Warn().Err(delErr).Msg("failed to purge session for deleted account")
			}
			return nil, apperror.Unauthenticated("account no longer exists")
		}
		return nil, apperror.Internal(err)
	}

	s.slide(ctx, sess)
	return account, nil
}

// Logout invalidates the store entry so the token cannot be replayed.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.store.Delete(ctx, token); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (s *Service) slide(ctx context.Context, sess *session.Session) {
	ceiling := sess.CreatedAt.Add(MaxLifetime)
	next := time.Now().Add(SlidingTTL)
	if next.After(ceiling) {
		next = ceiling
	}
	if !next.After(sess.ExpiresAt) {
		return
	}

	sess.ExpiresAt = next
	if err := s.store.Save(ctx, sess); err != nil {
		log.Warn().Err(err).Msg("failed to extend session expiry")
	}
}
