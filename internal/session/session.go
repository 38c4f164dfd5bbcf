package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Session binds an opaque token to an account for its lifetime.
type Session struct {
	Token     string    `json:"token"`
	AccountID uuid.UUID `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store is the durable backend for sessions. Implementations must treat
// expired entries as absent.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}

// NewToken returns an unguessable session token: a UUID plus 16 random
// bytes, hex encoded.
func NewToken() (string, error) {
	suffix := make([]byte, 16)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return uuid.New().String() + hex.EncodeToString(suffix), nil
}
