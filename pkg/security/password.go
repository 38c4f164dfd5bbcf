package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	ErrHashingFailed    = errors.New("password hashing failed")
	ErrMalformedHash    = errors.New("malformed password hash")
	ErrPasswordMismatch = errors.New("password does not match")
	MinPasswordLen      = 8
)

// argon2id parameters; compare assumes hashes were created with these.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

// PasswordHasher provides interface for password operations
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(encoded, password string) error
}

type argonHasher struct{}

// NewArgonHasher creates a password hasher using argon2id. The encoded
// form is "<base64 hash>.<base64 salt>" stored in a single column.
func NewArgonHasher() PasswordHasher {
	return &argonHasher{}
}

func (a *argonHasher) Hash(password string) (string, error) {
	if len(password) < MinPasswordLen {
		return "", fmt.Errorf("password must be at least %d characters", MinPasswordLen)
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", ErrHashingFailed
	}

	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return base64.RawStdEncoding.EncodeToString(key) + "." + base64.RawStdEncoding.EncodeToString(salt), nil
}

func (a *argonHasher) Compare(encoded, password string) error {
	parts := strings.SplitN(encoded, ".", 2)
	if len(parts) != 2 {
		return ErrMalformedHash
	}

	stored, err := base64.RawStdEncoding.DecodeString(parts[0])
	if err != nil {
		return ErrMalformedHash
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return ErrMalformedHash
	}

	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	if subtle.ConstantTimeCompare(stored, key) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}
