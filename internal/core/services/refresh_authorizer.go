package services

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/SscSPs/multicurrency_tracker/internal/apperrors"
	"golang.org/x/crypto/bcrypt"
)

// RefreshAuthorizer decides whether a caller may run the rate refresh job.
type RefreshAuthorizer interface {
	Authorize(presentedSecret string) error
}

// SecretAuthorizer checks the shared scheduler secret, either against a bcrypt hash
// or, when no hash is configured, against the plain secret in constant time.
type SecretAuthorizer struct {
	plain []byte
	hash  []byte
}

// NewSecretAuthorizer builds a SecretAuthorizer. The hash wins when both are set.
func NewSecretAuthorizer(plainSecret, bcryptHash string) *SecretAuthorizer {
	a := &SecretAuthorizer{}
	if bcryptHash != "" {
		a.hash = []byte(bcryptHash)
	} else if plainSecret != "" {
		a.plain = []byte(plainSecret)
	}
	return a
}

// Authorize returns an error matching apperrors.ErrUnauthorizedRefresh unless the secret matches.
// With nothing configured every call is rejected.
func (a *SecretAuthorizer) Authorize(presentedSecret string) error {
	if presentedSecret == "" {
		return fmt.Errorf("%w: missing scheduler secret", apperrors.ErrUnauthorizedRefresh)
	}
	switch {
	case a.hash != nil:
		err := bcrypt.CompareHashAndPassword(a.hash, []byte(presentedSecret))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return fmt.Errorf("%w: scheduler secret mismatch", apperrors.ErrUnauthorizedRefresh)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrUnauthorizedRefresh, err)
		}
		return nil
	case a.plain != nil:
		if subtle.ConstantTimeCompare(a.plain, []byte(presentedSecret)) != 1 {
			return fmt.Errorf("%w: scheduler secret mismatch", apperrors.ErrUnauthorizedRefresh)
		}
		return nil
	default:
		return fmt.Errorf("%w: no scheduler secret configured", apperrors.ErrUnauthorizedRefresh)
	}
}
