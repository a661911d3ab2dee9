package app

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/example/maintlog/internal/ports/primary"
)

// SupervisorImpl implements the SupervisorGate interface over a bcrypt hash.
type SupervisorImpl struct {
	hash string
}

// NewSupervisor creates a gate for the stored hash; "" means not configured.
func NewSupervisor(hash string) *SupervisorImpl {
	return &SupervisorImpl{hash: hash}
}

// HashPassword returns the bcrypt hash stored in the config file.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", primary.ErrPasswordRequired
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(h), nil
}

// Configured reports whether a password has been set.
func (s *SupervisorImpl) Configured() bool {
	return s.hash != ""
}

// Authorize checks password against the stored hash.
func (s *SupervisorImpl) Authorize(password string) error {
	if !s.Configured() {
		return primary.ErrSupervisorNotConfigured
	}
	if password == "" {
		return primary.ErrPasswordRequired
	}
	err := bcrypt.CompareHashAndPassword([]byte(s.hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return primary.ErrWrongPassword
	}
	if err != nil {
		return fmt.Errorf("failed to check password: %w", err)
	}
	return nil
}

// Ensure SupervisorImpl implements the interface
var _ primary.SupervisorGate = (*SupervisorImpl)(nil)
