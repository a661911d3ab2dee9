package primary

import "errors"

// Supervisor gate outcomes.
var (
	ErrSupervisorNotConfigured = errors.New("supervisor password is not set (run: maintlog init --supervisor-password)")
	ErrPasswordRequired        = errors.New("supervisor password required (use --password or MAINTLOG_PASSWORD)")
	ErrWrongPassword           = errors.New("wrong supervisor password")
)

// SupervisorGate defines the primary port for the shared supervisor password
// that guards destructive operations.
type SupervisorGate interface {
	// Configured reports whether a password has been set.
	Configured() bool

	// Authorize checks password against the stored hash.
	Authorize(password string) error
}
