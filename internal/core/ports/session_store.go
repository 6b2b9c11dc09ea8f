package ports

import (
	"context"

	"github.com/fetchsocial/fetch-api/internal/core/domain"
)

// SessionStore holds at most one active session per user. Creating a new
// session replaces the previous one.
type SessionStore interface {
	Save(ctx context.Context, session *domain.Session) error
	// Get returns domain.ErrSessionNotFound when the user has no session.
	Get(ctx context.Context, userID string) (*domain.Session, error)
	Delete(ctx context.Context, userID string) error
}

// LoginLimiter throttles credential guessing and verification resends.
type LoginLimiter interface {
	// AllowLogin returns domain.ErrTooManyAttempts once the fixed window for
	// the email is exhausted.
	AllowLogin(ctx context.Context, email string) error
	// ResetLogin clears the attempt counter after a successful login.
	ResetLogin(ctx context.Context, email string) error
	// AllowResend enforces the cooldown between verification emails.
	AllowResend(ctx context.Context, email string) error
}
