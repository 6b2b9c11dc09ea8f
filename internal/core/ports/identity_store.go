package ports

import (
	"context"

	"github.com/fetchsocial/fetch-api/internal/core/domain"
)

// IdentityStore is the durable backend holding accounts and profiles. Two
// implementations exist: a local bbolt file store, and the Casdoor identity
// service paired with a Mongo profile collection. Business logic never
// branches on which one is active.
type IdentityStore interface {
	// CreateAccount registers a new profile with the given plaintext
	// password. Returns domain.ErrEmailTaken when the email is already in
	// use. The returned profile carries the assigned id; EmailVerified is
	// false when the backend requires an out-of-band verification step.
	CreateAccount(ctx context.Context, user *domain.UserProfile, password string) (*domain.UserProfile, error)

	// Authenticate checks an email/password pair. Returns
	// domain.ErrInvalidCredentials on any mismatch and
	// domain.ErrVerificationRequired when the account exists but its email
	// has not been confirmed.
	Authenticate(ctx context.Context, email, password string) (*domain.UserProfile, error)

	// SaveProfile persists every mutable profile field of an existing user.
	SaveProfile(ctx context.Context, user *domain.UserProfile) error

	GetProfile(ctx context.Context, id string) (*domain.UserProfile, error)
	GetProfileByEmail(ctx context.Context, email string) (*domain.UserProfile, error)

	// ListProfiles returns the full directory in insertion order.
	ListProfiles(ctx context.Context) ([]domain.UserProfile, error)

	DeleteProfile(ctx context.Context, id string) error

	// SendVerification triggers the backend's verification email. The local
	// store accepts every account immediately and treats this as a no-op.
	SendVerification(ctx context.Context, email string) error
}
