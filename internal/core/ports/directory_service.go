package ports

import (
	"context"

	"github.com/fetchsocial/fetch-api/internal/core/domain"
)

// SignupInput carries everything needed to register a new profile.
type SignupInput struct {
	Email     string
	Password  string
	Role      domain.Role
	Name      string
	Bio       string
	Interests []string
	Avatar    string
}

// UpdateProfileInput is a partial profile edit. Nil pointers leave the
// corresponding field untouched; a nil Interests slice is likewise ignored.
// Role and blocked status are deliberately absent: those mutate only through
// the administrative operations.
type UpdateProfileInput struct {
	Name      *string
	Bio       *string
	Interests []string
	Avatar    *string
}

// AuthResult is returned by Signup and Login.
type AuthResult struct {
	User  *domain.UserProfile
	Token string
}

// DirectoryService is the session and directory store: the single owner of
// the user directory and the authenticated sessions over it.
type DirectoryService interface {
	Signup(ctx context.Context, input SignupInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, userID string) error
	ResendVerification(ctx context.Context, email string) error

	CurrentUser(ctx context.Context, userID string) (*domain.UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.UserProfile, error)
	ListUsers(ctx context.Context) ([]domain.UserProfile, error)

	DeleteUser(ctx context.Context, id string) error
	ChangeUserRole(ctx context.Context, id string, role domain.Role) (*domain.UserProfile, error)
	ToggleBlockUser(ctx context.Context, id string) (*domain.UserProfile, error)
}
