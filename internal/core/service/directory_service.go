package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/fetchsocial/fetch-api/internal/api/metrics"
	"github.com/fetchsocial/fetch-api/internal/core/domain"
	"github.com/fetchsocial/fetch-api/internal/core/ports"
)

type directoryService struct {
	store         ports.IdentityStore
	sessions      ports.SessionStore
	limiter       ports.LoginLimiter
	verifications ports.VerificationQueue
	adminEmails   map[string]struct{}
	jwtSecret     string
	sessionTTL    time.Duration
	log           zerolog.Logger
}

// NewDirectoryService builds the session and directory store. adminEmails is
// the allow-list of addresses that are always elevated to the admin role,
// checked at signup, at login, and when rehydrating profiles from storage.
func NewDirectoryService(
	store ports.IdentityStore,
	sessions ports.SessionStore,
	limiter ports.LoginLimiter,
	verifications ports.VerificationQueue,
	adminEmails []string,
	jwtSecret string,
	sessionTTL time.Duration,
	log zerolog.Logger,
) ports.DirectoryService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	allow := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		allow[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return &directoryService{
		store:         store,
		sessions:      sessions,
		limiter:       limiter,
		verifications: verifications,
		adminEmails:   allow,
		jwtSecret:     jwtSecret,
		sessionTTL:    sessionTTL,
		log:           log,
	}
}

func (s *directoryService) Signup(ctx context.Context, input ports.SignupInput) (*ports.AuthResult, error) {
	if input.Email == "" || input.Password == "" || input.Name == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !input.Role.Valid() {
		return nil, domain.ErrInvalidRole
	}

	role := input.Role
	if s.isAdminEmail(input.Email) {
		role = domain.RoleAdmin
	}

	now := time.Now().UTC()
	user := &domain.UserProfile{
		Email:     input.Email,
		Role:      role,
		Name:      input.Name,
		Bio:       input.Bio,
		Interests: domain.NormalizeInterests(input.Interests),
		Avatar:    input.Avatar,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.store.CreateAccount(ctx, user, input.Password)
	if err != nil {
		return nil, err
	}

	metrics.SignupsTotal.WithLabelValues(string(created.Role)).Inc()
	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")

	if !created.EmailVerified {
		s.verifications.Enqueue(ports.VerificationRequest{Email: created.Email})
		return nil, domain.ErrVerificationRequired
	}

	return s.startSession(ctx, created)
}

func (s *directoryService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.limiter.AllowLogin(ctx, email); err != nil {
		if errors.Is(err, domain.ErrTooManyAttempts) {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return nil, err
		}
		s.log.Warn().Err(err).Msg("login limiter unavailable, continuing")
	}

	user, err := s.store.Authenticate(ctx, email, password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	// Allow-listed emails are silently upgraded on login so accounts that
	// predate the allow-list become admins without manual edits.
	if s.isAdminEmail(user.Email) && user.Role != domain.RoleAdmin {
		user.Role = domain.RoleAdmin
		user.UpdatedAt = time.Now().UTC()
		if err := s.store.SaveProfile(ctx, user); err != nil {
			return nil, err
		}
		s.log.Info().Str("user_id", user.ID).Msg("role elevated to admin on login")
	}

	if err := s.limiter.ResetLogin(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to reset login counter")
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return s.startSession(ctx, user)
}

func (s *directoryService) Logout(ctx context.Context, userID string) error {
	return s.sessions.Delete(ctx, userID)
}

func (s *directoryService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.store.GetProfileByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return nil
	}
	if err := s.limiter.AllowResend(ctx, email); err != nil {
		return err
	}
	s.verifications.Enqueue(ports.VerificationRequest{Email: email})
	return nil
}

func (s *directoryService) CurrentUser(ctx context.Context, userID string) (*domain.UserProfile, error) {
	user, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.normalize(ctx, user), nil
}

func (s *directoryService) UpdateProfile(ctx context.Context, userID string, input ports.UpdateProfileInput) (*domain.UserProfile, error) {
	user, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Avatar != nil {
		user.Avatar = *input.Avatar
	}
	if input.Interests != nil {
		user.Interests = domain.NormalizeInterests(input.Interests)
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.store.SaveProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *directoryService) ListUsers(ctx context.Context) ([]domain.UserProfile, error) {
	users, err := s.store.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	// Elevation here is display-only: a listing must not fan out one write
	// per allow-listed profile. The stored role is upgraded when the affected
	// user next logs in or is rehydrated.
	for i := range users {
		if s.isAdminEmail(users[i].Email) {
			users[i].Role = domain.RoleAdmin
		}
	}
	return users, nil
}

func (s *directoryService) DeleteUser(ctx context.Context, id string) error {
	if err := s.store.DeleteProfile(ctx, id); err != nil {
		return err
	}
	// The deleted user's session, if any, dies with the profile.
	if err := s.sessions.Delete(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("failed to revoke session of deleted user")
	}
	metrics.AdminActionsTotal.WithLabelValues("delete_user").Inc()
	s.log.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func (s *directoryService) ChangeUserRole(ctx context.Context, id string, role domain.Role) (*domain.UserProfile, error) {
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	user, err := s.store.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Role = role
	user.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveProfile(ctx, user); err != nil {
		return nil, err
	}
	s.mirrorSessionRole(ctx, id, role)
	metrics.AdminActionsTotal.WithLabelValues("change_role").Inc()
	return user, nil
}

func (s *directoryService) ToggleBlockUser(ctx context.Context, id string) (*domain.UserProfile, error) {
	user, err := s.store.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Blocked = !user.Blocked
	user.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveProfile(ctx, user); err != nil {
		return nil, err
	}
	metrics.AdminActionsTotal.WithLabelValues("toggle_block").Inc()
	return user, nil
}

// startSession stores the single active session for the user and issues the
// matching JWT. A fresh jti revokes any previously issued token.
func (s *directoryService) startSession(ctx context.Context, user *domain.UserProfile) (*ports.AuthResult, error) {
	now := time.Now().UTC()
	session := &domain.Session{
		TokenID:   uuid.NewString(),
		UserID:    user.ID,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"jti":  session.TokenID,
		"role": string(user.Role),
		"exp":  session.ExpiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{User: user, Token: token}, nil
}

// normalize re-applies the admin allow-list to a profile rehydrated from
// storage, persisting the upgrade when one is needed.
func (s *directoryService) normalize(ctx context.Context, user *domain.UserProfile) *domain.UserProfile {
	if !s.isAdminEmail(user.Email) || user.Role == domain.RoleAdmin {
		return user
	}
	user.Role = domain.RoleAdmin
	user.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveProfile(ctx, user); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to persist admin normalization")
	}
	return user
}

func (s *directoryService) mirrorSessionRole(ctx context.Context, userID string, role domain.Role) {
	session, err := s.sessions.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to read session for role mirror")
		}
		return
	}
	session.Role = role
	if err := s.sessions.Save(ctx, session); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to mirror role into session")
	}
}

func (s *directoryService) isAdminEmail(email string) bool {
	_, ok := s.adminEmails[strings.ToLower(strings.TrimSpace(email))]
	return ok
}
