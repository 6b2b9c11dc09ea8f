package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/fetchsocial/fetch-api/internal/core/domain"
	"github.com/fetchsocial/fetch-api/internal/core/ports"
)

type directoryFixture struct {
	store    *stubIdentityStore
	sessions *stubSessionStore
	limiter  *stubLimiter
	queue    *stubVerificationQueue
	svc      ports.DirectoryService
}

func newDirectoryFixture(adminEmails ...string) *directoryFixture {
	f := &directoryFixture{
		store:    newStubIdentityStore(),
		sessions: newStubSessionStore(),
		limiter:  &stubLimiter{},
		queue:    &stubVerificationQueue{},
	}
	f.svc = NewDirectoryService(f.store, f.sessions, f.limiter, f.queue, adminEmails, "secret", time.Hour, zerolog.Nop())
	return f
}

func signupInput(email, name string) ports.SignupInput {
	return ports.SignupInput{
		Email:    email,
		Password: "pw123456",
		Role:     domain.RolePup,
		Name:     name,
	}
}

func TestSignup_Success(t *testing.T) {
	f := newDirectoryFixture()

	result, err := f.svc.Signup(context.Background(), signupInput("a@b.com", "Ann"))
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if result.User.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if result.User.Role != domain.RolePup {
		t.Fatalf("unexpected role: %s", result.User.Role)
	}
	if result.Token == "" {
		t.Fatalf("expected session token")
	}
	if _, err := f.sessions.Get(context.Background(), result.User.ID); err != nil {
		t.Fatalf("expected session to exist: %v", err)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	f := newDirectoryFixture()

	if _, err := f.svc.Signup(context.Background(), signupInput("a@b.com", "Ann")); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	if _, err := f.svc.Signup(context.Background(), signupInput("a@b.com", "Impostor")); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignup_AllowListElevatesRole(t *testing.T) {
	f := newDirectoryFixture("admin@example.com")

	result, err := f.svc.Signup(context.Background(), signupInput("admin@example.com", "Root"))
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if result.User.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", result.User.Role)
	}
	stored, _ := f.store.GetProfile(context.Background(), result.User.ID)
	if stored.Role != domain.RoleAdmin {
		t.Fatalf("expected stored role admin, got %s", stored.Role)
	}
}

func TestSignup_InvalidRole(t *testing.T) {
	f := newDirectoryFixture()

	input := signupInput("a@b.com", "Ann")
	input.Role = domain.Role("wizard")
	if _, err := f.svc.Signup(context.Background(), input); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestSignup_NormalizesInterests(t *testing.T) {
	f := newDirectoryFixture()

	input := signupInput("a@b.com", "Ann")
	input.Interests = []string{"hiking, gaming"}
	result, err := f.svc.Signup(context.Background(), input)
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	want := []string{"hiking", "gaming"}
	if !reflect.DeepEqual(result.User.Interests, want) {
		t.Fatalf("got %v, want %v", result.User.Interests, want)
	}
}

func TestSignup_VerificationRequired(t *testing.T) {
	f := newDirectoryFixture()
	f.store.requireVerification = true

	_, err := f.svc.Signup(context.Background(), signupInput("a@b.com", "Ann"))
	if !errors.Is(err, domain.ErrVerificationRequired) {
		t.Fatalf("expected ErrVerificationRequired, got %v", err)
	}
	if len(f.queue.requests) != 1 || f.queue.requests[0].Email != "a@b.com" {
		t.Fatalf("expected one queued verification, got %+v", f.queue.requests)
	}
	// No session until the account is verified.
	if len(f.sessions.sessions) != 0 {
		t.Fatalf("expected no session, got %d", len(f.sessions.sessions))
	}
}

func TestLogin_Success(t *testing.T) {
	f := newDirectoryFixture()
	_, _ = f.svc.Signup(context.Background(), signupInput("a@b.com", "Ann"))

	result, err := f.svc.Login(context.Background(), "a@b.com", "pw123456")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.User.Name != "Ann" {
		t.Fatalf("unexpected user: %+v", result.User)
	}
	if f.limiter.resetCalls != 1 {
		t.Fatalf("expected limiter reset, got %d calls", f.limiter.resetCalls)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(result.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	session, err := f.sessions.Get(context.Background(), result.User.ID)
	if err != nil {
		t.Fatalf("expected session: %v", err)
	}
	if claims["jti"] != session.TokenID {
		t.Fatalf("token jti %v does not match session %s", claims["jti"], session.TokenID)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newDirectoryFixture()
	_, _ = f.svc.Signup(context.Background(), signupInput("a@b.com", "Ann"))

	if _, err := f.svc.Login(context.Background(), "a@b.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := f.svc.Login(context.Background(), "ghost@b.com", "pw123456"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_Throttled(t *testing.T) {
	f := newDirectoryFixture()
	_, _ = f.svc.Signup(context.Background(), signupInput("a@b.com", "Ann"))
	f.limiter.tripped = true

	if _, err := f.svc.Login(context.Background(), "a@b.com", "pw123456"); !errors.Is(err, domain.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestLogin_AllowListUpgradePersisted(t *testing.T) {
	// Account registered before the email joined the allow-list.
	f := newDirectoryFixture()
	result, _ := f.svc.Signup(context.Background(), signupInput("late@example.com", "Late"))

	svc := NewDirectoryService(f.store, f.sessions, f.limiter, f.queue, []string{"late@example.com"}, "secret", time.Hour, zerolog.Nop())

	loggedIn, err := svc.Login(context.Background(), "late@example.com", "pw123456")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if loggedIn.User.Role != domain.RoleAdmin {
		t.Fatalf("expected admin after login, got %s", loggedIn.User.Role)
	}
	stored, _ := f.store.GetProfile(context.Background(), result.User.ID)
	if stored.Role != domain.RoleAdmin {
		t.Fatalf("expected upgrade persisted, got %s", stored.Role)
	}
}

func TestLogout_ClearsSession(t *testing.T) {
	f := newDirectoryFixture()
	result, _ := f.svc.Signup(context.Background(), signupInput("a@b.com", "Ann"))

	if err := f.svc.Logout(context.Background(), result.User.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := f.sessions.Get(context.Background(), result.User.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session gone, got %v", err)
	}
}

func TestUpdateProfile_PartialMerge(t *testing.T) {
	f := newDirectoryFixture()
	input := signupInput("a@b.com", "Ann")
	input.Bio = "original bio"
	result, _ := f.svc.Signup(context.Background(), input)

	name := "X"
	updated, err := f.svc.UpdateProfile(context.Background(), result.User.ID, ports.UpdateProfileInput{Name: &name})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "X" {
		t.Fatalf("expected name X, got %s", updated.Name)
	}
	if updated.Bio != "original bio" || updated.Email != "a@b.com" || updated.Role != domain.RolePup {
		t.Fatalf("unexpected field change: %+v", updated)
	}

	stored, _ := f.store.GetProfile(context.Background(), result.User.ID)
	if stored.Name != "X" || stored.Bio != "original bio" {
		t.Fatalf("directory entry not updated in place: %+v", stored)
	}
}

func TestListUsers_InsertionOrder(t *testing.T) {
	f := newDirectoryFixture()
	first, _ := f.svc.Signup(context.Background(), signupInput("a@b.com", "Ann"))
	second, _ := f.svc.Signup(context.Background(), signupInput("b@c.com", "Bob"))

	users, err := f.svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].ID != first.User.ID || users[1].ID != second.User.ID {
		t.Fatalf("unexpected order: %s, %s", users[0].ID, users[1].ID)
	}
}

func TestListUsers_AllowListElevationIsDisplayOnly(t *testing.T) {
	f := newDirectoryFixture()
	result, _ := f.svc.Signup(context.Background(), signupInput("late@example.com", "Late"))

	svc := NewDirectoryService(f.store, f.sessions, f.limiter, f.queue, []string{"late@example.com"}, "secret", time.Hour, zerolog.Nop())
	users, err := svc.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if users[0].Role != domain.RoleAdmin {
		t.Fatalf("expected listing to show admin, got %s", users[0].Role)
	}

	// The stored role stays put until that user logs in or is rehydrated.
	stored, _ := f.store.GetProfile(context.Background(), result.User.ID)
	if stored.Role != domain.RolePup {
		t.Fatalf("expected stored role untouched by listing, got %s", stored.Role)
	}
}

func TestDeleteUser_ClearsOwnSession(t *testing.T) {
	f := newDirectoryFixture()
	result, _ := f.svc.Signup(context.Background(), signupInput("a@b.com", "Ann"))

	if err := f.svc.DeleteUser(context.Background(), result.User.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := f.store.GetProfile(context.Background(), result.User.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected profile gone, got %v", err)
	}
	if _, err := f.sessions.Get(context.Background(), result.User.ID); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected session gone, got %v", err)
	}
}

func TestChangeUserRole_MirrorsSession(t *testing.T) {
	f := newDirectoryFixture()
	result, _ := f.svc.Signup(context.Background(), signupInput("a@b.com", "Ann"))

	updated, err := f.svc.ChangeUserRole(context.Background(), result.User.ID, domain.RoleHandler)
	if err != nil {
		t.Fatalf("change role failed: %v", err)
	}
	if updated.Role != domain.RoleHandler {
		t.Fatalf("expected handler, got %s", updated.Role)
	}
	session, err := f.sessions.Get(context.Background(), result.User.ID)
	if err != nil {
		t.Fatalf("expected session: %v", err)
	}
	if session.Role != domain.RoleHandler {
		t.Fatalf("expected session role mirrored, got %s", session.Role)
	}
}

func TestToggleBlockUser_DoubleToggleRestores(t *testing.T) {
	f := newDirectoryFixture()
	result, _ := f.svc.Signup(context.Background(), signupInput("a@b.com", "Ann"))

	blocked, err := f.svc.ToggleBlockUser(context.Background(), result.User.ID)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !blocked.Blocked {
		t.Fatalf("expected blocked after first toggle")
	}

	unblocked, err := f.svc.ToggleBlockUser(context.Background(), result.User.ID)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if unblocked.Blocked {
		t.Fatalf("expected unblocked after second toggle")
	}
}

func TestResendVerification_AlreadyVerified(t *testing.T) {
	f := newDirectoryFixture()
	_, _ = f.svc.Signup(context.Background(), signupInput("a@b.com", "Ann"))

	if err := f.svc.ResendVerification(context.Background(), "a@b.com"); err != nil {
		t.Fatalf("resend failed: %v", err)
	}
	if len(f.queue.requests) != 0 {
		t.Fatalf("expected no queued verification for verified account")
	}
}

func TestResendVerification_Unverified(t *testing.T) {
	f := newDirectoryFixture()
	f.store.requireVerification = true
	_, _ = f.svc.Signup(context.Background(), signupInput("a@b.com", "Ann"))

	if err := f.svc.ResendVerification(context.Background(), "a@b.com"); err != nil {
		t.Fatalf("resend failed: %v", err)
	}
	// One from signup, one from the resend.
	if len(f.queue.requests) != 2 {
		t.Fatalf("expected 2 queued verifications, got %d", len(f.queue.requests))
	}
}

func TestCurrentUser_AppliesAllowList(t *testing.T) {
	f := newDirectoryFixture()
	result, _ := f.svc.Signup(context.Background(), signupInput("late@example.com", "Late"))

	svc := NewDirectoryService(f.store, f.sessions, f.limiter, f.queue, []string{"late@example.com"}, "secret", time.Hour, zerolog.Nop())
	user, err := svc.CurrentUser(context.Background(), result.User.ID)
	if err != nil {
		t.Fatalf("current user failed: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("expected rehydrated profile normalized to admin, got %s", user.Role)
	}
}
