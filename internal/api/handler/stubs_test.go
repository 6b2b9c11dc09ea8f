package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fetchsocial/fetch-api/internal/core/domain"
	"github.com/fetchsocial/fetch-api/internal/core/ports"
)

// stubDirectory implements ports.DirectoryService with overridable funcs.
// Unset funcs fail the test if called.
type stubDirectory struct {
	t *testing.T

	signupFn      func(ports.SignupInput) (*ports.AuthResult, error)
	loginFn       func(email, password string) (*ports.AuthResult, error)
	logoutFn      func(userID string) error
	resendFn      func(email string) error
	currentUserFn func(userID string) (*domain.UserProfile, error)
	updateFn      func(userID string, input ports.UpdateProfileInput) (*domain.UserProfile, error)
	listFn        func() ([]domain.UserProfile, error)
	deleteFn      func(id string) error
	changeRoleFn  func(id string, role domain.Role) (*domain.UserProfile, error)
	toggleBlockFn func(id string) (*domain.UserProfile, error)
}

func (s *stubDirectory) Signup(_ context.Context, input ports.SignupInput) (*ports.AuthResult, error) {
	if s.signupFn == nil {
		s.t.Fatal("unexpected Signup call")
	}
	return s.signupFn(input)
}

func (s *stubDirectory) Login(_ context.Context, email, password string) (*ports.AuthResult, error) {
	if s.loginFn == nil {
		s.t.Fatal("unexpected Login call")
	}
	return s.loginFn(email, password)
}

func (s *stubDirectory) Logout(_ context.Context, userID string) error {
	if s.logoutFn == nil {
		s.t.Fatal("unexpected Logout call")
	}
	return s.logoutFn(userID)
}

func (s *stubDirectory) ResendVerification(_ context.Context, email string) error {
	if s.resendFn == nil {
		s.t.Fatal("unexpected ResendVerification call")
	}
	return s.resendFn(email)
}

func (s *stubDirectory) CurrentUser(_ context.Context, userID string) (*domain.UserProfile, error) {
	if s.currentUserFn == nil {
		s.t.Fatal("unexpected CurrentUser call")
	}
	return s.currentUserFn(userID)
}

func (s *stubDirectory) UpdateProfile(_ context.Context, userID string, input ports.UpdateProfileInput) (*domain.UserProfile, error) {
	if s.updateFn == nil {
		s.t.Fatal("unexpected UpdateProfile call")
	}
	return s.updateFn(userID, input)
}

func (s *stubDirectory) ListUsers(_ context.Context) ([]domain.UserProfile, error) {
	if s.listFn == nil {
		s.t.Fatal("unexpected ListUsers call")
	}
	return s.listFn()
}

func (s *stubDirectory) DeleteUser(_ context.Context, id string) error {
	if s.deleteFn == nil {
		s.t.Fatal("unexpected DeleteUser call")
	}
	return s.deleteFn(id)
}

func (s *stubDirectory) ChangeUserRole(_ context.Context, id string, role domain.Role) (*domain.UserProfile, error) {
	if s.changeRoleFn == nil {
		s.t.Fatal("unexpected ChangeUserRole call")
	}
	return s.changeRoleFn(id, role)
}

func (s *stubDirectory) ToggleBlockUser(_ context.Context, id string) (*domain.UserProfile, error) {
	if s.toggleBlockFn == nil {
		s.t.Fatal("unexpected ToggleBlockUser call")
	}
	return s.toggleBlockFn(id)
}

// newTestContext builds an echo context with the validator installed, the
// way the router configures it.
func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}
