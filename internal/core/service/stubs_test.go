package service

import (
	"context"
	"fmt"

	"github.com/fetchsocial/fetch-api/internal/core/domain"
	"github.com/fetchsocial/fetch-api/internal/core/ports"
)

// stubIdentityStore is an in-memory IdentityStore keeping insertion order.
// With requireVerification set it behaves like the remote backend: new
// accounts start unverified and cannot log in until verified is flipped.
type stubIdentityStore struct {
	users               []*domain.UserProfile
	passwords           map[string]string
	requireVerification bool
	nextID              int
	saveErr             error
}

func newStubIdentityStore() *stubIdentityStore {
	return &stubIdentityStore{passwords: make(map[string]string)}
}

func cloneUser(u *domain.UserProfile) *domain.UserProfile {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Interests = append([]string(nil), u.Interests...)
	return &clone
}

func (s *stubIdentityStore) CreateAccount(_ context.Context, user *domain.UserProfile, password string) (*domain.UserProfile, error) {
	for _, u := range s.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	s.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("u%d", s.nextID)
	created.EmailVerified = !s.requireVerification
	s.users = append(s.users, created)
	s.passwords[created.ID] = password
	return cloneUser(created), nil
}

func (s *stubIdentityStore) Authenticate(_ context.Context, email, password string) (*domain.UserProfile, error) {
	for _, u := range s.users {
		if u.Email == email && s.passwords[u.ID] == password {
			if s.requireVerification && !u.EmailVerified {
				return nil, domain.ErrVerificationRequired
			}
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrInvalidCredentials
}

func (s *stubIdentityStore) SaveProfile(_ context.Context, user *domain.UserProfile) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	for i, u := range s.users {
		if u.ID == user.ID {
			s.users[i] = cloneUser(user)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (s *stubIdentityStore) GetProfile(_ context.Context, id string) (*domain.UserProfile, error) {
	for _, u := range s.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubIdentityStore) GetProfileByEmail(_ context.Context, email string) (*domain.UserProfile, error) {
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubIdentityStore) ListProfiles(_ context.Context) ([]domain.UserProfile, error) {
	out := make([]domain.UserProfile, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, *cloneUser(u))
	}
	return out, nil
}

func (s *stubIdentityStore) DeleteProfile(_ context.Context, id string) error {
	for i, u := range s.users {
		if u.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			delete(s.passwords, id)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (s *stubIdentityStore) SendVerification(_ context.Context, _ string) error {
	return nil
}

// stubSessionStore is an in-memory single-session-per-user store.
type stubSessionStore struct {
	sessions map[string]*domain.Session
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *stubSessionStore) Save(_ context.Context, session *domain.Session) error {
	copied := *session
	s.sessions[session.UserID] = &copied
	return nil
}

func (s *stubSessionStore) Get(_ context.Context, userID string) (*domain.Session, error) {
	session, ok := s.sessions[userID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *stubSessionStore) Delete(_ context.Context, userID string) error {
	delete(s.sessions, userID)
	return nil
}

// stubLimiter rejects logins once tripped.
type stubLimiter struct {
	tripped    bool
	resetCalls int
}

func (l *stubLimiter) AllowLogin(_ context.Context, _ string) error {
	if l.tripped {
		return domain.ErrTooManyAttempts
	}
	return nil
}

func (l *stubLimiter) ResetLogin(_ context.Context, _ string) error {
	l.resetCalls++
	return nil
}

func (l *stubLimiter) AllowResend(_ context.Context, _ string) error {
	if l.tripped {
		return domain.ErrTooManyAttempts
	}
	return nil
}

// stubVerificationQueue records enqueued requests.
type stubVerificationQueue struct {
	requests []ports.VerificationRequest
}

func (q *stubVerificationQueue) Enqueue(req ports.VerificationRequest) {
	q.requests = append(q.requests, req)
}
