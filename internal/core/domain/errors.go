package domain

import "errors"

var ErrEmailTaken = errors.New("email already registered")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrVerificationRequired = errors.New("email verification required")
var ErrUserNotFound = errors.New("user not found")
var ErrForbidden = errors.New("access forbidden")
var ErrUserBlocked = errors.New("user is blocked")
var ErrInvalidRole = errors.New("invalid role")
var ErrTooManyAttempts = errors.New("too many attempts")
var ErrSessionNotFound = errors.New("session not found")
var ErrEventNotFound = errors.New("event not found")

// ErrRemoteService marks failures of the hosted identity backend. Callers
// match it with errors.Is; the wrapped cause carries the service detail.
var ErrRemoteService = errors.New("remote service error")
