package service

import (
	"context"
	"errors"
	"time"
)

// Login failures. The codes are returned to the client as-is.
var (
	ErrInvalidEmail      = errors.New("invalid-email")
	ErrInvalidCredential = errors.New("invalid-credential")
	ErrInvalidToken      = errors.New("invalid-token")
)

type Session struct {
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	// Verify returns the admin email carried by a session token.
	Verify(token string) (string, error)
	EnsureAdmin(ctx context.Context, email, password string) error
}
