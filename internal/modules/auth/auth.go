package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotAuthenticated   = errors.New("please sign in to continue")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Service defines the interface for authentication-related business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// Session is the authenticated caller attached to a request context.
type Session struct {
	UserID uuid.UUID
	Email  string
	Role   string
	// Token is the raw bearer token, forwarded to downstream functions.
	Token string
}

func (s Session) IsAdmin() bool { return s.Role == "admin" }

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session stored by the middleware, if any.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}

// TokenFromContext returns the caller's bearer token.
func TokenFromContext(ctx context.Context) (string, error) {
	s, ok := SessionFromContext(ctx)
	if !ok || s.Token == "" {
		return "", ErrNotAuthenticated
	}
	return s.Token, nil
}
