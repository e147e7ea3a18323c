package ports

import (
	"context"

	"github.com/catalogworks/catalog/internal/core/domain"
)

// Credentials carries a login attempt. UserAgent is recorded in the login
// history on success.
type Credentials struct {
	UserName  string
	Password  string
	UserAgent string
}

// RegisterInput carries a registration request.
type RegisterInput struct {
	UserName string
	Password string
	Email    string
}

// AuthService defines the identity use cases.
type AuthService interface {
	// Login verifies the credentials and returns the user with its login
	// history already updated for this attempt.
	Login(ctx context.Context, creds Credentials) (*domain.User, error)
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
}

// LoginThrottle bounds failed login attempts per user name. Implementations
// must degrade open: a throttle backend failure never blocks a login.
type LoginThrottle interface {
	TooManyFailures(ctx context.Context, userName string) (bool, error)
	RecordFailure(ctx context.Context, userName string) error
	Reset(ctx context.Context, userName string) error
}
