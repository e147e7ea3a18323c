package domain

import (
	"errors"
	"time"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrTooManyAttempts = errors.New("too many failed login attempts")

// LoginHistoryCap bounds the history kept per user; the newest record is
// always first.
const LoginHistoryCap = 10

// User models an editor account.
type User struct {
	ID           string        `json:"id"`
	UserName     string        `json:"userName"`
	Email        string        `json:"email,omitempty"`
	PasswordHash string        `json:"-"`
	LoginHistory []LoginRecord `json:"loginHistory,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// LoginRecord captures one successful login.
type LoginRecord struct {
	DateTime  time.Time `json:"dateTime"`
	UserAgent string    `json:"userAgent"`
	Device    string    `json:"device,omitempty"`
}
