// Package session implements the signed, client-held session cookie: a
// tamper-evident HS256 token carrying the authenticated identity plus its
// login history, with a fixed inactivity window and a sliding extension
// applied on every authenticated request. There is no server-side session
// store; the server only verifies the signature and the expiry.
package session

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/catalogworks/catalog/internal/core/domain"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

type claims struct {
	UserName     string               `json:"userName"`
	Email        string               `json:"email,omitempty"`
	LoginHistory []domain.LoginRecord `json:"loginHistory,omitempty"`
	jwt.RegisteredClaims
}

// Manager mints, reads, extends, and clears session cookies.
type Manager struct {
	secret         []byte
	duration       time.Duration
	activeDuration time.Duration
}

// NewManager returns a Manager. duration is the inactivity window applied
// at issue time; activeDuration is the sliding extension granted on each
// request that carries a valid session.
func NewManager(secret string, duration, activeDuration time.Duration) *Manager {
	return &Manager{
		secret:         []byte(secret),
		duration:       duration,
		activeDuration: activeDuration,
	}
}

// Issue creates a session for the user and sets the cookie.
func (m *Manager) Issue(c echo.Context, user *domain.User) error {
	now := time.Now()
	return m.write(c, &domain.Session{
		UserName:     user.UserName,
		Email:        user.Email,
		LoginHistory: user.LoginHistory,
		IssuedAt:     now,
		ExpiresAt:    now.Add(m.duration),
	})
}

// Read returns the session carried by the request, or nil. An absent,
// expired, or tampered cookie reads as "no session", never as an error.
func (m *Manager) Read(c echo.Context) *domain.Session {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	var cl claims
	token, err := jwt.ParseWithClaims(cookie.Value, &cl, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	sess := &domain.Session{
		UserName:     cl.UserName,
		Email:        cl.Email,
		LoginHistory: cl.LoginHistory,
	}
	if cl.IssuedAt != nil {
		sess.IssuedAt = cl.IssuedAt.Time
	}
	if cl.ExpiresAt != nil {
		sess.ExpiresAt = cl.ExpiresAt.Time
	}
	return sess
}

// Extend applies the sliding window: when less than activeDuration remains
// on the session, the cookie is re-issued expiring activeDuration from now.
func (m *Manager) Extend(c echo.Context, sess *domain.Session) {
	if time.Until(sess.ExpiresAt) >= m.activeDuration {
		return
	}
	sess.ExpiresAt = time.Now().Add(m.activeDuration)
	_ = m.write(c, sess)
}

// Clear invalidates the session immediately, independent of its timer.
func (m *Manager) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) write(c echo.Context, sess *domain.Session) error {
	cl := claims{
		UserName:     sess.UserName,
		Email:        sess.Email,
		LoginHistory: sess.LoginHistory,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(sess.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(m.secret)
	if err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
