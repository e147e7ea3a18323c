package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/catalogworks/catalog/internal/core/domain"
)

const testSecret = "test-secret"

func newTestContext(cookie *http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/shop", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// issuedCookie issues a session for the user and returns the resulting cookie.
func issuedCookie(t *testing.T, m *Manager, user *domain.User) *http.Cookie {
	t.Helper()
	c, rec := newTestContext(nil)
	if err := m.Issue(c, user); err != nil {
		t.Fatalf("issue: %v", err)
	}
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == CookieName {
			return ck
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func TestIssueThenRead(t *testing.T) {
	m := NewManager(testSecret, 2*time.Minute, time.Minute)
	user := &domain.User{
		UserName: "ana",
		Email:    "ana@example.com",
		LoginHistory: []domain.LoginRecord{
			{DateTime: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC), UserAgent: "curl/8.0", Device: ""},
		},
	}

	cookie := issuedCookie(t, m, user)
	c, _ := newTestContext(cookie)

	sess := m.Read(c)
	if sess == nil {
		t.Fatal("expected a session")
	}
	if sess.UserName != "ana" || sess.Email != "ana@example.com" {
		t.Errorf("identity mismatch: %+v", sess)
	}
	if len(sess.LoginHistory) != 1 || sess.LoginHistory[0].UserAgent != "curl/8.0" {
		t.Errorf("login history not carried: %+v", sess.LoginHistory)
	}
	remaining := time.Until(sess.ExpiresAt)
	if remaining < 90*time.Second || remaining > 2*time.Minute {
		t.Errorf("expected roughly the full inactivity window remaining, got %v", remaining)
	}
}

func TestReadAbsentCookie(t *testing.T) {
	m := NewManager(testSecret, 2*time.Minute, time.Minute)
	c, _ := newTestContext(nil)

	if sess := m.Read(c); sess != nil {
		t.Errorf("expected nil session, got %+v", sess)
	}
}

func TestReadExpiredSession(t *testing.T) {
	m := NewManager(testSecret, -time.Minute, time.Minute)
	cookie := issuedCookie(t, m, &domain.User{UserName: "ana"})
	c, _ := newTestContext(cookie)

	if sess := m.Read(c); sess != nil {
		t.Errorf("expired session must read as absent, got %+v", sess)
	}
}

func TestReadTamperedCookie(t *testing.T) {
	m := NewManager(testSecret, 2*time.Minute, time.Minute)
	cookie := issuedCookie(t, m, &domain.User{UserName: "ana"})

	// Flip part of the payload, keeping the structure of a JWT.
	parts := strings.Split(cookie.Value, ".")
	if len(parts) != 3 {
		t.Fatalf("expected a three-part token, got %d parts", len(parts))
	}
	parts[1] = parts[1][:len(parts[1])-2] + "xx"
	cookie.Value = strings.Join(parts, ".")

	c, _ := newTestContext(cookie)
	if sess := m.Read(c); sess != nil {
		t.Errorf("tampered session must read as absent, got %+v", sess)
	}
}

func TestReadWrongSecret(t *testing.T) {
	issuer := NewManager("other-secret", 2*time.Minute, time.Minute)
	cookie := issuedCookie(t, issuer, &domain.User{UserName: "ana"})

	m := NewManager(testSecret, 2*time.Minute, time.Minute)
	c, _ := newTestContext(cookie)
	if sess := m.Read(c); sess != nil {
		t.Errorf("foreign signature must read as absent, got %+v", sess)
	}
}

func TestReadRejectsUnsignedToken(t *testing.T) {
	m := NewManager(testSecret, 2*time.Minute, time.Minute)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"userName": "mallory",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("build token: %v", err)
	}

	c, _ := newTestContext(&http.Cookie{Name: CookieName, Value: unsigned})
	if sess := m.Read(c); sess != nil {
		t.Errorf("alg=none token must read as absent, got %+v", sess)
	}
}

func TestExtendSlidesWindowWhenNearExpiry(t *testing.T) {
	m := NewManager(testSecret, 2*time.Minute, time.Minute)
	sess := &domain.Session{
		UserName:  "ana",
		IssuedAt:  time.Now().Add(-90 * time.Second),
		ExpiresAt: time.Now().Add(30 * time.Second),
	}

	c, rec := newTestContext(nil)
	m.Extend(c, sess)

	remaining := time.Until(sess.ExpiresAt)
	if remaining < 50*time.Second || remaining > time.Minute {
		t.Errorf("expected expiry pushed to about a minute out, got %v", remaining)
	}

	var reissued bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == CookieName && ck.Value != "" {
			reissued = true
		}
	}
	if !reissued {
		t.Error("expected a re-issued cookie")
	}
}

func TestExtendLeavesFreshSessionAlone(t *testing.T) {
	m := NewManager(testSecret, 2*time.Minute, time.Minute)
	expiry := time.Now().Add(100 * time.Second)
	sess := &domain.Session{UserName: "ana", ExpiresAt: expiry}

	c, rec := newTestContext(nil)
	m.Extend(c, sess)

	if !sess.ExpiresAt.Equal(expiry) {
		t.Errorf("expiry must be untouched, got %v", sess.ExpiresAt)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("no cookie should be written for a fresh session")
	}
}

func TestClearExpiresCookie(t *testing.T) {
	m := NewManager(testSecret, 2*time.Minute, time.Minute)
	c, rec := newTestContext(nil)

	m.Clear(c)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	if cookies[0].Name != CookieName || cookies[0].MaxAge != -1 || cookies[0].Value != "" {
		t.Errorf("expected an immediately expired empty cookie, got %+v", cookies[0])
	}
}
