package domain

import "time"

// Session is the authenticated identity carried by the signed session
// cookie. It lives entirely on the client; the server only verifies the
// signature and the expiry.
type Session struct {
	UserName     string
	Email        string
	LoginHistory []LoginRecord
	IssuedAt     time.Time
	ExpiresAt    time.Time
}
