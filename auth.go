package donortrack

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User represents an authenticated staff member.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is what a successful login yields: the bearer token for subsequent
// requests plus the authenticated user's record. It is persisted locally
// between runs (see internal/session).
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Expired reports whether the session's bearer token has passed its expiry
// claim. The token is decoded without signature verification: verifying is
// the backend's job, the client only needs to know when to prompt for a
// fresh login. Tokens without a readable expiry are treated as expired.
func (s Session) Expired() bool {
	if s.Token == "" {
		return true
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}

	return time.Now().After(exp.Time)
}
