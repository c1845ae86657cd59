package model

import "time"

// Session marks a successful administrator login. At most one session is
// stored at a time; a session past ExpiresAt is treated as absent.
type Session struct {
	Username  string    `json:"username"`
	LoginTime time.Time `json:"loginTime"`
	ExpiresAt time.Time `json:"expiresAt"`
	// Token is the opaque value held by the browser cookie.
	Token string `json:"token"`
}

// Expired reports whether the session is no longer valid at now.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Valid reports whether the stored document carries the fields a session needs.
func (s Session) Valid() bool {
	return s.Username != "" && !s.ExpiresAt.IsZero()
}
