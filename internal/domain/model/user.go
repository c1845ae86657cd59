package model

import "errors"

// ErrInvalidCredentials is returned by login when no stored user matches the
// submitted pair. It deliberately does not say which field was wrong.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Role tags a user account.
type Role string

const (
	RoleAdmin Role = "admin"
)

// Default administrator seeded on first run.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin321"
)

// User is a stored login credential.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash,omitempty"` // bcrypt
	// Password is the legacy plaintext field. It is only read, never written.
	Password string `json:"password,omitempty"`
	Role     Role   `json:"role"`
}
