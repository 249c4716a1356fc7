package models

import "time"

// User represents an account entity used for authentication and authorization.
// It contains identity attributes and credential-related data.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	// It is not exposed via JSON and is used only at the persistence layer.
	UserID int64 `json:"-"`

	// Email is the unique user identifier used during authentication and
	// as the destination for out-of-band verification codes.
	Email string `json:"email"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This value MUST be a derived value, never plaintext.
	PasswordHash string `json:"-"`

	// TwoFactorEnabled reports whether recurring TOTP two-factor
	// authentication is active for this account.
	TwoFactorEnabled bool `json:"two_factor_enabled"`

	// TwoFactorSecret is the base32-encoded TOTP secret shared with the
	// user's authenticator app. Present only when TwoFactorEnabled is true
	// or during the setup-pending window. Never exposed via JSON.
	TwoFactorSecret string `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	// Used for auditing and lifecycle management.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
