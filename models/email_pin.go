package models

import "time"

// PinPurpose scopes an email verification code to the flow that issued it.
// A code minted for one purpose never verifies under another.
type PinPurpose string

const (
	// PinPurposeRegister marks codes that gate account creation.
	PinPurposeRegister PinPurpose = "register"

	// PinPurposeLogin marks codes that gate session issuance.
	PinPurposeLogin PinPurpose = "login"
)

// Valid reports whether p is one of the known purposes.
func (p PinPurpose) Valid() bool {
	return p == PinPurposeRegister || p == PinPurposeLogin
}

// EmailPin is a single-use, short-lived email verification code record.
//
// The plaintext code is never persisted: only its bcrypt hash is stored.
// Multiple records may coexist for the same (Email, Purpose) pair; the
// lifecycle manager always selects the most recently created active record,
// so older codes become unusable as soon as a new one is issued.
type EmailPin struct {
	// ID is the unique identifier of the record (UUID).
	ID string `json:"-"`

	// Email is the address the code was delivered to.
	Email string `json:"email"`

	// Purpose scopes the code to the registration or login flow.
	Purpose PinPurpose `json:"purpose"`

	// CodeHash is the bcrypt hash of the plaintext 6-digit code.
	CodeHash string `json:"-"`

	// PasswordHash is the auxiliary payload carried only by registration
	// codes: the pre-hashed account password, held here so that the account
	// row is not created until the code is confirmed.
	PasswordHash string `json:"-"`

	// Consumed starts false and flips to true exactly once, on the first
	// successful verification. A consumed record never verifies again.
	Consumed bool `json:"-"`

	// ExpiresAt is the absolute timestamp after which the code is dead.
	ExpiresAt time.Time `json:"expires_at"`

	// CreatedAt orders concurrent records for the same (Email, Purpose).
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the EmailPin model.
func (p EmailPin) TableName() string {
	return "email_pins"
}
