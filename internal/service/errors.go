package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrUnauthorized covers every credential failure in the auth flows.
	// Deliberately coarse: callers must not learn which factor was wrong.
	ErrUnauthorized = errors.New("invalid credentials")

	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrInvalidPin means an active code exists but the submitted digits
	// do not match it.
	ErrInvalidPin = errors.New("invalid pin")

	// ErrTwoFactorNotInitialized means the account has no TOTP secret yet.
	ErrTwoFactorNotInitialized = errors.New("two-factor auth is not initialized")

	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")

	ErrEmptyPassphrase = errors.New("empty passphrase")
)
