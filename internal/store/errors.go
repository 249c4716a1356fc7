package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyExists is returned when an attempt to create a new user
	// fails because an account with the same email already exists.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrNoUserWasFound is returned when a query expected to match at least
	// one user record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrNoActivePin is returned when no non-consumed, non-expired
	// verification-code record exists for the requested email and purpose.
	// "Never issued" and "expired" are intentionally merged into this single
	// value to avoid a user-enumeration side channel.
	ErrNoActivePin = errors.New("no active verification code")

	// ErrPinAlreadyConsumed is returned by MarkConsumed when the record was
	// already consumed (or deleted) by the time the update ran. Under a race
	// between two submissions of the same code, exactly one caller gets nil
	// and the other gets this error.
	ErrPinAlreadyConsumed = errors.New("verification code already consumed")

	// ErrVaultItemNotFound is returned when an update or delete matched no
	// row, either because the item does not exist or because it belongs to
	// a different user.
	ErrVaultItemNotFound = errors.New("vault item not found")

	// ErrVaultItemNotSaved is returned when an INSERT completes without a
	// driver error but the row count is zero.
	ErrVaultItemNotSaved = errors.New("vault item not saved")

	// ErrBuildingSQLQuery is returned when dynamic query construction fails
	// before anything is sent to the database.
	ErrBuildingSQLQuery = errors.New("error building SQL query")

	// ErrExecutingQuery is returned when the database rejects or fails an
	// otherwise well-formed query.
	ErrExecutingQuery = errors.New("error executing query")

	// ErrScanningRow is returned when a result row cannot be scanned into
	// the target model.
	ErrScanningRow = errors.New("error scanning row")
)
