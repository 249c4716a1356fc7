package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-vault-guard/models"
)

// UserRepository is the account store consumed by the authentication core.
type UserRepository interface {
	// CreateUser persists a new account and returns it with server-assigned
	// fields populated. Returns [ErrEmailAlreadyExists] on a duplicate email.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByEmail looks an account up by its unique email.
	// Returns [ErrNoUserWasFound] when the account does not exist.
	FindUserByEmail(ctx context.Context, email string) (models.User, error)

	// SaveUser updates the mutable credential state of an existing account
	// (two-factor flag and secret).
	SaveUser(ctx context.Context, user models.User) error
}

// PinRepository is the verification-code store consumed by the PIN
// lifecycle manager.
type PinRepository interface {
	// CreatePin persists a new verification-code record.
	CreatePin(ctx context.Context, pin models.EmailPin) (models.EmailPin, error)

	// FindLatestActivePin returns the most recently created record for
	// (email, purpose) that is not consumed and not past its expiry.
	// Returns [ErrNoActivePin] when no such record exists; callers cannot
	// tell "never issued" from "expired" and that is deliberate.
	FindLatestActivePin(ctx context.Context, email string, purpose models.PinPurpose) (models.EmailPin, error)

	// MarkConsumed atomically flips the consumed flag of the record with
	// the given ID. It succeeds at most once per record: a second call, or
	// a concurrent call racing the first, returns [ErrPinAlreadyConsumed].
	MarkConsumed(ctx context.Context, pinID string) error

	// DeleteExpired physically removes records past their expiry. Called by
	// the background sweeper, never by the verification path.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// VaultItemRepository is the document store for encrypted vault items.
type VaultItemRepository interface {
	CreateVaultItem(ctx context.Context, item models.VaultItem) (models.VaultItem, error)
	GetVaultItems(ctx context.Context, userID int64) ([]models.VaultItem, error)
	UpdateVaultItem(ctx context.Context, update models.VaultItemUpdate) error
	DeleteVaultItem(ctx context.Context, userID int64, itemID string) error
}
