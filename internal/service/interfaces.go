package service

import (
	"context"

	"github.com/MKhiriev/go-vault-guard/models"
)

// AuthService drives the authentication state machine:
// Anonymous → PinPending → Verified → SessionIssued.
type AuthService interface {
	// RegisterStart hashes the chosen password, issues a registration PIN
	// carrying the hash as auxiliary payload, and mails it. No account row
	// is created yet. Returns the delivery status of the mail step.
	RegisterStart(ctx context.Context, email, password string) (string, error)

	// RegisterConfirm verifies the registration PIN and creates the account
	// from the payload stored alongside the code, with 2FA disabled.
	RegisterConfirm(ctx context.Context, email, pin string) (models.User, error)

	// RegisterProvisionTOTP starts the alternate, stateless registration
	// path: it pre-derives a TOTP secret and returns it inside a signed
	// pending-registration token together with the otpauth enrollment URI.
	RegisterProvisionTOTP(ctx context.Context, email, password string) (models.PendingRegistrationResponse, error)

	// RegisterConfirmToken finalizes the stateless path: it checks a TOTP
	// code against the secret embedded in the token and creates the
	// account with 2FA enabled.
	RegisterConfirmToken(ctx context.Context, registrationToken, code string) (models.User, error)

	// LoginStart verifies the password and issues a login PIN.
	LoginStart(ctx context.Context, email, password string) (string, error)

	// LoginConfirm verifies the login PIN (and a TOTP code when the account
	// has 2FA enabled) and issues a session token.
	LoginConfirm(ctx context.Context, email, pin, totpCode string) (models.User, models.Token, error)

	// TwoFactorVerify checks a TOTP code against the account's secret and
	// enables 2FA on first success.
	TwoFactorVerify(ctx context.Context, email, code string) error

	// CreateToken issues a signed session JWT for the given user.
	CreateToken(ctx context.Context, user models.User) (models.Token, error)

	// ParseToken validates a raw session JWT and extracts its claims.
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// PinService manages the single-use email verification code lifecycle.
type PinService interface {
	// Issue creates a fresh 6-digit code, stores its hash with the given
	// auxiliary payload, and hands the plaintext to the delivery
	// collaborator. Returns models.DeliveryOK or models.DeliveryDegraded;
	// delivery failure never invalidates the created record.
	Issue(ctx context.Context, email string, purpose models.PinPurpose, auxiliaryPayload string) (string, error)

	// Verify checks the submitted code against the newest active record
	// for (email, purpose) and atomically consumes it on match.
	// Returns the consumed record so callers can read its payload.
	Verify(ctx context.Context, email string, purpose models.PinPurpose, code string) (models.EmailPin, error)
}

// VaultService manages encrypted vault items on behalf of their owner.
type VaultService interface {
	CreateVaultItem(ctx context.Context, item models.VaultItem) (models.VaultItem, error)
	GetVaultItems(ctx context.Context, userID int64) ([]models.VaultItem, error)
	UpdateVaultItem(ctx context.Context, update models.VaultItemUpdate) error
	DeleteVaultItem(ctx context.Context, userID int64, itemID string) error
}

// CryptoService exposes the passphrase-based envelope scheme to callers that
// encrypt or decrypt vault secrets server-side (CLI tooling, migrations).
// The passphrase is never persisted and never travels over the HTTP surface.
type CryptoService interface {
	VaultEncrypt(ctx context.Context, plaintext []byte, passphrase string) (string, error)
	VaultDecrypt(ctx context.Context, blob string, passphrase string) ([]byte, error)
}

// AppInfoService reports build metadata about the running application.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
