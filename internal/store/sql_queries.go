package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-vault-guard/models"
)

const (
	createUser = `INSERT INTO users (email, password_hash, two_factor_enabled, two_factor_secret)
    VALUES ($1, $2, $3, $4)
    RETURNING user_id, email, password_hash, two_factor_enabled, two_factor_secret, created_at;`

	findUserByEmail = `SELECT user_id, email, password_hash, two_factor_enabled, two_factor_secret, created_at
    FROM users
    WHERE email = $1;`

	saveUser = `UPDATE users
    SET two_factor_enabled = $2, two_factor_secret = $3
    WHERE user_id = $1;`

	createPin = `INSERT INTO email_pins (id, email, purpose, code_hash, password_hash, expires_at)
    VALUES ($1, $2, $3, $4, $5, $6)
    RETURNING id, email, purpose, code_hash, password_hash, consumed, expires_at, created_at;`

	// The newest active record wins: older rows for the same (email, purpose)
	// are soft-invalidated by recency, not deleted.
	findLatestActivePin = `SELECT id, email, purpose, code_hash, password_hash, consumed, expires_at, created_at
    FROM email_pins
    WHERE email = $1 AND purpose = $2 AND consumed = FALSE AND expires_at > $3
    ORDER BY created_at DESC
    LIMIT 1;`

	// The consumed flip is a single conditional UPDATE so that two concurrent
	// submissions of the same valid code cannot both succeed.
	markPinConsumed = `UPDATE email_pins
    SET consumed = TRUE
    WHERE id = $1 AND consumed = FALSE;`

	deleteExpiredPins = `DELETE FROM email_pins
    WHERE expires_at <= $1;`

	createVaultItem = `INSERT INTO vault_items (id, user_id, title, username, encrypted_password, url, encrypted_notes)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    RETURNING id, user_id, title, username, encrypted_password, url, encrypted_notes, created_at, updated_at;`

	deleteVaultItem = `DELETE FROM vault_items
    WHERE user_id = $1 AND id = $2;`
)

// buildGetVaultItemsQuery builds the owner-scoped listing query, newest
// update first, mirroring how clients render the vault.
func buildGetVaultItemsQuery(userID int64) (string, []any, error) {
	return sq.Select(
		"id",
		"user_id",
		"title",
		"username",
		"encrypted_password",
		"url",
		"encrypted_notes",
		"created_at",
		"updated_at",
	).
		From("vault_items").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("updated_at DESC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
}

// buildUpdateVaultItemQuery builds a partial UPDATE containing only the
// fields present in update. updated_at is always refreshed. The WHERE clause
// carries both the item ID and the owning user ID, so a well-formed update
// against someone else's item matches zero rows.
func buildUpdateVaultItemQuery(update models.VaultItemUpdate) (string, []any, error) {
	builder := sq.Update("vault_items").
		Set("updated_at", sq.Expr("NOW()")).
		PlaceholderFormat(sq.Dollar)

	if update.Title != nil {
		builder = builder.Set("title", *update.Title)
	}
	if update.Username != nil {
		builder = builder.Set("username", *update.Username)
	}
	if update.EncryptedPassword != nil {
		builder = builder.Set("encrypted_password", *update.EncryptedPassword)
	}
	if update.URL != nil {
		builder = builder.Set("url", *update.URL)
	}
	if update.EncryptedNotes != nil {
		builder = builder.Set("encrypted_notes", *update.EncryptedNotes)
	}

	return builder.
		Where(sq.Eq{"id": update.ID, "user_id": update.UserID}).
		ToSql()
}
