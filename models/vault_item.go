package models

import "time"

// VaultItem is a single stored secret owned by one user.
//
// Secret fields (EncryptedPassword, EncryptedNotes) arrive already encrypted
// by the client's envelope scheme; the server stores and returns them as
// opaque blobs and never sees the plaintext or the passphrase.
type VaultItem struct {
	// ID is the unique identifier of the item (UUID).
	ID string `json:"id"`

	// UserID is the owning account. Items are always scoped by owner;
	// cross-user access is rejected at the repository level.
	UserID int64 `json:"-"`

	// Title is the user-visible name of the item (e.g. the site name).
	Title string `json:"title"`

	// Username is the non-secret login associated with the item.
	Username string `json:"username"`

	// EncryptedPassword is the envelope-encrypted secret blob
	// (base64 of salt ‖ nonce ‖ ciphertext).
	EncryptedPassword string `json:"encrypted_password"`

	// URL is the non-secret location the credentials belong to.
	URL string `json:"url"`

	// EncryptedNotes is an optional envelope-encrypted free-text blob.
	EncryptedNotes string `json:"encrypted_notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VaultItemUpdate describes a partial update of a vault item.
// Nil pointer fields are left untouched by the repository.
type VaultItemUpdate struct {
	ID     string `json:"id"`
	UserID int64  `json:"-"`

	Title             *string `json:"title,omitempty"`
	Username          *string `json:"username,omitempty"`
	EncryptedPassword *string `json:"encrypted_password,omitempty"`
	URL               *string `json:"url,omitempty"`
	EncryptedNotes    *string `json:"encrypted_notes,omitempty"`
}

// TableName returns the name of the database table
// associated with the VaultItem model.
func (v VaultItem) TableName() string {
	return "vault_items"
}
