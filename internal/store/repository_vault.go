package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-vault-guard/internal/logger"
	"github.com/MKhiriev/go-vault-guard/models"
)

// vaultItemRepository is the PostgreSQL-backed implementation of
// [VaultItemRepository]. It executes all vault-item CRUD operations against
// the "vault_items" table. Secret columns hold envelope-encrypted blobs; the
// repository treats them as opaque text.
type vaultItemRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewVaultItemRepository constructs a [VaultItemRepository] backed by the
// provided database connection and logger.
func NewVaultItemRepository(db *DB, logger *logger.Logger) VaultItemRepository {
	logger.Debug().Msg("creating vault item repository")
	return &vaultItemRepository{
		db:     db,
		logger: logger,
	}
}

// CreateVaultItem persists a new vault item and returns it with
// server-assigned timestamps populated.
func (r *vaultItemRepository) CreateVaultItem(ctx context.Context, item models.VaultItem) (models.VaultItem, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createVaultItem,
		item.ID, item.UserID, item.Title, item.Username, item.EncryptedPassword, item.URL, item.EncryptedNotes)

	if err := row.Scan(&item.ID, &item.UserID, &item.Title, &item.Username, &item.EncryptedPassword, &item.URL, &item.EncryptedNotes, &item.CreatedAt, &item.UpdatedAt); err != nil {
		log.Err(err).Str("func", "*vaultItemRepository.CreateVaultItem").Int64("user_id", item.UserID).Msg("error: vault item was not created")
		return models.VaultItem{}, fmt.Errorf("%w: %w", ErrVaultItemNotSaved, err)
	}

	return item, nil
}

// GetVaultItems lists all items owned by userID, most recently updated first.
func (r *vaultItemRepository) GetVaultItems(ctx context.Context, userID int64) ([]models.VaultItem, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetVaultItemsQuery(userID)
	if err != nil {
		log.Err(err).Str("func", "*vaultItemRepository.GetVaultItems").Int64("user_id", userID).Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*vaultItemRepository.GetVaultItems").Int64("user_id", userID).Msg("failed to execute query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	items := make([]models.VaultItem, 0, 20)
	for rows.Next() {
		var item models.VaultItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.Title, &item.Username, &item.EncryptedPassword, &item.URL, &item.EncryptedNotes, &item.CreatedAt, &item.UpdatedAt); err != nil {
			log.Err(err).Str("func", "*vaultItemRepository.GetVaultItems").Int64("user_id", userID).Msg("failed to scan row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return items, nil
}

// UpdateVaultItem applies a partial update built by
// [buildUpdateVaultItemQuery]. A zero row count means either the item does
// not exist or it belongs to a different user; both surface as
// [ErrVaultItemNotFound].
func (r *vaultItemRepository) UpdateVaultItem(ctx context.Context, update models.VaultItemUpdate) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpdateVaultItemQuery(update)
	if err != nil {
		log.Err(err).Str("func", "*vaultItemRepository.UpdateVaultItem").Str("item_id", update.ID).Msg("failed to build query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*vaultItemRepository.UpdateVaultItem").Str("item_id", update.ID).Msg("failed to execute query")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrVaultItemNotFound
	}

	return nil
}

// DeleteVaultItem removes the item with the given ID, scoped by owner.
func (r *vaultItemRepository) DeleteVaultItem(ctx context.Context, userID int64, itemID string) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteVaultItem, userID, itemID)
	if err != nil {
		log.Err(err).Str("func", "*vaultItemRepository.DeleteVaultItem").Str("item_id", itemID).Msg("failed to execute query")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrVaultItemNotFound
	}

	return nil
}
