package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-vault-guard/internal/logger"
	"github.com/MKhiriev/go-vault-guard/internal/store"
	"github.com/MKhiriev/go-vault-guard/internal/utils"
	"github.com/MKhiriev/go-vault-guard/models"
)

type vaultService struct {
	vaultRepository store.VaultItemRepository
	uuidGenerator   *utils.UUIDGenerator

	logger *logger.Logger
}

func NewVaultService(vaultRepository store.VaultItemRepository, logger *logger.Logger) VaultService {
	return &vaultService{
		vaultRepository: vaultRepository,
		uuidGenerator:   utils.NewUUIDGenerator(),
		logger:          logger,
	}
}

// CreateVaultItem stores a new item for its owner. The secret fields arrive
// already encrypted; only Title and EncryptedPassword are mandatory.
func (v *vaultService) CreateVaultItem(ctx context.Context, item models.VaultItem) (models.VaultItem, error) {
	log := logger.FromContext(ctx)

	if item.UserID == 0 || item.Title == "" || item.EncryptedPassword == "" {
		log.Error().Str("func", "vaultService.CreateVaultItem").Int64("user_id", item.UserID).Msg("invalid vault item provided")
		return models.VaultItem{}, ErrInvalidDataProvided
	}

	item.ID = v.uuidGenerator.Generate()

	created, err := v.vaultRepository.CreateVaultItem(ctx, item)
	if err != nil {
		log.Err(err).Str("func", "vaultService.CreateVaultItem").Int64("user_id", item.UserID).Msg("vault item creation failed")
		return models.VaultItem{}, fmt.Errorf("vault item creation failed: %w", err)
	}

	return created, nil
}

func (v *vaultService) GetVaultItems(ctx context.Context, userID int64) ([]models.VaultItem, error) {
	if userID == 0 {
		return nil, ErrInvalidDataProvided
	}

	return v.vaultRepository.GetVaultItems(ctx, userID)
}

func (v *vaultService) UpdateVaultItem(ctx context.Context, update models.VaultItemUpdate) error {
	if update.ID == "" || update.UserID == 0 {
		return ErrInvalidDataProvided
	}

	return v.vaultRepository.UpdateVaultItem(ctx, update)
}

func (v *vaultService) DeleteVaultItem(ctx context.Context, userID int64, itemID string) error {
	if userID == 0 || itemID == "" {
		return ErrInvalidDataProvided
	}

	return v.vaultRepository.DeleteVaultItem(ctx, userID, itemID)
}
