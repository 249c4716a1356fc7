package service

import (
	"github.com/MKhiriev/go-vault-guard/internal/config"
	"github.com/MKhiriev/go-vault-guard/internal/crypto"
	"github.com/MKhiriev/go-vault-guard/internal/logger"
	"github.com/MKhiriev/go-vault-guard/internal/mailer"
	"github.com/MKhiriev/go-vault-guard/internal/store"
)

type Services struct {
	AuthService    AuthService
	PinService     PinService
	VaultService   VaultService
	CryptoService  CryptoService
	AppInfoService AppInfoService
}

func NewServices(storages *store.Storages, sender mailer.PinSender, cfg *config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfoService, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	pinService := NewPinService(storages.PinRepository, sender, cfg.App, logger)

	return &Services{
		AuthService:    NewAuthService(storages.UserRepository, pinService, cfg.App, logger),
		PinService:     pinService,
		VaultService:   NewVaultService(storages.VaultItemRepository, logger),
		CryptoService:  NewCryptoService(crypto.NewEnvelopeService(), logger),
		AppInfoService: appInfoService,
	}, nil
}
