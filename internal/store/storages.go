package store

import (
	"context"

	"github.com/MKhiriev/go-vault-guard/internal/config"
	"github.com/MKhiriev/go-vault-guard/internal/logger"
)

// Storages aggregates every repository backed by the shared database
// connection. It is the single persistence handle passed to the service
// layer; construction and teardown happen explicitly in main, never through
// package-level state.
type Storages struct {
	UserRepository      UserRepository
	PinRepository       PinRepository
	VaultItemRepository VaultItemRepository

	db *DB
}

// NewStorages connects to PostgreSQL, runs pending migrations, and wires all
// repositories onto the shared connection.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		return nil, err
	}

	return &Storages{
		UserRepository:      NewUserRepository(db, log),
		PinRepository:       NewPinRepository(db, log),
		VaultItemRepository: NewVaultItemRepository(db, log),
		db:                  db,
	}, nil
}

// Close releases the underlying database connection pool.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
