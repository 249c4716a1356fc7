package workers

import (
	"context"

	"github.com/MKhiriev/go-vault-guard/internal/config"
	"github.com/MKhiriev/go-vault-guard/internal/logger"
	"github.com/MKhiriev/go-vault-guard/internal/store"
)

type Workers struct {
	workers []Worker
}

// NewWorkers assembles every background worker of the application.
// Currently that is the expired-PIN sweeper.
func NewWorkers(storages *store.Storages, cfg config.Workers, logger *logger.Logger) *Workers {
	return &Workers{
		workers: []Worker{
			NewPinSweeper(storages.PinRepository, cfg.PinSweepInterval, logger),
		},
	}
}

// Run launches every worker in its own goroutine. All of them stop when ctx
// is cancelled; Run itself does not block.
func (w *Workers) Run(ctx context.Context) {
	for _, worker := range w.workers {
		go worker.Run(ctx)
	}
}
