// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-vault-guard/internal/logger"
	"github.com/MKhiriev/go-vault-guard/internal/store"
)

// PinSweeper periodically removes expired verification-code records.
//
// Expiry enforcement does not depend on the sweeper: the verification path
// filters expired records on read. The sweeper only keeps the table from
// growing without bound.
type PinSweeper struct {
	pins     store.PinRepository
	interval time.Duration
	logger   *logger.Logger
}

func NewPinSweeper(pins store.PinRepository, interval time.Duration, logger *logger.Logger) *PinSweeper {
	return &PinSweeper{
		pins:     pins,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks and sweeps every interval until ctx is cancelled.
func (s *PinSweeper) Run(ctx context.Context) {
	log := s.logger.With().Str("func", "PinSweeper.Run").Logger()
	log.Info().Dur("interval", s.interval).Msg("starting expired-PIN sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("expired-PIN sweeper stopped")
			return
		case now := <-ticker.C:
			s.sweep(ctx, now)
		}
	}
}

func (s *PinSweeper) sweep(ctx context.Context, now time.Time) {
	log := s.logger.With().Str("func", "PinSweeper.sweep").Logger()

	removed, err := s.pins.DeleteExpired(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("error occurred during deleting expired pins")
		return
	}

	if removed > 0 {
		log.Info().Int64("removed", removed).Msg("expired pins removed")
	}
}
