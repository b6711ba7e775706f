package worker

// sweeper_cron.go
// Background goroutine that reclaims stock reservations whose TTL elapsed
// without a confirm or release (abandoned checkouts, crashed processes).

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	sweepTickInterval = 60 * time.Second
	sweepBatchSize    = 100
)

// ReservationSweeper releases expired holds; satisfied by the stock service.
type ReservationSweeper interface {
	ReleaseExpired(ctx context.Context, before time.Time, limit int) (int, error)
}

// StartReservationSweeper launches a goroutine that ticks every minute and
// releases expired holds in batches. Respects the context for shutdown.
func StartReservationSweeper(ctx context.Context, sweeper ReservationSweeper) {
	go func() {
		ticker := time.NewTicker(sweepTickInterval)
		defer ticker.Stop()

		log.Info().Msg("reservation sweeper: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("reservation sweeper: shutting down")
				return
			case <-ticker.C:
				released, err := sweeper.ReleaseExpired(ctx, time.Now(), sweepBatchSize)
				if err != nil {
					log.Error().Err(err).Msg("reservation sweeper: sweep failed")
					continue
				}
				if released > 0 {
					log.Info().Int("released", released).Msg("reservation sweeper: reclaimed expired holds")
				}
			}
		}
	}()
}
