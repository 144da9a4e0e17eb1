// Package worker runs the periodic catalog update check.
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/wallkeep/wallkeep/internal/catalog"
)

// Checker is the slice of the synchronizer the worker drives.
type Checker interface {
	CheckForUpdates(ctx context.Context) error
}

// Config controls the update-check cadence.
type Config struct {
	Interval time.Duration // base cadence between checks
}

// Worker triggers CheckForUpdates on a timer, backing off exponentially
// after failed checks and returning to the base cadence once a check
// succeeds.
type Worker struct {
	sync Checker
	cfg  Config
	log  zerolog.Logger
}

// New constructs a Worker.
func New(sync Checker, cfg Config, log zerolog.Logger) *Worker {
	if cfg.Interval <= 0 {
		cfg.Interval = 6 * time.Hour
	}
	return &Worker{sync: sync, cfg: cfg, log: log}
}

// Run blocks until ctx is canceled, checking for updates at the configured
// cadence. Check failures are logged and retried with backoff; they never
// stop the loop.
func (w *Worker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.cfg.Interval).Msg("sync worker starting")

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Minute
	bo.MaxInterval = w.cfg.Interval
	bo.MaxElapsedTime = 0
	bo.Reset()

	// First check immediately on startup.
	wait := time.Duration(0)
	for {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			w.log.Info().Msg("sync worker stopping")
			return ctx.Err()
		case <-timer.C:
		}

		err := w.sync.CheckForUpdates(ctx)
		switch {
		case err == nil:
			bo.Reset()
			wait = w.cfg.Interval
		case errors.Is(err, catalog.ErrRefreshInProgress):
			// Someone else (API trigger) is already refreshing.
			wait = w.cfg.Interval
		default:
			wait = bo.NextBackOff()
			w.log.Warn().Err(err).Dur("retry_in", wait).Msg("update check failed")
		}
	}
}
