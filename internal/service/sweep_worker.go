package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// SweepWorker is a background worker that periodically processes due
// recurring transactions across all users.
type SweepWorker struct {
	recurringService *RecurringService
	logger           zerolog.Logger
	interval         time.Duration
	stopCh           chan struct{}
	doneCh           chan struct{}
	mu               sync.Mutex
	running          bool
}

// SweepWorkerConfig holds configuration for the sweep worker
type SweepWorkerConfig struct {
	Interval time.Duration // How often to sweep due schedules
}

// DefaultSweepWorkerConfig returns sensible defaults
func DefaultSweepWorkerConfig() SweepWorkerConfig {
	return SweepWorkerConfig{
		Interval: 1 * time.Hour,
	}
}

// NewSweepWorker creates a new SweepWorker
func NewSweepWorker(recurringService *RecurringService, logger zerolog.Logger, config SweepWorkerConfig) *SweepWorker {
	if config.Interval <= 0 {
		config.Interval = 1 * time.Hour
	}

	return &SweepWorker{
		recurringService: recurringService,
		logger:           logger.With().Str("component", "sweep_worker").Logger(),
		interval:         config.Interval,
		stopCh:           make(chan struct{}),
		doneCh:           make(chan struct{}),
	}
}

// Start begins the background sweep
func (w *SweepWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info().
		Dur("interval", w.interval).
		Msg("Starting recurring transaction sweep worker")

	go w.run(ctx)
}

// Stop gracefully stops the worker
func (w *SweepWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping sweep worker")
	close(w.stopCh)
	<-w.doneCh
	w.logger.Info().Msg("Sweep worker stopped")
}

// run is the main loop for the sweep worker
func (w *SweepWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	// Run immediately on startup
	w.sweep()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			return
		case <-w.stopCh:
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

// sweep processes all due schedules once
func (w *SweepWorker) sweep() {
	startTime := time.Now()
	w.logger.Debug().Msg("Starting recurring transaction sweep")

	result, err := w.recurringService.ProcessDueSchedules()
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to process due recurring transactions")
		return
	}

	w.logger.Info().
		Int("fired", result.Fired).
		Int("deactivated", result.Deactivated).
		Int("errors", len(result.Errors)).
		Dur("elapsed", time.Since(startTime)).
		Msg("Completed recurring transaction sweep")
}

// SweepNow manually triggers one sweep, outside the ticker cadence.
func (w *SweepWorker) SweepNow() (*ProcessResult, error) {
	w.logger.Debug().Msg("Manual sweep triggered")
	return w.recurringService.ProcessDueSchedules()
}

// IsRunning returns whether the worker is currently running
func (w *SweepWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
