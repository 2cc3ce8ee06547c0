package monitoring

import (
	"time"

	"github.com/dferrans/itemstash-be/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// RetentionSweeper periodically prunes old rows from the activity feed.
type RetentionSweeper struct {
	eventSvc services.EventServiceProvider
	maxAge   time.Duration
	cron     *cron.Cron
}

// NewRetentionSweeper creates a sweeper that keeps events for maxAge.
func NewRetentionSweeper(eventSvc services.EventServiceProvider, maxAge time.Duration) *RetentionSweeper {
	return &RetentionSweeper{
		eventSvc: eventSvc,
		maxAge:   maxAge,
		cron:     cron.New(),
	}
}

// Run registers the hourly sweep and starts the cron scheduler. It returns
// immediately; sweeps happen on the scheduler's goroutine.
func (rs *RetentionSweeper) Run() {
	log.Info().Dur("max_age", rs.maxAge).Msg("Starting event retention sweeper...")

	// Sweep once on start, then hourly.
	rs.Sweep()
	if _, err := rs.cron.AddFunc("@hourly", rs.Sweep); err != nil {
		log.Error().Err(err).Msg("Failed to schedule retention sweep")
		return
	}
	rs.cron.Start()
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (rs *RetentionSweeper) Stop() {
	log.Info().Msg("Stopping event retention sweeper.")
	ctx := rs.cron.Stop()
	<-ctx.Done()
}

// Sweep deletes events older than the retention window.
func (rs *RetentionSweeper) Sweep() {
	cutoff := time.Now().UTC().Add(-rs.maxAge)
	pruned, err := rs.eventSvc.PruneEventsBefore(cutoff)
	if err != nil {
		log.Error().Err(err).Msg("Retention sweep failed")
		return
	}
	if pruned > 0 {
		log.Info().Int64("pruned", pruned).Time("cutoff", cutoff).Msg("Pruned old activity events")
	}
}
