package workers

import (
	"context"
	"log"
	"time"

	"sadhanaAPI/internal/streak"
	"sadhanaAPI/services"
)

// StartSweepWorker runs the lapsed-streak sweep shortly after every UTC
// midnight. The cron endpoint stays available as a manual trigger; the
// sweep is idempotent so overlapping invocations are harmless.
func StartSweepWorker(sweepService *services.SweepService) {
	go func() {
		for {
			time.Sleep(untilNextRun(time.Now()))

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			summary := sweepService.Sweep(ctx, streak.ToDayKey(time.Now()))
			cancel()

			if summary.Errors > 0 {
				log.Printf("Sweep worker: finished with %d errors", summary.Errors)
			}
		}
	}()
}

// untilNextRun returns the wait until five minutes past the next UTC
// midnight. The small offset keeps the sweep clear of entries still
// being written right at the day boundary.
func untilNextRun(now time.Time) time.Duration {
	utc := now.UTC()
	next := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 5, 0, 0, time.UTC)
	if !next.After(utc) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(utc)
}
