package handlers

import (
	"context"
	"net/http"
	"time"

	"sadhanaAPI/internal/streak"
	"sadhanaAPI/services"
)

type CronHandler struct {
	sweepService *services.SweepService
}

func NewCronHandler(sweepService *services.SweepService) *CronHandler {
	return &CronHandler{
		sweepService: sweepService,
	}
}

// ResetStreaks runs the daily lapsed-streak sweep. Invoked once per day
// by the external scheduler; safe to re-run, the second pass finds
// nothing left to reset.
func (h *CronHandler) ResetStreaks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	summary := h.sweepService.Sweep(ctx, streak.ToDayKey(time.Now()))

	status := http.StatusOK
	if summary.Errors > 0 {
		status = http.StatusInternalServerError
	}

	respondWithJSON(w, status, summary)
}
