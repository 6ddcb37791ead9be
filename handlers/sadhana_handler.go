package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"sadhanaAPI/internal/sadhana"
	"sadhanaAPI/middleware"
	"sadhanaAPI/services"
)

type SadhanaHandler struct {
	sadhanaService *services.SadhanaService
}

func NewSadhanaHandler(sadhanaService *services.SadhanaService) *SadhanaHandler {
	return &SadhanaHandler{
		sadhanaService: sadhanaService,
	}
}

func (h *SadhanaHandler) UpsertLog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req sadhana.UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Date.IsZero() {
		respondWithError(w, http.StatusBadRequest, "date is required")
		return
	}
	if req.ChantingRounds < 0 || req.ChantingRounds > 108 {
		respondWithError(w, http.StatusBadRequest, "chantingRounds must be between 0 and 108")
		return
	}
	if req.LectureDuration < 0 {
		respondWithError(w, http.StatusBadRequest, "lectureDuration cannot be negative")
		return
	}

	// Read the clock exactly once per request so the whole transition
	// sees one reference day.
	entry, err := h.sadhanaService.UpsertLog(ctx, clerkID, &req, time.Now())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, entry)
}

func (h *SadhanaHandler) GetDaily(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	date, err := parseDateParam(r, "date", time.Now())
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid date format, use YYYY-MM-DD")
		return
	}

	daily, err := h.sadhanaService.GetDaily(ctx, clerkID, date)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, daily)
}

func (h *SadhanaHandler) GetMonthly(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	year, month, ok := parseYearMonth(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid year or month")
		return
	}

	monthly, err := h.sadhanaService.GetMonthly(ctx, clerkID, year, month)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, monthly)
}

func (h *SadhanaHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	year, month, ok := parseYearMonth(r)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid year or month")
		return
	}

	metric := sadhana.Metric(r.URL.Query().Get("metric"))
	if metric == "" {
		metric = sadhana.MetricChanting
	}

	cal, err := h.sadhanaService.GetCalendar(ctx, clerkID, year, month, metric, time.Now())
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, cal)
}

func parseDateParam(r *http.Request, name string, fallback time.Time) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	if date, err := time.Parse("2006-01-02", raw); err == nil {
		return date, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func parseYearMonth(r *http.Request) (int, int, bool) {
	now := time.Now().UTC()

	year := now.Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2000 || parsed > 2200 {
			return 0, 0, false
		}
		year = parsed
	}

	month := int(now.Month())
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			return 0, 0, false
		}
		month = parsed
	}

	return year, month, true
}
