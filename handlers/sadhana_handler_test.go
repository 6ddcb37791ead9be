package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newRequest(t *testing.T, query string) *http.Request {
	t.Helper()
	req, err := http.NewRequest("GET", "/api/v1/sadhana?"+query, nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	return req
}

func TestParseDateParamFallback(t *testing.T) {
	fallback := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	got, err := parseDateParam(newRequest(t, ""), "date", fallback)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(fallback) {
		t.Errorf("missing param should return fallback, got %v", got)
	}
}

func TestParseDateParamFormats(t *testing.T) {
	got, err := parseDateParam(newRequest(t, "date=2026-03-15"), "date", time.Now())
	if err != nil {
		t.Fatalf("unexpected error for YYYY-MM-DD: %v", err)
	}
	if got.Year() != 2026 || got.Month() != time.March || got.Day() != 15 {
		t.Errorf("got %v, want 2026-03-15", got)
	}

	got, err = parseDateParam(newRequest(t, "date=2026-03-15T08:00:00Z"), "date", time.Now())
	if err != nil {
		t.Fatalf("unexpected error for RFC3339: %v", err)
	}
	if got.Year() != 2026 || got.Month() != time.March || got.Day() != 15 {
		t.Errorf("got %v, want 2026-03-15", got)
	}

	if _, err := parseDateParam(newRequest(t, "date=15/03/2026"), "date", time.Now()); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestParseYearMonth(t *testing.T) {
	cases := []struct {
		name      string
		query     string
		wantYear  int
		wantMonth int
		wantOK    bool
	}{
		{"explicit", "year=2026&month=3", 2026, 3, true},
		{"year lower bound", "year=2000&month=1", 2000, 1, true},
		{"year upper bound", "year=2200&month=12", 2200, 12, true},
		{"year too early", "year=1999&month=1", 0, 0, false},
		{"year too late", "year=2201&month=1", 0, 0, false},
		{"month zero", "year=2026&month=0", 0, 0, false},
		{"month thirteen", "year=2026&month=13", 0, 0, false},
		{"year not a number", "year=twenty&month=1", 0, 0, false},
		{"month not a number", "year=2026&month=march", 0, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			year, month, ok := parseYearMonth(newRequest(t, tc.query))
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if !tc.wantOK {
				return
			}
			if year != tc.wantYear || month != tc.wantMonth {
				t.Errorf("got %d-%d, want %d-%d", year, month, tc.wantYear, tc.wantMonth)
			}
		})
	}
}

func TestParseYearMonthDefaults(t *testing.T) {
	now := time.Now().UTC()

	year, month, ok := parseYearMonth(newRequest(t, ""))
	if !ok {
		t.Fatal("expected ok for empty query")
	}
	if year != now.Year() {
		t.Errorf("default year = %d, want %d", year, now.Year())
	}
	if month != int(now.Month()) {
		t.Errorf("default month = %d, want %d", month, int(now.Month()))
	}
}

func TestRespondWithJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	respondWithJSON(rr, http.StatusCreated, map[string]string{"message": "ok"})

	if rr.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusCreated)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if body["message"] != "ok" {
		t.Errorf("body = %v, want message=ok", body)
	}
}

func TestRespondWithError(t *testing.T) {
	rr := httptest.NewRecorder()
	respondWithError(rr, http.StatusBadRequest, "Invalid year or month")

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if body["error"] != "Invalid year or month" {
		t.Errorf("error = %q, want %q", body["error"], "Invalid year or month")
	}
}
