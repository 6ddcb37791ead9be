package services

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"sadhanaAPI/internal/streak"
	"sadhanaAPI/middleware"
)

// SweepService zeroes streaks that lapsed in silence. The event-driven
// transition only fires on activity, so a user who simply stops logging
// keeps a stale positive streak until this batch pass catches it.
type SweepService struct {
	db *pgxpool.Pool
}

func NewSweepService(db *pgxpool.Pool) *SweepService {
	return &SweepService{db: db}
}

type SweepSummary struct {
	Timestamp       time.Time `json:"timestamp"`
	UsersReset      int       `json:"usersReset"`
	BooksReset      int       `json:"booksReset"`
	ChallengesReset int       `json:"challengesReset"`
	Errors          int       `json:"errors"`
}

// Sweep resets every stream whose last activity is older than the day
// before referenceDay. Highest streak and the last-activity date stay
// untouched, the record of the prior peak and when it lapsed is kept
// for history. Each stream type runs independently: one failure is
// counted and logged, the others still run. Running the sweep twice on
// the same day is a no-op the second time.
func (s *SweepService) Sweep(ctx context.Context, referenceDay streak.DayKey) *SweepSummary {
	// Anything strictly before yesterday's midnight missed at least
	// all of yesterday.
	cutoff := referenceDay.Prev().Time()

	summary := &SweepSummary{Timestamp: time.Now()}

	result, err := s.db.Exec(ctx, `
	UPDATE users
	SET current_streak = 0
	WHERE last_sadhana_date < $1 AND current_streak > 0
	`, cutoff)
	if err != nil {
		log.Printf("Sweep: user streak reset failed: %v", err)
		summary.Errors++
	} else {
		summary.UsersReset = int(result.RowsAffected())
		middleware.RecordSweepResets("sadhana", summary.UsersReset)
	}

	result, err = s.db.Exec(ctx, `
	UPDATE book_progress
	SET current_streak = 0
	WHERE last_read_date < $1 AND current_streak > 0
	`, cutoff)
	if err != nil {
		log.Printf("Sweep: book streak reset failed: %v", err)
		summary.Errors++
	} else {
		summary.BooksReset = int(result.RowsAffected())
		middleware.RecordSweepResets("book", summary.BooksReset)
	}

	result, err = s.db.Exec(ctx, `
	UPDATE challenges
	SET current_streak = 0
	WHERE last_activity < $1 AND current_streak > 0
	`, cutoff)
	if err != nil {
		log.Printf("Sweep: challenge streak reset failed: %v", err)
		summary.Errors++
	} else {
		summary.ChallengesReset = int(result.RowsAffected())
		middleware.RecordSweepResets("challenge", summary.ChallengesReset)
	}

	log.Printf("Sweep: reference=%s users=%d books=%d challenges=%d errors=%d",
		referenceDay, summary.UsersReset, summary.BooksReset, summary.ChallengesReset, summary.Errors)

	return summary
}
