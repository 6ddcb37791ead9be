package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sadhanaAPI/internal/sadhana"
	"sadhanaAPI/internal/streak"
	"sadhanaAPI/internal/user"
	"sadhanaAPI/middleware"
	"sadhanaAPI/utils"
)

type SadhanaService struct {
	db       *pgxpool.Pool
	notifier utils.NotificationCreator
}

func NewSadhanaService(db *pgxpool.Pool, notifier utils.NotificationCreator) *SadhanaService {
	return &SadhanaService{db: db, notifier: notifier}
}

// UpsertLog stores one day's sadhana entry and advances the user's
// overall streak. The caller reads the clock once and passes it in; day
// boundaries are computed here, never inside the transition itself.
func (s *SadhanaService) UpsertLog(ctx context.Context, clerkID string, req *sadhana.UpsertRequest, now time.Time) (*sadhana.Log, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	day := streak.ToDayKey(req.Date)
	today := streak.ToDayKey(now)
	if day > today {
		return nil, fmt.Errorf("cannot log sadhana for a future date")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	logQuery := `
	INSERT INTO sadhana_logs (user_id, date, chanting_rounds, lecture_duration, mangal_aarti, darshan_aarti, bhoga_aarti, gaura_aarti, wake_up_time, sleep_time, missed_note, logged_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), NOW())
	ON CONFLICT (user_id, date)
	DO UPDATE SET
		chanting_rounds = $3,
		lecture_duration = $4,
		mangal_aarti = $5,
		darshan_aarti = $6,
		bhoga_aarti = $7,
		gaura_aarti = $8,
		wake_up_time = $9,
		sleep_time = $10,
		missed_note = NULLIF($11, ''),
		logged_at = NOW()
	RETURNING user_id, date, chanting_rounds, lecture_duration, total_read, mangal_aarti, darshan_aarti, bhoga_aarti, gaura_aarti, wake_up_time, sleep_time, missed_note, logged_at
	`

	entry := &sadhana.Log{}
	err = tx.QueryRow(
		ctx,
		logQuery,
		userID,
		day.Time(),
		req.ChantingRounds,
		req.LectureDuration,
		req.MangalAarti,
		req.DarshanAarti,
		req.BhogaAarti,
		req.GauraAarti,
		req.WakeUpTime,
		req.SleepTime,
		req.MissedNote,
	).Scan(
		&entry.UserID,
		&entry.Date,
		&entry.ChantingRounds,
		&entry.LectureDuration,
		&entry.TotalRead,
		&entry.MangalAarti,
		&entry.DarshanAarti,
		&entry.BhogaAarti,
		&entry.GauraAarti,
		&entry.WakeUpTime,
		&entry.SleepTime,
		&entry.MissedNote,
		&entry.LoggedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to log sadhana: %w", err)
	}

	// Row lock serializes concurrent logs for the same user so each
	// logical event produces at most one net streak transition.
	var state streak.State
	var lastDate *time.Time
	err = tx.QueryRow(ctx, `
	SELECT current_streak, highest_streak, last_sadhana_date
	FROM users
	WHERE id = $1
	FOR UPDATE
	`, userID).Scan(&state.Current, &state.Highest, &lastDate)
	if err != nil {
		return nil, fmt.Errorf("failed to read streak state: %w", err)
	}
	if lastDate != nil {
		d := streak.ToDayKey(*lastDate)
		state.LastDay = &d
	}

	next := streak.Advance(state, streak.Event{
		Day:      day,
		Today:    today,
		Positive: req.HasActivity(),
	})

	if !next.Equal(state) {
		_, err = tx.Exec(ctx, `
		UPDATE users
		SET current_streak = $2, highest_streak = $3, last_sadhana_date = $4, updated_at = NOW()
		WHERE id = $1
		`, userID, next.Current, next.Highest, next.LastDay.Time())
		if err != nil {
			return nil, fmt.Errorf("failed to update streak: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit sadhana log: %w", err)
	}

	if next.Current != state.Current {
		middleware.RecordStreakAdvance("sadhana")
		go utils.StreakMilestoneReached(s.notifier, userID, "sadhana", state.Current, next.Current)
	}

	return entry, nil
}

func (s *SadhanaService) GetDaily(ctx context.Context, clerkID string, date time.Time) (*sadhana.DailyResponse, error) {
	var userID uuid.UUID
	var roundsGoal int
	err := s.db.QueryRow(ctx, `SELECT id, rounds_goal FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID, &roundsGoal)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	day := streak.ToDayKey(date)

	query := `
	SELECT user_id, date, chanting_rounds, lecture_duration, total_read, mangal_aarti, darshan_aarti, bhoga_aarti, gaura_aarti, wake_up_time, sleep_time, missed_note, logged_at
	FROM sadhana_logs
	WHERE user_id = $1 AND date = $2
	`

	entry := &sadhana.Log{}
	err = s.db.QueryRow(ctx, query, userID, day.Time()).Scan(
		&entry.UserID,
		&entry.Date,
		&entry.ChantingRounds,
		&entry.LectureDuration,
		&entry.TotalRead,
		&entry.MangalAarti,
		&entry.DarshanAarti,
		&entry.BhogaAarti,
		&entry.GauraAarti,
		&entry.WakeUpTime,
		&entry.SleepTime,
		&entry.MissedNote,
		&entry.LoggedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No entry for that day is a normal state, not an error.
			return &sadhana.DailyResponse{Log: nil, RoundsGoal: roundsGoal}, nil
		}
		return nil, fmt.Errorf("failed to get sadhana log: %w", err)
	}

	return &sadhana.DailyResponse{Log: entry, RoundsGoal: roundsGoal}, nil
}

func (s *SadhanaService) GetMonthly(ctx context.Context, clerkID string, year, month int) (*sadhana.MonthlyResponse, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	startDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	endDate := startDate.AddDate(0, 1, -1)

	query := `
	SELECT user_id, date, chanting_rounds, lecture_duration, total_read, mangal_aarti, darshan_aarti, bhoga_aarti, gaura_aarti, wake_up_time, sleep_time, missed_note, logged_at
	FROM sadhana_logs
	WHERE user_id = $1
		AND date >= $2
		AND date <= $3
	ORDER BY date
	`

	rows, err := s.db.Query(ctx, query, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch monthly logs: %w", err)
	}
	defer rows.Close()

	var logs []*sadhana.Log
	for rows.Next() {
		entry := &sadhana.Log{}
		err := rows.Scan(
			&entry.UserID,
			&entry.Date,
			&entry.ChantingRounds,
			&entry.LectureDuration,
			&entry.TotalRead,
			&entry.MangalAarti,
			&entry.DarshanAarti,
			&entry.BhogaAarti,
			&entry.GauraAarti,
			&entry.WakeUpTime,
			&entry.SleepTime,
			&entry.MissedNote,
			&entry.LoggedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan log: %w", err)
		}
		logs = append(logs, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if logs == nil {
		logs = []*sadhana.Log{}
	}

	goals := user.Goals{}
	summary := user.StreakSummary{}
	err = s.db.QueryRow(ctx, `
	SELECT rounds_goal, reading_goal, hearing_goal, aartis_goal, current_streak, highest_streak, last_sadhana_date
	FROM users
	WHERE id = $1
	`, userID).Scan(
		&goals.RoundsGoal,
		&goals.ReadingGoal,
		&goals.HearingGoal,
		&goals.AartisGoal,
		&summary.CurrentStreak,
		&summary.HighestStreak,
		&summary.LastSadhanaDate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch goals: %w", err)
	}

	return &sadhana.MonthlyResponse{
		Logs:   logs,
		Goals:  goals,
		Streak: summary,
		Year:   year,
		Month:  month,
	}, nil
}

// GetCalendar classifies every day of the month against the current
// goal for one metric. Classification is recomputed from raw values on
// each call, so a goal change retroactively recolors history.
func (s *SadhanaService) GetCalendar(ctx context.Context, clerkID string, year, month int, metric sadhana.Metric, now time.Time) (*sadhana.CalendarResponse, error) {
	var userID uuid.UUID
	goals := user.Goals{}
	err := s.db.QueryRow(ctx, `
	SELECT id, rounds_goal, reading_goal, hearing_goal, aartis_goal
	FROM users
	WHERE clerk_id = $1
	`, clerkID).Scan(&userID, &goals.RoundsGoal, &goals.ReadingGoal, &goals.HearingGoal, &goals.AartisGoal)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	var goal int
	switch metric {
	case sadhana.MetricChanting:
		goal = goals.RoundsGoal
	case sadhana.MetricReading:
		goal = goals.ReadingGoal
	case sadhana.MetricHearing:
		goal = goals.HearingGoal
	case sadhana.MetricAartis:
		goal = goals.AartisGoal
	default:
		return nil, fmt.Errorf("unknown metric: %s", metric)
	}

	startDate := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	endDate := startDate.AddDate(0, 1, -1)

	query := `
	SELECT date, chanting_rounds, lecture_duration, total_read, mangal_aarti, darshan_aarti, bhoga_aarti, gaura_aarti, missed_note
	FROM sadhana_logs
	WHERE user_id = $1
		AND date >= $2
		AND date <= $3
	ORDER BY date
	`

	rows, err := s.db.Query(ctx, query, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar: %w", err)
	}
	defer rows.Close()

	type dayValues struct {
		value   int
		hasNote bool
		logged  bool
	}
	dayMap := make(map[string]dayValues)

	for rows.Next() {
		var date time.Time
		var rounds, lecture, totalRead int
		var mangal, darshan, bhoga, gaura bool
		var missedNote *string
		if err := rows.Scan(&date, &rounds, &lecture, &totalRead, &mangal, &darshan, &bhoga, &gaura, &missedNote); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		var value int
		switch metric {
		case sadhana.MetricChanting:
			value = rounds
		case sadhana.MetricReading:
			value = totalRead
		case sadhana.MetricHearing:
			value = lecture
		case sadhana.MetricAartis:
			value = streak.AartiCount(mangal, darshan, bhoga, gaura)
		}

		dayMap[date.Format("2006-01-02")] = dayValues{
			value:   value,
			hasNote: missedNote != nil,
			logged:  true,
		}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	today := streak.ToDayKey(now).String()

	var days []*sadhana.CalendarDay
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")
		values := dayMap[dateStr]

		level := streak.LevelNone
		if values.logged {
			level = streak.Classify(values.value, goal)
		}

		days = append(days, &sadhana.CalendarDay{
			Date:    d,
			Value:   values.value,
			Level:   level,
			IsToday: dateStr == today,
			HasNote: values.hasNote,
		})
	}

	log.Printf("GetCalendar: %s %d-%02d metric=%s goal=%d days=%d", clerkID, year, month, metric, goal, len(days))

	return &sadhana.CalendarResponse{
		Year:   year,
		Month:  month,
		Metric: metric,
		Goal:   goal,
		Days:   days,
	}, nil
}
