package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sadhanaAPI/internal/challenge"
	"sadhanaAPI/internal/streak"
	"sadhanaAPI/middleware"
	"sadhanaAPI/utils"
)

type ChallengeService struct {
	db       *pgxpool.Pool
	notifier utils.NotificationCreator
}

func NewChallengeService(db *pgxpool.Pool, notifier utils.NotificationCreator) *ChallengeService {
	return &ChallengeService{db: db, notifier: notifier}
}

func (s *ChallengeService) GetChallenges(ctx context.Context, clerkID string) ([]*challenge.Challenge, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	query := `
	SELECT id, user_id, title, current_streak, highest_streak, last_activity, created_at
	FROM challenges
	WHERE user_id = $1
	ORDER BY last_activity DESC NULLS LAST, created_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch challenges: %w", err)
	}
	defer rows.Close()

	var challenges []*challenge.Challenge
	byID := make(map[uuid.UUID]*challenge.Challenge)
	for rows.Next() {
		c := &challenge.Challenge{Shlokas: []*challenge.Shloka{}}
		err := rows.Scan(
			&c.ID,
			&c.UserID,
			&c.Title,
			&c.CurrentStreak,
			&c.HighestStreak,
			&c.LastActivity,
			&c.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge: %w", err)
		}
		challenges = append(challenges, c)
		byID[c.ID] = c
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if challenges == nil {
		return []*challenge.Challenge{}, nil
	}

	shlokaQuery := `
	SELECT s.id, s.challenge_id, s.reference, s.content, s.translation, s.status, s.created_at
	FROM shlokas s
	INNER JOIN challenges c ON c.id = s.challenge_id
	WHERE c.user_id = $1
	ORDER BY s.created_at
	`

	shlokaRows, err := s.db.Query(ctx, shlokaQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shlokas: %w", err)
	}
	defer shlokaRows.Close()

	for shlokaRows.Next() {
		sh := &challenge.Shloka{}
		err := shlokaRows.Scan(
			&sh.ID,
			&sh.ChallengeID,
			&sh.Reference,
			&sh.Content,
			&sh.Translation,
			&sh.Status,
			&sh.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shloka: %w", err)
		}
		if c, ok := byID[sh.ChallengeID]; ok {
			c.Shlokas = append(c.Shlokas, sh)
		}
	}
	if err = shlokaRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return challenges, nil
}

func (s *ChallengeService) CreateChallenge(ctx context.Context, clerkID string, req *challenge.CreateChallengeRequest) (*challenge.Challenge, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	if req.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	query := `
	INSERT INTO challenges (id, user_id, title, current_streak, highest_streak, created_at)
	VALUES ($1, $2, $3, 0, 0, NOW())
	RETURNING id, user_id, title, current_streak, highest_streak, last_activity, created_at
	`

	c := &challenge.Challenge{Shlokas: []*challenge.Shloka{}}
	err = s.db.QueryRow(ctx, query, uuid.New(), userID, req.Title).Scan(
		&c.ID,
		&c.UserID,
		&c.Title,
		&c.CurrentStreak,
		&c.HighestStreak,
		&c.LastActivity,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create challenge: %w", err)
	}

	return c, nil
}

// AddShloka attaches a verse to a challenge. Adding material is not
// memorization progress, so the streak columns stay untouched.
func (s *ChallengeService) AddShloka(ctx context.Context, clerkID string, req *challenge.AddShlokaRequest) (*challenge.Shloka, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	var ownerID uuid.UUID
	err = s.db.QueryRow(ctx, `SELECT user_id FROM challenges WHERE id = $1`, req.ChallengeID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("challenge not found")
		}
		return nil, fmt.Errorf("failed to look up challenge: %w", err)
	}
	if ownerID != userID {
		return nil, fmt.Errorf("challenge not found")
	}

	if req.Reference == "" || req.Content == "" {
		return nil, fmt.Errorf("reference and content are required")
	}

	query := `
	INSERT INTO shlokas (id, challenge_id, reference, content, translation, status, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW())
	RETURNING id, challenge_id, reference, content, translation, status, created_at
	`

	sh := &challenge.Shloka{}
	err = s.db.QueryRow(ctx, query, uuid.New(), req.ChallengeID, req.Reference, req.Content, req.Translation, challenge.StatusNotStarted).Scan(
		&sh.ID,
		&sh.ChallengeID,
		&sh.Reference,
		&sh.Content,
		&sh.Translation,
		&sh.Status,
		&sh.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add shloka: %w", err)
	}

	return sh, nil
}

// UpdateShlokaStatus moves a verse through the memorization stages. A
// transition into LEARNED is the challenge stream's positive-progress
// event and advances its streak; every other transition only updates
// the verse.
func (s *ChallengeService) UpdateShlokaStatus(ctx context.Context, clerkID string, req *challenge.UpdateShlokaStatusRequest, now time.Time) error {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	if !req.Status.Valid() {
		return fmt.Errorf("invalid shloka status: %s", req.Status)
	}

	today := streak.ToDayKey(now)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var challengeID uuid.UUID
	var prevStatus challenge.ShlokaStatus
	err = tx.QueryRow(ctx, `
	SELECT s.challenge_id, s.status
	FROM shlokas s
	INNER JOIN challenges c ON c.id = s.challenge_id
	WHERE s.id = $1 AND c.user_id = $2
	`, req.ShlokaID, userID).Scan(&challengeID, &prevStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("shloka not found")
		}
		return fmt.Errorf("failed to look up shloka: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE shlokas SET status = $2 WHERE id = $1`, req.ShlokaID, req.Status); err != nil {
		return fmt.Errorf("failed to update shloka status: %w", err)
	}

	// Re-marking an already learned verse is not new progress.
	positive := req.Status.IsTerminal() && !prevStatus.IsTerminal()

	var state streak.State
	var lastActivity *time.Time
	err = tx.QueryRow(ctx, `
	SELECT current_streak, highest_streak, last_activity
	FROM challenges
	WHERE id = $1
	FOR UPDATE
	`, challengeID).Scan(&state.Current, &state.Highest, &lastActivity)
	if err != nil {
		return fmt.Errorf("failed to read challenge streak: %w", err)
	}
	if lastActivity != nil {
		d := streak.ToDayKey(*lastActivity)
		state.LastDay = &d
	}

	next := streak.Advance(state, streak.Event{
		Day:      today,
		Today:    today,
		Positive: positive,
	})

	if !next.Equal(state) {
		_, err = tx.Exec(ctx, `
		UPDATE challenges
		SET current_streak = $2, highest_streak = $3, last_activity = $4
		WHERE id = $1
		`, challengeID, next.Current, next.Highest, next.LastDay.Time())
		if err != nil {
			return fmt.Errorf("failed to update challenge streak: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit status update: %w", err)
	}

	if next.Current != state.Current {
		middleware.RecordStreakAdvance("challenge")
		go utils.StreakMilestoneReached(s.notifier, userID, "challenge", state.Current, next.Current)
	}

	return nil
}

func (s *ChallengeService) DeleteShloka(ctx context.Context, clerkID string, shlokaID uuid.UUID) error {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	query := `
	DELETE FROM shlokas s
	USING challenges c
	WHERE s.id = $1 AND s.challenge_id = c.id AND c.user_id = $2
	`

	result, err := s.db.Exec(ctx, query, shlokaID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete shloka: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("shloka not found")
	}

	return nil
}

// DeleteChallenge removes a challenge, its shlokas and its streak
// stream.
func (s *ChallengeService) DeleteChallenge(ctx context.Context, clerkID string, challengeID uuid.UUID) error {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
	DELETE FROM shlokas s
	USING challenges c
	WHERE s.challenge_id = c.id AND c.id = $1 AND c.user_id = $2
	`, challengeID, userID); err != nil {
		return fmt.Errorf("failed to delete shlokas: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM challenges WHERE id = $1 AND user_id = $2`, challengeID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("challenge not found")
	}

	return tx.Commit(ctx)
}
