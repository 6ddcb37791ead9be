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

	"sadhanaAPI/internal/user"
)

type UserService struct {
	db *pgxpool.Pool
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

func (s *UserService) CreateUser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	u := &user.User{
		ID:        uuid.New(),
		ClerkID:   req.ClerkID,
		Email:     req.Email,
		Username:  req.Username,
		Name:      req.Name,
		ImageURL:  req.ImageURL,
		Role:      "SADHAK",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	query := `
	INSERT INTO users (id, clerk_id, email, username, name, image_url, role, rounds_goal, reading_goal, hearing_goal, aartis_goal, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING id, clerk_id, email, username, name, image_url, role, is_initiated, created_at, updated_at
	`

	err := s.db.QueryRow(
		ctx,
		query,
		u.ID,
		u.ClerkID,
		u.Email,
		u.Username,
		u.Name,
		u.ImageURL,
		u.Role,
		user.DefaultRoundsGoal,
		user.DefaultReadingGoal,
		user.DefaultHearingGoal,
		0,
		u.CreatedAt,
		u.UpdatedAt,
	).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Username,
		&u.Name,
		&u.ImageURL,
		&u.Role,
		&u.IsInitiated,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

func (s *UserService) GetUserByClerkID(ctx context.Context, clerkID string) (*user.User, error) {
	query := `
	SELECT id, clerk_id, email, username, name, image_url, phone_number, temple_name, is_initiated, bhakti_start_date, role, created_at, updated_at
	FROM users
	WHERE clerk_id = $1
	`

	u := &user.User{}
	err := s.db.QueryRow(ctx, query, clerkID).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Username,
		&u.Name,
		&u.ImageURL,
		&u.PhoneNumber,
		&u.TempleName,
		&u.IsInitiated,
		&u.BhaktiStartDate,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

func (s *UserService) UpdateProfileByClerkID(ctx context.Context, clerkID string, req *user.UpdateProfileRequest) (*user.User, error) {
	query := `
	UPDATE users
	SET
		name = COALESCE(NULLIF($2, ''), name),
		image_url = COALESCE(NULLIF($3, ''), image_url),
		phone_number = COALESCE($4, phone_number),
		temple_name = COALESCE($5, temple_name),
		is_initiated = COALESCE($6, is_initiated),
		bhakti_start_date = COALESCE($7::date, bhakti_start_date),
		updated_at = NOW()
	WHERE clerk_id = $1
	RETURNING id, clerk_id, email, username, name, image_url, phone_number, temple_name, is_initiated, bhakti_start_date, role, created_at, updated_at
	`

	u := &user.User{}
	err := s.db.QueryRow(
		ctx,
		query,
		clerkID,
		req.Name,
		req.ImageURL,
		req.PhoneNumber,
		req.TempleName,
		req.IsInitiated,
		req.BhaktiStartDate,
	).Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Username,
		&u.Name,
		&u.ImageURL,
		&u.PhoneNumber,
		&u.TempleName,
		&u.IsInitiated,
		&u.BhaktiStartDate,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

func (s *UserService) GetGoals(ctx context.Context, clerkID string) (*user.Goals, error) {
	query := `
	SELECT rounds_goal, reading_goal, hearing_goal, aartis_goal
	FROM users
	WHERE clerk_id = $1
	`

	goals := &user.Goals{}
	err := s.db.QueryRow(ctx, query, clerkID).Scan(
		&goals.RoundsGoal,
		&goals.ReadingGoal,
		&goals.HearingGoal,
		&goals.AartisGoal,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get goals: %w", err)
	}

	return goals, nil
}

func (s *UserService) UpdateGoals(ctx context.Context, clerkID string, req *user.UpdateGoalsRequest) (*user.Goals, error) {
	if req.RoundsGoal != nil && (*req.RoundsGoal < 1 || *req.RoundsGoal > 108) {
		return nil, fmt.Errorf("rounds goal must be between 1 and 108")
	}
	if req.HearingGoal != nil && (*req.HearingGoal < 0 || *req.HearingGoal > 1440) {
		return nil, fmt.Errorf("hearing goal must be between 0 and 1440 minutes")
	}
	if req.ReadingGoal != nil && (*req.ReadingGoal < 0 || *req.ReadingGoal > 1000) {
		return nil, fmt.Errorf("reading goal must be between 0 and 1000")
	}
	// At most 4 aartis exist in a day.
	if req.AartisGoal != nil && (*req.AartisGoal < 0 || *req.AartisGoal > 4) {
		return nil, fmt.Errorf("aartis goal must be between 0 and 4")
	}

	query := `
	UPDATE users
	SET
		rounds_goal = COALESCE($2, rounds_goal),
		reading_goal = COALESCE($3, reading_goal),
		hearing_goal = COALESCE($4, hearing_goal),
		aartis_goal = COALESCE($5, aartis_goal),
		updated_at = NOW()
	WHERE clerk_id = $1
	RETURNING rounds_goal, reading_goal, hearing_goal, aartis_goal
	`

	goals := &user.Goals{}
	err := s.db.QueryRow(ctx, query, clerkID, req.RoundsGoal, req.ReadingGoal, req.HearingGoal, req.AartisGoal).Scan(
		&goals.RoundsGoal,
		&goals.ReadingGoal,
		&goals.HearingGoal,
		&goals.AartisGoal,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to update goals: %w", err)
	}

	return goals, nil
}

func (s *UserService) GetStreakSummary(ctx context.Context, clerkID string) (*user.StreakSummary, error) {
	query := `
	SELECT current_streak, highest_streak, last_sadhana_date
	FROM users
	WHERE clerk_id = $1
	`

	summary := &user.StreakSummary{}
	err := s.db.QueryRow(ctx, query, clerkID).Scan(
		&summary.CurrentStreak,
		&summary.HighestStreak,
		&summary.LastSadhanaDate,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user not found")
		}
		return nil, fmt.Errorf("failed to get streak summary: %w", err)
	}

	return summary, nil
}

func (s *UserService) DeleteUserByClerkID(ctx context.Context, clerkID string) error {
	query := `DELETE FROM users WHERE clerk_id = $1`

	result, err := s.db.Exec(ctx, query, clerkID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found")
	}

	log.Printf("DeleteUser: removed account for clerk_id %s", clerkID)
	return nil
}
