package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sadhanaAPI/internal/book"
	"sadhanaAPI/internal/streak"
	"sadhanaAPI/middleware"
	"sadhanaAPI/utils"
)

type BookService struct {
	db       *pgxpool.Pool
	notifier utils.NotificationCreator
}

func NewBookService(db *pgxpool.Pool, notifier utils.NotificationCreator) *BookService {
	return &BookService{db: db, notifier: notifier}
}

// GetLibrary returns the global catalog plus the user's shelf.
func (s *BookService) GetLibrary(ctx context.Context, clerkID string) (*book.LibraryResponse, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	catalogQuery := `
	SELECT b.id, b.title, b.author,
		EXISTS(SELECT 1 FROM book_progress bp WHERE bp.book_id = b.id AND bp.user_id = $1) as is_added
	FROM books b
	WHERE b.owner_id IS NULL
	ORDER BY b.title
	`

	rows, err := s.db.Query(ctx, catalogQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer rows.Close()

	var catalog []*book.CatalogEntry
	for rows.Next() {
		entry := &book.CatalogEntry{}
		if err := rows.Scan(&entry.ID, &entry.Title, &entry.Author, &entry.IsAdded); err != nil {
			return nil, fmt.Errorf("failed to scan catalog entry: %w", err)
		}
		catalog = append(catalog, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	shelfQuery := `
	SELECT bp.id, bp.user_id, bp.book_id, b.title, b.author, bp.type, bp.total_units, bp.current_value,
		bp.current_streak, bp.highest_streak, bp.last_read_date, bp.is_completed,
		(b.owner_id IS NOT NULL) as is_private
	FROM book_progress bp
	INNER JOIN books b ON b.id = bp.book_id
	WHERE bp.user_id = $1
	ORDER BY b.title
	`

	shelfRows, err := s.db.Query(ctx, shelfQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shelf: %w", err)
	}
	defer shelfRows.Close()

	var shelf []*book.Progress
	for shelfRows.Next() {
		p := &book.Progress{}
		err := shelfRows.Scan(
			&p.ID,
			&p.UserID,
			&p.BookID,
			&p.Title,
			&p.Author,
			&p.Type,
			&p.TotalUnits,
			&p.CurrentValue,
			&p.CurrentStreak,
			&p.HighestStreak,
			&p.LastReadDate,
			&p.IsCompleted,
			&p.IsPrivate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shelf entry: %w", err)
		}
		shelf = append(shelf, p)
	}
	if err = shelfRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if catalog == nil {
		catalog = []*book.CatalogEntry{}
	}
	if shelf == nil {
		shelf = []*book.Progress{}
	}

	return &book.LibraryResponse{Catalog: catalog, Shelf: shelf}, nil
}

func (s *BookService) AddToShelf(ctx context.Context, clerkID string, req *book.AddToShelfRequest) (*book.Progress, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	if req.TotalUnits <= 0 {
		return nil, fmt.Errorf("total units must be positive")
	}

	query := `
	INSERT INTO book_progress (id, user_id, book_id, type, total_units, current_value, current_streak, highest_streak)
	VALUES ($1, $2, $3, $4, $5, 0, 0, 0)
	RETURNING id, user_id, book_id, type, total_units, current_value, current_streak, highest_streak, last_read_date, is_completed
	`

	p := &book.Progress{}
	err = s.db.QueryRow(ctx, query, uuid.New(), userID, req.BookID, req.Type, req.TotalUnits).Scan(
		&p.ID,
		&p.UserID,
		&p.BookID,
		&p.Type,
		&p.TotalUnits,
		&p.CurrentValue,
		&p.CurrentStreak,
		&p.HighestStreak,
		&p.LastReadDate,
		&p.IsCompleted,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, fmt.Errorf("book is already on your shelf")
		}
		return nil, fmt.Errorf("failed to add book to shelf: %w", err)
	}

	err = s.db.QueryRow(ctx, `SELECT title, author FROM books WHERE id = $1`, p.BookID).Scan(&p.Title, &p.Author)
	if err != nil {
		return nil, fmt.Errorf("book not found: %w", err)
	}

	return p, nil
}

// AddPrivateBook creates a book visible only to its owner together with
// its progress entry.
func (s *BookService) AddPrivateBook(ctx context.Context, clerkID string, req *book.AddPrivateBookRequest) (*book.Progress, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	if req.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if req.TotalUnits <= 0 {
		return nil, fmt.Errorf("total units must be positive")
	}

	author := req.Author
	if author == "" {
		author = "Unknown Author"
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	bookID := uuid.New()
	_, err = tx.Exec(ctx, `
	INSERT INTO books (id, title, author, owner_id, created_at)
	VALUES ($1, $2, $3, $4, NOW())
	`, bookID, req.Title, author, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create private book: %w", err)
	}

	p := &book.Progress{Title: req.Title, Author: author, IsPrivate: true}
	err = tx.QueryRow(ctx, `
	INSERT INTO book_progress (id, user_id, book_id, type, total_units, current_value, current_streak, highest_streak)
	VALUES ($1, $2, $3, $4, $5, 0, 0, 0)
	RETURNING id, user_id, book_id, type, total_units, current_value, current_streak, highest_streak, last_read_date, is_completed
	`, uuid.New(), userID, bookID, req.Type, req.TotalUnits).Scan(
		&p.ID,
		&p.UserID,
		&p.BookID,
		&p.Type,
		&p.TotalUnits,
		&p.CurrentValue,
		&p.CurrentStreak,
		&p.HighestStreak,
		&p.LastReadDate,
		&p.IsCompleted,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create progress entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit private book: %w", err)
	}

	return p, nil
}

// UpdateProgress moves a shelf item by delta units and, on a positive
// delta for the current day, advances the per-book streak. The value is
// clamped to [0, total]; the day's total_read aggregate on the sadhana
// log moves with it.
func (s *BookService) UpdateProgress(ctx context.Context, clerkID string, req *book.UpdateProgressRequest, now time.Time) (*book.Progress, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	today := streak.ToDayKey(now)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	p := &book.Progress{}
	var state streak.State
	var lastRead *time.Time
	err = tx.QueryRow(ctx, `
	SELECT id, user_id, book_id, type, total_units, current_value, current_streak, highest_streak, last_read_date
	FROM book_progress
	WHERE id = $1 AND user_id = $2
	FOR UPDATE
	`, req.ProgressID, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.BookID,
		&p.Type,
		&p.TotalUnits,
		&p.CurrentValue,
		&state.Current,
		&state.Highest,
		&lastRead,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("progress record not found")
		}
		return nil, fmt.Errorf("failed to read progress: %w", err)
	}
	if lastRead != nil {
		d := streak.ToDayKey(*lastRead)
		state.LastDay = &d
	}

	next := streak.Advance(state, streak.Event{
		Day:      today,
		Today:    today,
		Positive: req.Delta > 0,
	})

	nextValue := p.CurrentValue + req.Delta
	if nextValue < 0 {
		nextValue = 0
	}
	if nextValue > p.TotalUnits {
		nextValue = p.TotalUnits
	}
	appliedDelta := nextValue - p.CurrentValue
	wasCompleted := p.IsCompleted

	lastReadDate := lastRead
	if req.Delta > 0 {
		t := today.Time()
		lastReadDate = &t
	}

	err = tx.QueryRow(ctx, `
	UPDATE book_progress
	SET current_value = $2, current_streak = $3, highest_streak = $4, last_read_date = $5, is_completed = $6
	WHERE id = $1
	RETURNING current_value, current_streak, highest_streak, last_read_date, is_completed
	`, p.ID, nextValue, next.Current, next.Highest, lastReadDate, nextValue >= p.TotalUnits).Scan(
		&p.CurrentValue,
		&p.CurrentStreak,
		&p.HighestStreak,
		&p.LastReadDate,
		&p.IsCompleted,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	// Keep the day's reading aggregate on the sadhana log in sync so
	// the dashboard counts pages across all books.
	if appliedDelta != 0 {
		_, err = tx.Exec(ctx, `
		INSERT INTO sadhana_logs (user_id, date, total_read, logged_at)
		VALUES ($1, $2, GREATEST($3, 0), NOW())
		ON CONFLICT (user_id, date)
		DO UPDATE SET total_read = GREATEST(sadhana_logs.total_read + $3, 0), logged_at = NOW()
		`, userID, today.Time(), appliedDelta)
		if err != nil {
			return nil, fmt.Errorf("failed to update reading aggregate: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit progress update: %w", err)
	}

	err = s.db.QueryRow(ctx, `SELECT title, author, (owner_id IS NOT NULL) FROM books WHERE id = $1`, p.BookID).Scan(&p.Title, &p.Author, &p.IsPrivate)
	if err != nil {
		return nil, fmt.Errorf("book not found: %w", err)
	}

	if next.Current != state.Current {
		middleware.RecordStreakAdvance("book")
		go utils.StreakMilestoneReached(s.notifier, userID, "book", state.Current, next.Current)
	}
	if p.IsCompleted && !wasCompleted {
		log.Printf("UpdateProgress: user %s completed book %s", userID, p.BookID)
	}

	return p, nil
}

// ResetProgress zeroes the reading position. Streaks stay untouched,
// re-reading a book should not erase consistency history.
func (s *BookService) ResetProgress(ctx context.Context, clerkID string, progressID uuid.UUID) (*book.Progress, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	query := `
	UPDATE book_progress
	SET current_value = 0, is_completed = false
	WHERE id = $1 AND user_id = $2
	RETURNING id, user_id, book_id, type, total_units, current_value, current_streak, highest_streak, last_read_date, is_completed
	`

	p := &book.Progress{}
	err = s.db.QueryRow(ctx, query, progressID, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.BookID,
		&p.Type,
		&p.TotalUnits,
		&p.CurrentValue,
		&p.CurrentStreak,
		&p.HighestStreak,
		&p.LastReadDate,
		&p.IsCompleted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("progress record not found")
		}
		return nil, fmt.Errorf("failed to reset progress: %w", err)
	}

	return p, nil
}

// DeleteBook removes a book from the user's shelf. A private book is
// deleted outright together with its progress; for a catalog book only
// the user's progress connection goes away.
func (s *BookService) DeleteBook(ctx context.Context, clerkID string, bookID uuid.UUID) error {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	var ownerID *uuid.UUID
	err = s.db.QueryRow(ctx, `SELECT owner_id FROM books WHERE id = $1`, bookID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("book not found")
		}
		return fmt.Errorf("failed to look up book: %w", err)
	}

	if ownerID != nil && *ownerID == userID {
		tx, err := s.db.Begin(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback(ctx)

		if _, err := tx.Exec(ctx, `DELETE FROM book_progress WHERE book_id = $1 AND user_id = $2`, bookID, userID); err != nil {
			return fmt.Errorf("failed to delete progress: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM books WHERE id = $1`, bookID); err != nil {
			return fmt.Errorf("failed to delete private book: %w", err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit deletion: %w", err)
		}
		return nil
	}

	result, err := s.db.Exec(ctx, `DELETE FROM book_progress WHERE book_id = $1 AND user_id = $2`, bookID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove book from shelf: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("book is not on your shelf")
	}

	return nil
}
