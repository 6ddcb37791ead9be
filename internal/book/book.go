package book

import (
	"time"

	"github.com/google/uuid"
)

// ProgressType is the unit a book is tracked in.
type ProgressType string

const (
	TypePages    ProgressType = "PAGES"
	TypeChapters ProgressType = "CHAPTERS"
)

type Book struct {
	ID        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Author    string     `json:"author"`
	OwnerID   *uuid.UUID `json:"ownerId,omitempty"` // nil for the global catalog
	CreatedAt time.Time  `json:"createdAt"`
}

// Progress is one user's reading state for one book. Each progress row
// is its own streak stream.
type Progress struct {
	ID            uuid.UUID    `json:"id"`
	UserID        uuid.UUID    `json:"userId"`
	BookID        uuid.UUID    `json:"bookId"`
	Title         string       `json:"title"`
	Author        string       `json:"author"`
	Type          ProgressType `json:"type"`
	TotalUnits    int          `json:"total"`
	CurrentValue  int          `json:"current"`
	CurrentStreak int          `json:"currentStreak"`
	HighestStreak int          `json:"highestStreak"`
	LastReadDate  *time.Time   `json:"lastReadDate,omitempty"`
	IsCompleted   bool         `json:"isCompleted"`
	IsPrivate     bool         `json:"isPrivate"`
}

type CatalogEntry struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	Author  string    `json:"author"`
	IsAdded bool      `json:"isAdded"`
}

type LibraryResponse struct {
	Catalog []*CatalogEntry `json:"catalog"`
	Shelf   []*Progress     `json:"shelf"`
}

type AddToShelfRequest struct {
	BookID     uuid.UUID    `json:"bookId"`
	TotalUnits int          `json:"totalUnits"`
	Type       ProgressType `json:"type"`
}

type AddPrivateBookRequest struct {
	Title      string       `json:"title"`
	Author     string       `json:"author"`
	TotalUnits int          `json:"totalUnits"`
	Type       ProgressType `json:"type"`
}

// UpdateProgressRequest moves a shelf item by Delta units. Negative
// deltas correct over-logging and never touch the streak.
type UpdateProgressRequest struct {
	ProgressID uuid.UUID `json:"progressId"`
	Delta      int       `json:"delta"`
}
