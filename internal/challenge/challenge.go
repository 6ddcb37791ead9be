package challenge

import (
	"time"

	"github.com/google/uuid"
)

// ShlokaStatus is the memorization stage of one verse.
type ShlokaStatus string

const (
	StatusNotStarted     ShlokaStatus = "NOT_STARTED"
	StatusLearning       ShlokaStatus = "LEARNING"
	StatusRevisionNeeded ShlokaStatus = "REVISION_NEEDED"
	StatusLearned        ShlokaStatus = "LEARNED"
)

func (s ShlokaStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusLearning, StatusRevisionNeeded, StatusLearned:
		return true
	}
	return false
}

// IsTerminal reports whether reaching this status counts as positive
// progress for the challenge's streak. Only a transition to LEARNED
// does; moving a verse back to revision never decrements anything.
func (s ShlokaStatus) IsTerminal() bool {
	return s == StatusLearned
}

type Shloka struct {
	ID          uuid.UUID    `json:"id"`
	ChallengeID uuid.UUID    `json:"challengeId"`
	Reference   string       `json:"reference"`
	Content     string       `json:"content"`
	Translation string       `json:"translation"`
	Status      ShlokaStatus `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Challenge groups the shlokas a user is memorizing. Each challenge is
// its own streak stream keyed by last_activity.
type Challenge struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"userId"`
	Title         string     `json:"title"`
	CurrentStreak int        `json:"currentStreak"`
	HighestStreak int        `json:"highestStreak"`
	LastActivity  *time.Time `json:"lastActivity,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	Shlokas       []*Shloka  `json:"shlokas"`
}

type CreateChallengeRequest struct {
	Title string `json:"title"`
}

type AddShlokaRequest struct {
	ChallengeID uuid.UUID `json:"challengeId"`
	Reference   string    `json:"reference"`
	Content     string    `json:"content"`
	Translation string    `json:"translation"`
}

type UpdateShlokaStatusRequest struct {
	ShlokaID uuid.UUID    `json:"shlokaId"`
	Status   ShlokaStatus `json:"status"`
}
