package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID              uuid.UUID  `json:"id"`
	ClerkID         string     `json:"clerkId"`
	Email           string     `json:"email"`
	Username        string     `json:"username"`
	Name            string     `json:"name"`
	ImageURL        string     `json:"imageUrl,omitempty"`
	PhoneNumber     *string    `json:"phoneNumber,omitempty"`
	TempleName      *string    `json:"templeName,omitempty"`
	IsInitiated     bool       `json:"isInitiated"`
	BhaktiStartDate *time.Time `json:"bhaktiStartDate,omitempty"`
	Role            string     `json:"role"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// Goals are the per-metric daily targets a practitioner configures. The
// classifier consumes them read-only; they are not versioned, so editing
// a goal reclassifies past days on the next read.
type Goals struct {
	RoundsGoal  int `json:"roundsGoal"`
	ReadingGoal int `json:"readingGoal"`
	HearingGoal int `json:"hearingGoal"`
	AartisGoal  int `json:"aartisGoal"`
}

const (
	DefaultRoundsGoal  = 16
	DefaultReadingGoal = 30
	DefaultHearingGoal = 30
)

type CreateUserRequest struct {
	ClerkID  string `json:"clerkId"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

type UpdateProfileRequest struct {
	Name            string  `json:"name"`
	PhoneNumber     *string `json:"phoneNumber"`
	TempleName      *string `json:"templeName"`
	IsInitiated     *bool   `json:"isInitiated"`
	BhaktiStartDate *string `json:"bhaktiStartDate"`
	ImageURL        string  `json:"imageUrl"`
}

type UpdateGoalsRequest struct {
	RoundsGoal  *int `json:"roundsGoal"`
	ReadingGoal *int `json:"readingGoal"`
	HearingGoal *int `json:"hearingGoal"`
	AartisGoal  *int `json:"aartisGoal"`
}

// StreakSummary is the badge/header payload: the overall daily-sadhana
// streak for one user.
type StreakSummary struct {
	CurrentStreak   int        `json:"currentStreak"`
	HighestStreak   int        `json:"highestStreak"`
	LastSadhanaDate *time.Time `json:"lastSadhanaDate,omitempty"`
}
