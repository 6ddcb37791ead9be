package sadhana

import (
	"time"

	"github.com/google/uuid"

	"sadhanaAPI/internal/streak"
	"sadhanaAPI/internal/user"
)

// Log is one practitioner's devotional record for a single calendar day.
// WakeUpTime and SleepTime carry no goal or streak semantics, they feed
// the raw sleep-cycle chart only.
type Log struct {
	UserID          uuid.UUID  `json:"userId"`
	Date            time.Time  `json:"date"`
	ChantingRounds  int        `json:"chantingRounds"`
	LectureDuration int        `json:"lectureDuration"`
	TotalRead       int        `json:"totalRead"`
	MangalAarti     bool       `json:"mangalAarti"`
	DarshanAarti    bool       `json:"darshanAarti"`
	BhogaAarti      bool       `json:"bhogaAarti"`
	GauraAarti      bool       `json:"gauraAarti"`
	WakeUpTime      *time.Time `json:"wakeUpTime,omitempty"`
	SleepTime       *time.Time `json:"sleepTime,omitempty"`
	MissedNote      *string    `json:"missedNote,omitempty"`
	LoggedAt        time.Time  `json:"loggedAt"`
}

type UpsertRequest struct {
	Date            time.Time  `json:"date"`
	ChantingRounds  int        `json:"chantingRounds"`
	LectureDuration int        `json:"lectureDuration"`
	MangalAarti     bool       `json:"mangalAarti"`
	DarshanAarti    bool       `json:"darshanAarti"`
	BhogaAarti      bool       `json:"bhogaAarti"`
	GauraAarti      bool       `json:"gauraAarti"`
	WakeUpTime      *time.Time `json:"wakeUpTime"`
	SleepTime       *time.Time `json:"sleepTime"`
	MissedNote      string     `json:"missedNote"`
}

// HasActivity is the daily-sadhana stream's positive-progress predicate:
// any non-trivial field on the day's entry keeps the streak alive.
func (r *UpsertRequest) HasActivity() bool {
	return r.ChantingRounds > 0 ||
		r.LectureDuration > 0 ||
		r.MangalAarti || r.DarshanAarti || r.BhogaAarti || r.GauraAarti
}

type DailyResponse struct {
	Log        *Log `json:"log"`
	RoundsGoal int  `json:"roundsGoal"`
}

type MonthlyResponse struct {
	Logs    []*Log             `json:"logs"`
	Goals   user.Goals         `json:"goals"`
	Streak  user.StreakSummary `json:"streak"`
	Year    int                `json:"year"`
	Month   int                `json:"month"`
}

// Metric names one of the goal-tracked views of the daily log.
type Metric string

const (
	MetricChanting Metric = "chanting"
	MetricReading  Metric = "reading"
	MetricHearing  Metric = "hearing"
	MetricAartis   Metric = "aartis"
)

type CalendarDay struct {
	Date    time.Time    `json:"date"`
	Value   int          `json:"value"`
	Level   streak.Level `json:"level"`
	IsToday bool         `json:"isToday"`
	HasNote bool         `json:"hasNote"`
}

type CalendarResponse struct {
	Year   int            `json:"year"`
	Month  int            `json:"month"`
	Metric Metric         `json:"metric"`
	Goal   int            `json:"goal"`
	Days   []*CalendarDay `json:"days"`
}
