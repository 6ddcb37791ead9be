package notification

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationStreakMilestone NotificationType = "streak_milestone"
	NotificationStreakReset     NotificationType = "streak_reset"
	NotificationBookCompleted   NotificationType = "book_completed"
)

type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"isRead"`
	Data      map[string]any   `json:"data"`
	CreatedAt time.Time        `json:"createdAt"`
}

type CreateNotificationRequest struct {
	UserID  uuid.UUID        `json:"userId"`
	Type    NotificationType `json:"type"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Data    map[string]any   `json:"data"`
}

type DeviceToken struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

type RegisterDeviceRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

type ListResponse struct {
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int             `json:"unreadCount"`
}

// StreakMilestones are the streak lengths worth celebrating. 108 is the
// count of a full japa mala.
var StreakMilestones = []int{7, 30, 108}

// CrossedMilestone returns the milestone reached when a streak moves
// from prev to next, or 0 when none was crossed.
func CrossedMilestone(prev, next int) int {
	for _, m := range StreakMilestones {
		if prev < m && next >= m {
			return m
		}
	}
	return 0
}
