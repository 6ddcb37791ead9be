package utils

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"sadhanaAPI/internal/notification"
)

// NotificationCreator is the one method the milestone trigger needs
// from the notification service.
type NotificationCreator interface {
	CreateNotification(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error)
}

var streamLabels = map[string]string{
	"sadhana":   "daily sadhana",
	"book":      "reading",
	"challenge": "shloka memorization",
}

// StreakMilestoneReached fires a celebration notification when a streak
// transition crosses one of the milestone lengths. Runs best-effort in
// the background; a failure never surfaces to the logging request.
func StreakMilestoneReached(notifier NotificationCreator, userID uuid.UUID, stream string, prevStreak, newStreak int) {
	if notifier == nil {
		return
	}

	milestone := notification.CrossedMilestone(prevStreak, newStreak)
	if milestone == 0 {
		return
	}

	label := streamLabels[stream]
	if label == "" {
		label = stream
	}

	req := &notification.CreateNotificationRequest{
		UserID:  userID,
		Type:    notification.NotificationStreakMilestone,
		Title:   fmt.Sprintf("%d-day streak!", milestone),
		Message: fmt.Sprintf("You have kept your %s going for %d days in a row. Keep it up!", label, milestone),
		Data: map[string]any{
			"stream":    stream,
			"milestone": milestone,
			"streak":    newStreak,
		},
	}

	if _, err := notifier.CreateNotification(context.Background(), req); err != nil {
		log.Printf("Failed to create milestone notification for user %s: %v", userID, err)
	}
}
