package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sadhanaAPI/internal/notification"
)

// PushProvider delivers a notification to registered devices. FCM in
// production; nil disables push without disabling in-app notifications.
type PushProvider interface {
	SendPush(ctx context.Context, tokens []notification.DeviceToken, title, body string, data map[string]any) error
}

type NotificationService struct {
	db           *pgxpool.Pool
	pushProvider PushProvider
}

func NewNotificationService(db *pgxpool.Pool) *NotificationService {
	return &NotificationService{db: db}
}

func (s *NotificationService) SetPushProvider(p PushProvider) {
	s.pushProvider = p
}

// CreateNotification stores an in-app notification and pushes it to the
// user's devices in the background.
func (s *NotificationService) CreateNotification(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error) {
	dataJSON, _ := json.Marshal(req.Data)

	query := `
	INSERT INTO notifications (id, user_id, type, title, message, data, is_read, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, false, NOW())
	RETURNING id, user_id, type, title, message, data, is_read, created_at
	`

	notif := &notification.Notification{}
	var dataStr []byte
	err := s.db.QueryRow(ctx, query, uuid.New(), req.UserID, req.Type, req.Title, req.Message, dataJSON).Scan(
		&notif.ID,
		&notif.UserID,
		&notif.Type,
		&notif.Title,
		&notif.Message,
		&dataStr,
		&notif.IsRead,
		&notif.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	if err := json.Unmarshal(dataStr, &notif.Data); err != nil {
		log.Printf("Failed to decode notification data for %s: %v", notif.ID, err)
	}

	go s.dispatchPush(notif)

	return notif, nil
}

func (s *NotificationService) dispatchPush(notif *notification.Notification) {
	if s.pushProvider == nil {
		return
	}

	ctx := context.Background()

	tokens, err := s.getDeviceTokens(ctx, notif.UserID)
	if err != nil {
		log.Printf("Push dispatch: failed to get device tokens for %s: %v", notif.UserID, err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	if err := s.pushProvider.SendPush(ctx, tokens, notif.Title, notif.Message, notif.Data); err != nil {
		log.Printf("Push dispatch: failed to send push for %s: %v", notif.UserID, err)
	}
}

func (s *NotificationService) getDeviceTokens(ctx context.Context, userID uuid.UUID) ([]notification.DeviceToken, error) {
	rows, err := s.db.Query(ctx, `SELECT token, platform FROM device_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []notification.DeviceToken
	for rows.Next() {
		var t notification.DeviceToken
		if err := rows.Scan(&t.Token, &t.Platform); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

func (s *NotificationService) GetNotifications(ctx context.Context, clerkID string, limit int) (*notification.ListResponse, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `
	SELECT id, user_id, type, title, message, data, is_read, created_at
	FROM notifications
	WHERE user_id = $1
	ORDER BY created_at DESC
	LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*notification.Notification
	for rows.Next() {
		notif := &notification.Notification{}
		var dataStr []byte
		err := rows.Scan(
			&notif.ID,
			&notif.UserID,
			&notif.Type,
			&notif.Title,
			&notif.Message,
			&dataStr,
			&notif.IsRead,
			&notif.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		if err := json.Unmarshal(dataStr, &notif.Data); err != nil {
			log.Printf("Failed to decode notification data for %s: %v", notif.ID, err)
		}
		notifications = append(notifications, notif)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	if notifications == nil {
		notifications = []*notification.Notification{}
	}

	unread, err := s.countUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &notification.ListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
	}, nil
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, clerkID string) (int, error) {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return 0, fmt.Errorf("user not found: %w", err)
	}

	return s.countUnread(ctx, userID)
}

func (s *NotificationService) countUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, clerkID string, notificationID uuid.UUID) error {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	result, err := s.db.Exec(ctx, `
	UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2
	`, notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("notification not found")
	}

	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, clerkID string) error {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		return fmt.Errorf("user not found: %w", err)
	}

	_, err = s.db.Exec(ctx, `UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false`, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return nil
}

func (s *NotificationService) RegisterDevice(ctx context.Context, clerkID string, req *notification.RegisterDeviceRequest) error {
	var userID uuid.UUID
	err := s.db.QueryRow(ctx, `SELECT id FROM users WHERE clerk_id = $1`, clerkID).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("user not found")
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if req.Token == "" {
		return fmt.Errorf("token is required")
	}
	if req.Platform != "android" && req.Platform != "ios" && req.Platform != "web" {
		return fmt.Errorf("platform must be one of android, ios, web")
	}

	query := `
	INSERT INTO device_tokens (user_id, token, platform, created_at)
	VALUES ($1, $2, $3, NOW())
	ON CONFLICT (token)
	DO UPDATE SET user_id = $1, platform = $3
	`

	_, err = s.db.Exec(ctx, query, userID, req.Token, req.Platform)
	if err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}

	return nil
}
