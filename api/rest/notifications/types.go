package notifications

import (
	"context"

	"codeberg.org/metastamp/server/internal/notifications"
)

// is the slice of the notification service the handlers use
type Store interface {
	ListForCreator(ctx context.Context, creatorID string, limit int, unreadOnly bool) ([]notifications.Notification, error)
	MarkRead(ctx context.Context, creatorID, notificationID string) error
	MarkAllRead(ctx context.Context, creatorID string) error
	UnreadCount(ctx context.Context, creatorID string) (int, error)
}

type ListResponse struct {
	Notifications []notifications.Notification `json:"notifications"`
	UnreadCount   int                          `json:"unread_count"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}
