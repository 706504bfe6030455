package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"codeberg.org/metastamp/server/metastamp/usage"
)

var ErrNotificationNotFound = errors.New("notification not found")

func New(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

// creates the notifications table if it doesn't exist
func (s *Service) Initialize(ctx context.Context) error {
	_, err := s.db.Exec(ctx, queryCreateTable)
	return err
}

func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Notification, error) {
	var dataJSON []byte

	if req.Data != nil {
		bytes, err := json.Marshal(req.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal notification data: %w", err)
		}

		dataJSON = bytes
	}

	return scanNotification(s.db.QueryRow(
		ctx,
		queryCreate,
		req.CreatorID,
		req.Type,
		req.Title,
		req.Body,
		req.Amount,
		dataJSON,
	))
}

func (s *Service) ListForCreator(ctx context.Context, creatorID string, limit int, unreadOnly bool) ([]Notification, error) {
	query := queryListForCreator
	if unreadOnly {
		query = queryListUnreadForCreator
	}

	rows, err := s.db.Query(ctx, query, creatorID, limit)
	if err != nil {
		return nil, err
	}

	defer rows.Close()
	notifications := []Notification{}

	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}

		notifications = append(notifications, *n)
	}

	return notifications, rows.Err()
}

func (s *Service) MarkRead(ctx context.Context, creatorID, notificationID string) error {
	tag, err := s.db.Exec(ctx, queryMarkRead, notificationID, creatorID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

func (s *Service) MarkAllRead(ctx context.Context, creatorID string) error {
	_, err := s.db.Exec(ctx, queryMarkAllRead, creatorID)
	return err
}

func (s *Service) UnreadCount(ctx context.Context, creatorID string) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, queryUnreadCount, creatorID).Scan(&count)
	return count, err
}

func scanNotification(row pgx.Row) (*Notification, error) {
	var n Notification
	var dataJSON []byte

	err := row.Scan(
		&n.ID,
		&n.CreatorID,
		&n.Type,
		&n.Title,
		&n.Body,
		&n.Amount,
		&dataJSON,
		&n.Read,
		&n.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	if len(dataJSON) > 0 {
		if err := json.Unmarshal(dataJSON, &n.Data); err != nil {
			n.Data = nil // ignore malformed JSON
		}
	}

	return &n, nil
}

// builds the notification for a credited usage event
func ForUsage(creatorID, contentTitle string, event *usage.Event) *CreateRequest {
	amount := event.Earnings

	return &CreateRequest{
		CreatorID: creatorID,
		Type:      TypeEarning,
		Title:     "New Earnings!",
		Body:      fmt.Sprintf("%s used your %q for %s", event.Model, contentTitle, event.UsageType),
		Amount:    &amount,
		Data: map[string]any{
			"content_id": event.ContentID,
			"event_id":   event.ID,
			"ai_model":   event.Model,
		},
	}
}

// builds the notification for a batch of buffered detection touches
func ForTouches(creatorID, contentID, contentTitle string, touches int64, earnings float64) *CreateRequest {
	noun := "touches"
	if touches == 1 {
		noun = "touch"
	}

	return &CreateRequest{
		CreatorID: creatorID,
		Type:      TypeAITouch,
		Title:     "AI Activity",
		Body:      fmt.Sprintf("%d new AI %s on your %q", touches, noun, contentTitle),
		Amount:    &earnings,
		Data: map[string]any{
			"content_id": contentID,
			"touches":    touches,
		},
	}
}

// builds the notification for a newly unlocked achievement
func ForAchievement(creatorID string, a usage.Achievement) *CreateRequest {
	return &CreateRequest{
		CreatorID: creatorID,
		Type:      TypeAchievement,
		Title:     "Achievement Unlocked!",
		Body:      fmt.Sprintf("%s: %s", a.Title, a.Description),
		Data: map[string]any{
			"achievement_id": a.ID,
			"reward":         a.Reward,
		},
	}
}
