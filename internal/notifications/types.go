package notifications

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// notification kinds shown in the creator's live activity panel
const (
	TypeEarning     = "earning"
	TypeAITouch     = "ai_touch"
	TypeAchievement = "achievement"
)

type Service struct {
	db *pgxpool.Pool
}

type Notification struct {
	ID        string         `json:"id"`
	CreatorID string         `json:"creator_id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Amount    *float64       `json:"amount,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Read      bool           `json:"read"`
	CreatedAt time.Time      `json:"created_at"`
}

type CreateRequest struct {
	CreatorID string
	Type      string
	Title     string
	Body      string
	Amount    *float64
	Data      map[string]any
}
