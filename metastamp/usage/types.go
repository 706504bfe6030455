package usage

import (
	"context"
	"time"

	"codeberg.org/metastamp/server/metastamp/content"
	"github.com/jackc/pgx/v5/pgxpool"
)

// handles usage-event database operations
type Repository struct {
	db            *pgxpool.Pool
	content       *content.Repository
	ratePerSecond float64
	publisher     Publisher
}

// represents one detected use of creator content by an AI model
type Event struct {
	ID              string    `json:"id"`
	ContentID       string    `json:"content_id"`
	Model           string    `json:"ai_model"`
	UsageType       string    `json:"usage_type"`
	DurationSeconds int       `json:"duration_seconds"`
	Earnings        float64   `json:"earnings"`
	DetectedAt      time.Time `json:"detected_at"`
}

// contains data for recording a usage event
type RecordRequest struct {
	ContentID       string `json:"content_id" binding:"required,uuid"`
	Model           string `json:"ai_model" binding:"required,max=100"`
	UsageType       string `json:"usage_type" binding:"required,oneof=training inference reference generation"`
	DurationSeconds int    `json:"duration_seconds" binding:"required,min=1,max=86400"`
}

// aggregates a creator's usage
type Summary struct {
	CreatorID     string             `json:"creator_id"`
	TotalTouches  int64              `json:"total_touches"`
	TotalEarnings float64            `json:"total_earnings"`
	Events        int                `json:"events"`
	ByModel       map[string]float64 `json:"earnings_by_model"`
	Achievements  []Achievement      `json:"achievements"`
}

// tracks progress towards an earnings or touch milestone
type Achievement struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Progress    float64 `json:"progress"`
	Total       float64 `json:"total"`
	Unlocked    bool    `json:"unlocked"`
	Reward      string  `json:"reward"`
}

// is notified after a usage event commits
type Publisher interface {
	PublishUsage(ctx context.Context, event *Event, inc *content.Increment)
}
