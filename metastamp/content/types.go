package content

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// handles content database operations
type Repository struct {
	db *pgxpool.Pool
}

// is satisfied by both the pool and an open transaction
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// represents one watermarked piece of creator media
type Content struct {
	ID           string    `json:"id"`
	ContentHash  string    `json:"content_hash"`
	CreatorID    string    `json:"creator_id"`
	CreatorLabel string    `json:"creator_label"`
	Platform     string    `json:"platform"`
	Title        string    `json:"title"`
	WatermarkID  string    `json:"watermark_id"`
	FileURL      string    `json:"file_url,omitempty"`
	Touches      int64     `json:"touches"`
	Earnings     float64   `json:"earnings"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// contains data for registering content
type CreateContentRequest struct {
	ContentHash  string
	CreatorID    string
	CreatorLabel string
	Platform     string
	Title        string
	WatermarkID  string
	FileURL      string
}

// contains the editable fields of a content record
type UpdateContentRequest struct {
	Title    *string `json:"title,omitempty" binding:"omitempty,min=1,max=200"`
	Platform *string `json:"platform,omitempty" binding:"omitempty,max=50"`
}

// is a creator's lifetime counters at one point in time
type Counters struct {
	Touches  int64   `json:"touches"`
	Earnings float64 `json:"earnings"`
}

// is the outcome of AddTouches: the updated row and the creator's lifetime
// counters immediately before and after this increment
type Increment struct {
	Content *Content `json:"content"`
	Before  Counters `json:"before"`
	After   Counters `json:"after"`
}

// aggregates a creator's counters
type Totals struct {
	Items    int     `json:"items"`
	Touches  int64   `json:"touches"`
	Earnings float64 `json:"earnings"`
}
