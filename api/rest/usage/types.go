package usage

import (
	"context"

	"codeberg.org/metastamp/server/internal/ledger"
	"codeberg.org/metastamp/server/metastamp/content"
	"codeberg.org/metastamp/server/metastamp/usage"
)

// is the slice of the usage repository the handlers use
type Repository interface {
	Record(ctx context.Context, req usage.RecordRequest) (*usage.Event, *content.Content, error)
	ListRecent(ctx context.Context, creatorID string, limit int) ([]usage.Event, error)
	Summary(ctx context.Context, creatorID string) (*usage.Summary, error)
}

// loads content to check ownership
type ContentGetter interface {
	Get(ctx context.Context, contentID string) (*content.Content, error)
}

// anchors usage events
type UsageLog interface {
	LogAIUsage(ctx context.Context, contentID, model, usageType string, durationSeconds int) (*ledger.Entry, error)
}

// RecordResponse is a recorded event with the content's new counters
type RecordResponse struct {
	Event       *usage.Event     `json:"event"`
	Content     *content.Content `json:"content"`
	LedgerEntry *ledger.Entry    `json:"ledger_entry,omitempty"`
}

// RecentResponse is the most recent usage feed
type RecentResponse struct {
	Events []usage.Event `json:"events"`
}
