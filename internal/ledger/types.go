// package ledger keeps an append-only, hash-chained record of issued
// watermarks and detected AI usage. each entry commits to the previous
// entry's keccak256 hash so any rewrite of history breaks Verify.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrSequenceConflict = errors.New("ledger: sequence already taken")
	ErrChainBroken      = errors.New("ledger: hash chain broken")
	ErrEmptyWatermarkID = errors.New("ledger: watermark id is empty")
	ErrEntryNotFound    = errors.New("ledger: entry not found")
	ErrNotAnchorable    = errors.New("ledger: only watermark entries can be anchored")
)

// identifies what an entry records
type Kind string

const (
	KindWatermark Kind = "watermark"
	KindAIUsage   Kind = "ai_usage"
)

// is one link in the chain
type Entry struct {
	ID        int64       `json:"id,string"`
	Sequence  uint64      `json:"sequence"`
	Kind      Kind        `json:"kind"`
	Data      string      `json:"data"`
	PrevHash  common.Hash `json:"prev_hash"`
	Hash      common.Hash `json:"hash"`
	CreatedAt time.Time   `json:"created_at"`
}

// is the data committed by a watermark entry
type WatermarkRecord struct {
	WatermarkID string         `json:"watermark_id"`
	Creator     common.Address `json:"creator"`
}

// is the data committed by an AI-usage entry
type AIUsageRecord struct {
	ContentID       string `json:"content_id"`
	Model           string `json:"ai_model"`
	UsageType       string `json:"usage_type"`
	DurationSeconds int    `json:"duration_seconds"`
}

// reports the outcome of walking the chain
type VerifyResult struct {
	Valid    bool   `json:"valid"`
	Entries  int    `json:"entries"`
	BrokenAt uint64 `json:"broken_at,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// defines the interface for persistent entry storage
type Store interface {
	// appends the entry; returns ErrSequenceConflict when its sequence exists
	Append(ctx context.Context, entry *Entry) error
	// returns the newest entry or nil when the ledger is empty
	Last(ctx context.Context) (*Entry, error)
	// returns entries newest first
	List(ctx context.Context, limit, offset int) ([]*Entry, error)
	// returns entries in sequence order starting at from
	Range(ctx context.Context, from uint64, limit int) ([]*Entry, error)
	Count(ctx context.Context) (uint64, error)
}
