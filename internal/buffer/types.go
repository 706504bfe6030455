package buffer

import "context"

// represents touches reported for one content row, not yet persisted
type TouchReport struct {
	ContentID string  `json:"content_id"`
	Touches   int64   `json:"touches"`
	Earnings  float64 `json:"earnings"`
}

// reports whether the report carries anything to apply
func (r TouchReport) Empty() bool {
	return r.Touches == 0 && r.Earnings == 0
}

// persists drained counters; implemented over the content repository
type CounterSink interface {
	ApplyTouches(ctx context.Context, report TouchReport) error
}

// is the buffered side the flusher drains
type Source interface {
	Add(ctx context.Context, report TouchReport) error
	Dirty(ctx context.Context) ([]string, error)
	Drain(ctx context.Context, contentID string) (TouchReport, error)
}

// redis key patterns
const (
	// touches:{contentID} - hash with touches and earnings fields
	keyContentTouches = "touches:%s"

	// dirty_content:touches - set of content IDs with unflushed touches
	keyDirtyContentTouches = "dirty_content:touches"

	fieldTouches  = "touches"
	fieldEarnings = "earnings"
)
