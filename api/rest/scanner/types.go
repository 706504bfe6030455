package scanner

import (
	"context"
	"image"

	"codeberg.org/metastamp/server/internal/buffer"
	"codeberg.org/metastamp/server/internal/detection"
	"codeberg.org/metastamp/server/metastamp/content"
)

// largest frame a node may submit
const maxFrameBytes = 10 << 20

// attributes frames to registered content
type FrameScanner interface {
	Scan(ctx context.Context, frame image.Image) (*detection.ScanResult, error)
}

// buffers detection touches until the flusher persists them
type TouchRecorder interface {
	Add(ctx context.Context, report buffer.TouchReport) error
}

// confirms reported content exists
type ContentGetter interface {
	Get(ctx context.Context, contentID string) (*content.Content, error)
}

// ScanResponse is the attribution for one frame
type ScanResponse struct {
	Result   *detection.ScanResult `json:"result"`
	Buffered bool                  `json:"buffered"`
	Earnings float64               `json:"earnings"`
}

// TouchInput is one node-side tally
type TouchInput struct {
	ContentID string `json:"content_id" binding:"required,uuid"`
	Touches   int64  `json:"touches" binding:"required,min=1,max=10000"`
}

// TouchesRequest batches node tallies
type TouchesRequest struct {
	Reports []TouchInput `json:"reports" binding:"required,min=1,max=100,dive"`
}

// TouchesResponse summarizes what was buffered
type TouchesResponse struct {
	Accepted int      `json:"accepted"`
	Touches  int64    `json:"touches"`
	Earnings float64  `json:"earnings"`
	Rejected []string `json:"rejected,omitempty"`
}
