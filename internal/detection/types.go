// package detection finds registered content inside frames submitted by
// scanner nodes. a frame matches either by carrying a valid watermark or by
// being a perceptual near-duplicate of a registered frame.
package detection

import (
	"context"
	"errors"
)

var (
	ErrFlatFrame = errors.New("detection: frame has no perceptual detail to fingerprint")
)

// describes how a scanned frame was attributed
type MatchKind string

const (
	MatchWatermark   MatchKind = "watermark"
	MatchFingerprint MatchKind = "fingerprint"
	MatchNone        MatchKind = "none"
)

// holds configuration for the scanner
type Config struct {
	NumBands            int
	SimilarityThreshold int
	// minimum confidence for a fingerprint match to count as a touch
	MinConfidence float64
}

// returns sensible defaults for the detection system
func DefaultConfig() Config {
	return Config{
		NumBands:            DefaultNumBands,
		SimilarityThreshold: DefaultSimilarityThreshold,
		MinConfidence:       0.85,
	}
}

// identifies a registered content record
type ContentRef struct {
	ContentID string
	CreatorID string
	Title     string
}

// looks up the content a watermark belongs to
type ContentResolver interface {
	// returns nil, nil when no content carries the watermark
	ResolveWatermark(ctx context.Context, watermarkID string) (*ContentRef, error)
}
