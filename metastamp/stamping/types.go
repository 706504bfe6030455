// package stamping registers creator media: it watermarks the uploaded frame,
// stores the stamped copy, records the content row and anchors the watermark
// in the ledger and the fingerprint index.
package stamping

import (
	"context"
	"image"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"codeberg.org/metastamp/server/internal/detection"
	"codeberg.org/metastamp/server/internal/ledger"
	"codeberg.org/metastamp/server/internal/storage"
	"codeberg.org/metastamp/server/internal/watermark"
	"codeberg.org/metastamp/server/metastamp/content"
	"codeberg.org/metastamp/server/metastamp/creators"
)

// persists content rows
type ContentStore interface {
	Create(ctx context.Context, req content.CreateContentRequest) (*content.Content, error)
	GetByHash(ctx context.Context, creatorID, contentHash string) (*content.Content, error)
}

// looks up the uploading creator
type CreatorLookup interface {
	FindByID(ctx context.Context, creatorID string) (*creators.Creator, error)
}

// keeps stamped frames
type FrameStore interface {
	SaveFrame(img image.Image) (*storage.StoredFile, error)
	Remove(name string) error
}

// indexes frames for near-duplicate detection
type Fingerprinter interface {
	Add(ctx context.Context, contentID, creatorID string, frame image.Image) (*detection.FingerprintRecord, error)
}

// anchors issued watermarks
type WatermarkLog interface {
	LogWatermark(ctx context.Context, watermarkID string, creator common.Address) (*ledger.Entry, error)
}

// issues signed payloads
type PayloadSigner interface {
	NewPayload(creatorID string, now time.Time) watermark.Payload
}

// wires the registration pipeline
type Service struct {
	contents     ContentStore
	creators     CreatorLookup
	frames       FrameStore
	fingerprints Fingerprinter
	ledger       WatermarkLog
	signer       PayloadSigner
	now          func() time.Time
}

// describes one upload to register
type RegisterRequest struct {
	CreatorID string
	Title     string
	Platform  string
	Data      []byte
}

// is everything produced by a registration
type Result struct {
	Content     *content.Content    `json:"content"`
	Payload     watermark.Payload   `json:"watermark"`
	File        *storage.StoredFile `json:"file"`
	Fingerprint string              `json:"fingerprint,omitempty"`
	LedgerEntry *ledger.Entry       `json:"ledger_entry,omitempty"`
}

// is a watermarked frame that was not registered
type Stamped struct {
	Frame   *image.NRGBA
	Payload watermark.Payload
}
