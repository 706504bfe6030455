package watermark

import (
	"codeberg.org/metastamp/server/internal/watermark"
	"codeberg.org/metastamp/server/metastamp/stamping"
)

// largest frame accepted by the stateless endpoints
const maxFrameBytes = 25 << 20

// embeds signed payloads without registering content
type Stamper interface {
	Stamp(creatorID string, data []byte) (*stamping.Stamped, error)
}

// checks payload signatures
type Verifier interface {
	Verify(p watermark.Payload) bool
}

// ExtractResponse reports what was found in a frame
type ExtractResponse struct {
	Found          bool                `json:"found"`
	Payload        *watermark.Payload  `json:"payload,omitempty"`
	SignatureValid bool                `json:"signature_valid"`
	Candidates     []watermark.Payload `json:"candidates,omitempty"`
	Capacity       int                 `json:"capacity_bytes"`
}
