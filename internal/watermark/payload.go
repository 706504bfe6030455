// package watermark hides a small identifying payload in the least
// significant bit of a frame's red channel and recovers it later.
//
// the scheme is fragile: any lossy re-encode, scaling or colour conversion
// destroys the payload. frames must travel as lossless PNG.
package watermark

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrCapacityExceeded = errors.New("watermark: payload exceeds frame capacity")
	ErrNoWatermark      = errors.New("watermark: no watermark found")
	ErrInvalidPayload   = errors.New("watermark: payload fields are incomplete")
	ErrUnencodable      = errors.New("watermark: payload must be printable ascii without braces in values")
)

// printable ASCII range kept by extraction
const (
	minPrintable = 32
	maxPrintable = 126
)

// identifying record hidden inside a frame
type Payload struct {
	ID        string `json:"id"`
	CreatorID string `json:"creatorId"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
	Signature string `json:"signature"`
}

// reports whether every field the extractor requires is present
func (p Payload) Valid() bool {
	return p.ID != "" && p.CreatorID != "" && p.Timestamp != 0 && p.Signature != ""
}

// serializes the payload into the exact bytes that get embedded
func (p Payload) Encode() ([]byte, error) {
	if !p.Valid() {
		return nil, ErrInvalidPayload
	}

	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	// extraction drops non-printable bytes and splits on the first '}',
	// so the serialized form must be plain ascii with a single object
	braces := 0
	for _, b := range data {
		if b < minPrintable || b > maxPrintable {
			return nil, ErrUnencodable
		}

		if b == '{' || b == '}' {
			braces++
		}
	}

	if braces != 2 {
		return nil, ErrUnencodable
	}

	return data, nil
}

// decodes a candidate object and accepts it only when it is structurally complete
func parsePayload(text string) (*Payload, bool) {
	var p Payload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		return nil, false
	}

	if !p.Valid() {
		return nil, false
	}

	return &p, true
}
