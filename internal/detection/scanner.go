package detection

import (
	"context"
	"errors"
	"fmt"
	"image"

	"codeberg.org/metastamp/server/internal/watermark"
)

// verifies watermark signatures
type SignatureVerifier interface {
	Verify(p watermark.Payload) bool
}

// attributes scanned frames to registered content
type Scanner struct {
	config       Config
	verifier     SignatureVerifier
	resolver     ContentResolver
	fingerprints *IndexedFingerprintStore
}

// creates a new scanner with the given dependencies
func NewScanner(config Config, verifier SignatureVerifier, resolver ContentResolver) *Scanner {
	return &Scanner{
		config:   config,
		verifier: verifier,
		resolver: resolver,
	}
}

// enables perceptual near-duplicate detection
func (s *Scanner) WithFingerprints(fps *IndexedFingerprintStore) *Scanner {
	s.fingerprints = fps
	return s
}

// contains the result of scanning one frame
type ScanResult struct {
	Kind           MatchKind          `json:"kind"`
	ContentID      string             `json:"content_id,omitempty"`
	CreatorID      string             `json:"creator_id,omitempty"`
	Title          string             `json:"title,omitempty"`
	Confidence     float64            `json:"confidence"`
	Distance       int                `json:"distance,omitempty"`
	Payload        *watermark.Payload `json:"payload,omitempty"`
	SignatureValid bool               `json:"signature_valid"`
	Reason         string             `json:"reason"`
}

// reports whether the scan attributed the frame to content
func (r *ScanResult) Matched() bool {
	return r.Kind != MatchNone
}

// attributes a frame: a valid watermark wins, then perceptual similarity
func (s *Scanner) Scan(ctx context.Context, frame image.Image) (*ScanResult, error) {
	// check 1: embedded watermark with a valid signature
	payload, err := watermark.Extract(frame)
	if err != nil && !errors.Is(err, watermark.ErrNoWatermark) {
		return nil, err
	}

	var (
		unverified *watermark.Payload
		signed     bool
	)

	if payload != nil {
		// without a verifier no signature counts as valid
		signed = s.verifier != nil && s.verifier.Verify(*payload)

		if signed && s.resolver != nil {
			ref, err := s.resolver.ResolveWatermark(ctx, payload.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve watermark: %w", err)
			}

			if ref != nil {
				return &ScanResult{
					Kind:           MatchWatermark,
					ContentID:      ref.ContentID,
					CreatorID:      ref.CreatorID,
					Title:          ref.Title,
					Confidence:     1,
					Payload:        payload,
					SignatureValid: true,
					Reason:         "frame carries a registered watermark",
				}, nil
			}
		}

		// forged, unverifiable or unregistered; fall through to similarity
		unverified = payload
	}

	// check 2: perceptual near-duplicate of a registered frame
	if s.fingerprints != nil {
		match := s.fingerprints.FindBestMatch(frame)
		if match != nil {
			confidence := Confidence(match.Distance)
			if confidence >= s.config.MinConfidence {
				return &ScanResult{
					Kind:           MatchFingerprint,
					ContentID:      match.Record.ContentID,
					CreatorID:      match.Record.CreatorID,
					Confidence:     confidence,
					Distance:       match.Distance,
					Payload:        unverified,
					SignatureValid: signed,
					Reason:         "frame is perceptually similar to registered content",
				}, nil
			}
		}
	}

	return &ScanResult{
		Kind:           MatchNone,
		Payload:        unverified,
		SignatureValid: signed,
		Reason:         "no registered content found in frame",
	}, nil
}
