package stamping

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"codeberg.org/metastamp/server/internal/detection"
	"codeberg.org/metastamp/server/internal/logger"
	"codeberg.org/metastamp/server/internal/watermark"
	"codeberg.org/metastamp/server/metastamp/content"
)

var (
	ErrEmptyUpload   = errors.New("stamping: upload is empty")
	ErrUndecodable   = errors.New("stamping: upload is not a decodable image")
	ErrFrameTooSmall = errors.New("stamping: frame too small to hold a watermark")
)

// is returned when the creator already registered identical bytes
type DuplicateError struct {
	Existing *content.Content
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("stamping: content already registered as %s", e.Existing.ID)
}

// creates a registration service; fingerprints and ledger may be nil
func NewService(contents ContentStore, creators CreatorLookup, frames FrameStore, signer PayloadSigner) *Service {
	return &Service{
		contents: contents,
		creators: creators,
		frames:   frames,
		signer:   signer,
		now:      time.Now,
	}
}

// enables perceptual indexing of registered frames
func (s *Service) WithFingerprints(f Fingerprinter) *Service {
	s.fingerprints = f
	return s
}

// enables ledger anchoring of issued watermarks
func (s *Service) WithLedger(l WatermarkLog) *Service {
	s.ledger = l
	return s
}

// decodes data and embeds a fresh signed payload for the creator
func (s *Service) Stamp(creatorID string, data []byte) (*Stamped, error) {
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}

	frame, _, err := watermark.Decode(bytes.NewReader(data))
	if errors.Is(err, watermark.ErrFrameTooLarge) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	payload := s.signer.NewPayload(creatorID, s.now())

	if err := watermark.Embed(frame, payload); err != nil {
		if errors.Is(err, watermark.ErrCapacityExceeded) {
			return nil, fmt.Errorf("%w: %dx%d holds %d bytes",
				ErrFrameTooSmall, frame.Bounds().Dx(), frame.Bounds().Dy(), watermark.Capacity(frame))
		}

		return nil, err
	}

	return &Stamped{Frame: frame, Payload: payload}, nil
}

// watermarks an upload and registers it as content owned by the creator
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Result, error) {
	if len(req.Data) == 0 {
		return nil, ErrEmptyUpload
	}

	hash := content.Hash(req.Data)

	existing, err := s.contents.GetByHash(ctx, req.CreatorID, hash)
	switch {
	case err == nil:
		return nil, &DuplicateError{Existing: existing}
	case !errors.Is(err, content.ErrContentNotFound):
		return nil, fmt.Errorf("failed to check for duplicate upload: %w", err)
	}

	creator, err := s.creators.FindByID(ctx, req.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load creator: %w", err)
	}

	stamped, err := s.Stamp(req.CreatorID, req.Data)
	if err != nil {
		return nil, err
	}

	file, err := s.frames.SaveFrame(stamped.Frame)
	if err != nil {
		return nil, fmt.Errorf("failed to store stamped frame: %w", err)
	}

	label := creator.Name
	if label == "" {
		label = creator.Email
	}

	created, err := s.contents.Create(ctx, content.CreateContentRequest{
		ContentHash:  hash,
		CreatorID:    req.CreatorID,
		CreatorLabel: label,
		Platform:     req.Platform,
		Title:        req.Title,
		WatermarkID:  stamped.Payload.ID,
		FileURL:      file.URL,
	})
	if err != nil {
		// no row points at the frame, drop it from /uploads
		if rmErr := s.frames.Remove(file.Name); rmErr != nil {
			logger.ErrorErr(rmErr, "failed to remove orphaned frame", "file", file.Name)
		}

		var dup *content.DuplicateError
		if errors.As(err, &dup) {
			return nil, &DuplicateError{Existing: dup.Existing}
		}

		return nil, fmt.Errorf("failed to create content: %w", err)
	}

	result := &Result{
		Content: created,
		Payload: stamped.Payload,
		File:    file,
	}

	// the content row is the source of truth; index and ledger failures are logged
	if s.fingerprints != nil {
		record, err := s.fingerprints.Add(ctx, created.ID, req.CreatorID, stamped.Frame)
		switch {
		case err == nil:
			result.Fingerprint = record.Fingerprint.String()
		case errors.Is(err, detection.ErrFlatFrame):
			logger.Debug("frame too flat to fingerprint", "content_id", created.ID)
		default:
			logger.ErrorErr(err, "failed to index content fingerprint", "content_id", created.ID)
		}
	}

	if s.ledger != nil {
		var wallet common.Address
		if creator.WalletAddress != "" {
			wallet = common.HexToAddress(creator.WalletAddress)
		}

		entry, err := s.ledger.LogWatermark(ctx, stamped.Payload.ID, wallet)
		if err != nil {
			logger.ErrorErr(err, "failed to log watermark", "content_id", created.ID)
		} else {
			result.LedgerEntry = entry
		}
	}

	logger.Info("content registered",
		"content_id", created.ID,
		"user_id", req.CreatorID,
		"watermark_id", stamped.Payload.ID,
	)

	return result, nil
}
