package detection

import (
	"context"
	"image"
)

// combines LSH index with persistent storage
type IndexedFingerprintStore struct {
	index *LSHIndex
	store FingerprintStore
}

// creates a new indexed store
func NewIndexedFingerprintStore(store FingerprintStore, numBands, threshold int) *IndexedFingerprintStore {
	return &IndexedFingerprintStore{
		index: NewLSHIndex(numBands, threshold),
		store: store,
	}
}

// loads all records from storage into the index
func (s *IndexedFingerprintStore) Initialize(ctx context.Context) error {
	records, err := s.store.LoadAll(ctx)
	if err != nil {
		return err
	}

	for _, record := range records {
		s.index.Insert(record)
	}

	return nil
}

// fingerprints a registered frame and stores it
func (s *IndexedFingerprintStore) Add(ctx context.Context, contentID, creatorID string, frame image.Image) (*FingerprintRecord, error) {
	fingerprint := DifferenceHash(frame)
	if fingerprint == 0 {
		return nil, ErrFlatFrame
	}

	record := &FingerprintRecord{
		ID:          contentID,
		Fingerprint: fingerprint,
		ContentID:   contentID,
		CreatorID:   creatorID,
	}

	if err := s.store.Store(ctx, record); err != nil {
		return nil, err
	}

	s.index.Insert(record)

	return record, nil
}

// removes a fingerprint by content ID
func (s *IndexedFingerprintStore) Remove(ctx context.Context, contentID string) error {
	s.index.Remove(contentID)
	return s.store.Delete(ctx, contentID)
}

// searches for frames similar to the query
func (s *IndexedFingerprintStore) FindSimilar(frame image.Image) []*MatchResult {
	return s.index.Query(DifferenceHash(frame))
}

// finds the most similar registered frame; flat frames never match
func (s *IndexedFingerprintStore) FindBestMatch(frame image.Image) *MatchResult {
	fingerprint := DifferenceHash(frame)
	if fingerprint == 0 {
		return nil
	}

	return s.index.QueryBest(fingerprint)
}

// returns the number of indexed fingerprints
func (s *IndexedFingerprintStore) Size() int {
	return s.index.Size()
}
