package detection

import (
	"context"
	"sync"
)

const (
	// 4 bands with 16 bits each = 64 bits total
	DefaultNumBands = 4

	// 6 bits out of 64 = ~90% similarity
	DefaultSimilarityThreshold = 6

	// minimum bands to avoid uint16 overflow (64/4 = 16 bits per band)
	MinNumBands = 4

	// more bands than this leave too few bits per bucket key
	MaxNumBands = 8
)

// stores a fingerprint with its metadata
type FingerprintRecord struct {
	ID          string
	Fingerprint Fingerprint
	ContentID   string
	CreatorID   string
}

// represents a fingerprint match
type MatchResult struct {
	Record   *FingerprintRecord
	Distance int
}

// LSHIndex provides locality-sensitive hashing for efficient similarity search.
// divides fingerprints into bands and uses band values as bucket keys, so a
// lookup only compares against records sharing at least one band.
type LSHIndex struct {
	mu          sync.RWMutex
	numBands    int
	bitsPerBand int
	threshold   int

	// buckets[bandIndex][bandValue] = list of record IDs
	buckets []map[uint16][]string

	records map[string]*FingerprintRecord
}

// creates a new LSH index with the given configuration
func NewLSHIndex(numBands, similarityThreshold int) *LSHIndex {
	if numBands < MinNumBands {
		numBands = DefaultNumBands
	}

	if numBands > MaxNumBands {
		numBands = MaxNumBands
	}

	if similarityThreshold < 1 {
		similarityThreshold = DefaultSimilarityThreshold
	}

	index := &LSHIndex{
		numBands:    numBands,
		bitsPerBand: HashBits / numBands,
		threshold:   similarityThreshold,
		buckets:     make([]map[uint16][]string, numBands),
		records:     make(map[string]*FingerprintRecord),
	}

	for i := range numBands {
		index.buckets[i] = make(map[uint16][]string)
	}

	return index
}

// adds a fingerprint record to the index, replacing any record with the same ID
func (idx *LSHIndex) Insert(record *FingerprintRecord) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if _, exists := idx.records[record.ID]; exists {
		idx.removeLocked(record.ID)
	}

	idx.records[record.ID] = record

	for i, bandValue := range idx.getBands(record.Fingerprint) {
		idx.buckets[i][bandValue] = append(idx.buckets[i][bandValue], record.ID)
	}
}

// removes a fingerprint record from the index
func (idx *LSHIndex) Remove(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.removeLocked(id)
}

func (idx *LSHIndex) removeLocked(id string) {
	record, exists := idx.records[id]
	if !exists {
		return
	}

	for i, bandValue := range idx.getBands(record.Fingerprint) {
		bucket := idx.buckets[i][bandValue]
		for j, recordID := range bucket {
			if recordID == id {
				idx.buckets[i][bandValue] = append(bucket[:j], bucket[j+1:]...)
				break
			}
		}

		if len(idx.buckets[i][bandValue]) == 0 {
			delete(idx.buckets[i], bandValue)
		}
	}

	delete(idx.records, id)
}

// finds all similar fingerprints within the similarity threshold
func (idx *LSHIndex) Query(fingerprint Fingerprint) []*MatchResult {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	candidateSet := make(map[string]struct{})

	for i, bandValue := range idx.getBands(fingerprint) {
		for _, id := range idx.buckets[i][bandValue] {
			candidateSet[id] = struct{}{}
		}
	}

	var results []*MatchResult
	for id := range candidateSet {
		record := idx.records[id]
		if record == nil {
			continue
		}

		distance := HammingDistance(fingerprint, record.Fingerprint)
		if distance <= idx.threshold {
			results = append(results, &MatchResult{
				Record:   record,
				Distance: distance,
			})
		}
	}

	return results
}

// finds the best matching fingerprint (lowest hamming distance, then lowest ID)
func (idx *LSHIndex) QueryBest(fingerprint Fingerprint) *MatchResult {
	results := idx.Query(fingerprint)
	if len(results) == 0 {
		return nil
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.Distance < best.Distance || (r.Distance == best.Distance && r.Record.ID < best.Record.ID) {
			best = r
		}
	}

	return best
}

// extracts band values from a fingerprint
func (idx *LSHIndex) getBands(fp Fingerprint) []uint16 {
	bands := make([]uint16, idx.numBands)
	mask := uint64((1 << idx.bitsPerBand) - 1)

	for i := range idx.numBands {
		shift := i * idx.bitsPerBand
		bands[i] = uint16((uint64(fp) >> shift) & mask) //nolint:gosec // mask ensures value fits in uint16
	}

	return bands
}

// returns the number of records in the index
func (idx *LSHIndex) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.records)
}

// retrieves a record by ID
func (idx *LSHIndex) GetRecord(id string) *FingerprintRecord {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.records[id]
}

// defines the interface for persistent fingerprint storage
type FingerprintStore interface {
	Store(ctx context.Context, record *FingerprintRecord) error
	Delete(ctx context.Context, id string) error
	LoadAll(ctx context.Context) ([]*FingerprintRecord, error)
	GetByContentID(ctx context.Context, contentID string) (*FingerprintRecord, error)
}
