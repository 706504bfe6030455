package ledger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// verification pages through the store this many entries at a time
	verifyPageSize = 500

	// another process may claim the next sequence between head read and
	// append; the loser relinks onto the new head
	maxAppendAttempts = 5
)

// appends entries to a hash chain backed by a Store
type Ledger struct {
	mu    sync.Mutex
	store Store
	node  *snowflake.Node
	now   func() time.Time
}

// creates a ledger; nodeID distinguishes snowflake ids across processes (0-1023)
func New(store Store, nodeID int64) (*Ledger, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %w", err)
	}

	return &Ledger{
		store: store,
		node:  node,
		now:   time.Now,
	}, nil
}

// records that a watermark was issued to a creator address
func (l *Ledger) LogWatermark(ctx context.Context, watermarkID string, creator common.Address) (*Entry, error) {
	if watermarkID == "" {
		return nil, ErrEmptyWatermarkID
	}

	return l.append(ctx, KindWatermark, WatermarkRecord{
		WatermarkID: watermarkID,
		Creator:     creator,
	})
}

// records that an AI model used registered content
func (l *Ledger) LogAIUsage(ctx context.Context, contentID, model, usageType string, durationSeconds int) (*Entry, error) {
	return l.append(ctx, KindAIUsage, AIUsageRecord{
		ContentID:       contentID,
		Model:           model,
		UsageType:       usageType,
		DurationSeconds: durationSeconds,
	})
}

// returns entries newest first
func (l *Ledger) List(ctx context.Context, limit, offset int) ([]*Entry, error) {
	return l.store.List(ctx, limit, offset)
}

// returns the entry at sequence or ErrEntryNotFound
func (l *Ledger) Get(ctx context.Context, sequence uint64) (*Entry, error) {
	entries, err := l.store.Range(ctx, sequence, 1)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 || entries[0].Sequence != sequence {
		return nil, ErrEntryNotFound
	}

	return entries[0], nil
}

// returns the number of entries
func (l *Ledger) Count(ctx context.Context) (uint64, error) {
	return l.store.Count(ctx)
}

func (l *Ledger) append(ctx context.Context, kind Kind, record any) (*Entry, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ledger record: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	entry := &Entry{
		ID:        l.node.Generate().Int64(),
		Kind:      kind,
		Data:      string(data),
		CreatedAt: l.now().UTC().Truncate(time.Microsecond),
	}

	for attempt := 1; ; attempt++ {
		last, err := l.store.Last(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read ledger head: %w", err)
		}

		entry.Sequence = 0
		entry.PrevHash = common.Hash{}
		if last != nil {
			entry.Sequence = last.Sequence + 1
			entry.PrevHash = last.Hash
		}

		entry.Hash = HashEntry(entry)

		err = l.store.Append(ctx, entry)
		if err == nil {
			return entry, nil
		}

		if !errors.Is(err, ErrSequenceConflict) || attempt == maxAppendAttempts {
			return nil, err
		}
	}
}

// computes the keccak256 commitment of an entry
func HashEntry(e *Entry) common.Hash {
	var seq [8]byte
	binary.BigEndian.PutUint64(seq[:], e.Sequence)

	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(e.CreatedAt.UnixMicro())) //nolint:gosec // timestamps after 1970

	return crypto.Keccak256Hash(
		e.PrevHash.Bytes(),
		seq[:],
		[]byte(e.Kind),
		[]byte{0},
		[]byte(e.Data),
		ts[:],
	)
}

// walks the whole chain checking links and hashes
func (l *Ledger) Verify(ctx context.Context) (*VerifyResult, error) {
	result := &VerifyResult{Valid: true}

	var prev *Entry
	var from uint64

	for {
		page, err := l.store.Range(ctx, from, verifyPageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to read ledger: %w", err)
		}

		for _, entry := range page {
			if reason := checkLink(prev, entry); reason != "" {
				result.Valid = false
				result.BrokenAt = entry.Sequence
				result.Reason = reason
				return result, nil
			}

			result.Entries++
			prev = entry
		}

		if len(page) < verifyPageSize {
			return result, nil
		}

		from = prev.Sequence + 1
	}
}

func checkLink(prev, entry *Entry) string {
	if prev == nil {
		if entry.Sequence != 0 {
			return "chain does not start at sequence 0"
		}
		if entry.PrevHash != (common.Hash{}) {
			return "genesis entry has a previous hash"
		}
	} else {
		if entry.Sequence != prev.Sequence+1 {
			return fmt.Sprintf("sequence gap after %d", prev.Sequence)
		}
		if entry.PrevHash != prev.Hash {
			return "previous hash does not match"
		}
	}

	if HashEntry(entry) != entry.Hash {
		return "entry hash does not match its contents"
	}

	return ""
}
