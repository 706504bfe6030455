package ledger

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCreator = common.HexToAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")

func newTestLedger(t *testing.T) (*Ledger, *MemoryStore) {
	t.Helper()

	store := NewMemoryStore()
	l, err := New(store, 1)
	require.NoError(t, err)

	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	l.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	return l, store
}

func TestNew_RejectsInvalidNode(t *testing.T) {
	_, err := New(NewMemoryStore(), 5000)
	assert.Error(t, err)
}

func TestLedger_AppendsChain(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	first, err := l.LogWatermark(ctx, "wm-1", testCreator)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), first.Sequence)
	assert.Equal(t, common.Hash{}, first.PrevHash)
	assert.Equal(t, KindWatermark, first.Kind)
	assert.Equal(t, HashEntry(first), first.Hash)

	var record WatermarkRecord
	require.NoError(t, json.Unmarshal([]byte(first.Data), &record))
	assert.Equal(t, "wm-1", record.WatermarkID)
	assert.Equal(t, testCreator, record.Creator)

	second, err := l.LogAIUsage(ctx, "content-1", "GPT-4", "training", 90)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), second.Sequence)
	assert.Equal(t, first.Hash, second.PrevHash)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, KindAIUsage, second.Kind)

	count, err := l.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	listed, err := l.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, second.ID, listed[0].ID, "newest first")
}

func TestLedger_LogWatermarkRequiresID(t *testing.T) {
	l, _ := newTestLedger(t)

	_, err := l.LogWatermark(context.Background(), "", testCreator)
	assert.ErrorIs(t, err, ErrEmptyWatermarkID)
}

func TestLedger_VerifyEmpty(t *testing.T) {
	l, _ := newTestLedger(t)

	result, err := l.Verify(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, 0, result.Entries)
}

func TestLedger_VerifyAcrossPages(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	total := verifyPageSize*2 + 1
	for i := range total {
		_, err := l.LogAIUsage(ctx, "content-1", "Claude", "inference", i+1)
		require.NoError(t, err)
	}

	result, err := l.Verify(ctx)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, total, result.Entries)
}

func TestLedger_VerifyDetectsTampering(t *testing.T) {
	tests := []struct {
		name   string
		tamper func(entries []*Entry)
		at     uint64
	}{
		{
			name:   "rewritten data",
			tamper: func(entries []*Entry) { entries[1].Data = `{"content_id":"other"}` },
			at:     1,
		},
		{
			name: "rehashed entry breaks the next link",
			tamper: func(entries []*Entry) {
				entries[1].Data = `{"content_id":"other"}`
				entries[1].Hash = HashEntry(entries[1])
			},
			at: 2,
		},
		{
			name:   "reordered sequence",
			tamper: func(entries []*Entry) { entries[2].Sequence = 7 },
			at:     7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			l, store := newTestLedger(t)

			for range 3 {
				_, err := l.LogAIUsage(ctx, "content-1", "Midjourney", "reference", 30)
				require.NoError(t, err)
			}

			tt.tamper(store.entries)

			result, err := l.Verify(ctx)
			require.NoError(t, err)
			assert.False(t, result.Valid)
			assert.Equal(t, tt.at, result.BrokenAt)
			assert.NotEmpty(t, result.Reason)
		})
	}
}

func TestMemoryStore_RejectsSequenceConflict(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Append(ctx, &Entry{Sequence: 0}))
	assert.ErrorIs(t, store.Append(ctx, &Entry{Sequence: 0}), ErrSequenceConflict)
	assert.ErrorIs(t, store.Append(ctx, &Entry{Sequence: 5}), ErrSequenceConflict)
}

func TestMemoryStore_ListPaging(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	for i := range uint64(5) {
		require.NoError(t, store.Append(ctx, &Entry{Sequence: i}))
	}

	page, err := store.List(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, uint64(3), page[0].Sequence)
	assert.Equal(t, uint64(2), page[1].Sequence)

	page, err = store.Range(ctx, 3, 10)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, uint64(3), page[0].Sequence)
}

func TestContract_PackLogWatermark(t *testing.T) {
	c, err := NewContract()
	require.NoError(t, err)

	calldata, err := c.PackLogWatermark("wm-abc123")
	require.NoError(t, err)

	selector := crypto.Keccak256([]byte("logWatermark(string)"))[:4]
	assert.Equal(t, selector, calldata[:4])

	id, err := c.UnpackLogWatermark(calldata)
	require.NoError(t, err)
	assert.Equal(t, "wm-abc123", id)

	_, err = c.PackLogWatermark("")
	assert.ErrorIs(t, err, ErrEmptyWatermarkID)
}

func TestContract_UnpackRejectsOtherMethods(t *testing.T) {
	c, err := NewContract()
	require.NoError(t, err)

	calldata, err := c.PackGetLogCount()
	require.NoError(t, err)
	assert.Len(t, calldata, 4)

	_, err = c.UnpackLogWatermark(calldata)
	assert.Error(t, err)
}

func TestLedger_GetAndAnchor(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLedger(t)

	_, err := l.LogWatermark(ctx, "wm-anchor", testCreator)
	require.NoError(t, err)
	_, err = l.LogAIUsage(ctx, "content-1", "Claude", "inference", 30)
	require.NoError(t, err)

	c, err := NewContract()
	require.NoError(t, err)

	wm, err := l.Get(ctx, 0)
	require.NoError(t, err)
	calldata, err := c.AnchorCalldata(wm)
	require.NoError(t, err)
	id, err := c.UnpackLogWatermark(calldata)
	require.NoError(t, err)
	assert.Equal(t, "wm-anchor", id)

	usage, err := l.Get(ctx, 1)
	require.NoError(t, err)
	_, err = c.AnchorCalldata(usage)
	assert.ErrorIs(t, err, ErrNotAnchorable)

	_, err = l.Get(ctx, 7)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

// lets a second writer append between this process's head read and append
type contendedStore struct {
	*MemoryStore
	before func()
}

func (s *contendedStore) Append(ctx context.Context, entry *Entry) error {
	if s.before != nil {
		hook := s.before
		s.before = nil
		hook()
	}
	return s.MemoryStore.Append(ctx, entry)
}

func TestLedger_AppendRelinksAfterConcurrentWriter(t *testing.T) {
	ctx := context.Background()
	shared := NewMemoryStore()

	other, err := New(shared, 2)
	require.NoError(t, err)

	store := &contendedStore{MemoryStore: shared}
	store.before = func() {
		_, err := other.LogWatermark(ctx, "w-other", common.Address{})
		require.NoError(t, err)
	}

	l, err := New(store, 1)
	require.NoError(t, err)

	entry, err := l.LogWatermark(ctx, "w-mine", common.Address{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), entry.Sequence)

	count, err := l.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	result, err := l.Verify(ctx)
	require.NoError(t, err)
	assert.True(t, result.Valid, result.Reason)
}

// always loses the race for the next sequence
type saturatedStore struct {
	*MemoryStore
	appends int
}

func (s *saturatedStore) Append(context.Context, *Entry) error {
	s.appends++
	return ErrSequenceConflict
}

func TestLedger_AppendGivesUpAfterRepeatedConflicts(t *testing.T) {
	store := &saturatedStore{MemoryStore: NewMemoryStore()}

	l, err := New(store, 1)
	require.NoError(t, err)

	_, err = l.LogWatermark(context.Background(), "w-1", common.Address{})
	assert.ErrorIs(t, err, ErrSequenceConflict)
	assert.Equal(t, maxAppendAttempts, store.appends)
}
