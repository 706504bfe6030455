package buffer

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuffer(t *testing.T) (*TouchBuffer, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewTouchBufferFromClient(client), mr
}

func TestTouchBuffer_AddAccumulates(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBuffer(t)

	require.NoError(t, b.Add(ctx, TouchReport{ContentID: "c1", Touches: 3, Earnings: 0.0036}))
	require.NoError(t, b.Add(ctx, TouchReport{ContentID: "c1", Touches: 2, Earnings: 0.0024}))
	require.NoError(t, b.Add(ctx, TouchReport{ContentID: "c2", Touches: 1, Earnings: 0.0012}))

	dirty, err := b.Dirty(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"c1", "c2"}, dirty)

	pending, err := b.Pending(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), pending.Touches)
	assert.InDelta(t, 0.006, pending.Earnings, 1e-9)
}

func TestTouchBuffer_AddRejectsNegative(t *testing.T) {
	b, _ := newTestBuffer(t)

	err := b.Add(context.Background(), TouchReport{ContentID: "c1", Touches: -1})
	assert.ErrorIs(t, err, ErrNegativeReport)
}

func TestTouchBuffer_AddIgnoresEmpty(t *testing.T) {
	ctx := context.Background()
	b, mr := newTestBuffer(t)

	require.NoError(t, b.Add(ctx, TouchReport{ContentID: "c1"}))
	assert.False(t, mr.Exists(keyDirtyContentTouches))
}

func TestTouchBuffer_DrainClears(t *testing.T) {
	ctx := context.Background()
	b, mr := newTestBuffer(t)

	require.NoError(t, b.Add(ctx, TouchReport{ContentID: "c1", Touches: 4, Earnings: 0.0048}))

	report, err := b.Drain(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", report.ContentID)
	assert.Equal(t, int64(4), report.Touches)
	assert.InDelta(t, 0.0048, report.Earnings, 1e-9)

	assert.False(t, mr.Exists("touches:c1"))

	dirty, err := b.Dirty(ctx)
	require.NoError(t, err)
	assert.Empty(t, dirty)

	again, err := b.Drain(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, again.Empty())
}

func TestTouchBuffer_DrainRejectsCorruptCounters(t *testing.T) {
	ctx := context.Background()
	b, mr := newTestBuffer(t)

	mr.HSet("touches:c1", fieldTouches, "lots")

	_, err := b.Drain(ctx, "c1")
	assert.Error(t, err)
}
