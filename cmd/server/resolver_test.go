package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/metastamp/server/internal/detection"
	"codeberg.org/metastamp/server/metastamp/content"
)

type fakeWatermarks map[string]*content.Content

func (f fakeWatermarks) GetByWatermarkID(_ context.Context, id string) (*content.Content, error) {
	if id == "broken" {
		return nil, errors.New("connection reset")
	}
	if c, ok := f[id]; ok {
		return c, nil
	}
	return nil, content.ErrContentNotFound
}

func TestContentResolver(t *testing.T) {
	r := contentResolver{contents: fakeWatermarks{
		"wm-1": {ID: "content-1", CreatorID: "c1", Title: "Sunset"},
	}}
	ctx := context.Background()

	ref, err := r.ResolveWatermark(ctx, "wm-1")
	require.NoError(t, err)
	assert.Equal(t, &detection.ContentRef{ContentID: "content-1", CreatorID: "c1", Title: "Sunset"}, ref)

	ref, err = r.ResolveWatermark(ctx, "wm-unknown")
	require.NoError(t, err)
	assert.Nil(t, ref)

	_, err = r.ResolveWatermark(ctx, "broken")
	assert.Error(t, err)
}
