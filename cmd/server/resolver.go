package main

import (
	"context"
	"errors"

	"codeberg.org/metastamp/server/internal/detection"
	"codeberg.org/metastamp/server/metastamp/content"
)

type watermarkLookup interface {
	GetByWatermarkID(ctx context.Context, watermarkID string) (*content.Content, error)
}

// resolves extracted watermarks against the content table
type contentResolver struct {
	contents watermarkLookup
}

func (r contentResolver) ResolveWatermark(ctx context.Context, watermarkID string) (*detection.ContentRef, error) {
	c, err := r.contents.GetByWatermarkID(ctx, watermarkID)
	if errors.Is(err, content.ErrContentNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &detection.ContentRef{
		ContentID: c.ID,
		CreatorID: c.CreatorID,
		Title:     c.Title,
	}, nil
}
