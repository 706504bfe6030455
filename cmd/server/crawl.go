package main

import (
	"context"
	stderrors "errors"
	"path"

	"codeberg.org/metastamp/server/internal/buffer"
	"codeberg.org/metastamp/server/internal/storage"
	"codeberg.org/metastamp/server/metastamp/content"
)

type fileLookup interface {
	GetByFileURL(ctx context.Context, fileURL string) (*content.Content, error)
}

type urlBuilder interface {
	URL(name string) string
}

type touchAdder interface {
	Add(ctx context.Context, report buffer.TouchReport) error
}

// bills one touch whenever an AI crawler downloads a stamped frame
type crawlBiller struct {
	contents fileLookup
	files    urlBuilder
	touches  touchAdder
	rate     float64
}

func newCrawlBiller(contents fileLookup, files urlBuilder, touches touchAdder, rate float64) *crawlBiller {
	return &crawlBiller{contents: contents, files: files, touches: touches, rate: rate}
}

func (b *crawlBiller) RecordCrawl(ctx context.Context, filePath, _ string) error {
	name := path.Base(filePath)
	if !storage.ValidName(name) {
		return nil
	}

	c, err := b.contents.GetByFileURL(ctx, b.files.URL(name))
	if stderrors.Is(err, content.ErrContentNotFound) {
		return nil
	}

	if err != nil {
		return err
	}

	return b.touches.Add(ctx, buffer.TouchReport{
		ContentID: c.ID,
		Touches:   1,
		Earnings:  b.rate,
	})
}
