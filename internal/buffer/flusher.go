package buffer

import (
	"context"
	"sync"
	"time"

	"codeberg.org/metastamp/server/internal/logger"
)

// handles periodic flushing of buffered touches from Redis to Postgres
type Flusher struct {
	source   Source
	sink     CounterSink
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// creates a new flusher that periodically drains source into sink
func NewFlusher(source Source, sink CounterSink, interval time.Duration) *Flusher {
	return &Flusher{
		source:   source,
		sink:     sink,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// begins the background flush loop
func (f *Flusher) Start() {
	f.wg.Add(1)
	go f.run()
	logger.Info("buffer flusher started", "interval", f.interval.String())
}

// gracefully stops the flusher and flushes any remaining data
func (f *Flusher) Stop() {
	f.stopOnce.Do(func() {
		close(f.stopCh)
	})
	f.wg.Wait()
	logger.Info("buffer flusher stopped")
}

func (f *Flusher) run() {
	defer f.wg.Done()

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			f.flush()
		case <-f.stopCh:
			// final flush before stopping
			logger.Info("flushing remaining buffer data before shutdown")
			f.flush()
			return
		}
	}
}

func (f *Flusher) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	f.Flush(ctx)
}

// drains every dirty content row once; returns how many rows were applied
func (f *Flusher) Flush(ctx context.Context) int {
	contentIDs, err := f.source.Dirty(ctx)
	if err != nil {
		logger.ErrorErr(err, "failed to get dirty content")
		return 0
	}

	if len(contentIDs) == 0 {
		return 0
	}

	logger.Debug("flushing touches for content", "count", len(contentIDs))

	applied := 0

	for _, contentID := range contentIDs {
		report, err := f.source.Drain(ctx, contentID)
		if err != nil {
			logger.ErrorErr(err, "failed to drain touches from buffer", "content_id", contentID)
			continue
		}

		if report.Empty() {
			continue
		}

		if err := f.sink.ApplyTouches(ctx, report); err != nil {
			logger.ErrorErr(err, "failed to persist touches to postgres", "content_id", contentID)
			// re-buffer so we retry next flush
			f.source.Add(ctx, report) //nolint:errcheck,gosec // best-effort retry
			continue
		}

		applied++
		logger.Debug("flushed touches to postgres", "content_id", contentID, "touches", report.Touches)
	}

	return applied
}
