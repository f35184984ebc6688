package ocr

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/vanban/internal/models"
)

// Scheduler dispatches page images to a Recognizer in fixed-size batches
// with a bounded number of in-flight pages.
type Scheduler struct {
	recognizer Recognizer
	batchSize  int
	workers    int
	logger     *zap.Logger
}

// NewScheduler builds a scheduler. batchSize and workers fall back to 1
// when non-positive.
func NewScheduler(recognizer Recognizer, batchSize, workers int, logger *zap.Logger) *Scheduler {
	if batchSize < 1 {
		batchSize = 1
	}
	if workers < 1 {
		workers = 1
	}
	return &Scheduler{recognizer: recognizer, batchSize: batchSize, workers: workers, logger: logger}
}

// Recognize runs every page through the recognizer and returns results
// sorted by page number, one per input page. Per-page failures are
// carried in the results; the only error returned is a canceled context.
func (s *Scheduler) Recognize(ctx context.Context, pages []PageImage) ([]models.PageResult, error) {
	start := time.Now()
	results := make([]models.PageResult, 0, len(pages))
	var mu sync.Mutex

	for offset := 0; offset < len(pages); offset += s.batchSize {
		end := offset + s.batchSize
		if end > len(pages) {
			end = len(pages)
		}
		batch := pages[offset:end]

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.workers)
		for _, img := range batch {
			img := img
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				res := s.recognizer.Recognize(gctx, img)
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Page < results[j].Page })

	ok := 0
	for _, r := range results {
		if r.Success {
			ok++
		}
	}
	s.logger.Info("recognition finished",
		zap.Int("pages", len(results)),
		zap.Int("succeeded", ok),
		zap.Duration("elapsed", time.Since(start)),
	)
	return results, nil
}
