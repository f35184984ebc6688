// Package pipeline orchestrates the full processing run for one
// document: rasterize, recognize, parse, segment, classify, extract,
// persist, index, notify.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/vanban/internal/classify"
	"github.com/hyperjump/vanban/internal/export"
	"github.com/hyperjump/vanban/internal/extract"
	"github.com/hyperjump/vanban/internal/models"
	"github.com/hyperjump/vanban/internal/notify"
	"github.com/hyperjump/vanban/internal/ocr"
	"github.com/hyperjump/vanban/internal/parser"
	"github.com/hyperjump/vanban/internal/search"
	"github.com/hyperjump/vanban/internal/segment"
	"github.com/hyperjump/vanban/internal/store"
)

// Orchestrator runs the processing pipeline with per-document
// single-flight and a process-wide recognition semaphore.
type Orchestrator struct {
	store     *store.SQLiteStore
	cache     *store.ResultCache
	index     *search.SegmentIndex
	hub       *notify.Hub
	raster    ocr.Rasterizer
	scheduler *ocr.Scheduler
	outputDir string
	dpi       int
	logger    *zap.Logger

	// Bounds concurrent recognition runs across documents; the
	// recognition backend typically serves one file at a time.
	recognitionSlots chan struct{}

	mu       sync.Mutex
	inflight map[string]struct{}
}

// Options configures an Orchestrator.
type Options struct {
	Store            *store.SQLiteStore
	Cache            *store.ResultCache
	Index            *search.SegmentIndex
	Hub              *notify.Hub
	Rasterizer       ocr.Rasterizer
	Scheduler        *ocr.Scheduler
	OutputDir        string
	DPI              int
	RecognitionSlots int
	Logger           *zap.Logger
}

// New builds an Orchestrator.
func New(opts Options) *Orchestrator {
	slots := opts.RecognitionSlots
	if slots < 1 {
		slots = 1
	}
	dpi := opts.DPI
	if dpi <= 0 {
		dpi = 200
	}
	return &Orchestrator{
		store:            opts.Store,
		cache:            opts.Cache,
		index:            opts.Index,
		hub:              opts.Hub,
		raster:           opts.Rasterizer,
		scheduler:        opts.Scheduler,
		outputDir:        opts.OutputDir,
		dpi:              dpi,
		logger:           opts.Logger,
		recognitionSlots: make(chan struct{}, slots),
		inflight:         make(map[string]struct{}),
	}
}

// Trigger starts processing for a document in the background. It is
// idempotent: a document already processing or completed keeps its
// current status and no second run starts.
func (o *Orchestrator) Trigger(ctx context.Context, documentID string) (models.JobStatus, error) {
	job, err := o.store.GetJob(ctx, documentID)
	if err != nil {
		return "", err
	}

	o.mu.Lock()
	if _, running := o.inflight[documentID]; running {
		o.mu.Unlock()
		return models.StatusProcessing, nil
	}
	if job.Status == models.StatusProcessing || job.Status == models.StatusCompleted {
		o.mu.Unlock()
		return job.Status, nil
	}
	o.inflight[documentID] = struct{}{}
	o.mu.Unlock()

	if err := o.store.UpdateStatus(ctx, documentID, models.StatusProcessing, ""); err != nil {
		o.release(documentID)
		return "", err
	}

	go o.run(context.WithoutCancel(ctx), job)
	return models.StatusProcessing, nil
}

func (o *Orchestrator) release(documentID string) {
	o.mu.Lock()
	delete(o.inflight, documentID)
	o.mu.Unlock()
}

func (o *Orchestrator) run(ctx context.Context, job *models.Job) {
	defer o.release(job.DocumentID)

	result, err := o.Process(ctx, job)
	if err != nil {
		o.logger.Error("processing failed",
			zap.String("doc_id", job.DocumentID),
			zap.String("file", job.FileName),
			zap.Error(err),
		)
		if uerr := o.store.UpdateStatus(ctx, job.DocumentID, models.StatusFailed, err.Error()); uerr != nil {
			o.logger.Error("failed to record failure", zap.String("doc_id", job.DocumentID), zap.Error(uerr))
		}
		o.hub.Broadcast(notify.Event{
			Type:       "processing_failed",
			DocumentID: job.DocumentID,
			Status:     string(models.StatusFailed),
			Message:    err.Error(),
		})
		return
	}

	if err := o.store.UpdateStatus(ctx, job.DocumentID, models.StatusCompleted, ""); err != nil {
		o.logger.Error("failed to record completion", zap.String("doc_id", job.DocumentID), zap.Error(err))
	}
	o.hub.Broadcast(notify.Event{
		Type:       "processing_completed",
		DocumentID: job.DocumentID,
		Status:     string(models.StatusCompleted),
		Message:    fmt.Sprintf("%d documents extracted", result.Metadata.TotalDocuments),
	})
}

// Process runs the pipeline synchronously and returns the full result.
// Status bookkeeping is the caller's concern; Process only transforms
// and persists.
func (o *Orchestrator) Process(ctx context.Context, job *models.Job) (*models.Result, error) {
	start := time.Now()
	o.logger.Info("processing started",
		zap.String("doc_id", job.DocumentID),
		zap.String("file", job.FileName),
	)

	pageResults, err := o.recognize(ctx, job)
	if err != nil {
		return nil, err
	}

	var parsed []*models.ParsedPage
	for _, pr := range pageResults {
		if !pr.Success {
			continue
		}
		parsed = append(parsed, parser.ParsePage(pr))
	}

	segments := segment.Split(parsed)

	records := make([]*models.Record, 0, len(segments))
	for _, seg := range segments {
		var headings []models.Heading
		if len(seg.Pages) > 0 && seg.Pages[0].Elements != nil {
			headings = seg.Pages[0].Elements.Headings
		}
		c := classify.Classify(seg.FullText, headings)
		rec := extract.Extract(seg.FullText, c)
		rec.SegmentID = seg.ID
		rec.StartPage = seg.StartPage
		rec.EndPage = seg.EndPage
		rec.PageCount = seg.PageCount
		records = append(records, rec)
	}

	successful := 0
	for _, pr := range pageResults {
		if pr.Success {
			successful++
		}
	}

	result := &models.Result{
		Metadata: models.ResultMetadata{
			DocumentID:      job.DocumentID,
			FileName:        job.FileName,
			TotalPages:      len(pageResults),
			SuccessfulPages: successful,
			TotalDocuments:  len(segments),
			ProcessedAt:     time.Now(),
		},
		Recognition: models.RecognitionStats{
			TotalPages:      len(pageResults),
			SuccessfulPages: successful,
			ProcessingSecs:  time.Since(start).Seconds(),
		},
		Pages:       pageResults,
		ParsedPages: parsed,
		Segments:    segments,
		Extractions: records,
	}

	if err := o.persist(ctx, job, result); err != nil {
		return nil, err
	}

	o.logger.Info("processing finished",
		zap.String("doc_id", job.DocumentID),
		zap.Int("pages", len(pageResults)),
		zap.Int("documents", len(segments)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

func (o *Orchestrator) recognize(ctx context.Context, job *models.Job) ([]models.PageResult, error) {
	select {
	case o.recognitionSlots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-o.recognitionSlots }()

	pages, cleanup, err := o.raster.Render(ctx, job.FilePath, o.dpi)
	if err != nil {
		return nil, fmt.Errorf("pdf conversion failed: %w", err)
	}
	defer cleanup()

	return o.scheduler.Recognize(ctx, pages)
}

func (o *Orchestrator) persist(ctx context.Context, job *models.Job, result *models.Result) error {
	if err := o.store.ReplaceExtractions(ctx, job.DocumentID, result.Extractions); err != nil {
		return fmt.Errorf("failed to persist extractions: %w", err)
	}
	if _, err := export.WriteJSON(o.outputDir, result); err != nil {
		return err
	}
	if _, err := export.WriteXLSX(o.outputDir, job.DocumentID, result.Extractions); err != nil {
		return err
	}
	if o.index != nil {
		if err := o.index.IndexSegments(ctx, job.DocumentID, result.Segments, result.Extractions); err != nil {
			// Search is a convenience surface; a failed index never
			// fails the run.
			o.logger.Warn("failed to index segments", zap.String("doc_id", job.DocumentID), zap.Error(err))
		}
	}
	o.cache.Put(job.DocumentID, result)
	return nil
}

// Result returns the completed result for a document from cache or the
// on-disk dump. It returns nil when the dump is missing.
func (o *Orchestrator) Result(documentID string) *models.Result {
	if cached := o.cache.Get(documentID); cached != nil {
		return cached
	}
	result, err := export.ReadJSON(o.outputDir, documentID)
	if err != nil {
		return nil
	}
	o.cache.Put(documentID, result)
	return result
}
