// Package ocr wraps the external recognition collaborators (rasterizer,
// per-page recognizer) and schedules page batches across a bounded worker
// pool, reassembling results in page order.
package ocr

import (
	"context"

	"github.com/hyperjump/vanban/internal/models"
)

// PageImage is one rendered page awaiting recognition.
type PageImage struct {
	Page   int
	Path   string
	Width  int
	Height int
}

// Recognizer turns a page image into recognized text. Implementations
// must be safe for concurrent use; a failing call is reported in the
// PageResult and must not affect sibling pages.
type Recognizer interface {
	Recognize(ctx context.Context, img PageImage) models.PageResult
}

// Rasterizer renders a source file into ordered page images. Rendering
// fails atomically for the whole file. The returned cleanup releases the
// rendered artifacts and is safe to call once results are consumed.
type Rasterizer interface {
	Render(ctx context.Context, sourceFile string, dpi int) (pages []PageImage, cleanup func(), err error)
}
