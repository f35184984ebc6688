package ocr

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/hyperjump/vanban/pkg/utils"
)

// PopplerRasterizer renders PDF pages to PNG images with pdftoppm.
type PopplerRasterizer struct {
	runner   Runner
	binary   string
	maxPages int
	logger   *zap.Logger
}

// NewPopplerRasterizer builds a rasterizer using the given pdftoppm
// binary. maxPages <= 0 means no page limit.
func NewPopplerRasterizer(runner Runner, binary string, maxPages int, logger *zap.Logger) *PopplerRasterizer {
	if binary == "" {
		binary = "pdftoppm"
	}
	return &PopplerRasterizer{runner: runner, binary: binary, maxPages: maxPages, logger: logger}
}

// Render rasterizes every page of sourceFile at the given DPI. The whole
// call fails when the file cannot be converted; a successful call always
// returns pages numbered 1..N in order.
func (p *PopplerRasterizer) Render(ctx context.Context, sourceFile string, dpi int) ([]PageImage, func(), error) {
	tmpDir, err := os.MkdirTemp("", "vanban-pages-*")
	if err != nil {
		return nil, nil, fmt.Errorf("create page directory: %w", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			p.logger.Warn("failed to remove page directory", zap.String("path", tmpDir), zap.Error(err))
		}
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	if _, errb, err := p.runner.Run(ctx, p.binary, "-r", fmt.Sprintf("%d", dpi), "-png", sourceFile, prefix); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("convert %s: %w (%s)", filepath.Base(sourceFile), err, utils.Truncate(string(errb), 512))
	}

	// pdftoppm zero-pads page numbers, so a lexical sort is page order.
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		cleanup()
		return nil, nil, fmt.Errorf("convert %s: no pages rendered", filepath.Base(sourceFile))
	}
	if p.maxPages > 0 && len(matches) > p.maxPages {
		matches = matches[:p.maxPages]
	}

	pages := make([]PageImage, 0, len(matches))
	for i, path := range matches {
		width, height := imageSize(path)
		pages = append(pages, PageImage{Page: i + 1, Path: path, Width: width, Height: height})
	}
	p.logger.Info("rendered pages", zap.String("file", filepath.Base(sourceFile)), zap.Int("pages", len(pages)))
	return pages, cleanup, nil
}

func imageSize(path string) (int, int) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
