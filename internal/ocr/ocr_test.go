package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/vanban/internal/models"
)

type fakeRecognizer struct {
	mu       sync.Mutex
	calls    int
	inflight int32
	peak     int32
	failPage int
}

func (f *fakeRecognizer) Recognize(_ context.Context, img PageImage) models.PageResult {
	cur := atomic.AddInt32(&f.inflight, 1)
	for {
		peak := atomic.LoadInt32(&f.peak)
		if cur <= peak || atomic.CompareAndSwapInt32(&f.peak, peak, cur) {
			break
		}
	}
	time.Sleep(time.Millisecond)
	atomic.AddInt32(&f.inflight, -1)

	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if img.Page == f.failPage {
		return models.PageResult{Page: img.Page, Error: "simulated failure"}
	}
	return models.PageResult{Page: img.Page, Success: true, Markdown: fmt.Sprintf("trang %d", img.Page)}
}

func makePages(n int) []PageImage {
	pages := make([]PageImage, n)
	for i := range pages {
		pages[i] = PageImage{Page: i + 1}
	}
	return pages
}

func TestSchedulerRestoresPageOrder(t *testing.T) {
	rec := &fakeRecognizer{}
	s := NewScheduler(rec, 4, 4, zap.NewNop())

	results, err := s.Recognize(context.Background(), makePages(11))
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if len(results) != 11 {
		t.Fatalf("got %d results, want 11", len(results))
	}
	for i, r := range results {
		if r.Page != i+1 {
			t.Errorf("results[%d].Page = %d, want %d", i, r.Page, i+1)
		}
	}
	if rec.calls != 11 {
		t.Errorf("recognizer called %d times, want 11", rec.calls)
	}
}

func TestSchedulerIsolatesPageFailures(t *testing.T) {
	rec := &fakeRecognizer{failPage: 3}
	s := NewScheduler(rec, 2, 2, zap.NewNop())

	results, err := s.Recognize(context.Background(), makePages(5))
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	for _, r := range results {
		want := r.Page != 3
		if r.Success != want {
			t.Errorf("page %d success = %v, want %v", r.Page, r.Success, want)
		}
	}
	if results[2].Error == "" {
		t.Error("failed page should carry an error message")
	}
}

func TestSchedulerBoundsConcurrency(t *testing.T) {
	rec := &fakeRecognizer{}
	s := NewScheduler(rec, 8, 2, zap.NewNop())

	if _, err := s.Recognize(context.Background(), makePages(8)); err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if peak := atomic.LoadInt32(&rec.peak); peak > 2 {
		t.Errorf("peak in-flight pages = %d, want <= 2", peak)
	}
}

func TestSchedulerEmptyInput(t *testing.T) {
	s := NewScheduler(&fakeRecognizer{}, 4, 2, zap.NewNop())
	results, err := s.Recognize(context.Background(), nil)
	if err != nil {
		t.Fatalf("Recognize: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results for empty input", len(results))
	}
}

func TestHTTPRecognizer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, _, err := r.FormFile("file"); err != nil {
			http.Error(w, "missing file", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"markdown": "# QUYẾT ĐỊNH"})
	}))
	defer srv.Close()

	img := writeTestPNG(t, 40, 60)
	rec := NewHTTPRecognizer(srv.URL, time.Second, zap.NewNop())

	res := rec.Recognize(context.Background(), img)
	if !res.Success {
		t.Fatalf("Recognize failed: %s", res.Error)
	}
	if res.Markdown != "# QUYẾT ĐỊNH" {
		t.Errorf("Markdown = %q", res.Markdown)
	}
	if res.Width != 40 || res.Height != 60 {
		t.Errorf("dims = %dx%d, want 40x60", res.Width, res.Height)
	}
}

func TestHTTPRecognizerServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "model overloaded"})
	}))
	defer srv.Close()

	res := NewHTTPRecognizer(srv.URL, time.Second, zap.NewNop()).Recognize(context.Background(), writeTestPNG(t, 10, 10))
	if res.Success {
		t.Fatal("expected failure when service reports an error")
	}
	if !strings.Contains(res.Error, "model overloaded") {
		t.Errorf("Error = %q, want service message propagated", res.Error)
	}
}

func TestHTTPRecognizerBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	res := NewHTTPRecognizer(srv.URL, time.Second, zap.NewNop()).Recognize(context.Background(), writeTestPNG(t, 10, 10))
	if res.Success {
		t.Fatal("expected failure on non-200 status")
	}
}

type fakeRunner struct {
	pages int
	fail  bool
}

func (f *fakeRunner) Run(_ context.Context, _ string, args ...string) ([]byte, []byte, error) {
	if f.fail {
		return nil, []byte("Syntax Error: couldn't read xref table"), fmt.Errorf("exit status 1")
	}
	prefix := args[len(args)-1]
	for i := 1; i <= f.pages; i++ {
		path := fmt.Sprintf("%s-%02d.png", prefix, i)
		if err := encodePNG(path, 20, 30); err != nil {
			return nil, nil, err
		}
	}
	return nil, nil, nil
}

func TestPopplerRasterizer(t *testing.T) {
	r := NewPopplerRasterizer(&fakeRunner{pages: 3}, "pdftoppm", 0, zap.NewNop())

	pages, cleanup, err := r.Render(context.Background(), "doc.pdf", 200)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	defer cleanup()

	if len(pages) != 3 {
		t.Fatalf("got %d pages, want 3", len(pages))
	}
	for i, p := range pages {
		if p.Page != i+1 {
			t.Errorf("pages[%d].Page = %d, want %d", i, p.Page, i+1)
		}
		if p.Width != 20 || p.Height != 30 {
			t.Errorf("page %d dims = %dx%d, want 20x30", p.Page, p.Width, p.Height)
		}
	}
}

func TestPopplerRasterizerMaxPages(t *testing.T) {
	r := NewPopplerRasterizer(&fakeRunner{pages: 5}, "pdftoppm", 2, zap.NewNop())

	pages, cleanup, err := r.Render(context.Background(), "doc.pdf", 200)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	defer cleanup()

	if len(pages) != 2 {
		t.Errorf("got %d pages, want cap of 2", len(pages))
	}
}

func TestPopplerRasterizerConversionFailure(t *testing.T) {
	r := NewPopplerRasterizer(&fakeRunner{fail: true}, "pdftoppm", 0, zap.NewNop())

	if _, _, err := r.Render(context.Background(), "broken.pdf", 200); err == nil {
		t.Fatal("expected error for unconvertible file")
	}
}

func TestPopplerRasterizerCleanupRemovesPages(t *testing.T) {
	r := NewPopplerRasterizer(&fakeRunner{pages: 1}, "pdftoppm", 0, zap.NewNop())

	pages, cleanup, err := r.Render(context.Background(), "doc.pdf", 200)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	cleanup()
	if _, err := os.Stat(pages[0].Path); !os.IsNotExist(err) {
		t.Error("cleanup should remove rendered page images")
	}
}

func writeTestPNG(t *testing.T, w, h int) PageImage {
	t.Helper()
	path := fmt.Sprintf("%s/page-01.png", t.TempDir())
	if err := encodePNG(path, w, h); err != nil {
		t.Fatal(err)
	}
	return PageImage{Page: 1, Path: path, Width: w, Height: h}
}

func encodePNG(path string, w, h int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h)))
}
