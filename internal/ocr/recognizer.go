package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/vanban/internal/models"
	"github.com/hyperjump/vanban/pkg/utils"
)

// HTTPRecognizer sends page images to an external recognition service
// and returns the recognized markdown.
type HTTPRecognizer struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

type recognizeResponse struct {
	Markdown string `json:"markdown"`
	Error    string `json:"error,omitempty"`
}

// NewHTTPRecognizer builds a recognizer for the given service endpoint.
func NewHTTPRecognizer(endpoint string, timeout time.Duration, logger *zap.Logger) *HTTPRecognizer {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &HTTPRecognizer{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Recognize posts one page image to the service. Failures are reported
// in the result rather than returned, so a bad page never aborts its
// siblings.
func (r *HTTPRecognizer) Recognize(ctx context.Context, img PageImage) models.PageResult {
	res := models.PageResult{Page: img.Page, Width: img.Width, Height: img.Height}

	text, err := r.post(ctx, img)
	if err != nil {
		r.logger.Warn("page recognition failed", zap.Int("page", img.Page), zap.Error(err))
		res.Error = err.Error()
		return res
	}

	res.Success = true
	res.Markdown = text
	return res
}

func (r *HTTPRecognizer) post(ctx context.Context, img PageImage) (string, error) {
	f, err := os.Open(img.Path)
	if err != nil {
		return "", fmt.Errorf("open page image: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(img.Path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("read page image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("recognition request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return "", fmt.Errorf("read recognition response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("recognition service returned %d: %s", resp.StatusCode, utils.Truncate(string(body), 256))
	}

	var decoded recognizeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode recognition response: %w", err)
	}
	if decoded.Error != "" {
		return "", fmt.Errorf("recognition service error: %s", decoded.Error)
	}
	return decoded.Markdown, nil
}
