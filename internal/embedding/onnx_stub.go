//go:build !onnx

package embedding

import (
	"context"
	"errors"
)

var errNotCompiled = errors.New("ONNX embedder not compiled in; rebuild with -tags onnx and onnxruntime installed")

// ONNXEmbedder stub for builds without the onnx tag (see onnx.go).
type ONNXEmbedder struct{}

// NewONNXEmbedder reports that ONNX support was not compiled in.
func NewONNXEmbedder(_ string, _, _ int) (*ONNXEmbedder, error) {
	return nil, errNotCompiled
}

// Embed always fails on stub builds.
func (e *ONNXEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return nil, errNotCompiled
}

// Dimensions returns zero on stub builds.
func (e *ONNXEmbedder) Dimensions() int { return 0 }

// Close is a no-op.
func (e *ONNXEmbedder) Close() error { return nil }
