// Package embedding produces vector embeddings for segment text. The
// ONNX implementation is behind the onnx build tag; default builds get
// the stub so the service runs without the onnxruntime library.
package embedding

import "context"

// Embedder produces vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
	Close() error
}

// HashString returns a small FNV-style hash used for deterministic
// mock embeddings and fallback token IDs.
func HashString(s string) int {
	h := 2166136261
	for _, r := range s {
		h ^= int(r)
		h *= 16777619
		h &= 0x7fffffff
	}
	return h
}
