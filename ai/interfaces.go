package ai

import (
	"context"

	"github.com/poiesic/imagesearch/vision"
)

// ImageEncoder evaluates a visual embedding model on a preprocessed input
// tensor. Implementations must be thread-safe for concurrent use.
type ImageEncoder interface {
	// Evaluate runs inference on a tensor of shape (1, 3, S, S) and returns
	// the raw model output for the single batch row. The output is NOT
	// normalized; callers pass it through vision.PostprocessEmbedding.
	Evaluate(ctx context.Context, tensor *vision.Tensor) ([]float32, error)

	// Close releases resources held by the encoder.
	Close() error
}

// TextEncoder generates embedding vectors for free-text queries.
// Implementations must be thread-safe for concurrent use.
type TextEncoder interface {
	// EncodeText generates a unit-norm embedding vector for the query text,
	// in the same embedding space as the image encoder.
	EncodeText(ctx context.Context, text string) ([]float32, error)
}

// Provider aggregates the image and text encoders for convenient
// initialization and lifecycle management.
type Provider interface {
	// ImageEncoder returns the visual model encoder.
	ImageEncoder() ImageEncoder

	// TextEncoder returns the query text encoder.
	TextEncoder() TextEncoder

	// Close releases resources held by the provider and its encoders.
	// After Close is called, the provider and its encoders should not be used.
	Close() error
}
