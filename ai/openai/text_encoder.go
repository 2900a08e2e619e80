// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package openai implements ai.TextEncoder using OpenAI-compatible
// embedding APIs, for serving the text tower of the CLIP model locally
// (Ollama, LocalAI, vLLM) or remotely.
package openai

import (
	"context"
	"log/slog"

	"github.com/poiesic/imagesearch/ai"
	"github.com/poiesic/imagesearch/vision"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// TextEncoder implements ai.TextEncoder using an OpenAI-compatible
// embeddings endpoint.
type TextEncoder struct {
	embedder embeddings.Embedder
	logger   *slog.Logger
}

var _ ai.TextEncoder = (*TextEncoder)(nil)

// newTextEncoder is an internal constructor that returns the concrete type.
func newTextEncoder(config *ai.Config) (*TextEncoder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication.
	client, err := openai.New(
		openai.WithBaseURL(config.EmbeddingHost),
		openai.WithToken("none"),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}

	return &TextEncoder{
		embedder: embedder,
		logger:   slog.Default().With("component", "openai-text-encoder"),
	}, nil
}

// NewTextEncoder creates a text encoder using the provided configuration.
//
// Returns ai.TextEncoder interface to enforce abstraction.
func NewTextEncoder(config *ai.Config) (ai.TextEncoder, error) {
	return newTextEncoder(config)
}

// EncodeText generates a unit-norm embedding vector for the query text.
// Service responses are not guaranteed to be normalized, so the vector is
// L2-normalized before it is compared against stored image embeddings.
func (e *TextEncoder) EncodeText(ctx context.Context, text string) ([]float32, error) {
	e.logger.Debug("generating embedding for query text", "length", len(text))

	vec, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		e.logger.Error("failed to generate query embedding", "err", err)
		return nil, err
	}

	return vision.PostprocessEmbedding(vec, len(vec))
}
