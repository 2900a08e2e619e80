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


// Package imagesearch is a text-to-image semantic search index. Images are
// embedded with a local ONNX export of a CLIP visual model and stored with
// their unit-norm vectors; free-text queries are embedded with the matching
// text model and answered by cosine similarity over the stored vectors.
package imagesearch

import (
	"io"
	"log/slog"

	"github.com/poiesic/imagesearch/ai"
	"github.com/poiesic/imagesearch/ai/onnx"
	"github.com/poiesic/imagesearch/ai/openai"
	"github.com/poiesic/imagesearch/ingestion"
	"github.com/poiesic/imagesearch/reindex"
	"github.com/poiesic/imagesearch/search"
	"github.com/poiesic/imagesearch/storage"
	"github.com/poiesic/imagesearch/storage/badger"
	"github.com/poiesic/imagesearch/vision"
)

// Index ties together the storage backend, the visual model session and the
// text-embedding client behind a single handle.
type Index struct {
	backend   *badger.Backend
	imageRepo storage.ImageRepository
	provider  ai.Provider
	visionCfg *vision.Config
	logger    *slog.Logger
}

// IndexOption configures an Index.
type IndexOption func(*indexOptions)

type indexOptions struct {
	aiConfig  *ai.Config
	visionCfg *vision.Config
}

// WithAIConfig sets the text-embedding service configuration.
func WithAIConfig(cfg *ai.Config) IndexOption {
	return func(o *indexOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithVisionConfig sets the visual model constants.
func WithVisionConfig(cfg *vision.Config) IndexOption {
	return func(o *indexOptions) {
		if cfg != nil {
			o.visionCfg = cfg
		}
	}
}

// NewIndex opens (or creates) an index at filePath using the ONNX visual
// model at modelPath.
func NewIndex(filePath, modelPath string, opts ...IndexOption) (*Index, error) {
	// Apply options
	options := &indexOptions{
		aiConfig:  ai.DefaultConfig(),
		visionCfg: vision.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	// Create image repository
	imageRepo, err := badger.NewImageRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Load the visual model
	imageEncoder, err := onnx.NewEncoder(modelPath, options.visionCfg)
	if err != nil {
		imageRepo.Close()
		backend.Close()
		return nil, err
	}

	// Create the text encoder client
	textEncoder, err := openai.NewTextEncoder(options.aiConfig)
	if err != nil {
		imageEncoder.Close()
		imageRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Index{
		backend:   backend,
		imageRepo: imageRepo,
		provider:  ai.NewProvider(imageEncoder, textEncoder),
		visionCfg: options.visionCfg,
		logger:    slog.Default(),
	}, nil
}

func (idx *Index) Close() error {
	// Close AI provider first
	if err := idx.provider.Close(); err != nil {
		idx.logger.Error("error closing AI provider", "err", err)
	}

	// Close repository
	if err := idx.imageRepo.Close(); err != nil {
		idx.logger.Error("error closing image repository", "err", err)
		return err
	}

	// Close backend
	if err := idx.backend.Close(); err != nil {
		idx.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (idx *Index) ImageRepository() storage.ImageRepository {
	return idx.imageRepo
}

func (idx *Index) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	opts = append([]ingestion.Option{ingestion.WithVisionConfig(idx.visionCfg)}, opts...)
	return ingestion.NewPipeline(idx.imageRepo, idx.provider.ImageEncoder(), opts...)
}

func (idx *Index) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(idx.imageRepo, idx.provider.TextEncoder(), opts...)
}

func (idx *Index) NewReindexer(imageDir string, config *reindex.Config, progress io.Writer) (*reindex.Reindexer, error) {
	preprocessor, err := vision.NewPreprocessor(idx.visionCfg)
	if err != nil {
		return nil, err
	}
	return reindex.NewReindexer(idx.imageRepo, idx.provider.ImageEncoder(), preprocessor, imageDir, config, progress)
}
