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


package reindex

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/poiesic/imagesearch/ai"
	"github.com/poiesic/imagesearch/core"
	"github.com/poiesic/imagesearch/storage"
	"github.com/poiesic/imagesearch/vision"
)

// Config holds configuration for the reindexing operation.
type Config struct {
	// BatchSize is the number of documents to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of documents)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed model evaluations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reindexer orchestrates the re-embedding of all image documents in an index.
type Reindexer struct {
	repo         storage.ImageRepository
	imageEncoder ai.ImageEncoder
	preprocessor *vision.Preprocessor
	imageDir     string
	config       *Config
	progress     io.Writer
	iterator     *DocumentIterator
}

// NewReindexer creates a new reindexer.
// imageDir: directory holding the source image files, looked up by document file name
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(repo storage.ImageRepository, imageEncoder ai.ImageEncoder, preprocessor *vision.Preprocessor, imageDir string, config *Config, progress io.Writer) (*Reindexer, error) {
	if imageDir == "" {
		return nil, ErrImageDirRequired
	}
	if config == nil {
		config = DefaultConfig()
	}

	return &Reindexer{
		repo:         repo,
		imageEncoder: imageEncoder,
		preprocessor: preprocessor,
		imageDir:     imageDir,
		config:       config,
		progress:     progress,
		iterator:     NewDocumentIterator(repo, config.BatchSize),
	}, nil
}

// Run executes the reindexing operation.
// Every stored document is re-embedded from its source image file and its
// vector replaced. Documents whose source image is missing or unreadable are
// skipped and counted, not fatal.
func (r *Reindexer) Run(ctx context.Context) error {
	total, err := r.repo.CountImageDocuments(ctx)
	if err != nil {
		return fmt.Errorf("failed to count documents: %w", err)
	}

	if total == 0 {
		fmt.Fprintf(r.progress, "No documents found in index (0 documents)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reindexing of %d documents (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	processed := 0
	skipped := 0

	err = r.iterator.ForEach(ctx, func(docs []*core.ImageDocument) error {
		for _, doc := range docs {
			if err := r.reindexOne(ctx, doc); err != nil {
				fmt.Fprintf(r.progress, "\nSkipping %s: %v\n", doc.FileName, err)
				skipped++
			}
			processed++
			tracker.Update(processed)
		}
		return nil
	})

	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reindexing complete. Processed %d documents (%d skipped) in %v (%.1f documents/sec)\n",
		total, skipped, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}

// reindexOne re-embeds a single document from its source image file.
func (r *Reindexer) reindexOne(ctx context.Context, doc *core.ImageDocument) error {
	data, err := os.ReadFile(filepath.Join(r.imageDir, doc.FileName))
	if err != nil {
		return err
	}

	tensor, err := r.preprocessor.TensorFromImage(data)
	if err != nil {
		return err
	}

	var raw []float32
	err = RetryWithBackoff(ctx, func() error {
		var evalErr error
		raw, evalErr = r.imageEncoder.Evaluate(ctx, tensor)
		return evalErr
	}, r.config.MaxRetries, r.config.RetryDelay)
	if err != nil {
		return err
	}

	embedding, err := vision.PostprocessEmbedding(raw, r.preprocessor.Config().EmbeddingSize)
	if err != nil {
		return err
	}

	doc.Vector = embedding
	_, err = r.repo.PutImageDocuments(ctx, doc)
	return err
}
