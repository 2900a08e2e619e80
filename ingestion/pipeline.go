package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/imagesearch/ai"
	"github.com/poiesic/imagesearch/core"
	"github.com/poiesic/imagesearch/storage"
	"github.com/poiesic/imagesearch/vision"
)

// Pipeline orchestrates the feeding of image documents into the index.
// It manages concurrent preprocessing and model evaluation of image payloads.
type Pipeline struct {
	imageRepository storage.ImageRepository
	imageEncoder    ai.ImageEncoder
	preprocessor    *vision.Preprocessor
	pool            *ants.Pool
	visionCfg       *vision.Config
	strict          bool
	logger          *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithStrictValidation makes FeedBatch reject the entire batch when any
// record is missing a required field. The default is to skip invalid records
// and report them per item.
func WithStrictValidation() Option {
	return func(p *Pipeline) error {
		p.strict = true
		return nil
	}
}

// WithVisionConfig sets the model constants used to preprocess image
// payloads. Default is vision.DefaultConfig().
func WithVisionConfig(cfg *vision.Config) Option {
	return func(p *Pipeline) error {
		if cfg == nil {
			cfg = vision.DefaultConfig()
		}
		p.visionCfg = cfg
		return nil
	}
}

// NewPipeline creates a new feed pipeline.
func NewPipeline(
	imageRepository storage.ImageRepository,
	imageEncoder ai.ImageEncoder,
	opts ...Option,
) (*Pipeline, error) {
	if imageRepository == nil {
		return nil, ErrImageRepositoryRequired
	}
	if imageEncoder == nil {
		return nil, ErrImageEncoderRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	// Create pipeline with defaults
	p := &Pipeline{
		imageRepository: imageRepository,
		imageEncoder:    imageEncoder,
		pool:            pool,
		visionCfg:       vision.DefaultConfig(),
		logger:          slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	// Create the preprocessor after options are applied (so it gets final config)
	preprocessor, err := vision.NewPreprocessor(p.visionCfg, vision.WithLogger(p.logger))
	if err != nil {
		p.Release()
		return nil, err
	}
	p.preprocessor = preprocessor

	return p, nil
}

// ItemStatus reports the outcome of feeding a single record.
type ItemStatus struct {
	FileName string
	DocID    core.ID
	Err      error
}

// FeedReport summarizes the outcome of a feed batch.
type FeedReport struct {
	Fed   int // number of documents stored
	Total int // number of records in the batch
	Items []ItemStatus
}

// FeedBatch embeds and stores a batch of feed records. Records are processed
// concurrently; a failure on one record does not abort the others. With
// strict validation enabled, a record missing a required field rejects the
// entire batch before any document is stored.
func (p *Pipeline) FeedBatch(ctx context.Context, records []FeedRecord) (*FeedReport, error) {
	if p.strict {
		for i := range records {
			if err := records[i].validate(i); err != nil {
				return nil, err
			}
		}
	}

	report := &FeedReport{
		Total: len(records),
		Items: make([]ItemStatus, len(records)),
	}

	var wg sync.WaitGroup
	for i := range records {
		record := &records[i]
		status := &report.Items[i]
		status.FileName = record.ImageFileName

		if err := record.validate(i); err != nil {
			status.Err = err
			p.logger.Warn("skipping invalid feed record", "err", err)
			continue
		}

		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			status.DocID, status.Err = p.feedOne(ctx, record)
			if status.Err != nil {
				p.logger.Error("error feeding document",
					"file", record.ImageFileName, "err", status.Err)
			}
		})
		if err != nil {
			wg.Done()
			status.Err = err
		}
	}
	wg.Wait()

	for i := range report.Items {
		if report.Items[i].Err == nil {
			report.Fed++
		}
	}

	p.logger.Info(fmt.Sprintf("fed %d / %d documents", report.Fed, report.Total))
	return report, nil
}

// FeedDirectory embeds and stores every JPEG and PNG image found directly in
// the given directory.
func (p *Pipeline) FeedDirectory(ctx context.Context, dir string) (*FeedReport, error) {
	var records []FeedRecord
	for _, pattern := range []string{"*.jpg", "*.jpeg", "*.png"} {
		paths, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		for _, path := range paths {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			records = append(records, NewFeedRecord(filepath.Base(path), data))
		}
	}
	return p.FeedBatch(ctx, records)
}

// feedOne runs the full chain for a single record: decode and preprocess the
// payload, evaluate the model, normalize the embedding, store the document.
func (p *Pipeline) feedOne(ctx context.Context, record *FeedRecord) (core.ID, error) {
	data, err := record.payload()
	if err != nil {
		return 0, err
	}

	tensor, err := p.preprocessor.TensorFromImage(data)
	if err != nil {
		return 0, err
	}

	raw, err := p.imageEncoder.Evaluate(ctx, tensor)
	if err != nil {
		return 0, err
	}

	embedding, err := vision.PostprocessEmbedding(raw, p.visionCfg.EmbeddingSize)
	if err != nil {
		return 0, err
	}

	doc := &core.ImageDocument{
		FileName: record.ImageFileName,
		Vector:   embedding,
	}

	stored, err := p.imageRepository.PutImageDocuments(ctx, doc)
	if err != nil {
		return 0, err
	}
	return stored[0].Id, nil
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
