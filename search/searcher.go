package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/imagesearch/ai"
	"github.com/poiesic/imagesearch/core"
	"github.com/poiesic/imagesearch/storage"
)

const (
	defaultTimeout       = 3 * time.Second
	defaultMinSimilarity = 0.0
)

// Searcher provides text-to-image semantic search over stored image documents.
type Searcher struct {
	imageRepository storage.ImageRepository
	textEncoder     ai.TextEncoder
	timeout         time.Duration
	minSimilarity   float32
	logger          *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithTimeout sets the per-query deadline.
// Default is 3 seconds. A non-positive value disables the deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Searcher) error {
		s.timeout = timeout
		return nil
	}
}

// WithMinSimilarity sets the minimum cosine similarity for a document to be
// included in the results. Default is 0.
func WithMinSimilarity(min float32) Option {
	return func(s *Searcher) error {
		s.minSimilarity = min
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	imageRepository storage.ImageRepository,
	textEncoder ai.TextEncoder,
	opts ...Option,
) (*Searcher, error) {
	if imageRepository == nil {
		return nil, ErrImageRepositoryRequired
	}
	if textEncoder == nil {
		return nil, ErrTextEncoderRequired
	}

	s := &Searcher{
		imageRepository: imageRepository,
		textEncoder:     textEncoder,
		timeout:         defaultTimeout,
		minSimilarity:   defaultMinSimilarity,
		logger:          slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Search finds image documents matching the query text.
// Returns up to maxHits results, ranked by cosine similarity.
func (s *Searcher) Search(ctx context.Context, query string, maxHits int) ([]*core.SearchResult, error) {
	return s.SearchWithMonitor(ctx, query, maxHits, nil)
}

// SearchWithMonitor finds image documents matching the query text with
// monitoring. The monitor receives callbacks at each stage of the search.
// Returns up to maxHits results, ranked by cosine similarity.
func (s *Searcher) SearchWithMonitor(ctx context.Context, query string, maxHits int, monitor SearchMonitor) ([]*core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	monitor.Start(query)

	embedding, err := s.textEncoder.EncodeText(ctx, query)
	if err != nil {
		s.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}
	if isZeroVector(embedding) {
		return nil, ErrDegenerateQueryEmbedding
	}
	monitor.AfterQueryEmbedding(embedding)

	results, err := s.imageRepository.FindSimilar(ctx, embedding, s.minSimilarity, maxHits)
	if err != nil {
		s.logger.Error("error querying for similar documents", "err", err)
		return nil, err
	}

	monitor.Finish(results)
	return results, nil
}

func isZeroVector(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
