package search

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/poiesic/imagesearch/ai/mock"
	"github.com/poiesic/imagesearch/core"
	"github.com/poiesic/imagesearch/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSearcher(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	encoder := mock.NewMockTextEncoder()

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(repo, encoder)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with custom options", func(t *testing.T) {
		searcher, err := NewSearcher(repo, encoder,
			WithLogger(slog.Default()),
			WithTimeout(10*time.Second),
			WithMinSimilarity(0.25))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		searcher, err := NewSearcher(repo, encoder, WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
	})

	t.Run("nil image repository", func(t *testing.T) {
		_, err := NewSearcher(nil, encoder)
		assert.Equal(t, ErrImageRepositoryRequired, err)
	})

	t.Run("nil text encoder", func(t *testing.T) {
		_, err := NewSearcher(repo, nil)
		assert.Equal(t, ErrTextEncoderRequired, err)
	})
}

func TestSearch_EmptyIndex(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	searcher, err := NewSearcher(repo, mock.NewMockTextEncoder())
	require.NoError(t, err)

	results, err := searcher.Search(context.Background(), "a dog on the beach", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_EmptyQuery(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	searcher, err := NewSearcher(repo, mock.NewMockTextEncoder())
	require.NoError(t, err)

	_, err = searcher.Search(context.Background(), "   ", 10)
	assert.Equal(t, ErrEmptyQuery, err)
}

func TestSearch_RanksBySimilarity(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	// Stored vectors at known angles to the injected query embedding
	docs := []*core.ImageDocument{
		{FileName: "dog.jpg", Vector: []float32{1, 0, 0}},
		{FileName: "wolf.jpg", Vector: []float32{0.8, 0.6, 0}},
		{FileName: "teapot.jpg", Vector: []float32{0, 0, 1}},
	}
	_, err = repo.PutImageDocuments(ctx, docs...)
	require.NoError(t, err)

	encoder := mock.NewMockTextEncoder()
	encoder.EncodeTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}

	searcher, err := NewSearcher(repo, encoder, WithMinSimilarity(0.5))
	require.NoError(t, err)

	results, err := searcher.Search(ctx, "a dog", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "dog.jpg", results[0].Document.FileName)
	assert.Equal(t, "wolf.jpg", results[1].Document.FileName)
	assert.InDelta(t, 1.0, results[0].Score, 1e-5)
	assert.InDelta(t, 0.8, results[1].Score, 1e-5)
}

func TestSearch_MaxHits(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	docs := []*core.ImageDocument{
		{FileName: "a.jpg", Vector: []float32{1, 0, 0}},
		{FileName: "b.jpg", Vector: []float32{0.8, 0.6, 0}},
		{FileName: "c.jpg", Vector: []float32{0.6, 0.8, 0}},
	}
	_, err = repo.PutImageDocuments(ctx, docs...)
	require.NoError(t, err)

	encoder := mock.NewMockTextEncoder()
	encoder.EncodeTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}

	searcher, err := NewSearcher(repo, encoder)
	require.NoError(t, err)

	results, err := searcher.Search(ctx, "anything", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a.jpg", results[0].Document.FileName)
}

func TestSearch_EncoderError(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	encoderErr := errors.New("embedding service unavailable")
	encoder := mock.NewMockTextEncoder()
	encoder.EncodeTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, encoderErr
	}

	searcher, err := NewSearcher(repo, encoder)
	require.NoError(t, err)

	_, err = searcher.Search(context.Background(), "a dog", 10)
	assert.ErrorIs(t, err, encoderErr)
}

func TestSearch_DegenerateQueryEmbedding(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	encoder := mock.NewMockTextEncoder()
	encoder.EncodeTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return make([]float32, 512), nil
	}

	searcher, err := NewSearcher(repo, encoder)
	require.NoError(t, err)

	_, err = searcher.Search(context.Background(), "a dog", 10)
	assert.Equal(t, ErrDegenerateQueryEmbedding, err)
}

type recordingMonitor struct {
	started   bool
	embedding []float32
	finished  bool
	results   []*core.SearchResult
}

func (m *recordingMonitor) Start(_ string)                     { m.started = true }
func (m *recordingMonitor) AfterQueryEmbedding(e []float32)    { m.embedding = e }
func (m *recordingMonitor) Finish(r []*core.SearchResult)      { m.finished = true; m.results = r }

func TestSearchWithMonitor(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()
	_, err = repo.PutImageDocuments(ctx, &core.ImageDocument{
		FileName: "dog.jpg",
		Vector:   []float32{1, 0, 0},
	})
	require.NoError(t, err)

	encoder := mock.NewMockTextEncoder()
	encoder.EncodeTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}

	searcher, err := NewSearcher(repo, encoder)
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	results, err := searcher.SearchWithMonitor(ctx, "a dog", 5, monitor)
	require.NoError(t, err)

	assert.True(t, monitor.started)
	assert.Equal(t, []float32{1, 0, 0}, monitor.embedding)
	assert.True(t, monitor.finished)
	assert.Equal(t, results, monitor.results)
}
