package ingestion

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/imagesearch/ai/mock"
	"github.com/poiesic/imagesearch/storage/badger"
	"github.com/poiesic/imagesearch/vision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngPayload(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func base64Payload(t *testing.T, w, h int, c color.RGBA) string {
	t.Helper()
	return base64.StdEncoding.EncodeToString(pngPayload(t, w, h, c))
}

func TestNewPipeline(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	encoder := mock.NewMockImageEncoder()

	t.Run("valid configuration", func(t *testing.T) {
		p, err := NewPipeline(repo, encoder)
		require.NoError(t, err)
		assert.NotNil(t, p)
		p.Release()
	})

	t.Run("with options", func(t *testing.T) {
		p, err := NewPipeline(repo, encoder,
			WithPoolSize(2), WithStrictValidation(), WithVisionConfig(nil))
		require.NoError(t, err)
		assert.NotNil(t, p)
		p.Release()
	})

	t.Run("nil image repository", func(t *testing.T) {
		_, err := NewPipeline(nil, encoder)
		assert.Equal(t, ErrImageRepositoryRequired, err)
	})

	t.Run("nil image encoder", func(t *testing.T) {
		_, err := NewPipeline(repo, nil)
		assert.Equal(t, ErrImageEncoderRequired, err)
	})
}

func TestFeedBatch(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	encoder := mock.NewMockImageEncoder()
	pipeline, err := NewPipeline(repo, encoder, WithPoolSize(2))
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()

	records := []FeedRecord{
		{ImageFileName: "red.png", Image: base64Payload(t, 300, 300, color.RGBA{R: 255, A: 255})},
		{ImageFileName: "green.png", Image: base64Payload(t, 640, 480, color.RGBA{G: 255, A: 255})},
	}

	report, err := pipeline.FeedBatch(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Fed)
	assert.Equal(t, 2, report.Total)

	// Documents are stored with unit-norm vectors
	doc, err := repo.GetImageDocumentByFileName(ctx, "red.png")
	require.NoError(t, err)
	assert.Len(t, doc.Vector, 512)
	assert.Equal(t, 2, encoder.CallCount())
}

func TestFeedBatch_SkipsInvalidRecords(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	pipeline, err := NewPipeline(repo, mock.NewMockImageEncoder())
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()

	records := []FeedRecord{
		{ImageFileName: "red.png", Image: base64Payload(t, 256, 256, color.RGBA{R: 255, A: 255})},
		{ImageFileName: "missing-payload.png"}, // no image field
		{ImageFileName: "blue.png", Image: base64Payload(t, 256, 256, color.RGBA{B: 255, A: 255})},
	}

	report, err := pipeline.FeedBatch(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Fed)
	assert.Equal(t, 3, report.Total)

	var missing *MissingFieldError
	require.ErrorAs(t, report.Items[1].Err, &missing)
	assert.Equal(t, 1, missing.Record)
	assert.Equal(t, "image", missing.Field)

	count, err := repo.CountImageDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestFeedBatch_StrictRejectsBatch(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	pipeline, err := NewPipeline(repo, mock.NewMockImageEncoder(), WithStrictValidation())
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()

	records := []FeedRecord{
		{ImageFileName: "red.png", Image: base64Payload(t, 256, 256, color.RGBA{R: 255, A: 255})},
		{Image: base64Payload(t, 256, 256, color.RGBA{G: 255, A: 255})}, // no file name
	}

	_, err = pipeline.FeedBatch(ctx, records)
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, 1, missing.Record)
	assert.Equal(t, "image_file_name", missing.Field)

	// Nothing was stored
	count, err := repo.CountImageDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestFeedBatch_IsolatesItemFailures(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	pipeline, err := NewPipeline(repo, mock.NewMockImageEncoder())
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()

	records := []FeedRecord{
		{ImageFileName: "good.png", Image: base64Payload(t, 256, 256, color.RGBA{R: 255, A: 255})},
		{ImageFileName: "bad.png", Image: base64.StdEncoding.EncodeToString([]byte("not an image"))},
		{ImageFileName: "bad-base64.png", Image: "%%% not base64 %%%"},
	}

	report, err := pipeline.FeedBatch(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Fed)
	assert.Equal(t, 3, report.Total)
	assert.NoError(t, report.Items[0].Err)
	assert.Error(t, report.Items[1].Err)
	assert.Error(t, report.Items[2].Err)
}

func TestFeedBatch_EncoderFailure(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	encoder := mock.NewMockImageEncoder()
	encoderErr := errors.New("inference failed")
	encoder.EvaluateFunc = func(ctx context.Context, tensor *vision.Tensor) ([]float32, error) {
		return nil, encoderErr
	}

	pipeline, err := NewPipeline(repo, encoder)
	require.NoError(t, err)
	defer pipeline.Release()

	ctx := context.Background()
	records := []FeedRecord{
		{ImageFileName: "red.png", Image: base64Payload(t, 256, 256, color.RGBA{R: 255, A: 255})},
	}

	report, err := pipeline.FeedBatch(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Fed)
	assert.ErrorIs(t, report.Items[0].Err, encoderErr)
}

func TestFeedDirectory(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer func() { repo.Close(); backend.Close() }()

	pipeline, err := NewPipeline(repo, mock.NewMockImageEncoder())
	require.NoError(t, err)
	defer pipeline.Release()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"),
		pngPayload(t, 256, 256, color.RGBA{R: 255, A: 255}), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.png"),
		pngPayload(t, 300, 200, color.RGBA{G: 255, A: 255}), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"),
		[]byte("ignored"), 0644))

	ctx := context.Background()
	report, err := pipeline.FeedDirectory(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Fed)
	assert.Equal(t, 2, report.Total)

	count, err := repo.CountImageDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestParseFeedBatch(t *testing.T) {
	t.Run("valid batch", func(t *testing.T) {
		input := `[
			{"image_file_name": "dog.jpg", "image": "aGVsbG8="},
			{"image_file_name": "cat.jpg", "image": "d29ybGQ="}
		]`
		records, err := ParseFeedBatch(bytes.NewReader([]byte(input)))
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "dog.jpg", records[0].ImageFileName)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		_, err := ParseFeedBatch(bytes.NewReader([]byte("{not json")))
		assert.Error(t, err)
	})
}
