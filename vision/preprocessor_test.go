package vision

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestPreprocessor(t *testing.T) *Preprocessor {
	t.Helper()
	p, err := NewPreprocessor(DefaultConfig())
	require.NoError(t, err)
	return p
}

func TestResizeShorterSideToTarget(t *testing.T) {
	p := newTestPreprocessor(t)

	tests := []struct {
		name       string
		w, h       int
		wantW      int
		wantH      int
	}{
		{"landscape", 500, 300, 373, 224},
		{"portrait", 300, 500, 224, 373},
		{"square", 300, 300, 224, 224},
		{"already target", 224, 224, 224, 224},
		{"upscale small image", 100, 50, 448, 224},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resized := p.Resize(uniformImage(tt.w, tt.h, color.RGBA{R: 255, A: 255}))
			b := resized.Bounds()
			assert.Equal(t, tt.wantW, b.Dx())
			assert.Equal(t, tt.wantH, b.Dy())
		})
	}
}

func TestCenterCrop(t *testing.T) {
	p := newTestPreprocessor(t)

	t.Run("crops to target square", func(t *testing.T) {
		cropped, err := p.CenterCrop(uniformImage(373, 224, color.RGBA{G: 255, A: 255}))
		require.NoError(t, err)
		b := cropped.Bounds()
		assert.Equal(t, 224, b.Dx())
		assert.Equal(t, 224, b.Dy())
	})

	t.Run("rejects undersized image", func(t *testing.T) {
		_, err := p.CenterCrop(uniformImage(200, 224, color.RGBA{A: 255}))
		assert.ErrorIs(t, err, ErrImageTooSmall)
	})
}

func TestResizeThenCropAlwaysTargetSquare(t *testing.T) {
	p := newTestPreprocessor(t)

	dims := [][2]int{{500, 300}, {300, 500}, {1920, 1080}, {224, 224}, {231, 640}}
	for _, d := range dims {
		cropped, err := p.CenterCrop(p.Resize(uniformImage(d[0], d[1], color.RGBA{B: 255, A: 255})))
		require.NoError(t, err, "dims %v", d)
		b := cropped.Bounds()
		assert.Equal(t, 224, b.Dx(), "dims %v", d)
		assert.Equal(t, 224, b.Dy(), "dims %v", d)
	}
}

func TestToTensor(t *testing.T) {
	p := newTestPreprocessor(t)

	t.Run("shape and scaling", func(t *testing.T) {
		tensor, err := p.ToTensor(uniformImage(224, 224, color.RGBA{R: 255, G: 0, B: 127, A: 255}))
		require.NoError(t, err)
		assert.Equal(t, [4]int{1, 3, 224, 224}, tensor.Shape())

		assert.InDelta(t, 1.0, tensor.At(0, 0, 0), 1e-6)
		assert.InDelta(t, 0.0, tensor.At(1, 0, 0), 1e-6)
		assert.InDelta(t, 127.0/255.0, tensor.At(2, 100, 100), 1e-6)
	})

	t.Run("all values in unit interval", func(t *testing.T) {
		tensor, err := p.ToTensor(uniformImage(224, 224, color.RGBA{R: 12, G: 200, B: 99, A: 255}))
		require.NoError(t, err)
		for _, v := range tensor.Data() {
			assert.GreaterOrEqual(t, v, float32(0))
			assert.LessOrEqual(t, v, float32(1))
		}
	})
}

func TestNormalizeDenormalizeRoundTrip(t *testing.T) {
	p := newTestPreprocessor(t)

	tensor, err := p.ToTensor(uniformImage(224, 224, color.RGBA{R: 50, G: 120, B: 230, A: 255}))
	require.NoError(t, err)

	original := make([]float32, len(tensor.Data()))
	copy(original, tensor.Data())

	p.Denormalize(p.Normalize(tensor))

	for i, v := range tensor.Data() {
		assert.InDelta(t, original[i], v, 1e-5)
	}
}

func TestNormalizeWhiteImage(t *testing.T) {
	p := newTestPreprocessor(t)

	tensor, err := p.ToTensor(uniformImage(224, 224, color.RGBA{R: 255, G: 255, B: 255, A: 255}))
	require.NoError(t, err)
	p.Normalize(tensor)

	// (1.0 - mean[c]) / std[c] for the CLIP constants
	assert.InDelta(t, 1.9303, tensor.At(0, 0, 0), 1e-3)
	assert.InDelta(t, 2.0749, tensor.At(1, 112, 112), 1e-3)
	assert.InDelta(t, 2.1459, tensor.At(2, 223, 223), 1e-3)
}

func TestTensorFromImage(t *testing.T) {
	p := newTestPreprocessor(t)

	t.Run("full chain on landscape PNG", func(t *testing.T) {
		data := pngBytes(t, uniformImage(500, 300, color.RGBA{R: 255, G: 255, B: 255, A: 255}))

		tensor, err := p.TensorFromImage(data)
		require.NoError(t, err)
		assert.Equal(t, [4]int{1, 3, 224, 224}, tensor.Shape())
		// Uniform white survives resize and crop unchanged
		assert.InDelta(t, 1.9303, tensor.At(0, 50, 50), 1e-3)
	})

	t.Run("deterministic", func(t *testing.T) {
		data := pngBytes(t, uniformImage(640, 480, color.RGBA{R: 10, G: 20, B: 30, A: 255}))

		t1, err := p.TensorFromImage(data)
		require.NoError(t, err)
		t2, err := p.TensorFromImage(data)
		require.NoError(t, err)
		assert.Equal(t, t1.Data(), t2.Data())
	})

	t.Run("garbage bytes", func(t *testing.T) {
		_, err := p.TensorFromImage([]byte("not an image"))
		assert.ErrorIs(t, err, ErrDecode)
	})
}

func TestDecode(t *testing.T) {
	p := newTestPreprocessor(t)

	t.Run("png", func(t *testing.T) {
		img, err := p.Decode(pngBytes(t, uniformImage(10, 10, color.RGBA{A: 255})))
		require.NoError(t, err)
		assert.Equal(t, 10, img.Bounds().Dx())
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := p.Decode(nil)
		assert.ErrorIs(t, err, ErrDecode)
	})
}
