package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"math"

	"github.com/nfnt/resize"
)

// Preprocessor converts arbitrary-size color images into fixed-size,
// channel-normalized model input tensors. It holds no mutable state and is
// safe for concurrent use.
type Preprocessor struct {
	cfg    *Config
	logger *slog.Logger
}

// Option configures a Preprocessor.
type Option func(*Preprocessor)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Preprocessor) {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
	}
}

// NewPreprocessor creates a preprocessor for the given model constants.
func NewPreprocessor(cfg *Config, opts ...Option) (*Preprocessor, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Preprocessor{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Config returns the model constants this preprocessor was built with.
func (p *Preprocessor) Config() *Config {
	return p.cfg
}

// Decode decodes raw image bytes (JPEG or PNG) into a raster.
func (p *Preprocessor) Decode(data []byte) (image.Image, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	b := img.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyImage, b.Dx(), b.Dy())
	}
	p.logger.Debug("decoded image", "format", format, "width", b.Dx(), "height", b.Dy())
	return img, nil
}

// Resize scales the image so its shorter side equals the target size exactly,
// with the longer side scaled to preserve the aspect ratio, rounded to the
// nearest pixel. Bilinear resampling is used to avoid aliasing.
func (p *Preprocessor) Resize(img image.Image) image.Image {
	s := p.cfg.TargetSize
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var newW, newH int
	if w > h {
		newH = s
		newW = int(math.Round(float64(s) * float64(w) / float64(h)))
	} else {
		newW = s
		newH = int(math.Round(float64(s) * float64(h) / float64(w)))
	}
	return resize.Resize(uint(newW), uint(newH), img, resize.Bilinear)
}

// CenterCrop extracts the target-size square anchored at the image origin.
// After Resize the shorter axis is already exactly the target size, so only
// the longer axis has excess to trim; the crop is equivalent to a center
// crop along the short axis and a left/top crop along the long axis.
func (p *Preprocessor) CenterCrop(img image.Image) (image.Image, error) {
	s := p.cfg.TargetSize
	b := img.Bounds()
	if b.Dx() < s || b.Dy() < s {
		return nil, fmt.Errorf("%w: %dx%d < %d", ErrImageTooSmall, b.Dx(), b.Dy(), s)
	}
	out := image.NewRGBA(image.Rect(0, 0, s, s))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out, nil
}

// ToTensor converts a target-size image into a float32 tensor of shape
// (1, 3, S, S), with each channel value scaled from [0,255] to [0.0,1.0].
func (p *Preprocessor) ToTensor(img image.Image) (*Tensor, error) {
	s := p.cfg.TargetSize
	b := img.Bounds()
	if b.Dx() < s || b.Dy() < s {
		return nil, fmt.Errorf("%w: %dx%d < %d", ErrImageTooSmall, b.Dx(), b.Dy(), s)
	}

	t := NewTensor(s)
	for y := 0; y < s; y++ {
		for x := 0; x < s; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			// RGBA returns 16-bit values; take the high byte.
			t.Set(0, y, x, float32(r>>8)/255.0)
			t.Set(1, y, x, float32(g>>8)/255.0)
			t.Set(2, y, x, float32(bl>>8)/255.0)
		}
	}
	return t, nil
}

// Normalize applies the per-channel normalization (v - mean[c]) / std[c]
// in place and returns the tensor.
func (p *Preprocessor) Normalize(t *Tensor) *Tensor {
	s := t.Size()
	plane := s * s
	for c := 0; c < 3; c++ {
		mean, std := p.cfg.Mean[c], p.cfg.Std[c]
		base := c * plane
		for i := base; i < base+plane; i++ {
			t.data[i] = (t.data[i] - mean) / std
		}
	}
	return t
}

// Denormalize inverts Normalize in place and returns the tensor.
func (p *Preprocessor) Denormalize(t *Tensor) *Tensor {
	s := t.Size()
	plane := s * s
	for c := 0; c < 3; c++ {
		mean, std := p.cfg.Mean[c], p.cfg.Std[c]
		base := c * plane
		for i := base; i < base+plane; i++ {
			t.data[i] = t.data[i]*std + mean
		}
	}
	return t
}

// TensorFromImage runs the full deterministic chain on raw image bytes:
// decode, resize, crop, scale to [0,1], normalize.
func (p *Preprocessor) TensorFromImage(data []byte) (*Tensor, error) {
	img, err := p.Decode(data)
	if err != nil {
		return nil, err
	}
	cropped, err := p.CenterCrop(p.Resize(img))
	if err != nil {
		return nil, err
	}
	t, err := p.ToTensor(cropped)
	if err != nil {
		return nil, err
	}
	return p.Normalize(t), nil
}
