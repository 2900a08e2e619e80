package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 224, cfg.TargetSize)
	assert.Equal(t, 512, cfg.EmbeddingSize)
	assert.Equal(t, "vit_b_32", cfg.ModelName)
	assert.InDelta(t, float32(0.48145466), cfg.Mean[0], 1e-8)
	assert.InDelta(t, float32(0.27577711), cfg.Std[2], 1e-8)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfigOptions(t *testing.T) {
	cfg := NewConfig(
		WithTargetSize(336),
		WithEmbeddingSize(768),
		WithModelName("vit_l_14"),
		WithNormalization([3]float32{0.5, 0.5, 0.5}, [3]float32{0.5, 0.5, 0.5}),
	)

	assert.Equal(t, 336, cfg.TargetSize)
	assert.Equal(t, 768, cfg.EmbeddingSize)
	assert.Equal(t, "vit_l_14", cfg.ModelName)
	assert.Equal(t, [3]float32{0.5, 0.5, 0.5}, cfg.Mean)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	t.Run("non-positive target size", func(t *testing.T) {
		cfg := NewConfig(WithTargetSize(0))
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidTargetSize)
	})

	t.Run("non-positive embedding size", func(t *testing.T) {
		cfg := NewConfig(WithEmbeddingSize(-1))
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidEmbeddingSize)
	})

	t.Run("zero std", func(t *testing.T) {
		cfg := NewConfig(WithNormalization([3]float32{0.5, 0.5, 0.5}, [3]float32{0.5, 0, 0.5}))
		assert.ErrorIs(t, cfg.Validate(), ErrZeroStd)
	})
}
