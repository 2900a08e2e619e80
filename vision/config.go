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


package vision

import "fmt"

// Config holds the preprocessing and model constants for a vision model variant.
// A Config is treated as immutable once passed to a Preprocessor.
type Config struct {
	// TargetSize is the model input resolution S. The preprocessed tensor
	// has shape (1, 3, S, S).
	TargetSize int

	// Mean and Std are the per-channel (R, G, B) normalization constants.
	// They must match the values the model was trained with exactly; any
	// deviation silently degrades embedding quality without a runtime error.
	Mean [3]float32
	Std  [3]float32

	// ModelName identifies the visual model variant (e.g. "vit_b_32").
	ModelName string

	// EmbeddingSize is the length of the embedding vector the model produces.
	EmbeddingSize int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithTargetSize sets the model input resolution.
func WithTargetSize(size int) ConfigOption {
	return func(c *Config) {
		c.TargetSize = size
	}
}

// WithNormalization sets the per-channel mean and std constants.
func WithNormalization(mean, std [3]float32) ConfigOption {
	return func(c *Config) {
		c.Mean = mean
		c.Std = std
	}
}

// WithModelName sets the model variant name.
func WithModelName(name string) ConfigOption {
	return func(c *Config) {
		c.ModelName = name
	}
}

// WithEmbeddingSize sets the embedding vector length.
func WithEmbeddingSize(size int) ConfigOption {
	return func(c *Config) {
		c.EmbeddingSize = size
	}
}

// DefaultConfig returns the constants for CLIP ViT-B/32: 224x224 input,
// the CLIP normalization mean/std, and 512-dimensional embeddings.
func DefaultConfig() *Config {
	return &Config{
		TargetSize:    224,
		Mean:          [3]float32{0.48145466, 0.4578275, 0.40821073},
		Std:           [3]float32{0.26862954, 0.26130258, 0.27577711},
		ModelName:     "vit_b_32",
		EmbeddingSize: 512,
	}
}

// NewConfig creates a Config with the ViT-B/32 defaults and applies the
// provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.TargetSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTargetSize, c.TargetSize)
	}
	if c.EmbeddingSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidEmbeddingSize, c.EmbeddingSize)
	}
	for i, std := range c.Std {
		if std == 0 {
			return fmt.Errorf("%w: channel %d", ErrZeroStd, i)
		}
	}
	return nil
}
