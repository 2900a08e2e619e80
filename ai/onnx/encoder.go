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


// Package onnx implements ai.ImageEncoder on top of a local ONNX export of
// the CLIP visual model (see the model's "input"/"output" bindings).
package onnx

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/poiesic/imagesearch/ai"
	"github.com/poiesic/imagesearch/vision"
	ort "github.com/yalue/onnxruntime_go"
)

var (
	initOnce sync.Once
	initErr  error
)

// initEnvironment initializes the ONNX runtime environment once per process.
// The environment is shared and left initialized until process exit.
func initEnvironment() error {
	initOnce.Do(func() {
		initErr = ort.InitializeEnvironment()
	})
	return initErr
}

// Encoder evaluates an ONNX visual model. The input and output tensors are
// allocated once and reused across calls, so Run is serialized by a mutex.
type Encoder struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	targetSize   int
	logger       *slog.Logger
}

var _ ai.ImageEncoder = (*Encoder)(nil)

// newEncoder is an internal constructor that returns the concrete type.
func newEncoder(modelPath string, cfg *vision.Config) (*Encoder, error) {
	if cfg == nil {
		cfg = vision.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := initEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}

	s := int64(cfg.TargetSize)
	inputShape := ort.NewShape(1, 3, s, s)
	outputShape := ort.NewShape(1, int64(cfg.EmbeddingSize))

	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		outputTensor.Destroy()
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &Encoder{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		targetSize:   cfg.TargetSize,
		logger:       slog.Default().With("component", "onnx-encoder"),
	}, nil
}

// NewEncoder loads the ONNX visual model at modelPath and prepares a
// session sized for the given model constants.
//
// Returns ai.ImageEncoder interface to enforce abstraction.
func NewEncoder(modelPath string, cfg *vision.Config) (ai.ImageEncoder, error) {
	return newEncoder(modelPath, cfg)
}

// Evaluate runs inference on the tensor and returns a copy of the raw
// model output row.
func (e *Encoder) Evaluate(ctx context.Context, tensor *vision.Tensor) ([]float32, error) {
	if tensor == nil {
		return nil, fmt.Errorf("nil input tensor")
	}
	if tensor.Size() != e.targetSize {
		return nil, fmt.Errorf("input tensor size %d does not match model input size %d",
			tensor.Size(), e.targetSize)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	copy(e.inputTensor.GetData(), tensor.Data())

	if err := e.session.Run(); err != nil {
		e.logger.Error("inference failed", "err", err)
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	out := e.outputTensor.GetData()
	result := make([]float32, len(out))
	copy(result, out)
	return result, nil
}

// Close destroys the session and its tensors.
func (e *Encoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session != nil {
		e.session.Destroy()
		e.session = nil
	}
	if e.inputTensor != nil {
		e.inputTensor.Destroy()
		e.inputTensor = nil
	}
	if e.outputTensor != nil {
		e.outputTensor.Destroy()
		e.outputTensor = nil
	}
	return nil
}
