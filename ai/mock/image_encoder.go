package mock

import (
	"context"
	"encoding/binary"
	"hash/fnv"
	"math"
	"sync"

	"github.com/poiesic/imagesearch/vision"
)

// MockImageEncoder is a test double for ai.ImageEncoder.
// It allows custom behavior injection via function fields.
type MockImageEncoder struct {
	// EvaluateFunc is called by Evaluate if set.
	// If nil, uses default deterministic behavior.
	EvaluateFunc func(ctx context.Context, tensor *vision.Tensor) ([]float32, error)

	// Dim is the raw output length of the default behavior. Defaults to 512.
	Dim int

	mu        sync.Mutex
	callCount int
	closed    bool
}

// NewMockImageEncoder creates a mock image encoder with default
// deterministic behavior: the raw output is derived from a hash of the
// tensor contents, so identical tensors produce identical outputs.
func NewMockImageEncoder() *MockImageEncoder {
	return &MockImageEncoder{}
}

// Evaluate returns a deterministic raw output vector based on the tensor data.
func (m *MockImageEncoder) Evaluate(ctx context.Context, tensor *vision.Tensor) ([]float32, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.EvaluateFunc != nil {
		return m.EvaluateFunc(ctx, tensor)
	}

	dim := m.Dim
	if dim <= 0 {
		dim = 512
	}

	h := fnv.New32a()
	var buf [4]byte
	for _, v := range tensor.Data() {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
		h.Write(buf[:])
	}
	return deterministicVector(h.Sum32(), dim), nil
}

// Close marks the encoder as closed.
func (m *MockImageEncoder) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// CallCount returns the number of times Evaluate was called.
func (m *MockImageEncoder) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Closed reports whether Close was called.
func (m *MockImageEncoder) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Reset clears the call count and injected behavior.
func (m *MockImageEncoder) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.closed = false
	m.EvaluateFunc = nil
}

// deterministicVector creates a pseudo-random vector from a seed using an
// LCG, with all values in (0, 1]. The result is intentionally NOT
// normalized: image encoder output is raw and postprocessed by callers.
func deterministicVector(seed uint32, dim int) []float32 {
	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		seed = seed*1664525 + 1013904223 // LCG constants
		vector[i] = float32(seed%1000+1) / 1000.0
	}
	return vector
}
