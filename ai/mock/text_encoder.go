package mock

import (
	"context"
	"hash/fnv"
	"math"
	"sync"
)

// MockTextEncoder is a test double for ai.TextEncoder.
// It allows custom behavior injection via function fields.
type MockTextEncoder struct {
	// EncodeTextFunc is called by EncodeText if set.
	// If nil, uses default deterministic behavior.
	EncodeTextFunc func(ctx context.Context, text string) ([]float32, error)

	// Dim is the vector length of the default behavior. Defaults to 512.
	Dim int

	mu        sync.Mutex
	callCount int
}

// NewMockTextEncoder creates a mock text encoder with default deterministic
// behavior: the same text always produces the same unit-norm vector.
func NewMockTextEncoder() *MockTextEncoder {
	return &MockTextEncoder{}
}

// EncodeText generates a deterministic unit-norm embedding from a text hash.
func (m *MockTextEncoder) EncodeText(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.EncodeTextFunc != nil {
		return m.EncodeTextFunc(ctx, text)
	}

	dim := m.Dim
	if dim <= 0 {
		dim = 512
	}

	h := fnv.New32a()
	h.Write([]byte(text))
	vector := deterministicVector(h.Sum32(), dim)

	// Text encoder output is contractually unit-norm.
	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	inv := float32(1.0 / math.Sqrt(sum))
	for i := range vector {
		vector[i] *= inv
	}
	return vector, nil
}

// CallCount returns the number of times EncodeText was called.
func (m *MockTextEncoder) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockTextEncoder) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.EncodeTextFunc = nil
}
