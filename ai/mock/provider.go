package mock

import "github.com/poiesic/imagesearch/ai"

// MockProvider aggregates mock encoders for tests.
type MockProvider struct {
	imageEncoder *MockImageEncoder
	textEncoder  *MockTextEncoder
}

var _ ai.Provider = (*MockProvider)(nil)

// NewMockProvider creates a provider backed by default mock encoders.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		imageEncoder: NewMockImageEncoder(),
		textEncoder:  NewMockTextEncoder(),
	}
}

// ImageEncoder returns the mock image encoder as the interface type.
func (p *MockProvider) ImageEncoder() ai.ImageEncoder {
	return p.imageEncoder
}

// TextEncoder returns the mock text encoder as the interface type.
func (p *MockProvider) TextEncoder() ai.TextEncoder {
	return p.textEncoder
}

// Close closes the mock image encoder.
func (p *MockProvider) Close() error {
	return p.imageEncoder.Close()
}

// GetMockImageEncoder returns the concrete mock for test assertions.
func (p *MockProvider) GetMockImageEncoder() *MockImageEncoder {
	return p.imageEncoder
}

// GetMockTextEncoder returns the concrete mock for test assertions.
func (p *MockProvider) GetMockTextEncoder() *MockTextEncoder {
	return p.textEncoder
}
