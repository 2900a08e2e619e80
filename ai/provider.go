package ai

// provider is the canonical Provider implementation: it pairs an existing
// image encoder with a text encoder and owns the image encoder's lifecycle.
type provider struct {
	imageEncoder ImageEncoder
	textEncoder  TextEncoder
}

var _ Provider = (*provider)(nil)

// NewProvider aggregates an image encoder and a text encoder into a Provider.
// Close closes the image encoder; text encoders are stateless clients and
// hold no resources.
func NewProvider(imageEncoder ImageEncoder, textEncoder TextEncoder) Provider {
	return &provider{
		imageEncoder: imageEncoder,
		textEncoder:  textEncoder,
	}
}

func (p *provider) ImageEncoder() ImageEncoder {
	return p.imageEncoder
}

func (p *provider) TextEncoder() TextEncoder {
	return p.textEncoder
}

func (p *provider) Close() error {
	if p.imageEncoder != nil {
		return p.imageEncoder.Close()
	}
	return nil
}
