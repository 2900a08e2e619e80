package storage

import (
	"context"

	"github.com/poiesic/imagesearch/core"
)

// Repository provides common storage operations shared across repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// FindSimilar finds image documents similar to the given query vector.
	// Both the query vector and stored vectors are unit-norm, so the dot
	// product is the cosine similarity. Returns documents with similarity
	// >= minSimilarity, up to limit results, highest score first.
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error)

	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ImageRepository provides operations for managing image documents.
type ImageRepository interface {
	Repository

	// PutImageDocuments upserts one or more image documents.
	// Documents with ID=0 get a content-based ID derived from the file name,
	// so re-feeding the same image file replaces its document.
	// Sets InsertedAt on first insert and preserves it on update; UpdatedAt
	// is refreshed on every put. Returns the documents with IDs and
	// timestamps populated.
	PutImageDocuments(ctx context.Context, docs ...*core.ImageDocument) ([]*core.ImageDocument, error)

	// GetImageDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetImageDocument(ctx context.Context, id core.ID) (*core.ImageDocument, error)

	// GetImageDocuments retrieves multiple documents by their IDs.
	// Returns only the documents that exist (no error for missing documents).
	GetImageDocuments(ctx context.Context, ids ...core.ID) ([]*core.ImageDocument, error)

	// GetImageDocumentByFileName retrieves a document by its image file name.
	// Returns ErrNotFound if no document has that file name.
	GetImageDocumentByFileName(ctx context.Context, fileName string) (*core.ImageDocument, error)

	// ListImageDocuments retrieves up to limit documents in key order,
	// skipping the first offset documents. Used for batch iteration.
	ListImageDocuments(ctx context.Context, limit, offset int) ([]*core.ImageDocument, error)

	// CountImageDocuments returns the total number of stored documents.
	CountImageDocuments(ctx context.Context) (int, error)

	// DeleteImageDocuments removes documents by their IDs.
	// Also removes the file-name index entries.
	// Returns ErrNotFound if any document doesn't exist.
	DeleteImageDocuments(ctx context.Context, ids ...core.ID) error
}
