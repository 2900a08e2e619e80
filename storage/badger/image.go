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


package badger

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/imagesearch/core"
	"github.com/poiesic/imagesearch/storage"
)

// ImageRepository implements storage.ImageRepository for BadgerDB.
type ImageRepository struct {
	backend *Backend
}

var _ storage.ImageRepository = (*ImageRepository)(nil)

// NewImageRepository creates a new ImageRepository.
func NewImageRepository(backend *Backend) (*ImageRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &ImageRepository{backend: backend}, nil
}

// Close releases repository resources. Image documents use content-based
// IDs, so there is no sequence to release.
func (r *ImageRepository) Close() error {
	return nil
}

// FindSimilar delegates to the backend.
func (r *ImageRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	return r.backend.FindSimilar(ctx, vector, minSimilarity, limit)
}

// WithTransaction delegates to the backend.
func (r *ImageRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutImageDocuments upserts one or more image documents.
func (r *ImageRepository) PutImageDocuments(ctx context.Context, docs ...*core.ImageDocument) ([]*core.ImageDocument, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, doc := range docs {
			if err := core.ValidateImageDocument(doc); err != nil {
				return err
			}

			// Content-based ID: re-feeding the same file name replaces the
			// existing document.
			if doc.Id == 0 {
				doc.Id = core.IDFromContent(doc.DocumentID())
			}

			key := makeImageDocKey(doc.Id)

			// Preserve InsertedAt across upserts
			old, err := r.readImageDocument(tx, key)
			if err != nil {
				return err
			}
			now := time.Now().UTC()
			if old != nil && !old.InsertedAt.IsZero() {
				doc.InsertedAt = old.InsertedAt
			} else if doc.InsertedAt.IsZero() {
				doc.InsertedAt = now
			}
			doc.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalImageDocument(doc)); err != nil {
				return err
			}

			// Update file-name index
			if old != nil && old.FileName != doc.FileName {
				if err := tx.Delete(makeFileNameKey(old.FileName)); err != nil {
					return err
				}
			}
			if err := tx.Set(makeFileNameKey(doc.FileName), storage.MarshalID(doc.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return docs, nil
}

// GetImageDocument retrieves a single document by ID.
func (r *ImageRepository) GetImageDocument(ctx context.Context, id core.ID) (*core.ImageDocument, error) {
	var doc *core.ImageDocument

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		doc, err = r.readImageDocument(tx, makeImageDocKey(id))
		return err
	}, false)

	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, storage.ErrNotFound
	}
	return doc, nil
}

// GetImageDocuments retrieves multiple documents by their IDs.
// Missing documents are skipped without error.
func (r *ImageRepository) GetImageDocuments(ctx context.Context, ids ...core.ID) ([]*core.ImageDocument, error) {
	docs := make([]*core.ImageDocument, 0, len(ids))

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			doc, err := r.readImageDocument(tx, makeImageDocKey(id))
			if err != nil {
				return err
			}
			if doc != nil {
				docs = append(docs, doc)
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return docs, nil
}

// GetImageDocumentByFileName retrieves a document via the file-name index.
func (r *ImageRepository) GetImageDocumentByFileName(ctx context.Context, fileName string) (*core.ImageDocument, error) {
	var doc *core.ImageDocument

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeFileNameKey(fileName))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}

		var id core.ID
		if err := item.Value(func(val []byte) error {
			var err error
			id, err = storage.UnmarshalID(val)
			return err
		}); err != nil {
			return err
		}

		doc, err = r.readImageDocument(tx, makeImageDocKey(id))
		return err
	}, false)

	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, storage.ErrNotFound
	}
	return doc, nil
}

// ListImageDocuments retrieves up to limit documents in key order, skipping
// the first offset documents.
func (r *ImageRepository) ListImageDocuments(ctx context.Context, limit, offset int) ([]*core.ImageDocument, error) {
	if limit < 0 || offset < 0 {
		return nil, storage.ErrInvalidQuery
	}

	var docs []*core.ImageDocument

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(imageDocPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		skipped := 0
		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			if bytes.HasPrefix(item.Key(), []byte(imageFileNamePrefix)) {
				continue
			}
			if skipped < offset {
				skipped++
				continue
			}
			if len(docs) >= limit {
				break
			}

			var doc *core.ImageDocument
			err := item.Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalImageDocument(val)
				return err
			})
			if err != nil {
				return err
			}
			if doc != nil {
				docs = append(docs, doc)
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return docs, nil
}

// CountImageDocuments returns the total number of stored documents.
func (r *ImageRepository) CountImageDocuments(ctx context.Context) (int, error) {
	count := 0

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(imageDocPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if bytes.HasPrefix(iter.Item().Key(), []byte(imageFileNamePrefix)) {
				continue
			}
			count++
		}
		return nil
	}, false)

	if err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteImageDocuments removes documents and their file-name index entries.
func (r *ImageRepository) DeleteImageDocuments(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeImageDocKey(id)

			doc, err := r.readImageDocument(tx, key)
			if err != nil {
				return err
			}
			if doc == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
			if err := tx.Delete(makeFileNameKey(doc.FileName)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// readImageDocument reads a document by key within a transaction.
// Returns (nil, nil) if the key does not exist.
func (r *ImageRepository) readImageDocument(tx *badger.Txn, key []byte) (*core.ImageDocument, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.ImageDocument
	if err := item.Value(func(val []byte) error {
		var err error
		doc, err = storage.UnmarshalImageDocument(val)
		return err
	}); err != nil {
		return nil, err
	}
	return doc, nil
}
