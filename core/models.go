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


package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated by content-based hashing so that feeding the same
// image file twice updates the existing document instead of duplicating it.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DocumentIDFromFileName derives a document identifier from an image file name
// by stripping the extension: "dog.jpg" becomes "dog". A name without a dot
// is returned unchanged.
func DocumentIDFromFileName(fileName string) string {
	if id, _, found := strings.Cut(fileName, "."); found {
		return id
	}
	return fileName
}

// ImageDocument represents an indexed image: its file name and the
// unit-normalized embedding vector produced by the visual model.
type ImageDocument struct {
	Id         ID
	FileName   string
	Vector     []float32 // L2-normalized image embedding (populated by the feed pipeline)
	InsertedAt time.Time // When the document was first stored
	UpdatedAt  time.Time // When the document was last updated
}

// DocumentID returns the derived document identifier for this image.
func (d *ImageDocument) DocumentID() string {
	return DocumentIDFromFileName(d.FileName)
}

// SearchResult represents a search hit with the full document and relevance score.
type SearchResult struct {
	Document *ImageDocument
	Score    float32
}
