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


package ingestion

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
)

// FeedRecord is a single entry in a feed batch. The image payload is carried
// as base64 when the record arrives as JSON, or as raw bytes when the record
// is built directly from a file on disk.
type FeedRecord struct {
	ImageFileName string `json:"image_file_name"`
	Image         string `json:"image"` // base64-encoded JPEG or PNG payload

	raw []byte
}

// NewFeedRecord builds a feed record from raw image bytes.
func NewFeedRecord(fileName string, data []byte) FeedRecord {
	return FeedRecord{ImageFileName: fileName, raw: data}
}

// payload returns the decoded image bytes.
func (r *FeedRecord) payload() ([]byte, error) {
	if r.raw != nil {
		return r.raw, nil
	}
	data, err := base64.StdEncoding.DecodeString(r.Image)
	if err != nil {
		return nil, fmt.Errorf("decoding image payload: %w", err)
	}
	return data, nil
}

// validate reports the first missing required field, if any.
func (r *FeedRecord) validate(index int) error {
	if r.ImageFileName == "" {
		return &MissingFieldError{Record: index, Field: "image_file_name"}
	}
	if r.Image == "" && r.raw == nil {
		return &MissingFieldError{Record: index, Field: "image"}
	}
	return nil
}

// ParseFeedBatch reads a JSON array of feed records.
func ParseFeedBatch(reader io.Reader) ([]FeedRecord, error) {
	var records []FeedRecord
	if err := json.NewDecoder(reader).Decode(&records); err != nil {
		return nil, fmt.Errorf("parsing feed batch: %w", err)
	}
	return records, nil
}
