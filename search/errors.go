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


package search

import "errors"

var (
	// ErrImageRepositoryRequired is returned when an image repository is not provided.
	ErrImageRepositoryRequired = errors.New("image repository required")

	// ErrTextEncoderRequired is returned when a text encoder is not provided.
	ErrTextEncoderRequired = errors.New("text encoder required")

	// ErrEmptyQuery is returned when the query text is empty.
	ErrEmptyQuery = errors.New("query text is empty")

	// ErrDegenerateQueryEmbedding is returned when the text encoder produces
	// a zero-norm vector for the query.
	ErrDegenerateQueryEmbedding = errors.New("query embedding has zero norm")
)
