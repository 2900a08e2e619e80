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


package vision

import "errors"

var (
	// ErrDecode indicates that image bytes could not be decoded to a raster.
	ErrDecode = errors.New("cannot decode image")

	// ErrEmptyImage indicates an image with a zero-size dimension.
	ErrEmptyImage = errors.New("image has zero-size dimension")

	// ErrImageTooSmall indicates an image smaller than the crop size.
	ErrImageTooSmall = errors.New("image smaller than crop size")

	// ErrDegenerateEmbedding indicates a raw model output with zero norm.
	// A correctly loaded model never produces this; it is an internal
	// invariant violation, not a recoverable input error.
	ErrDegenerateEmbedding = errors.New("embedding has zero norm")

	// ErrShortModelOutput indicates a raw model output shorter than the
	// configured embedding size.
	ErrShortModelOutput = errors.New("model output shorter than embedding size")

	// ErrInvalidTargetSize indicates a non-positive target size.
	ErrInvalidTargetSize = errors.New("target size must be positive")

	// ErrInvalidEmbeddingSize indicates a non-positive embedding size.
	ErrInvalidEmbeddingSize = errors.New("embedding size must be positive")

	// ErrZeroStd indicates a zero normalization std, which would divide by zero.
	ErrZeroStd = errors.New("normalization std cannot be zero")
)
