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

import "errors"

// Domain validation errors
var (
	// ErrInvalidImageDocument indicates an ImageDocument failed validation.
	ErrInvalidImageDocument = errors.New("invalid image document")

	// ErrEmptyFileName indicates the FileName field is empty.
	ErrEmptyFileName = errors.New("file name cannot be empty")

	// ErrVectorNotNormalized indicates a stored vector does not have unit L2 norm.
	ErrVectorNotNormalized = errors.New("vector is not L2-normalized")

	// ErrInvalidVectorLength indicates a serialized vector declared a negative length.
	ErrInvalidVectorLength = errors.New("invalid vector length")
)
