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
	"fmt"
	"math"
)

// normTolerance is the allowed deviation from unit norm for stored vectors.
// Accumulated float32 rounding across 512 components stays well inside this.
const normTolerance = 1e-3

// ValidateImageDocument checks that an ImageDocument is well formed.
// A document must have a non-empty file name. The vector may be empty
// (not yet embedded) but if present must have unit L2 norm.
func ValidateImageDocument(doc *ImageDocument) error {
	if doc == nil {
		return ErrInvalidImageDocument
	}
	if doc.FileName == "" {
		return fmt.Errorf("%w: %w", ErrInvalidImageDocument, ErrEmptyFileName)
	}
	if len(doc.Vector) > 0 {
		norm := vectorNorm(doc.Vector)
		if math.Abs(norm-1.0) > normTolerance {
			return fmt.Errorf("%w: %w (norm=%f)", ErrInvalidImageDocument, ErrVectorNotNormalized, norm)
		}
	}
	return nil
}

// vectorNorm computes the L2 norm of a vector in float64 precision.
func vectorNorm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
