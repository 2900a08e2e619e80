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


// Package vision implements the deterministic image-to-tensor transform
// used to prepare images for a CLIP-style visual embedding model, and the
// postprocessing of the raw model output into a unit-norm embedding vector.
//
// The transform chain is:
//
//	decode -> resize (shorter side to target size, aspect preserved)
//	       -> crop to target size -> scale to [0,1] -> per-channel normalize
//
// producing a float32 tensor of fixed shape (1, 3, S, S) regardless of the
// input image dimensions. All steps are pure and stateless: the same input
// bytes always produce the same tensor, so the transform is safe for
// concurrent use and there is nothing to retry on failure.
//
// Model-specific constants (target size, normalization mean/std, embedding
// size) live in an immutable Config so that different model variants can be
// substituted without touching the transform code.
package vision
