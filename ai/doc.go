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


// Package ai defines the model-evaluation boundary of the image search
// system. The feed pipeline and the searcher depend on these abstractions
// rather than on a concrete runtime, so the transform logic can be tested
// with stand-in implementations.
//
// Two capabilities are exposed:
//
//   - ImageEncoder: evaluate(tensor) -> raw output vector, backed by a
//     local ONNX CLIP visual model (ai/onnx)
//   - TextEncoder: encode a free-text query into the same embedding space,
//     backed by an OpenAI-compatible embedding API (ai/openai)
//
// The ai/mock package provides deterministic test doubles for both, with
// behavior injection via function fields and call counting for assertions.
package ai
