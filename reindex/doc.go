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


// Package reindex rebuilds the embedding vectors of stored image documents.
//
// Reindexing is needed after switching to a different visual model or after
// changing the preprocessing constants, since stored vectors are only
// comparable to query vectors produced by the same model. The Reindexer walks
// every stored document in batches, re-reads the source image from disk,
// re-runs the embedding chain, and stores the new vector in place.
package reindex
