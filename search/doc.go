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


// Package search provides text-to-image semantic search over the index.
//
// The Searcher type embeds a free-text query into the joint text/image
// embedding space and ranks stored image documents by cosine similarity.
// Because every stored vector is unit-norm, similarity reduces to a dot
// product against the query embedding.
package search
