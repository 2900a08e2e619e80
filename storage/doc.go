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


// Package storage defines the persistence boundary for image documents and
// their embedding vectors. The feed pipeline and the searcher depend on the
// ImageRepository abstraction; storage/badger provides the embedded BadgerDB
// implementation.
//
// Vector retrieval is a linear scan scored by dot product (cosine similarity
// over unit vectors). For the dataset sizes this system targets that is
// adequate; an ANN index would slot in behind the same FindSimilar contract.
package storage
