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
	"math"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the domain types stored in BadgerDB.
// Timestamps are encoded as Unix microseconds.

// IDMUS serializes IDs.
var IDMUS = idMUS{}

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

// ImageDocumentMUS serializes ImageDocuments.
var ImageDocumentMUS = imageDocumentMUS{}

type imageDocumentMUS struct{}

func (imageDocumentMUS) Marshal(doc ImageDocument, bs []byte) (n int) {
	n = IDMUS.Marshal(doc.Id, bs)
	n += ord.String.Marshal(doc.FileName, bs[n:])
	n += varint.Int.Marshal(len(doc.Vector), bs[n:])
	for _, v := range doc.Vector {
		n += varint.Uint32.Marshal(math.Float32bits(v), bs[n:])
	}
	n += varint.Int64.Marshal(doc.InsertedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(doc.UpdatedAt.UnixMicro(), bs[n:])
	return n
}

func (imageDocumentMUS) Unmarshal(bs []byte) (doc ImageDocument, n int, err error) {
	doc.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	doc.FileName, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var length int
	length, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if length < 0 {
		err = ErrInvalidVectorLength
		return
	}
	if length > 0 {
		doc.Vector = make([]float32, length)
		for i := 0; i < length; i++ {
			var bits uint32
			bits, n1, err = varint.Uint32.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
			doc.Vector[i] = math.Float32frombits(bits)
		}
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	doc.InsertedAt = time.UnixMicro(micros).UTC()
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	doc.UpdatedAt = time.UnixMicro(micros).UTC()
	return
}

func (imageDocumentMUS) Size(doc ImageDocument) (size int) {
	size = IDMUS.Size(doc.Id)
	size += ord.String.Size(doc.FileName)
	size += varint.Int.Size(len(doc.Vector))
	for _, v := range doc.Vector {
		size += varint.Uint32.Size(math.Float32bits(v))
	}
	size += varint.Int64.Size(doc.InsertedAt.UnixMicro())
	size += varint.Int64.Size(doc.UpdatedAt.UnixMicro())
	return size
}
