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

// Tensor is a float32 model input tensor in NCHW layout with fixed shape
// (1, 3, size, size). The flat backing slice can be copied directly into
// an ONNX runtime input binding.
type Tensor struct {
	size int
	data []float32
}

// NewTensor creates a zero-filled tensor of shape (1, 3, size, size).
func NewTensor(size int) *Tensor {
	return &Tensor{
		size: size,
		data: make([]float32, 3*size*size),
	}
}

// Shape returns the tensor dimensions as (batch, channels, height, width).
func (t *Tensor) Shape() [4]int {
	return [4]int{1, 3, t.size, t.size}
}

// Size returns the spatial resolution S of the tensor.
func (t *Tensor) Size() int {
	return t.size
}

// At returns the element at (batch=0, channel c, row y, column x).
func (t *Tensor) At(c, y, x int) float32 {
	return t.data[c*t.size*t.size+y*t.size+x]
}

// Set writes the element at (batch=0, channel c, row y, column x).
func (t *Tensor) Set(c, y, x int, v float32) {
	t.data[c*t.size*t.size+y*t.size+x] = v
}

// Data returns the flat NCHW backing slice of length 3*S*S.
func (t *Tensor) Data() []float32 {
	return t.data
}
