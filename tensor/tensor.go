// Package tensor provides Quill's dense float64 tensor.
//
// This package wraps the internal tensor implementation and provides a
// clean public API for constructing model inputs and inspecting model
// outputs.
package tensor

import (
	"math/rand"

	"github.com/quill-ml/quill/internal/tensor"
)

// Shape describes the dimensions of a tensor.
type Shape = tensor.Shape

// Tensor is a dense, row-major float64 array with an attached shape.
type Tensor = tensor.Tensor

// New creates a zero-filled tensor with the given shape.
func New(shape Shape) *Tensor {
	return tensor.New(shape)
}

// FromSlice creates a tensor from a Go slice. The slice is copied.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) *Tensor {
	return tensor.Zeros(shape)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) *Tensor {
	return tensor.Ones(shape)
}

// Randn creates a tensor with standard-normal values drawn from the
// supplied source.
func Randn(shape Shape, rng *rand.Rand) *Tensor {
	return tensor.Randn(shape, rng)
}
