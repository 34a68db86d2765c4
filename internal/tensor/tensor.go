// Package tensor provides a compact float64 tensor for CPU-bound
// character-level language modeling.
//
// Tensors are dense, row-major and always hold float64 values: the
// sampling core requires float64 precision end to end, so the whole
// numeric stack uses the same dtype rather than converting at the edges.
package tensor

import "fmt"

// Tensor is a dense, row-major float64 array with an attached shape.
//
// Example:
//
//	t := tensor.Zeros(tensor.Shape{3, 4})
//	t.Set(1.0, 2, 3)
//	v := t.At(2, 3)
type Tensor struct {
	shape Shape
	data  []float64
}

// New creates a zero-filled tensor with the given shape.
func New(shape Shape) *Tensor {
	return &Tensor{
		shape: shape.Clone(),
		data:  make([]float64, shape.NumElements()),
	}
}

// FromSlice creates a tensor from a Go slice. The slice is copied.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("tensor: shape %v requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	t := New(shape)
	copy(t.data, data)
	return t, nil
}

// Shape returns the tensor's shape. Callers must not modify it.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// Data returns the tensor's backing slice (zero-copy).
//
// WARNING: modifications to the returned slice modify the tensor.
func (t *Tensor) Data() []float64 {
	return t.data
}

// Clone returns a deep copy of the tensor.
func (t *Tensor) Clone() *Tensor {
	c := New(t.shape)
	copy(c.data, t.data)
	return c
}

// offset computes the flat index for a multi-dimensional index.
func (t *Tensor) offset(idx ...int) int {
	if len(idx) != len(t.shape) {
		panic(fmt.Sprintf("tensor: expected %d indices for shape %v, got %d", len(t.shape), t.shape, len(idx)))
	}
	off := 0
	for d, i := range idx {
		if i < 0 || i >= t.shape[d] {
			panic(fmt.Sprintf("tensor: index %d out of range for dimension %d of shape %v", i, d, t.shape))
		}
		off = off*t.shape[d] + i
	}
	return off
}

// At returns the element at the given multi-dimensional index.
func (t *Tensor) At(idx ...int) float64 {
	return t.data[t.offset(idx...)]
}

// Set writes the element at the given multi-dimensional index.
func (t *Tensor) Set(v float64, idx ...int) {
	t.data[t.offset(idx...)] = v
}

// Row returns a zero-copy view of row i of a 2D tensor.
func (t *Tensor) Row(i int) []float64 {
	if len(t.shape) != 2 {
		panic(fmt.Sprintf("tensor: Row requires a 2D tensor, got shape %v", t.shape))
	}
	cols := t.shape[1]
	return t.data[i*cols : (i+1)*cols]
}

// Zero resets every element to zero in place.
func (t *Tensor) Zero() {
	for i := range t.data {
		t.data[i] = 0
	}
}
