package tensor

import "fmt"

// MatMul computes the matrix product of two 2D tensors.
//
// Shapes: [m, k] @ [k, n] = [m, n]. Panics on rank or inner-dimension
// mismatch; shape errors here are always programming errors, not input
// errors.
func (t *Tensor) MatMul(other *Tensor) *Tensor {
	if len(t.shape) != 2 || len(other.shape) != 2 {
		panic(fmt.Sprintf("tensor: MatMul requires 2D tensors, got %v and %v", t.shape, other.shape))
	}
	m, k := t.shape[0], t.shape[1]
	k2, n := other.shape[0], other.shape[1]
	if k != k2 {
		panic(fmt.Sprintf("tensor: MatMul inner dimensions differ: %v vs %v", t.shape, other.shape))
	}

	out := New(Shape{m, n})
	for i := 0; i < m; i++ {
		ti := t.data[i*k : (i+1)*k]
		oi := out.data[i*n : (i+1)*n]
		for p := 0; p < k; p++ {
			a := ti[p]
			if a == 0 {
				continue
			}
			bp := other.data[p*n : (p+1)*n]
			for j := 0; j < n; j++ {
				oi[j] += a * bp[j]
			}
		}
	}
	return out
}

// Transpose returns the transpose of a 2D tensor.
func (t *Tensor) Transpose() *Tensor {
	if len(t.shape) != 2 {
		panic(fmt.Sprintf("tensor: Transpose requires a 2D tensor, got shape %v", t.shape))
	}
	rows, cols := t.shape[0], t.shape[1]
	out := New(Shape{cols, rows})
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.data[j*rows+i] = t.data[i*cols+j]
		}
	}
	return out
}

// Add returns the elementwise sum of two tensors of identical shape.
func (t *Tensor) Add(other *Tensor) *Tensor {
	t.mustMatch("Add", other)
	out := t.Clone()
	for i, v := range other.data {
		out.data[i] += v
	}
	return out
}

// AddInPlace accumulates other into t elementwise.
func (t *Tensor) AddInPlace(other *Tensor) {
	t.mustMatch("AddInPlace", other)
	for i, v := range other.data {
		t.data[i] += v
	}
}

// AddRowVector adds a 1D bias of length n to every row of a [m, n] tensor.
func (t *Tensor) AddRowVector(bias *Tensor) *Tensor {
	if len(t.shape) != 2 || len(bias.shape) != 1 || t.shape[1] != bias.shape[0] {
		panic(fmt.Sprintf("tensor: AddRowVector shapes %v and %v are incompatible", t.shape, bias.shape))
	}
	out := t.Clone()
	n := t.shape[1]
	for i := 0; i < t.shape[0]; i++ {
		row := out.data[i*n : (i+1)*n]
		for j, b := range bias.data {
			row[j] += b
		}
	}
	return out
}

// Scale returns the tensor multiplied elementwise by a scalar.
func (t *Tensor) Scale(s float64) *Tensor {
	out := t.Clone()
	for i := range out.data {
		out.data[i] *= s
	}
	return out
}

// Mul returns the elementwise (Hadamard) product of two tensors.
func (t *Tensor) Mul(other *Tensor) *Tensor {
	t.mustMatch("Mul", other)
	out := t.Clone()
	for i, v := range other.data {
		out.data[i] *= v
	}
	return out
}

// Sum returns the sum of all elements.
func (t *Tensor) Sum() float64 {
	total := 0.0
	for _, v := range t.data {
		total += v
	}
	return total
}

func (t *Tensor) mustMatch(op string, other *Tensor) {
	if !t.shape.Equal(other.shape) {
		panic(fmt.Sprintf("tensor: %s requires matching shapes, got %v and %v", op, t.shape, other.shape))
	}
}
