package tensor

import "math/rand"

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) *Tensor {
	return New(shape)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) *Tensor {
	return Full(shape, 1)
}

// Full creates a tensor filled with the given value.
func Full(shape Shape, value float64) *Tensor {
	t := New(shape)
	for i := range t.data {
		t.data[i] = value
	}
	return t
}

// Randn creates a tensor with values drawn from the standard normal
// distribution using the supplied source. The source is injected so
// training runs stay reproducible under a fixed seed.
func Randn(shape Shape, rng *rand.Rand) *Tensor {
	t := New(shape)
	for i := range t.data {
		t.data[i] = rng.NormFloat64()
	}
	return t
}

// Rand creates a tensor with values drawn uniformly from [0, 1).
func Rand(shape Shape, rng *rand.Rand) *Tensor {
	t := New(shape)
	for i := range t.data {
		t.data[i] = rng.Float64()
	}
	return t
}
