package nn

import "github.com/quill-ml/quill/internal/tensor"

// Parameter is a named, trainable tensor with an accumulated gradient.
//
// Layers accumulate into Grad during Backward; optimizers read Grad and
// update Tensor in place, then ZeroGrad before the next batch.
type Parameter struct {
	name  string
	value *tensor.Tensor
	grad  *tensor.Tensor
}

// NewParameter creates a parameter wrapping the given tensor. The
// gradient starts zeroed with the same shape.
func NewParameter(name string, value *tensor.Tensor) *Parameter {
	return &Parameter{
		name:  name,
		value: value,
		grad:  tensor.Zeros(value.Shape()),
	}
}

// Name returns the parameter's name, used as its checkpoint key.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter's value tensor.
func (p *Parameter) Tensor() *tensor.Tensor {
	return p.value
}

// Grad returns the accumulated gradient tensor.
func (p *Parameter) Grad() *tensor.Tensor {
	return p.grad
}

// ZeroGrad resets the accumulated gradient in place.
func (p *Parameter) ZeroGrad() {
	p.grad.Zero()
}
