package nn

import (
	"fmt"
	"math/rand"

	"github.com/quill-ml/quill/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input tensor with shape [batch, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output tensor with shape [batch, out_features]
//
// Weights are initialized using Xavier/Glorot initialization, biases to
// zeros.
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter // [out_features, in_features]
	bias        *Parameter // [out_features]

	lastInput *tensor.Tensor // cached for Backward
}

// NewLinear creates a new Linear layer.
func NewLinear(inFeatures, outFeatures int, rng *rand.Rand) *Linear {
	weight := NewParameter("weight", Xavier(inFeatures, outFeatures, tensor.Shape{outFeatures, inFeatures}, rng))
	bias := NewParameter("bias", tensor.Zeros(tensor.Shape{outFeatures}))
	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      weight,
		bias:        bias,
	}
}

// Forward computes y = x @ W.T + b.
//
// Input shape: [batch, in_features]. Output shape: [batch, out_features].
// The input is cached for the following Backward call.
func (l *Linear) Forward(input *tensor.Tensor) *tensor.Tensor {
	shape := input.Shape()
	if len(shape) != 2 || shape[1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected input shape [batch, %d], got %v", l.inFeatures, shape))
	}
	l.lastInput = input

	out := input.MatMul(l.weight.Tensor().Transpose())
	return out.AddRowVector(l.bias.Tensor())
}

// Backward accumulates parameter gradients for the cached input and
// returns the gradient with respect to that input.
//
//	dW += dOut.T @ x
//	db += column-sum(dOut)
//	dX  = dOut @ W
func (l *Linear) Backward(dOut *tensor.Tensor) *tensor.Tensor {
	if l.lastInput == nil {
		panic("Linear.Backward called before Forward")
	}

	l.weight.Grad().AddInPlace(dOut.Transpose().MatMul(l.lastInput))

	db := l.bias.Grad().Data()
	batch := dOut.Shape()[0]
	for i := 0; i < batch; i++ {
		for j, v := range dOut.Row(i) {
			db[j] += v
		}
	}

	return dOut.MatMul(l.weight.Tensor())
}

// Parameters returns the layer's trainable parameters.
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}
