package nn

import (
	"fmt"
	"math/rand"

	"github.com/quill-ml/quill/internal/tensor"
)

// Dropout randomly zeroes activations during training with probability
// p, scaling survivors by 1/(1-p) so the expected activation is
// unchanged (inverted dropout). In evaluation mode it is the identity.
type Dropout struct {
	p   float64
	rng *rand.Rand

	lastMask *tensor.Tensor
}

// NewDropout creates a dropout layer with drop probability p in [0, 1).
func NewDropout(p float64, rng *rand.Rand) *Dropout {
	if p < 0 || p >= 1 {
		panic(fmt.Sprintf("Dropout: probability must be in [0, 1), got %v", p))
	}
	return &Dropout{p: p, rng: rng}
}

// Forward applies dropout when training is true, identity otherwise.
func (d *Dropout) Forward(input *tensor.Tensor, training bool) *tensor.Tensor {
	if !training || d.p == 0 {
		d.lastMask = nil
		return input
	}

	mask := tensor.New(input.Shape())
	maskData := mask.Data()
	keepScale := 1.0 / (1.0 - d.p)
	for i := range maskData {
		if d.rng.Float64() >= d.p {
			maskData[i] = keepScale
		}
	}
	d.lastMask = mask
	return input.Mul(mask)
}

// Backward propagates the gradient through the mask applied by the last
// training-mode Forward.
func (d *Dropout) Backward(dOut *tensor.Tensor) *tensor.Tensor {
	if d.lastMask == nil {
		return dOut
	}
	return dOut.Mul(d.lastMask)
}
