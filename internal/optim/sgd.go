package optim

import "github.com/quill-ml/quill/internal/nn"

// SGD implements plain stochastic gradient descent with optional
// momentum. Useful as a baseline against Adam.
type SGD struct {
	params   []*nn.Parameter
	lr       float64
	momentum float64
	velocity [][]float64
}

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig struct {
	LR       float64 // learning rate (default 0.01)
	Momentum float64 // momentum factor (default 0, disabled)
}

// NewSGD creates a new SGD optimizer over the given parameters.
func NewSGD(params []*nn.Parameter, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	velocity := make([][]float64, len(params))
	for i, p := range params {
		velocity[i] = make([]float64, p.Tensor().NumElements())
	}
	return &SGD{
		params:   params,
		lr:       config.LR,
		momentum: config.Momentum,
		velocity: velocity,
	}
}

// Step applies one SGD update to every parameter.
func (s *SGD) Step() {
	for i, p := range s.params {
		data := p.Tensor().Data()
		grad := p.Grad().Data()
		vel := s.velocity[i]
		for j, g := range grad {
			if s.momentum != 0 {
				vel[j] = s.momentum*vel[j] + g
				g = vel[j]
			}
			data[j] -= s.lr * g
		}
	}
}

// ZeroGrad clears the gradients of all managed parameters.
func (s *SGD) ZeroGrad() {
	zeroAll(s.params)
}
