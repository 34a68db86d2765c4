// Package optim provides gradient-based optimizers for Quill.
//
// This package wraps the internal optim implementation and provides a
// clean public API.
package optim

import (
	"github.com/quill-ml/quill/internal/nn"
	"github.com/quill-ml/quill/internal/optim"
)

// Optimizer updates parameters from their accumulated gradients.
type Optimizer = optim.Optimizer

// Adam is the Adam optimizer.
type Adam = optim.Adam

// AdamConfig holds configuration for Adam. Zero values take the usual
// defaults: LR 0.001, Betas 0.9/0.999, Eps 1e-8.
type AdamConfig = optim.AdamConfig

// SGD is stochastic gradient descent with optional momentum.
type SGD = optim.SGD

// SGDConfig holds configuration for SGD.
type SGDConfig = optim.SGDConfig

// NewAdam creates an Adam optimizer over the given parameters.
func NewAdam(params []*nn.Parameter, config AdamConfig) *Adam {
	return optim.NewAdam(params, config)
}

// NewSGD creates an SGD optimizer over the given parameters.
func NewSGD(params []*nn.Parameter, config SGDConfig) *SGD {
	return optim.NewSGD(params, config)
}
