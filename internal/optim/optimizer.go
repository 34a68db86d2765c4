// Package optim provides gradient-based optimizers for training the
// character model.
package optim

import "github.com/quill-ml/quill/internal/nn"

// Optimizer updates parameters from their accumulated gradients.
type Optimizer interface {
	// Step applies one update using the gradients currently stored on
	// the parameters.
	Step()

	// ZeroGrad clears the accumulated gradients.
	ZeroGrad()
}

func zeroAll(params []*nn.Parameter) {
	for _, p := range params {
		p.ZeroGrad()
	}
}
