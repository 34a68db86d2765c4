package optim

import (
	"math"

	"github.com/quill-ml/quill/internal/nn"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Adam combines ideas from RMSprop and momentum:
//   - Maintains exponential moving averages of gradients (first moment)
//   - Maintains exponential moving averages of squared gradients (second moment)
//   - Applies bias correction to compensate for initialization at zero
//
// Update rule:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²
//	m_hat = m_t / (1 - beta1^t)
//	v_hat = v_t / (1 - beta2^t)
//	param = param - lr * m_hat / (sqrt(v_hat) + eps)
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
type Adam struct {
	params []*nn.Parameter
	lr     float64
	beta1  float64
	beta2  float64
	eps    float64
	t      int // timestep for bias correction
	m      [][]float64
	v      [][]float64
}

// AdamConfig holds configuration for the Adam optimizer. Zero values
// take the usual defaults: LR 0.001, Betas 0.9/0.999, Eps 1e-8.
type AdamConfig struct {
	LR    float64
	Betas [2]float64
	Eps   float64
}

// NewAdam creates a new Adam optimizer over the given parameters.
func NewAdam(params []*nn.Parameter, config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	m := make([][]float64, len(params))
	v := make([][]float64, len(params))
	for i, p := range params {
		m[i] = make([]float64, p.Tensor().NumElements())
		v[i] = make([]float64, p.Tensor().NumElements())
	}

	return &Adam{
		params: params,
		lr:     config.LR,
		beta1:  config.Betas[0],
		beta2:  config.Betas[1],
		eps:    config.Eps,
		m:      m,
		v:      v,
	}
}

// Step applies one Adam update to every parameter.
func (a *Adam) Step() {
	a.t++
	c1 := 1 - math.Pow(a.beta1, float64(a.t))
	c2 := 1 - math.Pow(a.beta2, float64(a.t))

	for i, p := range a.params {
		data := p.Tensor().Data()
		grad := p.Grad().Data()
		m, v := a.m[i], a.v[i]
		for j, g := range grad {
			m[j] = a.beta1*m[j] + (1-a.beta1)*g
			v[j] = a.beta2*v[j] + (1-a.beta2)*g*g
			mHat := m[j] / c1
			vHat := v[j] / c2
			data[j] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		}
	}
}

// ZeroGrad clears the gradients of all managed parameters.
func (a *Adam) ZeroGrad() {
	zeroAll(a.params)
}
