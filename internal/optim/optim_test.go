package optim

import (
	"math"
	"testing"

	"github.com/quill-ml/quill/internal/nn"
	"github.com/quill-ml/quill/internal/tensor"
)

func newParam(t *testing.T, values []float64) *nn.Parameter {
	t.Helper()
	value, err := tensor.FromSlice(values, tensor.Shape{len(values)})
	if err != nil {
		t.Fatal(err)
	}
	return nn.NewParameter("p", value)
}

func TestSGDStep(t *testing.T) {
	p := newParam(t, []float64{1, 2})
	copy(p.Grad().Data(), []float64{0.5, -0.5})

	opt := NewSGD([]*nn.Parameter{p}, SGDConfig{LR: 0.1})
	opt.Step()

	want := []float64{0.95, 2.05}
	for i, v := range p.Tensor().Data() {
		if math.Abs(v-want[i]) > 1e-12 {
			t.Errorf("param[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestAdamFirstStepScaledByLR(t *testing.T) {
	// With bias correction, the first Adam step is approximately
	// lr * sign(gradient) regardless of gradient magnitude.
	p := newParam(t, []float64{1, 1})
	copy(p.Grad().Data(), []float64{100, -0.001})

	opt := NewAdam([]*nn.Parameter{p}, AdamConfig{LR: 0.01})
	opt.Step()

	data := p.Tensor().Data()
	if math.Abs(data[0]-0.99) > 1e-4 {
		t.Errorf("param[0] = %v, want ~0.99", data[0])
	}
	if math.Abs(data[1]-1.01) > 1e-4 {
		t.Errorf("param[1] = %v, want ~1.01", data[1])
	}
}

func TestAdamConverges(t *testing.T) {
	// Minimize f(x) = x² from x = 5; the gradient is 2x.
	p := newParam(t, []float64{5})
	opt := NewAdam([]*nn.Parameter{p}, AdamConfig{LR: 0.1})

	for i := 0; i < 500; i++ {
		opt.ZeroGrad()
		p.Grad().Data()[0] = 2 * p.Tensor().Data()[0]
		opt.Step()
	}

	if x := p.Tensor().Data()[0]; math.Abs(x) > 0.05 {
		t.Errorf("x = %v after 500 steps, want ~0", x)
	}
}

func TestZeroGrad(t *testing.T) {
	p := newParam(t, []float64{1})
	p.Grad().Data()[0] = 3

	opt := NewSGD([]*nn.Parameter{p}, SGDConfig{})
	opt.ZeroGrad()
	if p.Grad().Data()[0] != 0 {
		t.Error("ZeroGrad should clear parameter gradients")
	}
}

func TestAdamDefaults(t *testing.T) {
	p := newParam(t, []float64{0})
	opt := NewAdam([]*nn.Parameter{p}, AdamConfig{})
	if opt.lr != 0.001 || opt.beta1 != 0.9 || opt.beta2 != 0.999 || opt.eps != 1e-8 {
		t.Errorf("defaults = lr %v betas [%v %v] eps %v", opt.lr, opt.beta1, opt.beta2, opt.eps)
	}
}
