package nn

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/quill-ml/quill/internal/tensor"
)

// LSTM is a single-layer long short-term memory recurrence over one-hot
// character windows. Forward consumes a whole window and returns the
// final hidden state; Backward runs truncated-at-window-boundary
// backpropagation through time using the caches recorded by Forward.
//
// Gate layout along the 4H axis is input | forget | cell | output.
// The forget-gate bias is initialized to one so early training does not
// flush the cell state.
type LSTM struct {
	inputSize  int
	hiddenSize int

	wx *Parameter // [input_size, 4*hidden]
	wh *Parameter // [hidden, 4*hidden]
	b  *Parameter // [4*hidden]

	steps []*lstmStep
}

// lstmStep caches one timestep's activations for BPTT.
type lstmStep struct {
	xt    *tensor.Tensor // [batch, input_size]
	hPrev *tensor.Tensor // [batch, hidden]
	cPrev *tensor.Tensor // [batch, hidden]
	i     []float64      // gate activations, each batch*hidden long
	f     []float64
	g     []float64
	o     []float64
	tanhC []float64
}

// NewLSTM creates an LSTM layer.
func NewLSTM(inputSize, hiddenSize int, rng *rand.Rand) *LSTM {
	wx := NewParameter("wx", Xavier(inputSize, hiddenSize, tensor.Shape{inputSize, 4 * hiddenSize}, rng))
	wh := NewParameter("wh", Xavier(hiddenSize, hiddenSize, tensor.Shape{hiddenSize, 4 * hiddenSize}, rng))

	bias := tensor.Zeros(tensor.Shape{4 * hiddenSize})
	for j := hiddenSize; j < 2*hiddenSize; j++ {
		bias.Data()[j] = 1
	}
	b := NewParameter("b", bias)

	return &LSTM{
		inputSize:  inputSize,
		hiddenSize: hiddenSize,
		wx:         wx,
		wh:         wh,
		b:          b,
	}
}

// Forward runs the recurrence over a [batch, window, input_size] tensor
// and returns the final hidden state with shape [batch, hidden].
func (l *LSTM) Forward(input *tensor.Tensor) *tensor.Tensor {
	shape := input.Shape()
	if len(shape) != 3 || shape[2] != l.inputSize {
		panic(fmt.Sprintf("LSTM.Forward: expected input shape [batch, window, %d], got %v", l.inputSize, shape))
	}
	batch, window := shape[0], shape[1]
	hidden := l.hiddenSize

	h := tensor.Zeros(tensor.Shape{batch, hidden})
	c := tensor.Zeros(tensor.Shape{batch, hidden})
	l.steps = make([]*lstmStep, 0, window)

	for t := 0; t < window; t++ {
		xt := timestep(input, t)

		// z = xt @ Wx + h @ Wh + b, shape [batch, 4*hidden]
		z := xt.MatMul(l.wx.Tensor())
		z.AddInPlace(h.MatMul(l.wh.Tensor()))
		z = z.AddRowVector(l.b.Tensor())

		step := &lstmStep{
			xt:    xt,
			hPrev: h,
			cPrev: c,
			i:     make([]float64, batch*hidden),
			f:     make([]float64, batch*hidden),
			g:     make([]float64, batch*hidden),
			o:     make([]float64, batch*hidden),
			tanhC: make([]float64, batch*hidden),
		}

		hNext := tensor.New(tensor.Shape{batch, hidden})
		cNext := tensor.New(tensor.Shape{batch, hidden})
		zData := z.Data()
		cPrevData := c.Data()
		for bi := 0; bi < batch; bi++ {
			zRow := zData[bi*4*hidden : (bi+1)*4*hidden]
			for j := 0; j < hidden; j++ {
				k := bi*hidden + j
				ig := sigmoid(zRow[j])
				fg := sigmoid(zRow[hidden+j])
				gg := math.Tanh(zRow[2*hidden+j])
				og := sigmoid(zRow[3*hidden+j])

				cell := fg*cPrevData[k] + ig*gg
				tc := math.Tanh(cell)

				step.i[k] = ig
				step.f[k] = fg
				step.g[k] = gg
				step.o[k] = og
				step.tanhC[k] = tc
				cNext.Data()[k] = cell
				hNext.Data()[k] = og * tc
			}
		}

		l.steps = append(l.steps, step)
		h, c = hNext, cNext
	}

	return h
}

// Backward accumulates parameter gradients given the gradient of the
// loss with respect to the final hidden state, shape [batch, hidden].
//
// The input is one-hot, so the gradient with respect to it is never
// needed and Backward returns nothing.
func (l *LSTM) Backward(dLastH *tensor.Tensor) {
	if len(l.steps) == 0 {
		panic("LSTM.Backward called before Forward")
	}
	batch := dLastH.Shape()[0]
	hidden := l.hiddenSize

	whT := l.wh.Tensor().Transpose()

	dh := dLastH.Clone().Data()
	dc := make([]float64, batch*hidden)

	for t := len(l.steps) - 1; t >= 0; t-- {
		step := l.steps[t]
		cPrevData := step.cPrev.Data()

		dz := tensor.New(tensor.Shape{batch, 4 * hidden})
		dzData := dz.Data()
		for bi := 0; bi < batch; bi++ {
			for j := 0; j < hidden; j++ {
				k := bi*hidden + j
				ig, fg, gg, og, tc := step.i[k], step.f[k], step.g[k], step.o[k], step.tanhC[k]

				dOut := dh[k] * tc
				dCell := dc[k] + dh[k]*og*(1-tc*tc)

				dIn := dCell * gg
				dForget := dCell * cPrevData[k]
				dCand := dCell * ig

				row := dzData[bi*4*hidden : (bi+1)*4*hidden]
				row[j] = dIn * ig * (1 - ig)
				row[hidden+j] = dForget * fg * (1 - fg)
				row[2*hidden+j] = dCand * (1 - gg*gg)
				row[3*hidden+j] = dOut * og * (1 - og)

				dc[k] = dCell * fg
			}
		}

		l.wx.Grad().AddInPlace(step.xt.Transpose().MatMul(dz))
		l.wh.Grad().AddInPlace(step.hPrev.Transpose().MatMul(dz))
		db := l.b.Grad().Data()
		for bi := 0; bi < batch; bi++ {
			for j, v := range dz.Row(bi) {
				db[j] += v
			}
		}

		dh = dz.MatMul(whT).Data()
	}
}

// Parameters returns the layer's trainable parameters.
func (l *LSTM) Parameters() []*Parameter {
	return []*Parameter{l.wx, l.wh, l.b}
}

// HiddenSize returns the number of hidden units.
func (l *LSTM) HiddenSize() int {
	return l.hiddenSize
}

// timestep copies slice t of a [batch, window, features] tensor into a
// [batch, features] tensor.
func timestep(input *tensor.Tensor, t int) *tensor.Tensor {
	shape := input.Shape()
	batch, window, features := shape[0], shape[1], shape[2]
	out := tensor.New(tensor.Shape{batch, features})
	for bi := 0; bi < batch; bi++ {
		src := input.Data()[(bi*window+t)*features : (bi*window+t+1)*features]
		copy(out.Row(bi), src)
	}
	return out
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
