package nn

import (
	"fmt"
	"math/rand"

	"github.com/quill-ml/quill/internal/tensor"
)

// ModelConfig describes the CharLSTM architecture.
type ModelConfig struct {
	WindowLen   int     // characters per input window
	VocabSize   int     // distinct characters
	HiddenUnits int     // LSTM hidden size (default 128)
	Dropout     float64 // drop probability between LSTM and output (default 0.5)
}

// DefaultModelConfig returns the standard architecture for a vocabulary
// of the given size: window 100, 128 hidden units, dropout 0.5.
func DefaultModelConfig(vocabSize int) ModelConfig {
	return ModelConfig{
		WindowLen:   100,
		VocabSize:   vocabSize,
		HiddenUnits: 128,
		Dropout:     0.5,
	}
}

// CharLSTM is the next-character prediction model:
//
//	one-hot window -> LSTM -> Dropout -> Linear -> softmax
//
// Forward/Backward drive training; Predict serves generation and always
// returns a strictly positive probability distribution (softmax output),
// so the sampler never sees a zero probability.
type CharLSTM struct {
	cfg  ModelConfig
	lstm *LSTM
	drop *Dropout
	out  *Linear
}

// NewCharLSTM creates a model with freshly initialized weights drawn
// from the supplied source.
func NewCharLSTM(cfg ModelConfig, rng *rand.Rand) (*CharLSTM, error) {
	if cfg.WindowLen <= 0 || cfg.VocabSize <= 0 || cfg.HiddenUnits <= 0 {
		return nil, fmt.Errorf("model: window length, vocab size and hidden units must be positive, got %+v", cfg)
	}
	return &CharLSTM{
		cfg:  cfg,
		lstm: NewLSTM(cfg.VocabSize, cfg.HiddenUnits, rng),
		drop: NewDropout(cfg.Dropout, rng),
		out:  NewLinear(cfg.HiddenUnits, cfg.VocabSize, rng),
	}, nil
}

// Config returns the model's architecture description.
func (m *CharLSTM) Config() ModelConfig {
	return m.cfg
}

// WindowLen returns the input window length the model was built for.
func (m *CharLSTM) WindowLen() int {
	return m.cfg.WindowLen
}

// VocabSize returns the size of the output distribution.
func (m *CharLSTM) VocabSize() int {
	return m.cfg.VocabSize
}

// Forward computes logits for a batch of one-hot windows.
//
// Input shape: [batch, window, vocab]. Output shape: [batch, vocab].
// Dropout is active only when training is true.
func (m *CharLSTM) Forward(input *tensor.Tensor, training bool) *tensor.Tensor {
	h := m.lstm.Forward(input)
	h = m.drop.Forward(h, training)
	return m.out.Forward(h)
}

// Backward accumulates gradients for the last training-mode Forward.
// dLogits is typically the gradient returned by SoftmaxCrossEntropy.
func (m *CharLSTM) Backward(dLogits *tensor.Tensor) {
	d := m.out.Backward(dLogits)
	d = m.drop.Backward(d)
	m.lstm.Backward(d)
}

// Predict returns the next-character probability distribution for a
// single one-hot window of shape [window, vocab].
func (m *CharLSTM) Predict(window *tensor.Tensor) (*tensor.Tensor, error) {
	shape := window.Shape()
	if len(shape) != 2 || shape[0] != m.cfg.WindowLen || shape[1] != m.cfg.VocabSize {
		return nil, fmt.Errorf("predict: expected window shape [%d, %d], got %v", m.cfg.WindowLen, m.cfg.VocabSize, shape)
	}

	batched, err := tensor.FromSlice(window.Data(), tensor.Shape{1, shape[0], shape[1]})
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	logits := m.Forward(batched, false)
	probs := Softmax(logits)

	out, err := tensor.FromSlice(probs.Row(0), tensor.Shape{m.cfg.VocabSize})
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	return out, nil
}

// Parameters returns all trainable parameters.
func (m *CharLSTM) Parameters() []*Parameter {
	params := m.lstm.Parameters()
	params = append(params, m.out.Parameters()...)
	return params
}

// NamedParameters returns the parameters keyed by their checkpoint
// names. The keys are stable across versions; checkpoints depend on
// them.
func (m *CharLSTM) NamedParameters() map[string]*Parameter {
	named := make(map[string]*Parameter)
	for _, p := range m.lstm.Parameters() {
		named["lstm."+p.Name()] = p
	}
	for _, p := range m.out.Parameters() {
		named["out."+p.Name()] = p
	}
	return named
}

// ZeroGrad clears every parameter's accumulated gradient.
func (m *CharLSTM) ZeroGrad() {
	for _, p := range m.Parameters() {
		p.ZeroGrad()
	}
}
