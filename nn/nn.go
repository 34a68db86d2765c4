// Package nn provides Quill's neural network layers and the CharLSTM
// next-character model.
//
// This package wraps the internal nn implementation and provides a
// clean public API.
//
// Example usage:
//
//	v, _ := vocab.Build(corpus.Runes())
//	model, _ := nn.NewCharLSTM(nn.DefaultModelConfig(v.Size()), rng)
//	dist, _ := model.Predict(window) // next-character probabilities
package nn

import (
	"math/rand"

	"github.com/quill-ml/quill/internal/nn"
	"github.com/quill-ml/quill/internal/vocab"
)

// Parameter is a named, trainable tensor with an accumulated gradient.
type Parameter = nn.Parameter

// Linear is a fully connected layer.
type Linear = nn.Linear

// LSTM is a single-layer recurrence over one-hot character windows.
type LSTM = nn.LSTM

// Dropout is inverted dropout, active only during training.
type Dropout = nn.Dropout

// ModelConfig describes the CharLSTM architecture.
type ModelConfig = nn.ModelConfig

// CharLSTM is the next-character prediction model:
// one-hot window -> LSTM -> Dropout -> Linear -> softmax.
type CharLSTM = nn.CharLSTM

// DefaultModelConfig returns the standard architecture for a
// vocabulary of the given size: window 100, 128 hidden units,
// dropout 0.5.
func DefaultModelConfig(vocabSize int) ModelConfig {
	return nn.DefaultModelConfig(vocabSize)
}

// NewCharLSTM creates a model with freshly initialized weights.
func NewCharLSTM(cfg ModelConfig, rng *rand.Rand) (*CharLSTM, error) {
	return nn.NewCharLSTM(cfg, rng)
}

// SaveCheckpoint persists a model's weights, architecture and
// vocabulary to a single file.
func SaveCheckpoint(path string, m *CharLSTM, v *vocab.Vocabulary) error {
	return nn.SaveCheckpoint(path, m, v)
}

// LoadCheckpoint restores a model and its vocabulary from a file
// written by SaveCheckpoint.
func LoadCheckpoint(path string) (*CharLSTM, *vocab.Vocabulary, error) {
	return nn.LoadCheckpoint(path)
}
