// Package dataset provides corpus windowing and one-hot encoding for
// Quill.
//
// This package wraps the internal dataset implementation and provides
// a clean public API.
package dataset

import (
	"github.com/quill-ml/quill/internal/dataset"
	"github.com/quill-ml/quill/internal/vocab"
)

// Window pairs a fixed-length slice of the corpus with the character
// that immediately follows it.
type Window = dataset.Window

// Dataset holds one-hot encoded (window, target) pairs.
type Dataset = dataset.Dataset

// InsufficientCorpusError reports a corpus too short for the window
// length.
type InsufficientCorpusError = dataset.InsufficientCorpusError

// Windows slides a length-L view across the corpus with stride 1.
func Windows(corpus []rune, windowLen int) ([]Window, error) {
	return dataset.Windows(corpus, windowLen)
}

// Encode one-hot encodes windows under the given vocabulary.
func Encode(windows []Window, v *vocab.Vocabulary) (*Dataset, error) {
	return dataset.Encode(windows, v)
}
