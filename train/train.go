// Package train provides Quill's training loop.
//
// This package wraps the internal train implementation and provides a
// clean public API.
//
// Example usage:
//
//	tr, err := train.New(train.DefaultConfig(), v)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tr.SetEpochHook(func(stats train.EpochStats, model *nn.CharLSTM) {
//	    log.Printf("epoch %d: val loss %.4f", stats.Epoch, stats.ValLoss)
//	})
//	err = tr.Run(ds)
package train

import (
	"github.com/quill-ml/quill/internal/dataset"
	"github.com/quill-ml/quill/internal/train"
	"github.com/quill-ml/quill/internal/vocab"
)

// Config controls a training run.
type Config = train.Config

// EpochStats summarizes one completed epoch.
type EpochStats = train.EpochStats

// EpochHook runs after each epoch boundary, once weights are updated.
type EpochHook = train.EpochHook

// Trainer owns the model, optimizer and epoch loop for one run.
type Trainer = train.Trainer

// DefaultConfig returns the standard training setup: window 100,
// 128 hidden units, dropout 0.5, batch 256, 50 epochs, 20% validation.
func DefaultConfig() Config {
	return train.DefaultConfig()
}

// New creates a trainer with a freshly initialized model for the given
// vocabulary.
func New(cfg Config, v *vocab.Vocabulary) (*Trainer, error) {
	return train.New(cfg, v)
}

// ExportArtifacts persists the encoded training data and vocabulary to
// a single file.
func ExportArtifacts(path string, ds *dataset.Dataset, v *vocab.Vocabulary) error {
	return train.ExportArtifacts(path, ds, v)
}

// LoadArtifacts restores a dataset and vocabulary written by
// ExportArtifacts.
func LoadArtifacts(path string) (*dataset.Dataset, *vocab.Vocabulary, error) {
	return train.LoadArtifacts(path)
}
