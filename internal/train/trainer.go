// Package train runs the epoch loop: shuffle, mini-batches, Adam
// updates, validation, checkpoint-on-improve and an after-epoch hook.
package train

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/quill-ml/quill/internal/dataset"
	"github.com/quill-ml/quill/internal/nn"
	"github.com/quill-ml/quill/internal/optim"
	"github.com/quill-ml/quill/internal/vocab"
)

// Config controls a training run.
type Config struct {
	WindowLen       int     // characters per input window
	HiddenUnits     int     // LSTM hidden size
	Dropout         float64 // drop probability between LSTM and output
	BatchSize       int
	Epochs          int
	ValidationSplit float64 // fraction of examples held out, [0, 1)
	LearningRate    float64
	Seed            int64  // -1 seeds from the global source
	CheckpointPath  string // empty disables checkpointing
}

// DefaultConfig returns the standard training setup: window 100,
// 128 hidden units, dropout 0.5, batch 256, 50 epochs, 20% validation.
func DefaultConfig() Config {
	return Config{
		WindowLen:       100,
		HiddenUnits:     128,
		Dropout:         0.5,
		BatchSize:       256,
		Epochs:          50,
		ValidationSplit: 0.2,
		LearningRate:    0.001,
		Seed:            -1,
	}
}

// EpochStats summarizes one completed epoch.
type EpochStats struct {
	Epoch     int // 1-based
	TrainLoss float64
	ValLoss   float64 // NaN when no validation examples exist
	Improved  bool    // monitored loss beat all prior epochs
}

// EpochHook runs after each epoch boundary: weights are updated, the
// next epoch has not started. The CLI uses it to print generation
// previews.
type EpochHook func(stats EpochStats, model *nn.CharLSTM)

// Trainer owns the model, optimizer and epoch loop for one run.
type Trainer struct {
	cfg   Config
	model *nn.CharLSTM
	opt   optim.Optimizer
	vocab *vocab.Vocabulary
	rng   *rand.Rand
	hook  EpochHook

	bestLoss float64
}

// New creates a trainer with a freshly initialized model for the given
// vocabulary.
func New(cfg Config, v *vocab.Vocabulary) (*Trainer, error) {
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("train: batch size must be positive, got %d", cfg.BatchSize)
	}
	if cfg.ValidationSplit < 0 || cfg.ValidationSplit >= 1 {
		return nil, fmt.Errorf("train: validation split must be in [0, 1), got %v", cfg.ValidationSplit)
	}

	seed := cfg.Seed
	if seed < 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic training under a fixed seed

	model, err := nn.NewCharLSTM(nn.ModelConfig{
		WindowLen:   cfg.WindowLen,
		VocabSize:   v.Size(),
		HiddenUnits: cfg.HiddenUnits,
		Dropout:     cfg.Dropout,
	}, rng)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	return &Trainer{
		cfg:      cfg,
		model:    model,
		opt:      optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: cfg.LearningRate}),
		vocab:    v,
		rng:      rng,
		bestLoss: math.Inf(1),
	}, nil
}

// Model returns the model being trained.
func (t *Trainer) Model() *nn.CharLSTM {
	return t.model
}

// SetEpochHook installs the after-epoch callback.
func (t *Trainer) SetEpochHook(hook EpochHook) {
	t.hook = hook
}

// Run trains for the configured number of epochs.
//
// The dataset is shuffled once, then split into a fixed training head
// and validation tail; the training head is reshuffled every epoch.
// When a checkpoint path is configured, the model is persisted after
// every epoch whose monitored loss (validation when present, training
// otherwise) improves on all prior epochs.
func (t *Trainer) Run(ds *dataset.Dataset) error {
	if ds.WindowLen != t.cfg.WindowLen {
		return fmt.Errorf("train: dataset windows are %d characters, model expects %d", ds.WindowLen, t.cfg.WindowLen)
	}
	if ds.VocabSize != t.vocab.Size() {
		return fmt.Errorf("train: dataset vocabulary size %d, model expects %d", ds.VocabSize, t.vocab.Size())
	}

	ds.Shuffle(t.rng)
	trainSet, valSet := ds.Split(t.cfg.ValidationSplit)
	if trainSet.NumExamples == 0 {
		return fmt.Errorf("train: no training examples left after a %v validation split of %d examples",
			t.cfg.ValidationSplit, ds.NumExamples)
	}

	for epoch := 1; epoch <= t.cfg.Epochs; epoch++ {
		trainSet.Shuffle(t.rng)
		trainLoss := t.trainEpoch(trainSet)

		valLoss := math.NaN()
		monitored := trainLoss
		if valSet.NumExamples > 0 {
			valLoss = t.evaluate(valSet)
			monitored = valLoss
		}

		improved := monitored < t.bestLoss
		if improved {
			t.bestLoss = monitored
			if t.cfg.CheckpointPath != "" {
				if err := nn.SaveCheckpoint(t.cfg.CheckpointPath, t.model, t.vocab); err != nil {
					return fmt.Errorf("train: epoch %d: %w", epoch, err)
				}
			}
		}

		if t.hook != nil {
			t.hook(EpochStats{
				Epoch:     epoch,
				TrainLoss: trainLoss,
				ValLoss:   valLoss,
				Improved:  improved,
			}, t.model)
		}
	}
	return nil
}

// trainEpoch runs one pass of mini-batch updates and returns the mean
// per-example loss.
func (t *Trainer) trainEpoch(ds *dataset.Dataset) float64 {
	total := 0.0
	for start := 0; start < ds.NumExamples; start += t.cfg.BatchSize {
		end := start + t.cfg.BatchSize
		if end > ds.NumExamples {
			end = ds.NumExamples
		}
		inputs, targets := ds.Batch(start, end)

		t.opt.ZeroGrad()
		logits := t.model.Forward(inputs, true)
		loss, dLogits := nn.SoftmaxCrossEntropy(logits, targets)
		t.model.Backward(dLogits)
		t.opt.Step()

		total += loss * float64(end-start)
	}
	return total / float64(ds.NumExamples)
}

// evaluate computes the mean loss without dropout or updates.
func (t *Trainer) evaluate(ds *dataset.Dataset) float64 {
	total := 0.0
	for start := 0; start < ds.NumExamples; start += t.cfg.BatchSize {
		end := start + t.cfg.BatchSize
		if end > ds.NumExamples {
			end = ds.NumExamples
		}
		inputs, targets := ds.Batch(start, end)

		logits := t.model.Forward(inputs, false)
		loss, _ := nn.SoftmaxCrossEntropy(logits, targets)
		total += loss * float64(end-start)
	}
	return total / float64(ds.NumExamples)
}
