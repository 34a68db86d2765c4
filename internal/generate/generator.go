package generate

import (
	"fmt"
	"io"

	"github.com/quill-ml/quill/internal/tensor"
	"github.com/quill-ml/quill/internal/vocab"
)

// Model is the predictive collaborator the generator drives: a one-hot
// window in, a next-character probability distribution out.
type Model interface {
	// Predict consumes a [window, vocab] one-hot tensor and returns a
	// [vocab] distribution of strictly positive values.
	Predict(window *tensor.Tensor) (*tensor.Tensor, error)

	// WindowLen returns the window length the model was trained with.
	WindowLen() int
}

// SeedTooShortError reports a seed with fewer characters than the
// model's window; the generator rejects it rather than padding, since
// invented padding would silently distort the model's context.
type SeedTooShortError struct {
	SeedLen   int
	WindowLen int
}

// Error implements the error interface.
func (e *SeedTooShortError) Error() string {
	return fmt.Sprintf("generate: seed of %d characters is shorter than the %d-character window", e.SeedLen, e.WindowLen)
}

// Generator extends a seed string by sampling from a Model one
// character at a time, feeding each pick back into the rolling window.
//
// A failed call leaves the model and vocabulary untouched; the caller
// may retry a whole generation with a new seed.
type Generator struct {
	model   Model
	vocab   *vocab.Vocabulary
	sampler *Sampler
}

// NewGenerator creates a generator over a model and its vocabulary.
func NewGenerator(model Model, v *vocab.Vocabulary, sampler *Sampler) *Generator {
	return &Generator{model: model, vocab: v, sampler: sampler}
}

// Generate returns the seed extended by n sampled characters.
func (g *Generator) Generate(seed string, n int, temperature float64) (string, error) {
	return g.Stream(io.Discard, seed, n, temperature)
}

// Stream generates like Generate but additionally writes every sampled
// character to w the moment it is drawn, in strict generation order.
//
// The seed must be at least window-length characters; longer seeds keep
// only their last window as model context but appear in full in the
// returned string. n = 0 returns the seed unchanged.
func (g *Generator) Stream(w io.Writer, seed string, n int, temperature float64) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("generate: character count must be >= 0, got %d", n)
	}

	windowLen := g.model.WindowLen()
	seedRunes := []rune(seed)
	if len(seedRunes) < windowLen {
		return "", &SeedTooShortError{SeedLen: len(seedRunes), WindowLen: windowLen}
	}

	state := make([]rune, windowLen)
	copy(state, seedRunes[len(seedRunes)-windowLen:])

	out := make([]rune, 0, len(seedRunes)+n)
	out = append(out, seedRunes...)

	for step := 0; step < n; step++ {
		encoded, err := g.vocab.EncodeWindow(state)
		if err != nil {
			return "", fmt.Errorf("generate step %d: %w", step, err)
		}

		dist, err := g.model.Predict(encoded)
		if err != nil {
			return "", fmt.Errorf("generate step %d: predict: %w", step, err)
		}
		if dist.NumElements() != g.vocab.Size() {
			return "", fmt.Errorf("generate step %d: model returned %d probabilities for a %d-character vocabulary",
				step, dist.NumElements(), g.vocab.Size())
		}

		idx, err := g.sampler.Sample(dist.Data(), temperature)
		if err != nil {
			return "", fmt.Errorf("generate step %d: %w", step, err)
		}

		next := g.vocab.Char(idx)
		out = append(out, next)
		if _, err := io.WriteString(w, string(next)); err != nil {
			return "", fmt.Errorf("generate step %d: write output: %w", step, err)
		}

		// Roll the window: drop the oldest character, append the newest.
		copy(state, state[1:])
		state[windowLen-1] = next
	}

	return string(out), nil
}
