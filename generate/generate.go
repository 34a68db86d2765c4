// Package generate provides temperature sampling and autoregressive
// text generation for Quill.
//
// This package wraps the internal generate implementation and provides
// a clean public API.
//
// Example usage:
//
//	model, v, err := nn.LoadCheckpoint("quill-best.qlm")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	gen := generate.NewGenerator(model, v, generate.NewSampler(42))
//	out, err := gen.Generate(seed, 300, 0.8)
package generate

import (
	"github.com/quill-ml/quill/internal/generate"
	"github.com/quill-ml/quill/internal/vocab"
)

// Model is the predictive collaborator the generator drives: a one-hot
// window in, a next-character probability distribution out.
type Model = generate.Model

// Sampler draws character indices from model output distributions at a
// given temperature.
type Sampler = generate.Sampler

// Generator extends a seed string by sampling one character at a time.
type Generator = generate.Generator

// SeedTooShortError reports a seed shorter than the model's window.
type SeedTooShortError = generate.SeedTooShortError

// ErrNonPositiveTemperature is returned for temperature values <= 0.
var ErrNonPositiveTemperature = generate.ErrNonPositiveTemperature

// NewSampler creates a sampler. Seed >= 0 gives a reproducible stream;
// -1 seeds from the global source.
func NewSampler(seed int64) *Sampler {
	return generate.NewSampler(seed)
}

// NewGenerator creates a generator over a model and its vocabulary.
func NewGenerator(model Model, v *vocab.Vocabulary, sampler *Sampler) *Generator {
	return generate.NewGenerator(model, v, sampler)
}
