// Package vocab provides the character/index mapping used for one-hot
// encoding in Quill.
//
// This package wraps the internal vocab implementation and provides a
// clean public API.
package vocab

import "github.com/quill-ml/quill/internal/vocab"

// Vocabulary is an immutable, ordered set of distinct characters with
// mutually inverse char->index and index->char mappings.
type Vocabulary = vocab.Vocabulary

// UnknownCharError reports a character outside the vocabulary.
type UnknownCharError = vocab.UnknownCharError

// ErrEmptyCorpus is returned when building from an empty sequence.
var ErrEmptyCorpus = vocab.ErrEmptyCorpus

// Build constructs the Vocabulary for a character sequence, assigning
// indices in sorted code-point order.
func Build(runes []rune) (*Vocabulary, error) {
	return vocab.Build(runes)
}

// FromRunes reconstructs a Vocabulary from an already-ordered rune
// list, as stored in a checkpoint.
func FromRunes(runes []rune) (*Vocabulary, error) {
	return vocab.FromRunes(runes)
}
