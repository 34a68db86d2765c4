// Package vocab builds the bijective character/index mapping used for
// one-hot encoding.
//
// A Vocabulary is immutable once built and is passed explicitly to every
// component that encodes or decodes characters. It must be persisted
// alongside a trained model: model outputs are index distributions and
// are meaningless without the mapping that produced them.
package vocab

import (
	"errors"
	"fmt"
	"sort"

	"github.com/quill-ml/quill/internal/tensor"
)

// ErrEmptyCorpus is returned when a vocabulary is requested for an
// empty character sequence.
var ErrEmptyCorpus = errors.New("cannot build vocabulary from empty corpus")

// UnknownCharError reports a character outside the vocabulary
// encountered during encoding.
type UnknownCharError struct {
	Char rune
}

// Error implements the error interface.
func (e *UnknownCharError) Error() string {
	return fmt.Sprintf("encode: character %q is not in the vocabulary", e.Char)
}

// Vocabulary is an immutable, ordered set of distinct characters with
// mutually inverse char->index and index->char mappings.
type Vocabulary struct {
	runes   []rune
	indexOf map[rune]int
}

// Build constructs the Vocabulary for a character sequence.
//
// Characters are assigned ascending indices in sorted code-point order,
// so the same corpus always yields the same mapping.
func Build(runes []rune) (*Vocabulary, error) {
	if len(runes) == 0 {
		return nil, ErrEmptyCorpus
	}

	seen := make(map[rune]bool)
	for _, r := range runes {
		seen[r] = true
	}

	distinct := make([]rune, 0, len(seen))
	for r := range seen {
		distinct = append(distinct, r)
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i] < distinct[j] })

	indexOf := make(map[rune]int, len(distinct))
	for i, r := range distinct {
		indexOf[r] = i
	}

	return &Vocabulary{runes: distinct, indexOf: indexOf}, nil
}

// FromRunes reconstructs a Vocabulary from an already-ordered rune list,
// as stored in a checkpoint. The order is preserved verbatim.
func FromRunes(runes []rune) (*Vocabulary, error) {
	if len(runes) == 0 {
		return nil, ErrEmptyCorpus
	}
	indexOf := make(map[rune]int, len(runes))
	for i, r := range runes {
		if _, dup := indexOf[r]; dup {
			return nil, fmt.Errorf("vocabulary: duplicate character %q", r)
		}
		indexOf[r] = i
	}
	return &Vocabulary{runes: append([]rune(nil), runes...), indexOf: indexOf}, nil
}

// Size returns the number of distinct characters.
func (v *Vocabulary) Size() int {
	return len(v.runes)
}

// Runes returns the characters in index order. Callers must not modify
// the returned slice.
func (v *Vocabulary) Runes() []rune {
	return v.runes
}

// Index returns the dense index for a character.
func (v *Vocabulary) Index(r rune) (int, error) {
	i, ok := v.indexOf[r]
	if !ok {
		return 0, &UnknownCharError{Char: r}
	}
	return i, nil
}

// Char returns the character for an index. Panics on out-of-range
// indices; valid models only emit indices in [0, Size).
func (v *Vocabulary) Char(i int) rune {
	return v.runes[i]
}

// EncodeWindow one-hot encodes a character window as a (len(window), Size)
// tensor with exactly one active entry per row.
func (v *Vocabulary) EncodeWindow(window []rune) (*tensor.Tensor, error) {
	out := tensor.New(tensor.Shape{len(window), v.Size()})
	for i, r := range window {
		idx, err := v.Index(r)
		if err != nil {
			return nil, err
		}
		out.Set(1, i, idx)
	}
	return out, nil
}

// EncodeChar one-hot encodes a single character as a (Size) tensor.
func (v *Vocabulary) EncodeChar(r rune) (*tensor.Tensor, error) {
	idx, err := v.Index(r)
	if err != nil {
		return nil, err
	}
	out := tensor.New(tensor.Shape{v.Size()})
	out.Set(1, idx)
	return out, nil
}

// DecodeRow returns the character whose entry is active in a one-hot
// row, i.e. the argmax of the row.
func (v *Vocabulary) DecodeRow(row []float64) rune {
	maxIdx := 0
	for i, val := range row {
		if val > row[maxIdx] {
			maxIdx = i
		}
	}
	return v.runes[maxIdx]
}
