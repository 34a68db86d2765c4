// Package corpus loads and normalizes the raw training text.
//
// A Corpus is the immutable character sequence every other component
// works with: the vocabulary is built from it and training windows are
// sliced out of it. Normalization happens exactly once, at load time.
package corpus

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// ErrEmptyCorpus is returned when the normalized corpus contains no
// characters; no vocabulary can be built from it.
var ErrEmptyCorpus = errors.New("corpus is empty after normalization")

// Corpus is an immutable normalized character sequence.
type Corpus struct {
	runes []rune
}

// allowedPunct is the punctuation kept by normalization. Everything
// else outside letters, digits, space and newline is stripped.
const allowedPunct = ",.:;?!-"

// Load reads the file at path and returns the normalized Corpus.
//
// Normalization lower-cases the text and removes every rune that is
// not a letter, digit, space, newline or one of `, . : ; ? ! -`.
func Load(path string) (*Corpus, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load corpus %q: %w", path, err)
	}
	c := Normalize(string(raw))
	if c.Len() == 0 {
		return nil, fmt.Errorf("load corpus %q: %w", path, ErrEmptyCorpus)
	}
	return c, nil
}

// Normalize applies the corpus character policy to arbitrary text.
func Normalize(text string) *Corpus {
	runes := make([]rune, 0, len(text))
	for _, r := range strings.ToLower(text) {
		if keep(r) {
			runes = append(runes, r)
		}
	}
	return &Corpus{runes: runes}
}

func keep(r rune) bool {
	switch {
	case r == '\n' || r == ' ':
		return true
	case unicode.IsLetter(r) || unicode.IsDigit(r):
		return true
	case strings.ContainsRune(allowedPunct, r):
		return true
	}
	return false
}

// Runes returns the corpus characters. Callers must not modify the
// returned slice.
func (c *Corpus) Runes() []rune {
	return c.runes
}

// Len returns the number of characters in the corpus.
func (c *Corpus) Len() int {
	return len(c.runes)
}

// String returns the corpus as a string.
func (c *Corpus) String() string {
	return string(c.runes)
}
