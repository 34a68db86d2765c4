// Package corpus provides corpus loading and normalization for Quill.
//
// This package wraps the internal corpus implementation and provides a
// clean public API.
//
// Example usage:
//
//	c, err := corpus.Load("data/input.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(c.Len())
package corpus

import "github.com/quill-ml/quill/internal/corpus"

// Corpus is an immutable normalized character sequence.
type Corpus = corpus.Corpus

// ErrEmptyCorpus is returned when a file normalizes to nothing.
var ErrEmptyCorpus = corpus.ErrEmptyCorpus

// Load reads and normalizes a text file.
func Load(path string) (*Corpus, error) {
	return corpus.Load(path)
}

// Normalize applies the corpus character policy to arbitrary text:
// lower-case, keep letters, digits, space, newline and `, . : ; ? ! -`.
func Normalize(text string) *Corpus {
	return corpus.Normalize(text)
}
