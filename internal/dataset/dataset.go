// Package dataset slices a corpus into fixed-length training windows
// and one-hot encodes them for the model.
package dataset

import (
	"fmt"
	"math/rand"

	"github.com/quill-ml/quill/internal/tensor"
	"github.com/quill-ml/quill/internal/vocab"
)

// InsufficientCorpusError reports a corpus too short to produce even a
// single (window, target) pair.
type InsufficientCorpusError struct {
	CorpusLen int
	WindowLen int
}

// Error implements the error interface.
func (e *InsufficientCorpusError) Error() string {
	return fmt.Sprintf("windowing: corpus of %d characters cannot fill a window of %d plus a target", e.CorpusLen, e.WindowLen)
}

// Window pairs a fixed-length slice of the corpus with the character
// that immediately follows it.
type Window struct {
	Input  []rune
	Target rune
}

// Windows slides a length-L view across the corpus with stride 1 and
// pairs each view with its one-step-ahead target.
//
// Produces exactly len(corpus)-L pairs. Returns an
// *InsufficientCorpusError when len(corpus) <= L.
func Windows(corpus []rune, windowLen int) ([]Window, error) {
	if windowLen <= 0 {
		return nil, fmt.Errorf("windowing: window length must be positive, got %d", windowLen)
	}
	if len(corpus) <= windowLen {
		return nil, &InsufficientCorpusError{CorpusLen: len(corpus), WindowLen: windowLen}
	}

	windows := make([]Window, 0, len(corpus)-windowLen)
	for i := 0; i+windowLen < len(corpus); i++ {
		windows = append(windows, Window{
			Input:  corpus[i : i+windowLen],
			Target: corpus[i+windowLen],
		})
	}
	return windows, nil
}

// Dataset holds the one-hot encoded training pairs.
//
// Inputs has shape (N, L, V) and Targets has shape (N, V); row i of
// Targets is the target for window i, and the correspondence survives
// Shuffle because both sides are permuted identically.
type Dataset struct {
	Inputs  *tensor.Tensor
	Targets *tensor.Tensor

	NumExamples int
	WindowLen   int
	VocabSize   int
}

// Encode one-hot encodes windows under the given vocabulary.
func Encode(windows []Window, v *vocab.Vocabulary) (*Dataset, error) {
	if len(windows) == 0 {
		return nil, fmt.Errorf("encode: no windows to encode")
	}
	windowLen := len(windows[0].Input)
	vocabSize := v.Size()

	inputs := tensor.New(tensor.Shape{len(windows), windowLen, vocabSize})
	targets := tensor.New(tensor.Shape{len(windows), vocabSize})

	inData := inputs.Data()
	tgtData := targets.Data()
	for n, w := range windows {
		base := n * windowLen * vocabSize
		for i, r := range w.Input {
			idx, err := v.Index(r)
			if err != nil {
				return nil, fmt.Errorf("encode window %d: %w", n, err)
			}
			inData[base+i*vocabSize+idx] = 1
		}
		target, err := v.EncodeChar(w.Target)
		if err != nil {
			return nil, fmt.Errorf("encode target %d: %w", n, err)
		}
		copy(tgtData[n*vocabSize:(n+1)*vocabSize], target.Data())
	}

	return &Dataset{
		Inputs:      inputs,
		Targets:     targets,
		NumExamples: len(windows),
		WindowLen:   windowLen,
		VocabSize:   vocabSize,
	}, nil
}

// Shuffle permutes the examples in place, applying the same permutation
// to inputs and targets.
func (d *Dataset) Shuffle(rng *rand.Rand) {
	inData := d.Inputs.Data()
	tgtData := d.Targets.Data()
	inStride := d.WindowLen * d.VocabSize
	tgtStride := d.VocabSize

	tmpIn := make([]float64, inStride)
	tmpTgt := make([]float64, tgtStride)
	rng.Shuffle(d.NumExamples, func(i, j int) {
		a, b := inData[i*inStride:(i+1)*inStride], inData[j*inStride:(j+1)*inStride]
		copy(tmpIn, a)
		copy(a, b)
		copy(b, tmpIn)

		at, bt := tgtData[i*tgtStride:(i+1)*tgtStride], tgtData[j*tgtStride:(j+1)*tgtStride]
		copy(tmpTgt, at)
		copy(at, bt)
		copy(bt, tmpTgt)
	})
}

// Split partitions the dataset into a training head and validation
// tail. frac is the validation fraction in [0, 1).
func (d *Dataset) Split(frac float64) (train, val *Dataset) {
	nVal := int(float64(d.NumExamples) * frac)
	nTrain := d.NumExamples - nVal
	return d.subset(0, nTrain), d.subset(nTrain, d.NumExamples)
}

// Batch copies examples [start, end) into fresh (B, L, V) and (B, V)
// tensors ready for a forward pass.
func (d *Dataset) Batch(start, end int) (inputs, targets *tensor.Tensor) {
	b := end - start
	inStride := d.WindowLen * d.VocabSize
	tgtStride := d.VocabSize

	inputs = tensor.New(tensor.Shape{b, d.WindowLen, d.VocabSize})
	targets = tensor.New(tensor.Shape{b, d.VocabSize})
	copy(inputs.Data(), d.Inputs.Data()[start*inStride:end*inStride])
	copy(targets.Data(), d.Targets.Data()[start*tgtStride:end*tgtStride])
	return inputs, targets
}

func (d *Dataset) subset(start, end int) *Dataset {
	inputs, targets := d.Batch(start, end)
	return &Dataset{
		Inputs:      inputs,
		Targets:     targets,
		NumExamples: end - start,
		WindowLen:   d.WindowLen,
		VocabSize:   d.VocabSize,
	}
}
