package dataset

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-ml/quill/internal/vocab"
)

func TestWindowsCount(t *testing.T) {
	// Corpus of 105 characters with L=100 yields exactly 5 pairs.
	corpus := []rune(strings.Repeat("abcde", 21))
	require.Len(t, corpus, 105)

	windows, err := Windows(corpus, 100)
	require.NoError(t, err)
	assert.Len(t, windows, 5)

	// First pair starts at 0; its target is the character at offset 100.
	assert.Equal(t, corpus[0:100], windows[0].Input)
	assert.Equal(t, corpus[100], windows[0].Target)
	// Last pair's target is the final corpus character.
	assert.Equal(t, corpus[104], windows[4].Target)
}

func TestWindowsInsufficientCorpus(t *testing.T) {
	for _, n := range []int{0, 50, 100} {
		corpus := []rune(strings.Repeat("x", n))
		_, err := Windows(corpus, 100)
		var insufficientErr *InsufficientCorpusError
		require.ErrorAs(t, err, &insufficientErr, "corpus length %d", n)
		assert.Equal(t, n, insufficientErr.CorpusLen)
		assert.Equal(t, 100, insufficientErr.WindowLen)
	}
}

func TestEncodeShapes(t *testing.T) {
	corpus := []rune("abcabcabca")
	v, err := vocab.Build(corpus)
	require.NoError(t, err)

	windows, err := Windows(corpus, 4)
	require.NoError(t, err)

	d, err := Encode(windows, v)
	require.NoError(t, err)

	assert.Equal(t, 6, d.NumExamples)
	assert.Equal(t, 4, d.WindowLen)
	assert.Equal(t, 3, d.VocabSize)
	assert.Equal(t, []int{6, 4, 3}, []int(d.Inputs.Shape()))
	assert.Equal(t, []int{6, 3}, []int(d.Targets.Shape()))

	// Every window row and every target row is one-hot.
	for n := 0; n < d.NumExamples; n++ {
		for i := 0; i < d.WindowLen; i++ {
			active := 0
			for j := 0; j < d.VocabSize; j++ {
				if d.Inputs.At(n, i, j) != 0 {
					active++
				}
			}
			assert.Equal(t, 1, active, "window %d row %d", n, i)
		}
		active := 0
		for j := 0; j < d.VocabSize; j++ {
			if d.Targets.At(n, j) != 0 {
				active++
			}
		}
		assert.Equal(t, 1, active, "target %d", n)
	}

	// Decoding the first window reconstructs the corpus slice.
	for i, want := range corpus[:4] {
		row := d.Inputs.Data()[i*3 : (i+1)*3]
		assert.Equal(t, want, v.DecodeRow(row))
	}
}

func TestShufflePreservesPairing(t *testing.T) {
	corpus := []rune("abcdefghij")
	v, err := vocab.Build(corpus)
	require.NoError(t, err)
	windows, err := Windows(corpus, 3)
	require.NoError(t, err)
	d, err := Encode(windows, v)
	require.NoError(t, err)

	d.Shuffle(rand.New(rand.NewSource(1)))

	// The corpus is strictly increasing, so the target of any window is
	// always the successor of the window's last character. That property
	// must survive any permutation applied identically to both sides.
	for n := 0; n < d.NumExamples; n++ {
		last := v.DecodeRow(d.Inputs.Data()[(n*3+2)*v.Size() : (n*3+3)*v.Size()])
		target := v.DecodeRow(d.Targets.Row(n))
		assert.Equal(t, last+1, target, "example %d", n)
	}
}

func TestSplit(t *testing.T) {
	corpus := []rune("abcdefghijklmnopqrstu")
	v, err := vocab.Build(corpus)
	require.NoError(t, err)
	windows, err := Windows(corpus, 1)
	require.NoError(t, err)
	d, err := Encode(windows, v)
	require.NoError(t, err)
	require.Equal(t, 20, d.NumExamples)

	train, val := d.Split(0.2)
	assert.Equal(t, 16, train.NumExamples)
	assert.Equal(t, 4, val.NumExamples)

	// Validation tail holds the last examples.
	assert.Equal(t, d.Inputs.Data()[16*v.Size():], val.Inputs.Data())
}

func TestBatch(t *testing.T) {
	corpus := []rune("aabbaabbaa")
	v, err := vocab.Build(corpus)
	require.NoError(t, err)
	windows, err := Windows(corpus, 2)
	require.NoError(t, err)
	d, err := Encode(windows, v)
	require.NoError(t, err)

	in, tgt := d.Batch(2, 5)
	assert.Equal(t, []int{3, 2, 2}, []int(in.Shape()))
	assert.Equal(t, []int{3, 2}, []int(tgt.Shape()))
	assert.Equal(t, d.Inputs.Data()[2*4:5*4], in.Data())
}
