package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLowercases(t *testing.T) {
	c := Normalize("Hello World")
	assert.Equal(t, "hello world", c.String())
}

func TestNormalizeWhitelist(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"keeps allowed punctuation", "a,b.c:d;e?f!g-h", "a,b.c:d;e?f!g-h"},
		{"strips disallowed punctuation", `a"b'c(d)e[f]g*h`, "abcdefgh"},
		{"keeps digits and newlines", "line1\nline2", "line1\nline2"},
		{"keeps spaces", "a b  c", "a b  c"},
		{"strips tabs and control chars", "a\tb\rc", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in).String())
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte("The Quick Brown Fox!"), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "the quick brown fox!", c.String())
	assert.Equal(t, 20, c.Len())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "nope.txt")
}

func TestLoadEmptyAfterNormalization(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.txt")
	require.NoError(t, os.WriteFile(path, []byte("@#$%^&*"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyCorpus))
}
