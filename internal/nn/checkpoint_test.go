package nn

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/quill-ml/quill/internal/vocab"
)

func TestCheckpointRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(20))
	v, err := vocab.Build([]rune("hello world"))
	if err != nil {
		t.Fatal(err)
	}

	cfg := ModelConfig{WindowLen: 5, VocabSize: v.Size(), HiddenUnits: 6, Dropout: 0.5}
	m, err := NewCharLSTM(cfg, rng)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "model.qlm")
	if err := SaveCheckpoint(path, m, v); err != nil {
		t.Fatal(err)
	}

	restored, restoredVocab, err := LoadCheckpoint(path)
	if err != nil {
		t.Fatal(err)
	}

	if restored.Config() != cfg {
		t.Errorf("restored config = %+v, want %+v", restored.Config(), cfg)
	}
	if string(restoredVocab.Runes()) != string(v.Runes()) {
		t.Errorf("restored vocabulary %q, want %q", string(restoredVocab.Runes()), string(v.Runes()))
	}

	// Identical weights produce identical predictions.
	window, err := v.EncodeWindow([]rune("hello"))
	if err != nil {
		t.Fatal(err)
	}
	want, err := m.Predict(window)
	if err != nil {
		t.Fatal(err)
	}
	got, err := restored.Predict(window)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range want.Data() {
		if !floatEqual(v, got.Data()[i], 1e-12) {
			t.Fatalf("Predict[%d] = %v after restore, want %v", i, got.Data()[i], v)
		}
	}
}

func TestLoadCheckpointVocabSizeMismatch(t *testing.T) {
	// The stored weight shapes must agree with the stored vocabulary; a
	// checkpoint whose vocabulary was tampered with is rejected rather
	// than loaded into a misshapen model.
	rng := rand.New(rand.NewSource(21))
	v, err := vocab.Build([]rune("abc"))
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewCharLSTM(ModelConfig{WindowLen: 3, VocabSize: v.Size(), HiddenUnits: 4, Dropout: 0}, rng)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "model.qlm")
	smaller, err := vocab.Build([]rune("ab"))
	if err != nil {
		t.Fatal(err)
	}
	// Save the 3-character model's weights against a 2-character
	// vocabulary.
	if err := SaveCheckpoint(path, m, smaller); err != nil {
		t.Fatal(err)
	}

	if _, _, err := LoadCheckpoint(path); err == nil {
		t.Fatal("expected shape mismatch error for tampered vocabulary")
	}
}
