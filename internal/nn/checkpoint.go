package nn

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/quill-ml/quill/internal/serialization"
	"github.com/quill-ml/quill/internal/tensor"
	"github.com/quill-ml/quill/internal/vocab"
)

// Checkpoint metadata keys. The vocabulary travels with the weights
// because the model's output indices are meaningless without it.
const (
	metaWindowLen   = "window_len"
	metaHiddenUnits = "hidden_units"
	metaDropout     = "dropout"
	metaVocab       = "vocab"
)

// SaveCheckpoint persists the model's weights, architecture and
// vocabulary to a single file.
func SaveCheckpoint(path string, m *CharLSTM, v *vocab.Vocabulary) error {
	named := m.NamedParameters()
	tensors := make(map[string]*tensor.Tensor, len(named))
	for name, p := range named {
		tensors[name] = p.Tensor()
	}

	cfg := m.Config()
	metadata := map[string]string{
		metaWindowLen:   strconv.Itoa(cfg.WindowLen),
		metaHiddenUnits: strconv.Itoa(cfg.HiddenUnits),
		metaDropout:     strconv.FormatFloat(cfg.Dropout, 'g', -1, 64),
		metaVocab:       string(v.Runes()),
	}
	return serialization.Write(path, tensors, metadata)
}

// LoadCheckpoint restores a model and its vocabulary from a file
// written by SaveCheckpoint.
func LoadCheckpoint(path string) (*CharLSTM, *vocab.Vocabulary, error) {
	f, err := serialization.Read(path)
	if err != nil {
		return nil, nil, err
	}

	windowLen, err := metaInt(f.Metadata, metaWindowLen)
	if err != nil {
		return nil, nil, fmt.Errorf("load checkpoint %q: %w", path, err)
	}
	hiddenUnits, err := metaInt(f.Metadata, metaHiddenUnits)
	if err != nil {
		return nil, nil, fmt.Errorf("load checkpoint %q: %w", path, err)
	}
	dropout, err := strconv.ParseFloat(f.Metadata[metaDropout], 64)
	if err != nil {
		return nil, nil, fmt.Errorf("load checkpoint %q: metadata %q: %w", path, metaDropout, err)
	}

	v, err := vocab.FromRunes([]rune(f.Metadata[metaVocab]))
	if err != nil {
		return nil, nil, fmt.Errorf("load checkpoint %q: %w", path, err)
	}

	cfg := ModelConfig{
		WindowLen:   windowLen,
		VocabSize:   v.Size(),
		HiddenUnits: hiddenUnits,
		Dropout:     dropout,
	}
	// Weights are overwritten below; the init source is irrelevant.
	m, err := NewCharLSTM(cfg, rand.New(rand.NewSource(0)))
	if err != nil {
		return nil, nil, fmt.Errorf("load checkpoint %q: %w", path, err)
	}

	for name, p := range m.NamedParameters() {
		saved, err := f.Tensor(name)
		if err != nil {
			return nil, nil, fmt.Errorf("load checkpoint %q: %w", path, err)
		}
		if !saved.Shape().Equal(p.Tensor().Shape()) {
			return nil, nil, fmt.Errorf("load checkpoint %q: tensor %q has shape %v, model expects %v",
				path, name, saved.Shape(), p.Tensor().Shape())
		}
		copy(p.Tensor().Data(), saved.Data())
	}
	return m, v, nil
}

func metaInt(metadata map[string]string, key string) (int, error) {
	val, ok := metadata[key]
	if !ok {
		return 0, fmt.Errorf("metadata %q missing", key)
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("metadata %q: %w", key, err)
	}
	return n, nil
}
