package train

import (
	"fmt"
	"strconv"

	"github.com/quill-ml/quill/internal/dataset"
	"github.com/quill-ml/quill/internal/serialization"
	"github.com/quill-ml/quill/internal/tensor"
	"github.com/quill-ml/quill/internal/vocab"
)

// ExportArtifacts persists the encoded training data and the
// vocabulary to a single file, so later runs can skip corpus loading
// and re-encoding.
func ExportArtifacts(path string, ds *dataset.Dataset, v *vocab.Vocabulary) error {
	tensors := map[string]*tensor.Tensor{
		"inputs":  ds.Inputs,
		"targets": ds.Targets,
	}
	metadata := map[string]string{
		"vocab":      string(v.Runes()),
		"window_len": strconv.Itoa(ds.WindowLen),
	}
	return serialization.Write(path, tensors, metadata)
}

// LoadArtifacts restores a dataset and vocabulary written by
// ExportArtifacts.
func LoadArtifacts(path string) (*dataset.Dataset, *vocab.Vocabulary, error) {
	f, err := serialization.Read(path)
	if err != nil {
		return nil, nil, err
	}

	v, err := vocab.FromRunes([]rune(f.Metadata["vocab"]))
	if err != nil {
		return nil, nil, fmt.Errorf("load artifacts %q: %w", path, err)
	}
	windowLen, err := strconv.Atoi(f.Metadata["window_len"])
	if err != nil {
		return nil, nil, fmt.Errorf("load artifacts %q: metadata window_len: %w", path, err)
	}

	inputs, err := f.Tensor("inputs")
	if err != nil {
		return nil, nil, fmt.Errorf("load artifacts %q: %w", path, err)
	}
	targets, err := f.Tensor("targets")
	if err != nil {
		return nil, nil, fmt.Errorf("load artifacts %q: %w", path, err)
	}

	inShape := inputs.Shape()
	if len(inShape) != 3 || inShape[1] != windowLen || inShape[2] != v.Size() {
		return nil, nil, fmt.Errorf("load artifacts %q: inputs shape %v does not match window %d and vocabulary %d",
			path, inShape, windowLen, v.Size())
	}
	tgtShape := targets.Shape()
	if len(tgtShape) != 2 || tgtShape[0] != inShape[0] || tgtShape[1] != v.Size() {
		return nil, nil, fmt.Errorf("load artifacts %q: targets shape %v does not match inputs %v", path, tgtShape, inShape)
	}

	return &dataset.Dataset{
		Inputs:      inputs,
		Targets:     targets,
		NumExamples: inShape[0],
		WindowLen:   windowLen,
		VocabSize:   v.Size(),
	}, v, nil
}
