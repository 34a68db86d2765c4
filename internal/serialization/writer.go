package serialization

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"io"
	"math"
	"os"
	"sort"

	"github.com/quill-ml/quill/internal/tensor"
)

// Write persists named tensors and string metadata to a single file.
//
// The write is open -> write -> close with every failure surfaced as a
// *SerializationError carrying the target path and underlying cause;
// nothing is swallowed. An existing file at path is truncated.
func Write(path string, tensors map[string]*tensor.Tensor, metadata map[string]string) error {
	f, err := os.Create(path)
	if err != nil {
		return &SerializationError{Op: "open", Path: path, Err: err}
	}

	digest := sha256.New()
	w := io.MultiWriter(f, digest)

	if err := writeBody(w, tensors, metadata); err != nil {
		f.Close()
		return &SerializationError{Op: "write", Path: path, Err: err}
	}

	// Trailing checksum covers everything written so far.
	if _, err := f.Write(digest.Sum(nil)); err != nil {
		f.Close()
		return &SerializationError{Op: "write", Path: path, Err: err}
	}

	if err := f.Close(); err != nil {
		return &SerializationError{Op: "close", Path: path, Err: err}
	}
	return nil
}

func writeBody(w io.Writer, tensors map[string]*tensor.Tensor, metadata map[string]string) error {
	names := make([]string, 0, len(tensors))
	for name := range tensors {
		names = append(names, name)
	}
	sort.Strings(names)

	hdr := header{
		Tensors:  make(map[string]tensorInfo, len(tensors)),
		Metadata: metadata,
	}
	offset := int64(0)
	for _, name := range names {
		t := tensors[name]
		size := int64(t.NumElements()) * 8
		hdr.Tensors[name] = tensorInfo{
			Shape:  t.Shape(),
			Offset: offset,
			Size:   size,
		}
		offset += size
	}

	hdrBytes, err := json.Marshal(&hdr)
	if err != nil {
		return err
	}

	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, Version); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(len(hdrBytes))); err != nil {
		return err
	}
	if _, err := w.Write(hdrBytes); err != nil {
		return err
	}

	buf := make([]byte, 8)
	for _, name := range names {
		for _, v := range tensors[name].Data() {
			binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
			if _, err := w.Write(buf); err != nil {
				return err
			}
		}
	}
	return nil
}
