package serialization

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/quill-ml/quill/internal/tensor"
)

// File is the decoded content of a serialized file.
type File struct {
	Tensors  map[string]*tensor.Tensor
	Metadata map[string]string
}

// Tensor returns the named tensor or ErrTensorNotFound.
func (f *File) Tensor(name string) (*tensor.Tensor, error) {
	t, ok := f.Tensors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTensorNotFound, name)
	}
	return t, nil
}

// Read loads and validates a serialized file: magic, version, tensor
// bounds and the trailing checksum are all checked before any tensor is
// returned.
func Read(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &SerializationError{Op: "read", Path: path, Err: err}
	}

	decoded, err := decode(raw)
	if err != nil {
		return nil, &SerializationError{Op: "decode", Path: path, Err: err}
	}
	return decoded, nil
}

func decode(raw []byte) (*File, error) {
	const fixedHeader = 4 + 4 + 8
	if len(raw) < fixedHeader+checksumSize {
		return nil, fmt.Errorf("file too short: %d bytes", len(raw))
	}

	body, sum := raw[:len(raw)-checksumSize], raw[len(raw)-checksumSize:]
	want := sha256.Sum256(body)
	if !bytes.Equal(want[:], sum) {
		return nil, ErrChecksumMismatch
	}

	if !bytes.Equal(body[:4], Magic[:]) {
		return nil, ErrInvalidMagic
	}
	if v := binary.LittleEndian.Uint32(body[4:8]); v != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}

	hdrLen := binary.LittleEndian.Uint64(body[8:16])
	if uint64(len(body)-fixedHeader) < hdrLen {
		return nil, fmt.Errorf("header of %d bytes exceeds file size", hdrLen)
	}

	var hdr header
	if err := json.Unmarshal(body[fixedHeader:fixedHeader+int(hdrLen)], &hdr); err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	data := body[fixedHeader+int(hdrLen):]
	out := &File{
		Tensors:  make(map[string]*tensor.Tensor, len(hdr.Tensors)),
		Metadata: hdr.Metadata,
	}
	for name, info := range hdr.Tensors {
		if info.Offset < 0 || info.Size < 0 || info.Offset+info.Size > int64(len(data)) {
			return nil, fmt.Errorf("%w: tensor %q", ErrOutOfBounds, name)
		}
		shape := tensor.Shape(info.Shape)
		if int64(shape.NumElements())*8 != info.Size {
			return nil, fmt.Errorf("tensor %q: shape %v does not match %d data bytes", name, shape, info.Size)
		}

		values := make([]float64, shape.NumElements())
		payload := data[info.Offset : info.Offset+info.Size]
		for i := range values {
			values[i] = math.Float64frombits(binary.LittleEndian.Uint64(payload[i*8:]))
		}
		t, err := tensor.FromSlice(values, shape)
		if err != nil {
			return nil, fmt.Errorf("tensor %q: %w", name, err)
		}
		out.Tensors[name] = t
	}
	return out, nil
}
