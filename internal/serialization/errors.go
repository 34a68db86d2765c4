package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrOutOfBounds        = errors.New("tensor extends beyond data section")
	ErrTensorNotFound     = errors.New("tensor not found in file")
)

// SerializationError reports a failed read or write with the operation
// attempted and the target path. The underlying cause is preserved for
// errors.Is/As.
type SerializationError struct {
	Op   string // "open", "write", "close", "read", "decode"
	Path string
	Err  error
}

// Error implements the error interface.
func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialization: %s %q: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *SerializationError) Unwrap() error {
	return e.Err
}
