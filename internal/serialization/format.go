// Package serialization implements the container format used for model
// checkpoints and exported training artifacts.
//
// Layout of a file:
//
//	bytes 0..3    magic "QLM1"
//	bytes 4..7    format version, uint32 little-endian
//	bytes 8..15   header length H, uint64 little-endian
//	bytes 16..    JSON header: named tensor shapes/offsets + metadata
//	...           data section: float64 little-endian tensor payloads
//	last 32 bytes SHA-256 over everything before it
//
// Tensor offsets are relative to the start of the data section and are
// assigned in sorted name order, so the same content always produces
// the same file.
package serialization

// Magic identifies a serialized file.
var Magic = [4]byte{'Q', 'L', 'M', '1'}

// Version is the current format version.
const Version uint32 = 1

const checksumSize = 32

// tensorInfo locates one tensor inside the data section.
type tensorInfo struct {
	Shape  []int `json:"shape"`
	Offset int64 `json:"offset"` // bytes from start of data section
	Size   int64 `json:"size"`   // bytes
}

// header is the JSON header of a serialized file.
type header struct {
	Tensors  map[string]tensorInfo `json:"tensors"`
	Metadata map[string]string     `json:"metadata,omitempty"`
}
