// ABOUTME: VAGp container header
// ABOUTME: Optional 48-byte big-endian file header preceding the chunk data
package vag

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// HeaderSize is the size of the VAGp file header
	HeaderSize = 48
	// HeaderVersion is the format version written into new headers
	HeaderVersion = 0x20

	// NameSize is the number of name bytes a header can hold
	NameSize = 16

	headerMagic = "VAGp"

	// Offset of the data size field, patched once encoding has finished
	DataSizeOffset = 12
)

// ErrBadMagic is returned when parsing bytes that are not a VAGp header
var ErrBadMagic = errors.New("not a VAGp header")

// FileHeader describes the container around a chunk stream
type FileHeader struct {
	Version    uint32
	DataSize   uint32 // bytes of chunk data after the header
	SampleRate uint32
	Name       string // at most 16 bytes are stored
}

// MarshalBinary encodes the header
func (h FileHeader) MarshalBinary() ([]byte, error) {
	if len(h.Name) > NameSize {
		return nil, fmt.Errorf("name %q longer than %d bytes", h.Name, NameSize)
	}

	b := make([]byte, HeaderSize)
	copy(b[0:4], headerMagic)
	binary.BigEndian.PutUint32(b[4:8], h.Version)
	binary.BigEndian.PutUint32(b[DataSizeOffset:DataSizeOffset+4], h.DataSize)
	binary.BigEndian.PutUint32(b[16:20], h.SampleRate)
	copy(b[32:32+NameSize], h.Name)
	return b, nil
}

// UnmarshalBinary decodes a header
func (h *FileHeader) UnmarshalBinary(b []byte) error {
	if len(b) < HeaderSize {
		return fmt.Errorf("short header: %d bytes (need %d)", len(b), HeaderSize)
	}
	if string(b[0:4]) != headerMagic {
		return ErrBadMagic
	}

	name := b[32 : 32+NameSize]
	for i, c := range name {
		if c == 0 {
			name = name[:i]
			break
		}
	}

	*h = FileHeader{
		Version:    binary.BigEndian.Uint32(b[4:8]),
		DataSize:   binary.BigEndian.Uint32(b[DataSizeOffset : DataSizeOffset+4]),
		SampleRate: binary.BigEndian.Uint32(b[16:20]),
		Name:       string(name),
	}
	return nil
}

// DataSizeField encodes size the way it is stored at DataSizeOffset
func DataSizeField(size uint32) [4]byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], size)
	return b
}
