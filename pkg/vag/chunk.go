// ABOUTME: VAG chunk wire layout and block flags
// ABOUTME: 16-byte chunk = header byte, flag byte, 14 packed nibble bytes
package vag

import "fmt"

const (
	// PayloadBytes is the number of packed nibble bytes in a chunk
	PayloadBytes = 14
	// BlockSamples is the number of input samples encoded by one chunk
	BlockSamples = PayloadBytes * 2
	// ChunkSize is the encoded size of one chunk in bytes
	ChunkSize = 2 + PayloadBytes
)

// Flag marks a chunk's role in playback and looping
type Flag uint8

const (
	FlagNothing Flag = iota
	FlagLoopLastBlock
	FlagLoopRegion
	FlagLoopEnd
	FlagLoopFirstBlock
	FlagUnknown
	FlagLoopStart
	FlagPlaybackEnd
)

var flagNames = [...]string{
	"nothing",
	"loop-last-block",
	"loop-region",
	"loop-end",
	"loop-first-block",
	"unknown",
	"loop-start",
	"playback-end",
}

func (f Flag) String() string {
	if int(f) < len(flagNames) {
		return flagNames[f]
	}
	return fmt.Sprintf("flag(%d)", uint8(f))
}

// Loop carries the loop parameters of a packet. Start and End are block
// indices counted from the first block of the packet.
type Loop struct {
	Enabled bool
	Start   int
	End     int
}

// BlockFlag returns the flag for the block at index. last reports whether
// the block is the final one of its packet. stop is true when encoding of
// the packet must end after this block.
func BlockFlag(index int, last bool, loop Loop) (flag Flag, stop bool) {
	if last {
		if loop.Enabled {
			return FlagLoopEnd, false
		}
		return FlagLoopLastBlock, false
	}

	if !loop.Enabled {
		return FlagNothing, false
	}

	switch index {
	case loop.Start:
		return FlagLoopStart, false
	case loop.End:
		return FlagLoopEnd, true
	default:
		return FlagLoopRegion, false
	}
}

// Chunk is one encoded 16-byte VAG unit
type Chunk struct {
	Header  byte
	Flag    Flag
	Payload [PayloadBytes]byte
}

// HeaderByte packs a predictor index and shift into a chunk header byte
func HeaderByte(predictor, shift int) byte {
	return byte((predictor<<4)&0xF0) | byte(shift&0x0F)
}

// Predictor returns the predictor index stored in the header
func (c Chunk) Predictor() int { return int(c.Header >> 4) }

// Shift returns the shift stored in the header
func (c Chunk) Shift() int { return int(c.Header & 0x0F) }

// Bytes returns the wire form of the chunk
func (c Chunk) Bytes() [ChunkSize]byte {
	var b [ChunkSize]byte
	b[0] = c.Header
	b[1] = byte(c.Flag)
	copy(b[2:], c.Payload[:])
	return b
}

// ParseChunk reads a chunk from its 16-byte wire form
func ParseChunk(b []byte) (Chunk, error) {
	if len(b) < ChunkSize {
		return Chunk{}, fmt.Errorf("short chunk: %d bytes (need %d)", len(b), ChunkSize)
	}
	c := Chunk{
		Header: b[0],
		Flag:   Flag(b[1]),
	}
	copy(c.Payload[:], b[2:ChunkSize])
	return c, nil
}
