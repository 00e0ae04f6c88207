// ABOUTME: Audio type definitions
// ABOUTME: Defines audio formats, decoded packets and sample conversions
package audio

import "math"

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// Format describes a decoded audio stream
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int   // bit depth of the source before conversion to 16-bit
	Frames     int64 // total frames if known, 0 otherwise
}

// Packet is one group of decoded interleaved 16-bit PCM
type Packet struct {
	Samples    []int16
	SampleRate int
	Channels   int
}

// Frames returns the number of sample frames in the packet
func (p Packet) Frames() int {
	if p.Channels == 0 {
		return 0
	}
	return len(p.Samples) / p.Channels
}

// SampleFromDepth converts a signed sample of the given bit depth to 16-bit
func SampleFromDepth(sample int32, bitDepth int) int16 {
	switch {
	case bitDepth == 16:
		return int16(sample)
	case bitDepth > 16:
		return int16(sample >> (bitDepth - 16))
	default:
		return int16(sample << (16 - bitDepth))
	}
}

// SampleFromFloat32 converts a [-1, 1] float sample to 16-bit with clipping
func SampleFromFloat32(sample float32) int16 {
	v := math.Round(float64(sample) * 32767.0)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// SampleFrom24Bit converts 24-bit packed bytes to int32 (little-endian)
func SampleFrom24Bit(b [3]byte) int32 {
	// Reconstruct 24-bit value and sign-extend to 32-bit
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF // Set upper 8 bits to 1 for negative values
	}
	return val
}

// ChannelName returns a display name for a channel count
func ChannelName(channels int) string {
	switch channels {
	case 1:
		return "Mono"
	case 2:
		return "Stereo"
	default:
		return "Multichannel"
	}
}
