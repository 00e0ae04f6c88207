// ABOUTME: Raw PCM file source
// ABOUTME: Reads headerless 16-bit and 24-bit little-endian PCM into packets
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vagcodec/vag-go/pkg/audio"
)

// RawSource reads headerless interleaved PCM
type RawSource struct {
	file   *os.File
	format audio.Format
	buf    []byte
	title  string
}

// NewRawSource creates a raw PCM source using the layout from opts
func NewRawSource(filePath string, opts Options) (*RawSource, error) {
	if opts.RawSampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate for raw PCM: %d", opts.RawSampleRate)
	}
	if opts.RawChannels <= 0 {
		return nil, fmt.Errorf("invalid channel count for raw PCM: %d", opts.RawChannels)
	}
	if opts.RawBitDepth != 16 && opts.RawBitDepth != 24 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16, 24)", opts.RawBitDepth)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open PCM file: %w", err)
	}

	frameBytes := opts.RawChannels * opts.RawBitDepth / 8
	format := audio.Format{
		Codec:      "pcm",
		SampleRate: opts.RawSampleRate,
		Channels:   opts.RawChannels,
		BitDepth:   opts.RawBitDepth,
	}
	if info, err := f.Stat(); err == nil {
		format.Frames = info.Size() / int64(frameBytes)
	}

	title := titleFromPath(filePath)
	opts.logger().Printf("Loaded PCM: %s (sample rate: %d Hz, channels: %d, bit depth: %d)",
		title, format.SampleRate, format.Channels, format.BitDepth)

	return &RawSource{
		file:   f,
		format: format,
		buf:    make([]byte, opts.packetFrames(DefaultPacketFrames)*frameBytes),
		title:  title,
	}, nil
}

func (s *RawSource) ReadPacket() (audio.Packet, error) {
	n, err := io.ReadFull(s.file, s.buf)
	if errors.Is(err, io.EOF) {
		return audio.Packet{}, io.EOF
	}
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return audio.Packet{}, fmt.Errorf("failed to read PCM: %w", err)
	}

	frameBytes := s.format.Channels * s.format.BitDepth / 8
	n -= n % frameBytes
	if n == 0 {
		return audio.Packet{}, io.EOF
	}

	return audio.Packet{
		Samples:    DecodePCM(s.buf[:n], s.format.BitDepth),
		SampleRate: s.format.SampleRate,
		Channels:   s.format.Channels,
	}, nil
}

func (s *RawSource) Format() audio.Format { return s.format }
func (s *RawSource) Metadata() (string, string, string) {
	return s.title, "Unknown Artist", "Unknown Album"
}
func (s *RawSource) Close() error {
	return s.file.Close()
}

// DecodePCM converts little-endian PCM bytes to 16-bit samples
func DecodePCM(data []byte, bitDepth int) []int16 {
	if bitDepth == 24 {
		// 24-bit PCM: 3 bytes per sample
		numSamples := len(data) / 3
		samples := make([]int16, numSamples)
		for i := 0; i < numSamples; i++ {
			b := [3]byte{data[i*3], data[i*3+1], data[i*3+2]}
			samples[i] = audio.SampleFromDepth(audio.SampleFrom24Bit(b), 24)
		}
		return samples
	}

	// 16-bit PCM: 2 bytes per sample (default)
	numSamples := len(data) / 2
	samples := make([]int16, numSamples)
	for i := 0; i < numSamples; i++ {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return samples
}
