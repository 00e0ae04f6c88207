// ABOUTME: FLAC file source
// ABOUTME: Yields one decoded FLAC frame per packet using mewkiz/flac
package decode

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mewkiz/flac"
	"github.com/vagcodec/vag-go/pkg/audio"
)

// FLACSource reads from a FLAC file
type FLACSource struct {
	file   *os.File
	stream *flac.Stream
	format audio.Format
	frames int
	title  string
}

// NewFLACSource creates a new FLAC audio source
func NewFLACSource(filePath string, opts Options) (*FLACSource, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open FLAC file: %w", err)
	}

	stream, err := flac.New(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode FLAC: %w", err)
	}

	info := stream.Info
	format := audio.Format{
		Codec:      "flac",
		SampleRate: int(info.SampleRate),
		Channels:   int(info.NChannels),
		BitDepth:   int(info.BitsPerSample),
		Frames:     int64(info.NSamples),
	}

	title := titleFromPath(filePath)
	opts.logger().Printf("Loaded FLAC: %s (sample rate: %d Hz, channels: %d, bit depth: %d)",
		title, format.SampleRate, format.Channels, format.BitDepth)

	return &FLACSource{
		file:   f,
		stream: stream,
		format: format,
		title:  title,
	}, nil
}

func (s *FLACSource) ReadPacket() (audio.Packet, error) {
	index := s.frames
	frame, err := s.stream.ParseNext()
	if errors.Is(err, io.EOF) {
		return audio.Packet{}, io.EOF
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return audio.Packet{}, fmt.Errorf("flac stream truncated: %w", err)
	}
	s.frames++
	if err != nil {
		return audio.Packet{}, &PacketError{Packet: index, Err: err}
	}

	channels := len(frame.Subframes)
	blockSize := int(frame.BlockSize)
	samples := make([]int16, 0, blockSize*channels)
	for i := 0; i < blockSize; i++ {
		for ch := 0; ch < channels; ch++ {
			samples = append(samples, audio.SampleFromDepth(frame.Subframes[ch].Samples[i], s.format.BitDepth))
		}
	}

	return audio.Packet{
		Samples:    samples,
		SampleRate: s.format.SampleRate,
		Channels:   channels,
	}, nil
}

func (s *FLACSource) Format() audio.Format { return s.format }
func (s *FLACSource) Metadata() (string, string, string) {
	return s.title, "Unknown Artist", "Unknown Album"
}
func (s *FLACSource) Close() error {
	return s.file.Close()
}
