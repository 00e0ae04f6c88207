// ABOUTME: WAV file source
// ABOUTME: Reads integer PCM WAV files into 16-bit packets using go-audio/wav
package decode

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/vagcodec/vag-go/pkg/audio"
)

// wavFormatPCM is the WAVE_FORMAT_PCM tag
const wavFormatPCM = 1

// WAVSource reads from a PCM WAV file
type WAVSource struct {
	file    *os.File
	decoder *wav.Decoder
	format  audio.Format
	buf     *goaudio.IntBuffer
	title   string
}

// NewWAVSource creates a new WAV audio source
func NewWAVSource(filePath string, opts Options) (*WAVSource, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV file: %w", err)
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		f.Close()
		return nil, fmt.Errorf("failed to decode WAV: invalid file %s", filePath)
	}
	if err := decoder.FwdToPCM(); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode WAV: %w", err)
	}

	if decoder.WavAudioFormat != wavFormatPCM {
		f.Close()
		return nil, fmt.Errorf("%w: WAV audio format %d (supported: integer PCM)", ErrUnsupportedFormat, decoder.WavAudioFormat)
	}

	bitDepth := int(decoder.BitDepth)
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 8, 16, 24, 32)", bitDepth)
	}

	channels := int(decoder.NumChans)
	format := audio.Format{
		Codec:      "wav",
		SampleRate: int(decoder.SampleRate),
		Channels:   channels,
		BitDepth:   bitDepth,
	}
	if frameBytes := channels * bitDepth / 8; frameBytes > 0 {
		format.Frames = int64(decoder.PCMSize / frameBytes)
	}

	title := titleFromPath(filePath)
	opts.logger().Printf("Loaded WAV: %s (sample rate: %d Hz, channels: %d, bit depth: %d)",
		title, format.SampleRate, format.Channels, format.BitDepth)

	return &WAVSource{
		file:    f,
		decoder: decoder,
		format:  format,
		buf: &goaudio.IntBuffer{
			Format:         decoder.Format(),
			Data:           make([]int, opts.packetFrames(DefaultPacketFrames)*channels),
			SourceBitDepth: bitDepth,
		},
		title: title,
	}, nil
}

func (s *WAVSource) ReadPacket() (audio.Packet, error) {
	n, err := s.decoder.PCMBuffer(s.buf)
	if err != nil {
		return audio.Packet{}, fmt.Errorf("wav decode error: %w", err)
	}
	n -= n % s.format.Channels
	if n == 0 {
		return audio.Packet{}, io.EOF
	}

	samples := make([]int16, n)
	for i := range samples {
		v := int32(s.buf.Data[i])
		if s.format.BitDepth == 8 {
			// 8-bit WAV is unsigned
			v -= 128
		}
		samples[i] = audio.SampleFromDepth(v, s.format.BitDepth)
	}

	return audio.Packet{
		Samples:    samples,
		SampleRate: s.format.SampleRate,
		Channels:   s.format.Channels,
	}, nil
}

func (s *WAVSource) Format() audio.Format { return s.format }
func (s *WAVSource) Metadata() (string, string, string) {
	return s.title, "Unknown Artist", "Unknown Album"
}
func (s *WAVSource) Close() error {
	return s.file.Close()
}
