// ABOUTME: MP3 file source
// ABOUTME: Decodes MP3 to stereo 16-bit packets using go-mp3
package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"
	"github.com/vagcodec/vag-go/pkg/audio"
)

// MP3Source reads from an MP3 file
type MP3Source struct {
	file    *os.File
	decoder *mp3.Decoder
	format  audio.Format
	buf     []byte
	title   string
}

// NewMP3Source creates a new MP3 audio source
func NewMP3Source(filePath string, opts Options) (*MP3Source, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open MP3 file: %w", err)
	}

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode MP3: %w", err)
	}

	format := audio.Format{
		Codec:      "mp3",
		SampleRate: decoder.SampleRate(),
		Channels:   2, // MP3 decoder outputs stereo
		BitDepth:   16,
	}
	// Length is in bytes of decoded s16le stereo
	if n := decoder.Length(); n > 0 {
		format.Frames = n / 4
	}

	title := titleFromPath(filePath)
	opts.logger().Printf("Loaded MP3: %s (sample rate: %d Hz)", title, format.SampleRate)

	return &MP3Source{
		file:    f,
		decoder: decoder,
		format:  format,
		buf:     make([]byte, opts.packetFrames(MP3PacketFrames)*format.Channels*2),
		title:   title,
	}, nil
}

func (s *MP3Source) ReadPacket() (audio.Packet, error) {
	n, err := io.ReadFull(s.decoder, s.buf)
	if errors.Is(err, io.EOF) {
		return audio.Packet{}, io.EOF
	}
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return audio.Packet{}, fmt.Errorf("mp3 decode error: %w", err)
	}

	// Drop a trailing odd byte, keep whole frames only
	numSamples := (n / 4) * 2
	samples := make([]int16, numSamples)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(s.buf[i*2:]))
	}

	return audio.Packet{
		Samples:    samples,
		SampleRate: s.format.SampleRate,
		Channels:   s.format.Channels,
	}, nil
}

func (s *MP3Source) Format() audio.Format { return s.format }
func (s *MP3Source) Metadata() (string, string, string) {
	return s.title, "Unknown Artist", "Unknown Album"
}
func (s *MP3Source) Close() error {
	return s.file.Close()
}
