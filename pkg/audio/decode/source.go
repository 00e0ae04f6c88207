// ABOUTME: Packet source abstraction over audio files and generated tones
// ABOUTME: Opens a source by file extension and defines decode errors
package decode

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vagcodec/vag-go/pkg/audio"
)

// ToneInput is the input name that selects the generated test tone
const ToneInput = "tone"

const (
	// DefaultPacketFrames is the packet size for sources without natural packets
	DefaultPacketFrames = 1024
	// MP3PacketFrames matches one MPEG-1 Layer III frame
	MP3PacketFrames = 1152
)

// ErrUnsupportedFormat is returned for inputs no source can decode
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// PacketError reports a packet that could not be decoded. The source stays
// usable and the next ReadPacket continues after the broken packet.
type PacketError struct {
	Packet int
	Err    error
}

func (e *PacketError) Error() string {
	return fmt.Sprintf("decode packet %d: %v", e.Packet, e.Err)
}

func (e *PacketError) Unwrap() error { return e.Err }

// Source yields decoded audio one packet at a time
type Source interface {
	// ReadPacket returns the next packet of interleaved 16-bit samples.
	// It returns io.EOF after the last packet and *PacketError for a packet
	// that failed to decode.
	ReadPacket() (audio.Packet, error)
	// Format describes the decoded stream
	Format() audio.Format
	// Metadata returns title, artist, album
	Metadata() (title, artist, album string)
	// Close closes the source
	Close() error
}

// Options tune how sources are opened
type Options struct {
	// PacketFrames is the packet size for sources without natural packets.
	// Zero picks the format's default.
	PacketFrames int

	// Raw PCM layout (.raw, .pcm)
	RawSampleRate int
	RawChannels   int
	RawBitDepth   int

	// Test tone
	ToneFrequency float64
	ToneDuration  time.Duration

	Logger *log.Logger
}

func (o Options) packetFrames(def int) int {
	if o.PacketFrames > 0 {
		return o.PacketFrames
	}
	return def
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard, "", 0)
}

// Open creates a source for path, chosen by file extension.
// ToneInput selects the test tone generator.
func Open(path string, opts Options) (Source, error) {
	if path == ToneInput {
		return NewToneSource(opts)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".mp3":
		return NewMP3Source(path, opts)
	case ".flac":
		return NewFLACSource(path, opts)
	case ".opus":
		return NewOpusSource(path, opts)
	case ".ogg", ".oga":
		return openOgg(path, opts)
	case ".wav", ".wave":
		return NewWAVSource(path, opts)
	case ".raw", ".pcm":
		return NewRawSource(path, opts)
	default:
		return nil, fmt.Errorf("%w: %q (supported: .mp3, .flac, .opus, .ogg, .wav, .raw, .pcm)", ErrUnsupportedFormat, ext)
	}
}

// openOgg tries an Ogg file as Opus first, then as Vorbis
func openOgg(path string, opts Options) (Source, error) {
	opusSrc, opusErr := NewOpusSource(path, opts)
	if opusErr == nil {
		return opusSrc, nil
	}

	vorbisSrc, vorbisErr := NewVorbisSource(path, opts)
	if vorbisErr == nil {
		return vorbisSrc, nil
	}

	return nil, fmt.Errorf("%w: %s is neither Ogg Opus (%v) nor Ogg Vorbis (%v)",
		ErrUnsupportedFormat, path, opusErr, vorbisErr)
}

// titleFromPath extracts the filename without extension as a title
func titleFromPath(path string) string {
	filename := filepath.Base(path)
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
