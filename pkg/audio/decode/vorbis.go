// ABOUTME: Ogg Vorbis file source
// ABOUTME: Decodes one Vorbis packet per packet with jfreymuth/vorbis
package decode

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jfreymuth/oggvorbis"
	"github.com/jfreymuth/vorbis"
	"github.com/thesyncim/gopus/container/ogg"
	"github.com/vagcodec/vag-go/pkg/audio"
)

// vorbisHeaders is the number of header packets before audio
const vorbisHeaders = 3

// VorbisSource reads from an Ogg Vorbis file. Every Vorbis packet becomes
// one packet; packets that decode to no samples are skipped.
type VorbisSource struct {
	file    *os.File
	demux   *oggDemuxer
	decoder vorbis.Decoder
	format  audio.Format
	packets int
	title   string
	artist  string
	album   string
}

// NewVorbisSource creates a new Ogg Vorbis audio source
func NewVorbisSource(filePath string, opts Options) (*VorbisSource, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Vorbis file: %w", err)
	}

	// Length comes from the last granule position; a stream without one
	// still decodes, only progress is unknown
	length, _, err := oggvorbis.GetLength(f)
	if err != nil {
		length = 0
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rewind Vorbis file: %w", err)
	}

	s := &VorbisSource{
		file:   f,
		demux:  newOggDemuxer(f),
		title:  titleFromPath(filePath),
		artist: "Unknown Artist",
		album:  "Unknown Album",
	}

	for i := 0; i < vorbisHeaders; i++ {
		packet, err := s.demux.ReadPacket()
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to read Vorbis headers: %w", err)
		}
		if err := s.decoder.ReadHeader(packet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to read Vorbis headers: %w", err)
		}
	}

	for _, c := range s.decoder.Comments {
		key, value, ok := strings.Cut(c, "=")
		if !ok || value == "" {
			continue
		}
		switch strings.ToUpper(key) {
		case "TITLE":
			s.title = value
		case "ARTIST":
			s.artist = value
		case "ALBUM":
			s.album = value
		}
	}

	s.format = audio.Format{
		Codec:      "vorbis",
		SampleRate: s.decoder.SampleRate(),
		Channels:   s.decoder.Channels(),
		BitDepth:   16,
		Frames:     length,
	}

	opts.logger().Printf("Loaded Vorbis: %s (sample rate: %d Hz, channels: %d)",
		s.title, s.format.SampleRate, s.format.Channels)

	return s, nil
}

func (s *VorbisSource) ReadPacket() (audio.Packet, error) {
	for {
		data, err := s.demux.ReadPacket()
		if errors.Is(err, io.EOF) {
			return audio.Packet{}, io.EOF
		}

		index := s.packets
		s.packets++

		if errors.Is(err, ogg.ErrBadCRC) {
			// The next packet does not follow the last one decoded
			s.decoder.Clear()
			return audio.Packet{}, &PacketError{Packet: index, Err: err}
		}
		if err != nil {
			return audio.Packet{}, fmt.Errorf("failed to read Ogg page: %w", err)
		}

		out, err := s.decode(data)
		if err != nil {
			s.decoder.Clear()
			return audio.Packet{}, &PacketError{Packet: index, Err: err}
		}
		// The first audio packet only primes the overlap
		if len(out) == 0 {
			continue
		}

		samples := make([]int16, len(out))
		for i, v := range out {
			samples[i] = audio.SampleFromFloat32(v)
		}

		return audio.Packet{
			Samples:    samples,
			SampleRate: s.format.SampleRate,
			Channels:   s.format.Channels,
		}, nil
	}
}

// decode turns decoder panics on malformed packets into errors
func (s *VorbisSource) decode(data []byte) (out []float32, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("vorbis: malformed packet: %v", r)
		}
	}()
	return s.decoder.Decode(data)
}

func (s *VorbisSource) Format() audio.Format { return s.format }
func (s *VorbisSource) Metadata() (string, string, string) {
	return s.title, s.artist, s.album
}
func (s *VorbisSource) Close() error {
	return s.file.Close()
}
