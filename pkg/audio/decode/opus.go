// ABOUTME: Ogg Opus file source
// ABOUTME: Decodes one Opus packet per packet with gopus, honouring pre-skip
package decode

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/thesyncim/gopus"
	"github.com/thesyncim/gopus/container/ogg"
	"github.com/vagcodec/vag-go/pkg/audio"
)

// OpusSampleRate is the rate Opus is always decoded at
const OpusSampleRate = 48000

// opusMaxFrames is the longest Opus packet, 120ms at 48kHz
const opusMaxFrames = 5760

// OpusSource reads from an Ogg Opus file
type OpusSource struct {
	file    *os.File
	demux   *oggDemuxer
	decoder *gopus.Decoder
	pcm     []int16
	format  audio.Format
	packets int
	skip    int // pre-skip frames still to drop
	title   string
	artist  string
	album   string
}

// NewOpusSource creates a new Ogg Opus audio source
func NewOpusSource(filePath string, opts Options) (*OpusSource, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Opus file: %w", err)
	}

	demux := newOggDemuxer(f)
	head, tags, err := readOpusHeaders(demux)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read Ogg Opus headers: %w", err)
	}

	s := &OpusSource{
		file:  f,
		demux: demux,
		format: audio.Format{
			Codec:      "opus",
			SampleRate: OpusSampleRate,
			Channels:   int(head.Channels),
			BitDepth:   16,
		},
		skip:   int(head.PreSkip),
		title:  titleFromPath(filePath),
		artist: "Unknown Artist",
		album:  "Unknown Album",
	}
	if v := tags.Comments["TITLE"]; v != "" {
		s.title = v
	}
	if v := tags.Comments["ARTIST"]; v != "" {
		s.artist = v
	}
	if v := tags.Comments["ALBUM"]; v != "" {
		s.album = v
	}

	opts.logger().Printf("Loaded Opus: %s (input rate: %d Hz, channels: %d, pre-skip: %d)",
		s.title, head.SampleRate, s.format.Channels, s.skip)

	return s, nil
}

func readOpusHeaders(demux *oggDemuxer) (*ogg.OpusHead, *ogg.OpusTags, error) {
	packet, err := demux.ReadPacket()
	if err != nil {
		return nil, nil, err
	}
	head, err := ogg.ParseOpusHead(packet)
	if err != nil {
		return nil, nil, err
	}

	packet, err = demux.ReadPacket()
	if err != nil {
		return nil, nil, err
	}
	tags, err := ogg.ParseOpusTags(packet)
	if err != nil {
		return nil, nil, err
	}

	return head, tags, nil
}

// ReadPacket decodes the next Opus packet. The decoder is created on first
// use so that an unsupported channel layout can be reported by the caller
// from Format before any decoding happens.
func (s *OpusSource) ReadPacket() (audio.Packet, error) {
	data, err := s.demux.ReadPacket()
	if errors.Is(err, io.EOF) {
		return audio.Packet{}, io.EOF
	}

	index := s.packets
	s.packets++

	if errors.Is(err, ogg.ErrBadCRC) {
		return audio.Packet{}, &PacketError{Packet: index, Err: err}
	}
	if err != nil {
		return audio.Packet{}, fmt.Errorf("failed to read Ogg page: %w", err)
	}

	if s.decoder == nil {
		s.decoder, err = gopus.NewDecoder(gopus.DefaultDecoderConfig(OpusSampleRate, s.format.Channels))
		if err != nil {
			return audio.Packet{}, fmt.Errorf("failed to create opus decoder: %w", err)
		}
		s.pcm = make([]int16, opusMaxFrames*s.format.Channels)
	}

	n, err := s.decoder.DecodeInt16(data, s.pcm)
	if err != nil {
		return audio.Packet{}, &PacketError{Packet: index, Err: err}
	}

	frames := s.pcm[:n*s.format.Channels]
	if s.skip > 0 {
		drop := min(s.skip, n)
		frames = frames[drop*s.format.Channels:]
		s.skip -= drop
	}

	return audio.Packet{
		Samples:    append([]int16(nil), frames...),
		SampleRate: OpusSampleRate,
		Channels:   s.format.Channels,
	}, nil
}

func (s *OpusSource) Format() audio.Format { return s.format }
func (s *OpusSource) Metadata() (string, string, string) {
	return s.title, s.artist, s.album
}
func (s *OpusSource) Close() error {
	return s.file.Close()
}
