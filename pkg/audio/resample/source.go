// ABOUTME: Resampling wrapper around a packet source
// ABOUTME: Converts every packet to a target sample rate, one packet out per packet in
package resample

import (
	"github.com/vagcodec/vag-go/pkg/audio"
	"github.com/vagcodec/vag-go/pkg/audio/decode"
)

// Source resamples the packets of another source. Packet boundaries are
// kept so the encoder still sees the source's packet structure.
type Source struct {
	src       decode.Source
	rate      int
	resampler *Resampler
	inRate    int
	channels  int
}

// NewSource wraps src so that its packets come out at rate
func NewSource(src decode.Source, rate int) *Source {
	return &Source{src: src, rate: rate}
}

func (s *Source) ReadPacket() (audio.Packet, error) {
	packet, err := s.src.ReadPacket()
	if err != nil {
		return packet, err
	}
	if packet.SampleRate == s.rate || packet.Channels == 0 {
		return packet, nil
	}

	if s.resampler == nil || packet.SampleRate != s.inRate || packet.Channels != s.channels {
		s.resampler = New(packet.SampleRate, s.rate, packet.Channels)
		s.inRate = packet.SampleRate
		s.channels = packet.Channels
	}

	out := make([]int16, s.resampler.OutputSamplesNeeded(len(packet.Samples)))
	n := s.resampler.Resample(packet.Samples, out)

	return audio.Packet{
		Samples:    out[:n],
		SampleRate: s.rate,
		Channels:   packet.Channels,
	}, nil
}

func (s *Source) Format() audio.Format {
	format := s.src.Format()
	if format.SampleRate > 0 && format.SampleRate != s.rate {
		format.Frames = format.Frames * int64(s.rate) / int64(format.SampleRate)
		format.SampleRate = s.rate
	}
	return format
}

func (s *Source) Metadata() (string, string, string) { return s.src.Metadata() }
func (s *Source) Close() error                       { return s.src.Close() }
