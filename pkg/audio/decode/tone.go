// ABOUTME: Test tone source
// ABOUTME: Generates a finite stereo sine wave for trying out the encoder
package decode

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/vagcodec/vag-go/pkg/audio"
)

const (
	ToneSampleRate = 44100
	ToneChannels   = 2

	DefaultToneFrequency = 440.0 // A4 note
	DefaultToneDuration  = 5 * time.Second
)

// ToneSource generates a sine tone at half volume
type ToneSource struct {
	sampleIndex  int64
	totalFrames  int64
	packetFrames int
	frequency    float64
}

// NewToneSource creates a tone generator from opts
func NewToneSource(opts Options) (*ToneSource, error) {
	frequency := opts.ToneFrequency
	if frequency == 0 {
		frequency = DefaultToneFrequency
	}
	if frequency < 0 || frequency >= ToneSampleRate/2 {
		return nil, fmt.Errorf("invalid tone frequency: %g Hz", frequency)
	}

	duration := opts.ToneDuration
	if duration == 0 {
		duration = DefaultToneDuration
	}
	if duration < 0 {
		return nil, fmt.Errorf("invalid tone duration: %s", duration)
	}

	s := &ToneSource{
		totalFrames:  int64(duration.Seconds() * ToneSampleRate),
		packetFrames: opts.packetFrames(DefaultPacketFrames),
		frequency:    frequency,
	}
	opts.logger().Printf("Generating test tone: %.1f Hz for %s", frequency, duration)
	return s, nil
}

func (s *ToneSource) ReadPacket() (audio.Packet, error) {
	remaining := s.totalFrames - s.sampleIndex
	if remaining <= 0 {
		return audio.Packet{}, io.EOF
	}
	frames := int(min(remaining, int64(s.packetFrames)))

	samples := make([]int16, frames*ToneChannels)
	for i := 0; i < frames; i++ {
		t := float64(s.sampleIndex+int64(i)) / ToneSampleRate
		pcmValue := int16(math.Sin(2*math.Pi*s.frequency*t) * 32767.0 * 0.5)

		// Stereo (duplicate to both channels)
		samples[i*2] = pcmValue
		samples[i*2+1] = pcmValue
	}
	s.sampleIndex += int64(frames)

	return audio.Packet{
		Samples:    samples,
		SampleRate: ToneSampleRate,
		Channels:   ToneChannels,
	}, nil
}

func (s *ToneSource) Format() audio.Format {
	return audio.Format{
		Codec:      "tone",
		SampleRate: ToneSampleRate,
		Channels:   ToneChannels,
		BitDepth:   16,
		Frames:     s.totalFrames,
	}
}
func (s *ToneSource) Metadata() (string, string, string) {
	return "Test Tone", "vagenc", "Generated"
}
func (s *ToneSource) Close() error { return nil }
