// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Packet types and sample conversion functions
// Package audio provides the audio types shared by sources and the encoder.
//
// This package defines:
//   - Format: Describes a decoded stream (codec, sample rate, channels, bit depth)
//   - Packet: One group of decoded interleaved 16-bit PCM
//
// It also converts source samples to 16-bit:
//   - arbitrary bit depth → 16-bit
//   - float32 → 16-bit with clipping
//   - packed 24-bit bytes → int32
//
// Example:
//
//	packet := audio.Packet{
//	    Samples:    samples,
//	    SampleRate: 44100,
//	    Channels:   2,
//	}
//
//	// Convert a 24-bit FLAC sample
//	s := audio.SampleFromDepth(sample24, 24)
package audio
