// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts audio between different sample rates
// Package resample provides audio sample rate conversion.
//
// Uses linear interpolation for converting between sample rates.
// Handles both upsampling and downsampling, and carries state across calls
// so a stream can be resampled packet by packet.
//
// Example:
//
//	r := resample.New(44100, 22050, 2)
//	out := make([]int16, r.OutputSamplesNeeded(len(in)))
//	n := r.Resample(in, out)
//
//	// Or wrap a whole source
//	src = resample.NewSource(src, 22050)
package resample
