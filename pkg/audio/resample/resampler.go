// ABOUTME: Simple linear resampler for converting audio sample rates
// ABOUTME: Used to convert between different sample rates using linear interpolation
package resample

import (
	"math"
)

// Resampler performs linear interpolation to convert between sample rates.
// The last input frame of each call is kept so that consecutive calls
// interpolate across the boundary as if the input were one stream.
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64
	position   float64
	lastSample []int16 // one sample per channel
	primed     bool
}

// New creates a new resampler
func New(inputRate, outputRate, channels int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
		position:   0.0,
		lastSample: make([]int16, channels),
	}
}

// Resample converts input samples to output sample rate using linear interpolation
// input: interleaved samples at inputRate
// output: interleaved samples at outputRate, sized with OutputSamplesNeeded
func (r *Resampler) Resample(input []int16, output []int16) int {
	if len(input) == 0 {
		return 0
	}

	inputFrames := len(input) / r.channels
	outputFrames := len(output) / r.channels

	// Frame 0 is the carried frame from the previous call once primed
	offset := 0
	if r.primed {
		offset = 1
	}
	totalFrames := inputFrames + offset

	frame := func(idx, ch int) float64 {
		if idx < offset {
			return float64(r.lastSample[ch])
		}
		return float64(input[(idx-offset)*r.channels+ch])
	}

	outIdx := 0

	for outIdx < outputFrames {
		inputIdx := int(r.position)

		// If we've consumed all input, stop
		if inputIdx >= totalFrames-1 {
			break
		}

		// Linear interpolation factor
		frac := r.position - float64(inputIdx)

		for ch := 0; ch < r.channels; ch++ {
			interpolated := frame(inputIdx, ch)*(1.0-frac) + frame(inputIdx+1, ch)*frac
			output[outIdx*r.channels+ch] = int16(math.Round(interpolated))
		}

		outIdx++
		r.position += r.ratio
	}

	// The last input frame becomes frame 0 of the next call
	r.position -= float64(totalFrames - 1)
	if r.position < 0 {
		r.position = 0
	}
	copy(r.lastSample, input[(inputFrames-1)*r.channels:])
	r.primed = true

	return outIdx * r.channels
}

// Reset resets the resampler state
func (r *Resampler) Reset() {
	r.position = 0.0
	r.primed = false
	for i := range r.lastSample {
		r.lastSample[i] = 0
	}
}

// OutputSamplesNeeded returns an output size that can hold everything
// produced from inputSamples
func (r *Resampler) OutputSamplesNeeded(inputSamples int) int {
	inputFrames := inputSamples/r.channels + 1
	outputFrames := int(math.Ceil(float64(inputFrames)/r.ratio)) + 1
	return outputFrames * r.channels
}
