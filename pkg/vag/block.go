// ABOUTME: VAG block encoder
// ABOUTME: Predictor/shift selection, quantization with feedback, nibble packing
package vag

import "math"

const (
	// Samples are clamped to this range before any prediction math
	clampMin = -30720
	clampMax = 30719

	// A minimum peak residual at or below this ends the predictor scan
	earlyExitResidual = 7.0

	maxShift = 12
)

// Block is the result of encoding 28 samples
type Block struct {
	Predictor int
	Shift     int
	// Samples holds the quantized values the decoder reconstructs, before
	// the shift is undone
	Samples [BlockSamples]int16
	Payload [PayloadBytes]byte
}

// Header returns the chunk header byte for the block
func (b *Block) Header() byte {
	return HeaderByte(b.Predictor, b.Shift)
}

// Chunk wraps the block into a chunk carrying flag
func (b *Block) Chunk(flag Flag) Chunk {
	return Chunk{
		Header:  b.Header(),
		Flag:    flag,
		Payload: b.Payload,
	}
}

// ClampSample limits a sample to the range the predictors operate on
func ClampSample(s int16) float64 {
	v := float64(s)
	if v < clampMin {
		return clampMin
	}
	if v > clampMax {
		return clampMax
	}
	return v
}

// EncodeBlock encodes one block of samples.
//
// filter holds the last two clamped input samples of the previous block and
// is advanced to the last two of this block. recon holds the reconstruction
// error feedback and is advanced sample by sample.
func EncodeBlock(samples *[BlockSamples]int16, filter, recon *History) Block {
	var clamped [BlockSamples]float64
	for i, s := range samples {
		clamped[i] = ClampSample(s)
	}

	var residuals [PredictorCount][BlockSamples]float64
	predictor := 0
	best := 1e10
	var h History

	for p := range Predictors {
		h = *filter
		peak := 0.0
		for i, s := range clamped {
			r := Predictors[p].Residual(s, h)
			residuals[p][i] = r
			peak = math.Max(peak, math.Abs(r))
			h.Push(s)
		}

		if peak < best {
			best = peak
			predictor = p
		}
		if best <= earlyExitResidual {
			predictor = 0
			break
		}
	}
	*filter = h

	block := Block{
		Predictor: predictor,
		Shift:     shiftFor(int32(best)),
	}

	coef := Predictors[predictor]
	scale := float64(int32(1) << block.Shift)
	for k, r := range residuals[predictor] {
		predicted := coef.Residual(r, *recon)
		q := quantize(predicted * scale)
		block.Samples[k] = int16(q)
		recon.Push(float64(q>>block.Shift) - predicted)
	}

	for k := range block.Payload {
		block.Payload[k] = byte((block.Samples[k*2+1]>>8)&0xF0 | (block.Samples[k*2]>>12)&0x0F)
	}

	return block
}

// shiftFor returns the shift for a block whose peak residual is peak
func shiftFor(peak int32) int {
	mask := int32(0x4000)
	shift := 0
	for shift < maxShift {
		if mask&(peak+(mask>>3)) != 0 {
			break
		}
		shift++
		mask >>= 1
	}
	return shift
}

// quantize rounds a scaled sample to the 4-bit grid and clamps it to int16
func quantize(scaled float64) int32 {
	q := int32(int64(scaled)+0x800) &^ 0xFFF
	if q < math.MinInt16 {
		return math.MinInt16
	}
	if q > math.MaxInt16 {
		return math.MaxInt16
	}
	return q
}
