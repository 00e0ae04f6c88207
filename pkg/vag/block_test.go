// ABOUTME: Tests for the VAG block encoder
// ABOUTME: Covers predictor selection, shift, clamping, quantization and packing
package vag

import (
	"testing"
)

func filled(v int16) *[BlockSamples]int16 {
	var b [BlockSamples]int16
	for i := range b {
		b[i] = v
	}
	return &b
}

func TestPredictorTable(t *testing.T) {
	tests := []struct {
		index  int
		k1, k2 float64
	}{
		{0, 0, 0},
		{1, -1, 0},
		{2, -115.0 / 64.0, 52.0 / 64.0},
		{3, -98.0 / 64.0, 55.0 / 64.0},
		{4, -122.0 / 64.0, 60.0 / 64.0},
	}

	for _, tt := range tests {
		p := Predictors[tt.index]
		if p.K1 != tt.k1 || p.K2 != tt.k2 {
			t.Errorf("predictor %d: got (%v, %v), want (%v, %v)", tt.index, p.K1, p.K2, tt.k1, tt.k2)
		}
	}
}

func TestEncodeBlock_Silence(t *testing.T) {
	var filter, recon History
	block := EncodeBlock(filled(0), &filter, &recon)

	if block.Predictor != 0 {
		t.Errorf("expected predictor 0, got %d", block.Predictor)
	}

	// A zero peak never satisfies the shift test, so the scan runs to the end
	if block.Shift != 12 {
		t.Errorf("expected shift 12, got %d", block.Shift)
	}

	for i, b := range block.Payload {
		if b != 0 {
			t.Errorf("payload byte %d: expected 0, got %#x", i, b)
		}
	}

	if recon != (History{}) {
		t.Errorf("expected zero reconstruction history, got %+v", recon)
	}
}

func TestEncodeBlock_Constant100(t *testing.T) {
	var filter, recon History
	block := EncodeBlock(filled(100), &filter, &recon)

	if block.Predictor != 0 {
		t.Errorf("expected predictor 0, got %d", block.Predictor)
	}
	if block.Shift != 8 {
		t.Errorf("expected shift 8, got %d", block.Shift)
	}
	if block.Header() != 0x08 {
		t.Errorf("expected header 0x08, got %#x", block.Header())
	}

	// 100 << 8 = 25600, rounded to the 4096 grid = 0x6000
	for i, s := range block.Samples {
		if s != 0x6000 {
			t.Errorf("sample %d: expected %#x, got %#x", i, 0x6000, s)
		}
	}
	for i, b := range block.Payload {
		if b != 0x66 {
			t.Errorf("payload byte %d: expected 0x66, got %#x", i, b)
		}
	}

	// (0x6000 >> 8) - 100 = -4
	if recon.S1 != -4 || recon.S2 != -4 {
		t.Errorf("expected reconstruction history (-4, -4), got %+v", recon)
	}
	if filter.S1 != 100 || filter.S2 != 100 {
		t.Errorf("expected filter history (100, 100), got %+v", filter)
	}
}

func TestEncodeBlock_EarlyExitForcesPredictorZero(t *testing.T) {
	// With history (1000, 1000) predictor 1 removes a constant 1000 entirely,
	// but reaching a peak of 0 ends the scan with predictor 0 selected.
	filter := History{S1: 1000, S2: 1000}
	var recon History
	block := EncodeBlock(filled(1000), &filter, &recon)

	if block.Predictor != 0 {
		t.Fatalf("expected predictor 0, got %d", block.Predictor)
	}
	if block.Shift != 12 {
		t.Errorf("expected shift 12, got %d", block.Shift)
	}

	// Predictor 0 residuals are the raw samples: 1000 << 12 saturates
	for i, s := range block.Samples {
		if s != 32767 {
			t.Errorf("sample %d: expected 32767, got %d", i, s)
		}
	}
	for i, b := range block.Payload {
		if b != 0x77 {
			t.Errorf("payload byte %d: expected 0x77, got %#x", i, b)
		}
	}
}

func TestEncodeBlock_FirstBlockOfConstant(t *testing.T) {
	var filter, recon History
	block := EncodeBlock(filled(1000), &filter, &recon)

	// The first residual of every predictor is 1000, so no predictor beats 0
	if block.Predictor != 0 {
		t.Errorf("expected predictor 0, got %d", block.Predictor)
	}
	if block.Shift != 4 {
		t.Errorf("expected shift 4, got %d", block.Shift)
	}
}

func TestEncodeBlock_SelectsBestPredictor(t *testing.T) {
	// A ramp continuing its history is tracked best by the second-order
	// predictors, none of which gets under the early exit threshold.
	var samples [BlockSamples]int16
	for i := range samples {
		samples[i] = int16(1000 + i*100)
	}
	filter := History{S1: 900, S2: 800}
	var recon History

	block := EncodeBlock(&samples, &filter, &recon)

	// Peaks: predictor 0 = 3700, 1 = 100, 2 = 75, 3 > 1000, 4 = 118.75
	if block.Predictor != 2 {
		t.Fatalf("expected predictor 2, got %d", block.Predictor)
	}

	var peaks [PredictorCount]float64
	for p := range Predictors {
		h := History{S1: 900, S2: 800}
		for _, s := range samples {
			r := Predictors[p].Residual(float64(s), h)
			if r < 0 {
				r = -r
			}
			if r > peaks[p] {
				peaks[p] = r
			}
			h.Push(float64(s))
		}
	}
	for p, peak := range peaks {
		if peak < peaks[block.Predictor] {
			t.Errorf("predictor %d has peak %v, lower than chosen %v", p, peak, peaks[block.Predictor])
		}
	}

	// 75 truncates to 75: bit 0x40 first hits at shift 8
	if block.Shift != 8 {
		t.Errorf("expected shift 8, got %d", block.Shift)
	}
}

func TestClampSample(t *testing.T) {
	tests := []struct {
		name     string
		input    int16
		expected float64
	}{
		{"zero", 0, 0},
		{"upper bound", 30719, 30719},
		{"above upper bound", 30720, 30719},
		{"max", 32767, 30719},
		{"lower bound", -30720, -30720},
		{"below lower bound", -30721, -30720},
		{"min", -32768, -30720},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampSample(tt.input); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestEncodeBlock_ClampsBeforePrediction(t *testing.T) {
	tests := []struct {
		name       string
		outOfRange int16
		bound      int16
	}{
		{"positive", 32767, 30719},
		{"positive adjacent", 30720, 30719},
		{"negative", -32768, -30720},
		{"negative adjacent", -30721, -30720},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f1, r1, f2, r2 History
			got := EncodeBlock(filled(tt.outOfRange), &f1, &r1)
			want := EncodeBlock(filled(tt.bound), &f2, &r2)

			if got != want {
				t.Errorf("block for %d differs from block for %d", tt.outOfRange, tt.bound)
			}
			if f1 != f2 || r1 != r2 {
				t.Errorf("histories differ: filter %+v vs %+v, recon %+v vs %+v", f1, f2, r1, r2)
			}
		})
	}
}

func TestEncodeBlock_PackingMatchesSamples(t *testing.T) {
	var samples [BlockSamples]int16
	for i := range samples {
		// Alternating large swings exercise both signs and all nibbles
		samples[i] = int16((i*7919)%20000 - 10000)
	}
	var filter, recon History
	block := EncodeBlock(&samples, &filter, &recon)

	for k, b := range block.Payload {
		lo := b & 0x0F
		hi := b >> 4
		wantLo := byte(uint16(block.Samples[2*k])>>12) & 0x0F
		wantHi := byte(uint16(block.Samples[2*k+1])>>12) & 0x0F
		if lo != wantLo || hi != wantHi {
			t.Errorf("byte %d = %#x: expected nibbles hi=%x lo=%x", k, b, wantHi, wantLo)
		}
	}

	// Reconstructed samples sit on the 4096 grid unless saturated
	for i, s := range block.Samples {
		if s != 32767 && s&0x0FFF != 0 {
			t.Errorf("sample %d = %d is not a multiple of 4096", i, s)
		}
	}
}

func TestShiftFor(t *testing.T) {
	tests := []struct {
		peak     int32
		expected int
	}{
		{0, 12},
		{6, 12},
		{7, 11},
		{8, 11},
		{100, 8},
		{1000, 4},
		{0x3000, 1},
		{30719, 0},
	}

	for _, tt := range tests {
		if got := shiftFor(tt.peak); got != tt.expected {
			t.Errorf("shiftFor(%d): expected %d, got %d", tt.peak, tt.expected, got)
		}
	}
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		name     string
		scaled   float64
		expected int32
	}{
		{"zero", 0, 0},
		{"rounds down", 2047, 0},
		{"rounds up", 2048, 4096},
		{"negative rounds toward grid", -2048, 0},
		{"negative", -2049.5, -4096},
		{"saturates high", 40000, 32767},
		{"saturates low", -40000, -32768},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quantize(tt.scaled); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestHeaderByte(t *testing.T) {
	tests := []struct {
		predictor, shift int
		expected         byte
	}{
		{0, 0, 0x00},
		{0, 12, 0x0C},
		{4, 11, 0x4B},
		{2, 8, 0x28},
	}

	for _, tt := range tests {
		if got := HeaderByte(tt.predictor, tt.shift); got != tt.expected {
			t.Errorf("HeaderByte(%d, %d): expected %#x, got %#x", tt.predictor, tt.shift, tt.expected, got)
		}
	}
}
