// ABOUTME: Fixed linear predictor table for VAG ADPCM
// ABOUTME: Five (K1, K2) coefficient pairs indexed by the chunk header
package vag

// Predictor is a second-order linear predictor. The residual of a sample is
// sample + K1*h1 + K2*h2 where h1 is the previous sample and h2 the one before.
type Predictor struct {
	K1 float64
	K2 float64
}

// PredictorCount is the number of predictors a chunk header can select
const PredictorCount = 5

// Predictors is the predictor bank shared by every block. Index 0 ignores history.
var Predictors = [PredictorCount]Predictor{
	{0.0, 0.0},
	{-64.0 / 64.0, 0.0},
	{-115.0 / 64.0, 52.0 / 64.0},
	{-98.0 / 64.0, 55.0 / 64.0},
	{-122.0 / 64.0, 60.0 / 64.0},
}

// Residual applies the predictor to sample given the history h
func (p Predictor) Residual(sample float64, h History) float64 {
	return sample + h.S1*p.K1 + h.S2*p.K2
}

// History holds the two most recent values of a running filter
type History struct {
	S1 float64 // most recent
	S2 float64 // one before S1
}

// Push shifts v into the history
func (h *History) Push(v float64) {
	h.S2 = h.S1
	h.S1 = v
}
