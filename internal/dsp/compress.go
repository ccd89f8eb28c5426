package dsp

import "math"

// Compress applies simple dynamic-range compression: samples above the
// threshold are scaled down by the given ratio. Used to tame reverb tails.
func Compress(x []float64, threshold, ratio float64) []float64 {
	out := make([]float64, len(x))
	for i, s := range x {
		abs := math.Abs(s)
		if abs <= threshold {
			out[i] = s
			continue
		}
		compressed := threshold + (abs-threshold)/ratio
		out[i] = math.Copysign(compressed, s)
	}
	return out
}
