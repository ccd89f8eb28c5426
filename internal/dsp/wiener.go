package dsp

import (
	"errors"

	"gonum.org/v1/gonum/floats"
)

// ErrWienerWindow indicates the requested local window cannot be formed.
var ErrWienerWindow = errors.New("dsp: wiener window larger than signal")

// Wiener applies a scalar Wiener filter with a sliding local window.
// noisePower is the assumed noise variance; when negative, the mean of the
// local variances is used as the estimate. The signal is smoothed toward the
// local mean wherever local variance approaches the noise floor.
func Wiener(x []float64, window int, noisePower float64) ([]float64, error) {
	if window < 1 {
		window = 3
	}
	if window%2 == 0 {
		window++
	}
	if len(x) < window {
		return nil, ErrWienerWindow
	}

	half := window / 2
	n := len(x)
	localMean := make([]float64, n)
	localVar := make([]float64, n)

	for i := 0; i < n; i++ {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half + 1
		if hi > n {
			hi = n
		}
		segment := x[lo:hi]
		mean := floats.Sum(segment) / float64(len(segment))
		var variance float64
		for _, s := range segment {
			d := s - mean
			variance += d * d
		}
		variance /= float64(len(segment))
		localMean[i] = mean
		localVar[i] = variance
	}

	if noisePower < 0 {
		noisePower = floats.Sum(localVar) / float64(n)
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		variance := localVar[i]
		if variance <= noisePower || variance == 0 {
			out[i] = localMean[i]
			continue
		}
		gain := (variance - noisePower) / variance
		out[i] = localMean[i] + gain*(x[i]-localMean[i])
	}
	return out, nil
}
