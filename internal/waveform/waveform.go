package waveform

import (
	"errors"
	"math"
	"time"
)

// Waveform is a mono audio signal: ordered samples plus a sample rate.
// Enhancement and normalization stages mutate it in place; every other
// consumer treats it as read-only.
type Waveform struct {
	Samples    []float64
	SampleRate int
}

// ErrEmpty indicates a waveform with no samples.
var ErrEmpty = errors.New("waveform: empty signal")

// New allocates a waveform of the given length.
func New(samples int, sampleRate int) *Waveform {
	return &Waveform{Samples: make([]float64, samples), SampleRate: sampleRate}
}

// Duration returns the signal length as wall-clock time.
func (w *Waveform) Duration() time.Duration {
	if w == nil || w.SampleRate <= 0 {
		return 0
	}
	seconds := float64(len(w.Samples)) / float64(w.SampleRate)
	return time.Duration(seconds * float64(time.Second))
}

// Seconds returns the signal length in seconds.
func (w *Waveform) Seconds() float64 {
	if w == nil || w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// Peak returns the maximum absolute sample value.
func (w *Waveform) Peak() float64 {
	var peak float64
	for _, s := range w.Samples {
		if abs := math.Abs(s); abs > peak {
			peak = abs
		}
	}
	return peak
}

// PeakNormalize scales the signal so the peak hits the given ceiling.
// A silent signal is left untouched.
func (w *Waveform) PeakNormalize(ceiling float64) {
	peak := w.Peak()
	if peak == 0 {
		return
	}
	scale := ceiling / peak
	for i := range w.Samples {
		w.Samples[i] *= scale
	}
}

// TrimSilence removes leading and trailing samples whose absolute amplitude
// stays below threshold. A fully silent signal is returned unchanged.
func (w *Waveform) TrimSilence(threshold float64) {
	start := -1
	end := -1
	for i, s := range w.Samples {
		if math.Abs(s) > threshold {
			if start < 0 {
				start = i
			}
			end = i
		}
	}
	if start < 0 {
		return
	}
	w.Samples = w.Samples[start : end+1]
}

// Clone returns a deep copy of the waveform.
func (w *Waveform) Clone() *Waveform {
	samples := make([]float64, len(w.Samples))
	copy(samples, w.Samples)
	return &Waveform{Samples: samples, SampleRate: w.SampleRate}
}
