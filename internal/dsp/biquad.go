package dsp

import "math"

// Biquad is a single second-order IIR filter section in direct form II.
type Biquad struct {
	b0, b1, b2 float64
	a1, a2     float64
}

// Chain is a cascade of biquad sections applied in order.
type Chain []Biquad

// Butterworth pole quality factors for a 4th-order cascade of two sections.
var butterworth4Q = [2]float64{0.54119610, 1.30656296}

// NewHighPass designs a single high-pass section at the given cutoff.
func NewHighPass(sampleRate int, cutoff, q float64) Biquad {
	w0 := 2 * math.Pi * cutoff / float64(sampleRate)
	cosw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	b0 := (1 + cosw) / 2
	b1 := -(1 + cosw)
	b2 := (1 + cosw) / 2
	a0 := 1 + alpha
	a1 := -2 * cosw
	a2 := 1 - alpha

	return Biquad{b0: b0 / a0, b1: b1 / a0, b2: b2 / a0, a1: a1 / a0, a2: a2 / a0}
}

// NewLowPass designs a single low-pass section at the given cutoff.
func NewLowPass(sampleRate int, cutoff, q float64) Biquad {
	w0 := 2 * math.Pi * cutoff / float64(sampleRate)
	cosw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	b0 := (1 - cosw) / 2
	b1 := 1 - cosw
	b2 := (1 - cosw) / 2
	a0 := 1 + alpha
	a1 := -2 * cosw
	a2 := 1 - alpha

	return Biquad{b0: b0 / a0, b1: b1 / a0, b2: b2 / a0, a1: a1 / a0, a2: a2 / a0}
}

// HighPass designs a 4th-order Butterworth high-pass as two cascaded sections.
func HighPass(sampleRate int, cutoff float64) Chain {
	return Chain{
		NewHighPass(sampleRate, cutoff, butterworth4Q[0]),
		NewHighPass(sampleRate, cutoff, butterworth4Q[1]),
	}
}

// LowPass designs a 4th-order Butterworth low-pass as two cascaded sections.
func LowPass(sampleRate int, cutoff float64) Chain {
	return Chain{
		NewLowPass(sampleRate, cutoff, butterworth4Q[0]),
		NewLowPass(sampleRate, cutoff, butterworth4Q[1]),
	}
}

// BandPass designs a band-pass as a high-pass at low cascaded with a
// low-pass at high.
func BandPass(sampleRate int, low, high float64) Chain {
	return append(HighPass(sampleRate, low), LowPass(sampleRate, high)...)
}

// Apply runs the section over x, returning a new slice.
func (f Biquad) Apply(x []float64) []float64 {
	out := make([]float64, len(x))
	var z1, z2 float64
	for i, in := range x {
		y := f.b0*in + z1
		z1 = f.b1*in - f.a1*y + z2
		z2 = f.b2*in - f.a2*y
		out[i] = y
	}
	return out
}

// Apply runs every section of the chain in order.
func (c Chain) Apply(x []float64) []float64 {
	out := x
	for _, section := range c {
		out = section.Apply(out)
	}
	return out
}

// ZeroPhase applies the chain forward and then backward, cancelling phase
// distortion the way filtfilt does.
func (c Chain) ZeroPhase(x []float64) []float64 {
	forward := c.Apply(x)
	reverse(forward)
	backward := c.Apply(forward)
	reverse(backward)
	return backward
}

// FirstOrderHighPass applies a simple one-pole high-pass, used for the light
// cleanup pass where a steep rolloff is unwanted.
func FirstOrderHighPass(sampleRate int, cutoff float64, x []float64) []float64 {
	if len(x) == 0 {
		return nil
	}
	rc := 1 / (2 * math.Pi * cutoff)
	dt := 1 / float64(sampleRate)
	alpha := rc / (rc + dt)

	out := make([]float64, len(x))
	out[0] = x[0]
	for i := 1; i < len(x); i++ {
		out[i] = alpha * (out[i-1] + x[i] - x[i-1])
	}
	return out
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
