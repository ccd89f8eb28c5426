package dsp

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// FFT computes the complex spectrum of x at length n, zero-padding or
// truncating the input as needed.
func FFT(x []float64, n int) []complex128 {
	if n <= 0 {
		n = len(x)
	}
	in := make([]complex128, n)
	for i := 0; i < n && i < len(x); i++ {
		in[i] = complex(x[i], 0)
	}
	fft := fourier.NewCmplxFFT(n)
	return fft.Coefficients(nil, in)
}

// IFFT computes the inverse transform, returning the real part of the
// reconstructed sequence. The gonum round trip scales by n, so the result is
// divided back.
func IFFT(coeffs []complex128) []float64 {
	n := len(coeffs)
	if n == 0 {
		return nil
	}
	fft := fourier.NewCmplxFFT(n)
	seq := fft.Sequence(nil, coeffs)
	out := make([]float64, n)
	for i := range seq {
		out[i] = real(seq[i]) / float64(n)
	}
	return out
}

// Magnitudes returns the absolute value of each coefficient.
func Magnitudes(coeffs []complex128) []float64 {
	out := make([]float64, len(coeffs))
	for i, c := range coeffs {
		out[i] = cmplx.Abs(c)
	}
	return out
}
