// Package dsp holds the signal-processing primitives the audio enhancer
// composes: Butterworth-style biquad filters with zero-phase application,
// FFT helpers, a scalar Wiener filter, and a dynamic-range compressor.
// Functions here are pure; callers own logging and progress reporting.
package dsp
