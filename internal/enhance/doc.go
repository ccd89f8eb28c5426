// Package enhance cleans up speech recordings before transcription. The chain
// runs noise reduction (Wiener filtering plus spectral subtraction),
// dereverberation, voice-band isolation, and peak normalization, with presets
// tuned for common recording scenarios.
package enhance
