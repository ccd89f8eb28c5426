// Package pipeline sequences a transcription run: preflight checks, audio
// decoding and cleanup, optional enhancement, transcription with cache
// lookup, optional speaker diarization, and output formatting. Each run gets
// its own run ID so every log line can be traced back to the invocation.
package pipeline
