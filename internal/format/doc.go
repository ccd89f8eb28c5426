// Package format serializes transcription results to JSON, plain text, or
// Markdown. The JSON encoding wraps the transcript in a metadata envelope and
// round-trips losslessly; the text encodings are for human reading.
package format
