// Package logging builds slog loggers for the transcription pipeline.
//
// Two output formats are supported: a human-oriented console format with a
// key=value attribute tail, and a JSON format for machine consumption. Typed
// attribute helpers keep call sites terse, and WithContext augments loggers
// with the run identifier carried in a context.
package logging
