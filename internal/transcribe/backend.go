package transcribe

import (
	"context"
	"os/exec"
)

var commandContext = exec.CommandContext

// Options carry the per-run transcription knobs shared by every backend.
type Options struct {
	// ModelSize is one of the recognized Whisper model sizes.
	ModelSize string

	// Language is an ISO language hint. Empty enables auto-detection.
	Language string

	// Device is the resolved compute device, "cpu" or "cuda".
	Device string

	// BeamSize controls decoder search width where the backend supports it.
	BeamSize int

	// ModelDir points at a local model cache consulted before any download.
	ModelDir string
}

// Backend is a pluggable speech-recognition implementation. Available is a
// capability probe run once at startup; Transcribe blocks until the external
// model finishes.
type Backend interface {
	Name() string
	Available(ctx context.Context) bool
	Transcribe(ctx context.Context, audioPath string, opts Options) (*Result, error)
}
