package transcribe

import (
	"context"
	"errors"

	"log/slog"

	"scribe/internal/logging"
	"scribe/internal/services"
)

// ErrNoBackend indicates no speech-recognition backend passed its
// availability probe.
var ErrNoBackend = errors.New("transcribe: no backend available")

// Transcriber selects among speech-recognition backends and falls back to the
// next one when the preferred backend fails.
type Transcriber struct {
	logger   *slog.Logger
	backends []Backend
}

// New builds a transcriber that tries backends in the given order.
func New(logger *slog.Logger, backends ...Backend) *Transcriber {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Transcriber{logger: logger, backends: backends}
}

// Transcribe runs the first available backend and falls back through the
// remaining ones on failure. The returned result always has the unified
// shape regardless of which backend produced it.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string, opts Options) (*Result, error) {
	var lastErr error
	attempted := false

	for _, backend := range t.backends {
		if !backend.Available(ctx) {
			t.logger.Debug("backend unavailable", logging.String("backend", backend.Name()))
			continue
		}
		attempted = true

		result, err := backend.Transcribe(ctx, audioPath, opts)
		if err == nil {
			t.logger.Info("transcription completed",
				logging.String("backend", backend.Name()),
				logging.Int("segments", len(result.Segments)),
				logging.String("language", result.Language))
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = err
		t.logger.Warn("backend failed, trying fallback",
			logging.String("backend", backend.Name()),
			logging.Error(err))
	}

	if !attempted {
		return nil, services.Wrap(services.ErrPreflight, "transcribe", "select backend",
			"No speech-recognition backend available", ErrNoBackend)
	}
	return nil, services.Wrap(services.ErrExternalTool, "transcribe", "run backend",
		"All transcription backends failed", lastErr)
}

// Backends lists the configured backends with their probe results.
func (t *Transcriber) Backends(ctx context.Context) map[string]bool {
	out := make(map[string]bool, len(t.backends))
	for _, backend := range t.backends {
		out[backend.Name()] = backend.Available(ctx)
	}
	return out
}
