package models

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/gofrs/flock"

	"scribe/internal/logging"
)

var commandContext = exec.CommandContext

// Manager prefetches speech models into the cache directory so later runs
// work offline. Downloads are serialized across processes with a file lock
// and retried with exponential backoff.
type Manager struct {
	logger *slog.Logger
	env    Environment
	python string
}

// NewManager builds a manager that drives the given Python interpreter for
// model downloads.
func NewManager(logger *slog.Logger, env Environment, python string) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{logger: logger, env: env, python: python}
}

// Download fetches the given model size for the named backend if it is not
// already cached.
func (m *Manager) Download(ctx context.Context, size, backend string) error {
	if _, ok := Lookup(size); !ok {
		return fmt.Errorf("unknown model size %q", size)
	}
	if err := os.MkdirAll(m.env.CacheDir, 0o755); err != nil {
		return fmt.Errorf("create model cache dir: %w", err)
	}

	lock := flock.New(filepath.Join(m.env.CacheDir, "download.lock"))
	locked, err := lock.TryLockContext(ctx, 500*time.Millisecond)
	if err != nil {
		return fmt.Errorf("acquire download lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another download is in progress")
	}
	defer lock.Unlock()

	m.logger.Info("checking model",
		logging.String("model_size", size),
		logging.String("backend", backend),
		logging.String("cache_dir", m.env.CacheDir))

	fetch := func() error {
		return m.runFetch(ctx, size, backend)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * time.Second
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 10 * time.Minute

	if err := backoff.Retry(fetch, backoff.WithContext(bo, ctx)); err != nil {
		return fmt.Errorf("download model %q: %w", size, err)
	}
	m.logger.Info("model ready", logging.String("model_size", size))
	return nil
}

func (m *Manager) runFetch(ctx context.Context, size, backend string) error {
	var program string
	switch backend {
	case "faster-whisper":
		remote := MapRemoteModel(size)
		if remote != size {
			m.logger.Info("using substitute model", logging.String("model", remote))
		}
		program = fmt.Sprintf(
			"import faster_whisper; faster_whisper.download_model(%q, cache_dir=%q)",
			remote, m.env.CacheDir)
	case "whisper":
		program = fmt.Sprintf(
			"import whisper; whisper.load_model(%q, device='cpu', download_root=%q)",
			size, m.env.CacheDir)
	default:
		return backoff.Permanent(fmt.Errorf("unknown backend %q", backend))
	}

	cmd := commandContext(ctx, m.python, "-c", program) //nolint:gosec
	cmd.Env = os.Environ()
	if m.env.HFToken != "" {
		cmd.Env = append(cmd.Env, "HF_TOKEN="+m.env.HFToken, "HUGGINGFACE_HUB_TOKEN="+m.env.HFToken)
	}
	if output, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
