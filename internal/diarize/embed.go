package diarize

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"log/slog"

	"scribe/internal/logging"
)

//go:embed assets/embed_windows.py
var embedScript []byte

var commandContext = exec.CommandContext

// Default Resemblyzer embedding size, used for zero-vector substitution when
// the encoder reports nothing.
const defaultEmbeddingDim = 256

// Embedder computes one speaker embedding per window. Windows that cannot be
// embedded yield a zero vector rather than an error.
type Embedder interface {
	Available(ctx context.Context) bool
	EmbedWindows(ctx context.Context, audioPath string, windows []Window) ([][]float64, error)
}

// ResemblyzerEmbedder runs the Resemblyzer voice encoder through an embedded
// Python helper in a single subprocess per diarization run.
type ResemblyzerEmbedder struct {
	python string
	logger *slog.Logger
}

// NewResemblyzerEmbedder returns an embedder driving the given interpreter.
func NewResemblyzerEmbedder(python string, logger *slog.Logger) *ResemblyzerEmbedder {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ResemblyzerEmbedder{python: python, logger: logger}
}

// Available probes whether the interpreter can import resemblyzer.
func (e *ResemblyzerEmbedder) Available(ctx context.Context) bool {
	cmd := commandContext(ctx, e.python, "-c", "import resemblyzer") //nolint:gosec
	return cmd.Run() == nil
}

type embedOutput struct {
	Dimension  int         `json:"dimension"`
	Embeddings [][]float64 `json:"embeddings"`
}

// EmbedWindows returns one embedding per window, substituting zero vectors
// for windows the encoder rejected.
func (e *ResemblyzerEmbedder) EmbedWindows(ctx context.Context, audioPath string, windows []Window) ([][]float64, error) {
	if len(windows) == 0 {
		return nil, nil
	}

	scriptPath, cleanup, err := writeHelper(embedScript)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	spans := make([][2]float64, len(windows))
	for i, w := range windows {
		spans[i] = [2]float64{w.Start, w.End}
	}
	input, err := json.Marshal(spans)
	if err != nil {
		return nil, fmt.Errorf("encode windows: %w", err)
	}

	cmd := commandContext(ctx, e.python, scriptPath, "--audio", audioPath) //nolint:gosec
	cmd.Stdin = bytes.NewReader(input)
	cmd.Env = os.Environ()
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("voice encoder: %s", strings.TrimSpace(string(ee.Stderr)))
		}
		return nil, fmt.Errorf("voice encoder: %w", err)
	}

	var parsed embedOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, fmt.Errorf("voice encoder: parse output: %w", err)
	}

	dim := parsed.Dimension
	if dim <= 0 {
		dim = defaultEmbeddingDim
	}

	embeddings := make([][]float64, len(windows))
	for i := range windows {
		if i < len(parsed.Embeddings) && len(parsed.Embeddings[i]) > 0 {
			embeddings[i] = parsed.Embeddings[i]
			continue
		}
		e.logger.Warn("substituting zero embedding", logging.Int("window", i))
		embeddings[i] = make([]float64, dim)
	}
	return embeddings, nil
}

func writeHelper(content []byte) (string, func(), error) {
	file, err := os.CreateTemp("", "embed_windows_*.py")
	if err != nil {
		return "", nil, fmt.Errorf("write helper script: %w", err)
	}
	path := file.Name()
	if _, err := file.Write(content); err != nil {
		file.Close()
		os.Remove(path)
		return "", nil, fmt.Errorf("write helper script: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", nil, fmt.Errorf("write helper script: %w", err)
	}
	return path, func() { os.Remove(path) }, nil
}
