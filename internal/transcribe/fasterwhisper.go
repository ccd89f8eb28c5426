package transcribe

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"log/slog"

	"scribe/internal/logging"
)

//go:embed assets/faster_whisper.py
var fasterWhisperScript []byte

// FasterWhisperBackend drives the faster-whisper Python package through an
// embedded helper script. It is the preferred backend when the package is
// importable.
type FasterWhisperBackend struct {
	python string
	logger *slog.Logger
}

// NewFasterWhisper returns a backend that invokes the given Python
// interpreter.
func NewFasterWhisper(python string, logger *slog.Logger) *FasterWhisperBackend {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &FasterWhisperBackend{python: python, logger: logger}
}

func (b *FasterWhisperBackend) Name() string { return "faster-whisper" }

// Available probes whether the interpreter can import faster_whisper.
func (b *FasterWhisperBackend) Available(ctx context.Context) bool {
	cmd := commandContext(ctx, b.python, "-c", "import faster_whisper") //nolint:gosec
	return cmd.Run() == nil
}

type fasterWhisperOutput struct {
	Text                string  `json:"text"`
	Language            string  `json:"language"`
	LanguageProbability float64 `json:"language_probability"`
	Segments            []struct {
		ID    int     `json:"id"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
		Words []struct {
			Word        string  `json:"word"`
			Start       float64 `json:"start"`
			End         float64 `json:"end"`
			Probability float64 `json:"probability"`
		} `json:"words"`
	} `json:"segments"`
}

func (b *FasterWhisperBackend) Transcribe(ctx context.Context, audioPath string, opts Options) (*Result, error) {
	scriptPath, cleanup, err := writeHelperScript("faster_whisper_*.py", fasterWhisperScript)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	args := []string{
		scriptPath,
		"--audio", audioPath,
		"--model", opts.ModelSize,
		"--device", opts.Device,
	}
	if opts.Language != "" {
		args = append(args, "--language", opts.Language)
	}
	if opts.BeamSize > 0 {
		args = append(args, "--beam-size", strconv.Itoa(opts.BeamSize))
	}
	if opts.ModelDir != "" {
		args = append(args, "--model-dir", opts.ModelDir)
	}

	b.logger.Info("starting transcription",
		logging.String("backend", b.Name()),
		logging.String("model_size", opts.ModelSize),
		logging.String("device", opts.Device))

	cmd := commandContext(ctx, b.python, args...) //nolint:gosec
	cmd.Env = os.Environ()
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("faster-whisper: %s", strings.TrimSpace(string(ee.Stderr)))
		}
		return nil, fmt.Errorf("faster-whisper: %w", err)
	}

	var parsed fasterWhisperOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, fmt.Errorf("faster-whisper: parse helper output: %w", err)
	}

	b.logger.Info("language detected",
		logging.String("language", parsed.Language),
		logging.Float64("probability", parsed.LanguageProbability))

	result := &Result{Text: parsed.Text, Language: parsed.Language}
	for _, seg := range parsed.Segments {
		segment := Segment{
			ID:    seg.ID,
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
			Words: make([]Word, 0, len(seg.Words)),
		}
		for _, w := range seg.Words {
			segment.Words = append(segment.Words, Word(w))
		}
		result.Segments = append(result.Segments, segment)
	}
	result.Normalize()
	return result, nil
}

// writeHelperScript materializes an embedded helper under the temp directory
// so an external interpreter can run it.
func writeHelperScript(pattern string, content []byte) (string, func(), error) {
	file, err := os.CreateTemp("", pattern)
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
	return path, func() { os.Remove(filepath.Clean(path)) }, nil
}
