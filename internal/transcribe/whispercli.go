package transcribe

import (
	"context"
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

var lookPath = exec.LookPath

// WhisperCLIBackend shells out to the reference whisper command-line tool.
// It is the fallback when faster-whisper is not installed or fails.
type WhisperCLIBackend struct {
	binary string
	logger *slog.Logger
}

// NewWhisperCLI returns a backend that runs the given whisper binary.
func NewWhisperCLI(binary string, logger *slog.Logger) *WhisperCLIBackend {
	if binary == "" {
		binary = "whisper"
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &WhisperCLIBackend{binary: binary, logger: logger}
}

func (b *WhisperCLIBackend) Name() string { return "whisper" }

// Available probes for the whisper binary on PATH.
func (b *WhisperCLIBackend) Available(ctx context.Context) bool {
	_, err := lookPath(b.binary)
	return err == nil
}

type whisperCLIOutput struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
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

func (b *WhisperCLIBackend) Transcribe(ctx context.Context, audioPath string, opts Options) (*Result, error) {
	outDir, err := os.MkdirTemp("", "scribe-whisper-")
	if err != nil {
		return nil, fmt.Errorf("whisper: create output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	args := []string{
		audioPath,
		"--model", opts.ModelSize,
		"--output_format", "json",
		"--output_dir", outDir,
		"--word_timestamps", "True",
		"--verbose", "False",
	}
	if opts.Device != "" {
		args = append(args, "--device", opts.Device)
	}
	if opts.Device != "cuda" {
		args = append(args, "--fp16", "False")
	}
	if opts.Language != "" {
		args = append(args, "--language", opts.Language)
	}
	if opts.BeamSize > 0 {
		args = append(args, "--beam_size", strconv.Itoa(opts.BeamSize))
	}
	if opts.ModelDir != "" {
		args = append(args, "--model_dir", opts.ModelDir)
	}

	b.logger.Info("starting transcription",
		logging.String("backend", b.Name()),
		logging.String("model_size", opts.ModelSize),
		logging.String("device", opts.Device))

	cmd := commandContext(ctx, b.binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("whisper: %w: %s", err, strings.TrimSpace(string(output)))
	}

	stem := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	resultPath := filepath.Join(outDir, stem+".json")
	data, err := os.ReadFile(resultPath)
	if err != nil {
		return nil, fmt.Errorf("whisper: read result: %w", err)
	}
	return parseWhisperCLIResult(data)
}

func parseWhisperCLIResult(data []byte) (*Result, error) {
	var parsed whisperCLIOutput
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("whisper: parse result: %w", err)
	}

	result := &Result{Text: strings.TrimSpace(parsed.Text), Language: parsed.Language}
	for _, seg := range parsed.Segments {
		segment := Segment{
			ID:    seg.ID,
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
			Words: make([]Word, 0, len(seg.Words)),
		}
		for _, w := range seg.Words {
			word := Word(w)
			if word.Probability == 0 {
				word.Probability = 1.0
			}
			segment.Words = append(segment.Words, word)
		}
		result.Segments = append(result.Segments, segment)
	}
	result.Normalize()
	return result, nil
}
