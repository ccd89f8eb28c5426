package audioproc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"log/slog"

	"scribe/internal/dsp"
	"scribe/internal/enhance"
	"scribe/internal/logging"
	"scribe/internal/services"
	"scribe/internal/waveform"
)

const (
	// Leading and trailing samples below this amplitude are trimmed during
	// cleaning.
	trimThreshold = 0.01

	// Processed audio is normalized to this ceiling before it is written.
	normalizeCeiling = 0.95
)

// Options select the optional processing steps.
type Options struct {
	// CleanAudio trims silence, applies light noise reduction, and removes
	// low-frequency rumble.
	CleanAudio bool

	// Enhance runs the full enhancement chain when non-nil.
	Enhance *enhance.Settings
}

// Processor converts input recordings into normalized mono WAV files the
// transcription and diarization stages consume. Intermediate files live in a
// private temp directory until Cleanup is called.
type Processor struct {
	logger   *slog.Logger
	ffmpeg   string
	tempDir  string
	enhancer *enhance.Enhancer
}

// New creates a processor that shells out to the given ffmpeg binary.
func New(logger *slog.Logger, ffmpegBinary string) (*Processor, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	tempDir, err := os.MkdirTemp("", "scribe-audio-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	return &Processor{
		logger:   logger,
		ffmpeg:   ffmpegBinary,
		tempDir:  tempDir,
		enhancer: enhance.New(logger),
	}, nil
}

// Process decodes the input, applies the requested cleaning and enhancement,
// normalizes, and returns the path of the processed WAV file.
func (p *Processor) Process(ctx context.Context, inputPath string, opts Options) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	decodedPath := filepath.Join(p.tempDir, "decoded_"+stem+".wav")
	outputPath := filepath.Join(p.tempDir, "processed_"+stem+".wav")

	p.logger.Info("converting audio format",
		logging.String("source", inputPath),
		logging.String("source_format", strings.TrimPrefix(filepath.Ext(inputPath), ".")))

	if err := decodeToWAV(ctx, p.ffmpeg, inputPath, decodedPath); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "audioproc", "decode", "Failed to load audio file", err)
	}

	w, err := waveform.ReadFile(decodedPath)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "audioproc", "read decoded audio", "Failed to read decoded WAV", err)
	}
	p.logger.Info("loaded audio",
		logging.Float64("duration_seconds", w.Seconds()),
		logging.Int("sample_rate", w.SampleRate))

	if opts.CleanAudio {
		p.logger.Info("applying audio cleaning")
		p.clean(w)
	}

	if opts.Enhance != nil {
		if err := p.enhancer.Enhance(ctx, w, *opts.Enhance); err != nil {
			return "", services.Wrap(services.ErrTransient, "audioproc", "enhance", "Audio enhancement failed", err)
		}
	}

	w.PeakNormalize(normalizeCeiling)

	if err := waveform.WriteFile(outputPath, w); err != nil {
		return "", services.Wrap(services.ErrTransient, "audioproc", "write processed audio", "Failed to save processed WAV", err)
	}
	p.logger.Info("processed audio saved", logging.String("path", outputPath))
	return outputPath, nil
}

// clean trims edge silence, smooths broadband noise, and strips frequencies
// below the voice range.
func (p *Processor) clean(w *waveform.Waveform) {
	w.TrimSilence(trimThreshold)

	if filtered, err := dsp.Wiener(w.Samples, 3, -1); err == nil {
		w.Samples = filtered
	}

	w.Samples = dsp.FirstOrderHighPass(w.SampleRate, 80, w.Samples)
}

// TempDir exposes the processor scratch directory.
func (p *Processor) TempDir() string {
	return p.tempDir
}

// Cleanup removes the processor's temp directory and everything in it.
func (p *Processor) Cleanup() {
	if err := os.RemoveAll(p.tempDir); err != nil {
		p.logger.Warn("failed to clean up temp files", logging.Error(err))
		return
	}
	p.logger.Info("temporary files cleaned up")
}
