package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"log/slog"

	"scribe/internal/deps"
	"scribe/internal/diarize"
	"scribe/internal/enhance"
	"scribe/internal/format"
	"scribe/internal/language"
	"scribe/internal/logging"
	"scribe/internal/models"
	"scribe/internal/services"
	"scribe/internal/transcribe"
)

var hasBinary = deps.HasBinary

// runPlan is the resolved shape of one run after preflight: concrete device,
// language, backend order, and output location.
type runPlan struct {
	outputPath string
	format     string
	modelSize  string
	language   string
	device     string
	diarize    bool
	enhance    *enhance.Settings
	backends   []transcribe.Backend
	embedder   diarize.Embedder
}

// preflight validates everything that can fail before expensive work starts.
// Failures here carry the preflight marker so the CLI exits with code 2.
func (p *Pipeline) preflight(ctx context.Context, logger *slog.Logger, req Request) (*runPlan, error) {
	info, err := os.Stat(req.InputPath)
	if err != nil || info.IsDir() {
		return nil, services.Wrap(services.ErrPreflight, "preflight", "check input",
			fmt.Sprintf("Input file not found: %s", req.InputPath), err)
	}

	if !hasBinary(p.cfg.FFmpegBinary()) {
		return nil, services.Wrap(services.ErrPreflight, "preflight", "check dependencies",
			fmt.Sprintf("Required binary %q not found on PATH", p.cfg.FFmpegBinary()), nil)
	}

	outputPath := format.ResolvePath(req.OutputPath, req.Format)
	outDir := filepath.Dir(outputPath)
	if _, err := os.Stat(outDir); err != nil {
		if !req.CreateOutputDir && !req.AssumeYes {
			return nil, services.Wrap(services.ErrPreflight, "preflight", "check output directory",
				fmt.Sprintf("Output directory does not exist: %s (use --create-output-dir or -y)", outDir), nil)
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, services.Wrap(services.ErrPreflight, "preflight", "create output directory",
				fmt.Sprintf("Failed to create output directory %s", outDir), err)
		}
		logger.Info("created output directory", logging.String("path", outDir))
	}

	cudaAvailable := hasBinary("nvidia-smi")
	device, downgraded, err := models.ResolveDevice(req.Device, cudaAvailable, req.AssumeYes)
	if err != nil {
		return nil, services.Wrap(services.ErrPreflight, "preflight", "resolve device",
			"CUDA requested but not available (re-run with -y to proceed on CPU)", err)
	}
	if downgraded {
		logger.Warn("cuda requested but not available, falling back to cpu")
	}
	logger.Info("using device", logging.String("device", device))

	lang := language.ToISO2(language.Normalize(req.Language))
	logger.Info("language selection", logging.String("language", displayLanguage(lang)))

	python := p.cfg.PythonBinary()
	backends := p.backendOrder(ctx, logger, python)

	diarizeEnabled := req.Diarize
	var embedder diarize.Embedder
	if diarizeEnabled {
		resemblyzer := diarize.NewResemblyzerEmbedder(python, logger)
		if !resemblyzer.Available(ctx) {
			msg := "Speaker diarization requested but the voice encoder is not available"
			if !req.AssumeYes {
				return nil, services.Wrap(services.ErrPreflight, "preflight", "check diarization",
					msg+" (re-run with -y to proceed without diarization)", nil)
			}
			logger.Warn("proceeding with transcription only", logging.String("reason", msg))
			diarizeEnabled = false
		} else {
			embedder = resemblyzer
		}
	}

	var enhanceSettings *enhance.Settings
	if req.Enhance {
		settings := enhance.Resolve(req.EnhancePreset, enhance.Settings{
			NoiseLevel:     p.cfg.Enhance.NoiseLevel,
			Dereverb:       p.cfg.Enhance.Dereverb,
			VoiceIsolation: p.cfg.Enhance.VoiceIsolation,
		})
		enhanceSettings = &settings
	}

	return &runPlan{
		outputPath: outputPath,
		format:     req.Format,
		modelSize:  req.ModelSize,
		language:   lang,
		device:     device,
		diarize:    diarizeEnabled,
		enhance:    enhanceSettings,
		backends:   backends,
		embedder:   embedder,
	}, nil
}

// backendOrder returns the transcription backends in preference order. The
// configured backend moves to the front; auto prefers faster-whisper.
func (p *Pipeline) backendOrder(ctx context.Context, logger *slog.Logger, python string) []transcribe.Backend {
	faster := transcribe.NewFasterWhisper(python, logger)
	reference := transcribe.NewWhisperCLI("", logger)

	if p.cfg.Whisper.Backend == "whisper" {
		return []transcribe.Backend{reference, faster}
	}
	return []transcribe.Backend{faster, reference}
}
