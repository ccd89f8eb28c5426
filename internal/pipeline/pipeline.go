package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"log/slog"

	"github.com/google/uuid"

	"scribe/internal/audioproc"
	"scribe/internal/config"
	"scribe/internal/diarize"
	"scribe/internal/format"
	"scribe/internal/language"
	"scribe/internal/logging"
	"scribe/internal/models"
	"scribe/internal/services"
	"scribe/internal/transcache"
	"scribe/internal/transcribe"
)

// Request holds one transcription run's inputs after CLI flags and config
// defaults have been merged.
type Request struct {
	InputPath       string
	OutputPath      string
	Format          string
	ModelSize       string
	Language        string
	Device          string
	Diarize         bool
	CleanAudio      bool
	Enhance         bool
	EnhancePreset   string
	AssumeYes       bool
	CreateOutputDir bool
	DownloadModels  bool
	NoCache         bool
}

// Pipeline wires the processing stages together and owns the shared
// environment handed to each of them.
type Pipeline struct {
	cfg    *config.Config
	logger *slog.Logger
	env    models.Environment
}

// New builds a pipeline from validated configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("pipeline requires configuration")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	env, err := models.LoadEnvironment()
	if err != nil {
		return nil, err
	}
	if cfg.Paths.ModelCacheDir != "" {
		env.CacheDir = cfg.Paths.ModelCacheDir
	}
	return &Pipeline{cfg: cfg, logger: logger, env: env}, nil
}

// Run executes the full pipeline and returns the final output path.
func (p *Pipeline) Run(ctx context.Context, req Request) (string, error) {
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, p.logger)
	logger.Info("starting audio transcription process", logging.String("input", req.InputPath))

	plan, err := p.preflight(ctx, logger, req)
	if err != nil {
		return "", err
	}

	if req.DownloadModels {
		manager := models.NewManager(logger, p.env, p.cfg.PythonBinary())
		if err := manager.Download(ctx, plan.modelSize, plan.backends[0].Name()); err != nil {
			return "", services.Wrap(services.ErrExternalTool, "models", "download", "Model download failed", err)
		}
	}

	processor, err := audioproc.New(logger, p.cfg.FFmpegBinary())
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "audioproc", "init", "Failed to create audio processor", err)
	}
	defer processor.Cleanup()

	logger.Info("processing audio file", logging.String("path", req.InputPath))
	processedPath, err := processor.Process(ctx, req.InputPath, audioproc.Options{
		CleanAudio: req.CleanAudio,
		Enhance:    plan.enhance,
	})
	if err != nil {
		return "", err
	}

	result, err := p.transcribeWithCache(ctx, logger, processedPath, plan, req.NoCache)
	if err != nil {
		return "", err
	}

	var diarization *diarize.Result
	if plan.diarize {
		logger.Info("performing speaker diarization")
		diarizer := diarize.New(logger, plan.embedder, diarizeSettings(p.cfg))
		diarization, err = diarizer.Diarize(ctx, processedPath)
		if err != nil {
			logger.Error("diarization failed", logging.Error(err))
			logger.Info("continuing with transcription only")
			diarization = nil
		}
	}

	logger.Info("saving output", logging.String("format", plan.format))
	formatter := format.New(logger)
	finalPath, err := formatter.Save(result, diarization, plan.outputPath, plan.format)
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "format", "save", "Failed to save output", err)
	}

	if _, err := os.Stat(finalPath); err != nil {
		return "", services.Wrap(services.ErrTransient, "format", "verify output",
			fmt.Sprintf("Expected output not found at %s", finalPath), err)
	}
	if abs, absErr := filepath.Abs(finalPath); absErr == nil {
		finalPath = abs
	}
	logger.Info("FINAL_OUTPUT", logging.String("path", finalPath))

	if diarization != nil {
		logger.Info("transcription with speaker diarization completed")
	} else {
		logger.Info("transcription completed without speaker diarization")
	}
	return finalPath, nil
}

func (p *Pipeline) transcribeWithCache(ctx context.Context, logger *slog.Logger, processedPath string, plan *runPlan, noCache bool) (*transcribe.Result, error) {
	opts := transcribe.Options{
		ModelSize: plan.modelSize,
		Language:  plan.language,
		Device:    plan.device,
		BeamSize:  p.cfg.Whisper.BeamSize,
		ModelDir:  p.env.CacheDir,
	}

	var store *transcache.Store
	var key transcache.Key
	if p.cfg.Cache.Enabled && !noCache {
		var err error
		store, err = transcache.Open(p.cfg.Cache.Dir)
		if err != nil {
			logger.Warn("transcript cache unavailable", logging.Error(err))
		} else {
			defer store.Close()
			key, err = transcache.NewKey(processedPath, plan.modelSize, plan.language)
			if err != nil {
				logger.Warn("failed to compute cache key", logging.Error(err))
				store.Close()
				store = nil
			} else if cached, err := store.Get(ctx, key); err == nil {
				logger.Info("using cached transcript",
					logging.String("model_size", plan.modelSize),
					logging.Int("segments", len(cached.Segments)))
				return cached, nil
			} else if !errors.Is(err, transcache.ErrMiss) {
				logger.Warn("transcript cache read failed", logging.Error(err))
			}
		}
	}

	logger.Info("transcribing audio")
	transcriber := transcribe.New(logger, plan.backends...)
	result, err := transcriber.Transcribe(ctx, processedPath, opts)
	if err != nil {
		return nil, err
	}

	if store != nil {
		if err := store.Put(ctx, key, result); err != nil {
			logger.Warn("transcript cache write failed", logging.Error(err))
		}
	}
	return result, nil
}

func diarizeSettings(cfg *config.Config) diarize.Settings {
	return diarize.Settings{
		WindowSeconds:     cfg.Diarize.WindowSeconds,
		OverlapSeconds:    cfg.Diarize.OverlapSeconds,
		MinWindowSeconds:  cfg.Diarize.MinWindowSeconds,
		DistanceThreshold: cfg.Diarize.DistanceThreshold,
		MergeSimilarity:   cfg.Diarize.MergeSimilarity,
		MergePass:         cfg.Diarize.MergePass,
		MaxSpeakers:       cfg.Diarize.MaxSpeakers,
	}
}

func displayLanguage(code string) string {
	if code == "" {
		return "auto-detect"
	}
	return language.DisplayName(code)
}
