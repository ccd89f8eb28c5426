package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scribe/internal/config"
)

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd returned error: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(origDir); err != nil {
			t.Fatalf("restoring working directory: %v", err)
		}
	})

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantWork := filepath.Join(tempHome, ".local", "share", "scribe", "work")
	if cfg.Paths.WorkDir != wantWork {
		t.Fatalf("unexpected work dir: got %q want %q", cfg.Paths.WorkDir, wantWork)
	}
	if cfg.Whisper.ModelSize != "base" {
		t.Fatalf("unexpected model size: %q", cfg.Whisper.ModelSize)
	}
	if cfg.Whisper.Device != "auto" {
		t.Fatalf("unexpected device: %q", cfg.Whisper.Device)
	}
	if cfg.Enhance.Enabled {
		t.Fatal("expected enhancement disabled by default")
	}
	if cfg.Diarize.Enabled {
		t.Fatal("expected diarization disabled by default")
	}
	if cfg.Diarize.DistanceThreshold != 0.5 {
		t.Fatalf("unexpected distance threshold: %v", cfg.Diarize.DistanceThreshold)
	}
	if cfg.Diarize.MergeSimilarity != 0.95 {
		t.Fatalf("unexpected merge similarity: %v", cfg.Diarize.MergeSimilarity)
	}
	if !cfg.Cache.Enabled {
		t.Fatal("expected transcript cache enabled by default")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadParsesExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scribe.toml")
	content := strings.Join([]string{
		"[whisper]",
		`model_size = "small"`,
		`language = "EN"`,
		"[diarize]",
		"enabled = true",
		"window_seconds = 5.0",
		"overlap_seconds = 1.0",
		"[output]",
		`format = "md"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected config found at %q", path)
	}
	if cfg.Whisper.ModelSize != "small" {
		t.Fatalf("unexpected model size: %q", cfg.Whisper.ModelSize)
	}
	if cfg.Whisper.Language != "en" {
		t.Fatalf("expected normalized language, got %q", cfg.Whisper.Language)
	}
	if !cfg.Diarize.Enabled || cfg.Diarize.WindowSeconds != 5.0 {
		t.Fatalf("unexpected diarize settings: %+v", cfg.Diarize)
	}
	if cfg.Output.Format != "md" {
		t.Fatalf("unexpected output format: %q", cfg.Output.Format)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad model size", "[whisper]\nmodel_size = \"enormous\"\n"},
		{"bad device", "[whisper]\ndevice = \"tpu\"\n"},
		{"bad preset", "[enhance]\npreset = \"studio\"\n"},
		{"noise out of range", "[enhance]\nnoise_level = 1.5\n"},
		{"overlap too large", "[diarize]\nwindow_seconds = 5.0\noverlap_seconds = 5.0\n"},
		{"bad format", "[output]\nformat = \"xml\"\n"},
		{"zero max speakers", "[diarize]\nmax_speakers = 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scribe.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, _, _, err := config.Load(path); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Whisper.ModelSize != config.Default().Whisper.ModelSize {
		t.Fatalf("sample diverges from defaults: %q", cfg.Whisper.ModelSize)
	}
}
