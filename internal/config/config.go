package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir       string `toml:"work_dir"`
	LogDir        string `toml:"log_dir"`
	ModelCacheDir string `toml:"model_cache_dir"`
}

// Whisper contains speech recognition settings.
type Whisper struct {
	ModelSize string `toml:"model_size"`
	Device    string `toml:"device"`
	Language  string `toml:"language"`
	Backend   string `toml:"backend"`
	BeamSize  int    `toml:"beam_size"`
}

// Enhance contains audio enhancement settings.
type Enhance struct {
	Enabled        bool    `toml:"enabled"`
	Preset         string  `toml:"preset"`
	NoiseLevel     float64 `toml:"noise_level"`
	Dereverb       bool    `toml:"dereverb"`
	VoiceIsolation bool    `toml:"voice_isolation"`
}

// Diarize contains speaker diarization settings.
type Diarize struct {
	Enabled bool `toml:"enabled"`
	// WindowSeconds is the fixed analysis window length.
	WindowSeconds float64 `toml:"window_seconds"`
	// OverlapSeconds is how much consecutive windows overlap.
	OverlapSeconds float64 `toml:"overlap_seconds"`
	// MinWindowSeconds filters out too-short tail windows.
	MinWindowSeconds float64 `toml:"min_window_seconds"`
	// DistanceThreshold is the agglomerative clustering cutoff on cosine
	// distance. Hand-tuned; governs speaker count implicitly.
	DistanceThreshold float64 `toml:"distance_threshold"`
	// MergeSimilarity is the centroid cosine similarity above which two
	// clusters are merged in the conservative second pass.
	MergeSimilarity float64 `toml:"merge_similarity"`
	MergePass       bool    `toml:"merge_pass"`
	MaxSpeakers     int     `toml:"max_speakers"`
}

// Output contains result serialization settings.
type Output struct {
	Format           string `toml:"format"`
	CreateMissingDir bool   `toml:"create_missing_dir"`
}

// Cache contains transcript cache settings.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for scribe.
//
// Configuration sections by subsystem:
//   - Paths: working, log, and model cache directories
//   - Whisper: model size, device, language, backend selection
//   - Enhance: audio cleaning presets and knobs
//   - Diarize: windowing and clustering thresholds
//   - Output: serialization format and directory policy
//   - Cache: transcript cache backed by SQLite
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Whisper Whisper `toml:"whisper"`
	Enhance Enhance `toml:"enhance"`
	Diarize Diarize `toml:"diarize"`
	Output  Output  `toml:"output"`
	Cache   Cache   `toml:"cache"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/scribe/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized. The second return value is the
// resolved path; the third reports whether a file was found there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("scribe.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the pipeline writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir, c.Paths.ModelCacheDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Dir) != "" {
		if err := os.MkdirAll(c.Cache.Dir, 0o755); err != nil {
			return fmt.Errorf("create cache directory %q: %w", c.Cache.Dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name used for audio decoding.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// PythonBinary returns the python executable used for model helper scripts.
func (c *Config) PythonBinary() string {
	if value := strings.TrimSpace(os.Getenv("SCRIBE_PYTHON")); value != "" {
		return value
	}
	return "python3"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
