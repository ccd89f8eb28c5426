package config

import (
	"errors"
	"fmt"
)

// ModelSizes lists the recognized whisper model sizes, smallest first.
var ModelSizes = []string{"tiny", "base", "small", "medium", "large", "large-v2", "large-v3"}

// Presets lists the recognized enhancement presets.
var Presets = []string{"default", "meeting", "podcast", "phone"}

// OutputFormats lists the recognized serialization formats.
var OutputFormats = []string{"json", "txt", "md"}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWhisper(); err != nil {
		return err
	}
	if err := c.validateEnhance(); err != nil {
		return err
	}
	if err := c.validateDiarize(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateWhisper() error {
	if !contains(ModelSizes, c.Whisper.ModelSize) {
		return fmt.Errorf("whisper.model_size: unknown size %q", c.Whisper.ModelSize)
	}
	switch c.Whisper.Device {
	case "auto", "cpu", "cuda":
	default:
		return fmt.Errorf("whisper.device: must be auto, cpu, or cuda (got %q)", c.Whisper.Device)
	}
	switch c.Whisper.Backend {
	case "auto", "faster-whisper", "whisper":
	default:
		return fmt.Errorf("whisper.backend: must be auto, faster-whisper, or whisper (got %q)", c.Whisper.Backend)
	}
	return nil
}

func (c *Config) validateEnhance() error {
	if !contains(Presets, c.Enhance.Preset) {
		return fmt.Errorf("enhance.preset: unknown preset %q", c.Enhance.Preset)
	}
	if c.Enhance.NoiseLevel < 0 || c.Enhance.NoiseLevel > 1 {
		return errors.New("enhance.noise_level must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateDiarize() error {
	if c.Diarize.WindowSeconds <= 0 {
		return errors.New("diarize.window_seconds must be positive")
	}
	if c.Diarize.OverlapSeconds < 0 {
		return errors.New("diarize.overlap_seconds must not be negative")
	}
	if c.Diarize.OverlapSeconds >= c.Diarize.WindowSeconds {
		return errors.New("diarize.overlap_seconds must be smaller than diarize.window_seconds")
	}
	if c.Diarize.MinWindowSeconds <= 0 {
		return errors.New("diarize.min_window_seconds must be positive")
	}
	if c.Diarize.MinWindowSeconds > c.Diarize.WindowSeconds {
		return errors.New("diarize.min_window_seconds must not exceed diarize.window_seconds")
	}
	if c.Diarize.DistanceThreshold <= 0 || c.Diarize.DistanceThreshold >= 2 {
		return errors.New("diarize.distance_threshold must be between 0 and 2 (cosine distance)")
	}
	if c.Diarize.MergeSimilarity <= 0 || c.Diarize.MergeSimilarity > 1 {
		return errors.New("diarize.merge_similarity must be between 0 and 1")
	}
	if c.Diarize.MaxSpeakers < 1 {
		return errors.New("diarize.max_speakers must be at least 1")
	}
	return nil
}

func (c *Config) validateOutput() error {
	if !contains(OutputFormats, c.Output.Format) {
		return fmt.Errorf("output.format: must be one of json, txt, md (got %q)", c.Output.Format)
	}
	return nil
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
