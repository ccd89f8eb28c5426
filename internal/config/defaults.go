package config

const (
	defaultWorkDir       = "~/.local/share/scribe/work"
	defaultLogDir        = "~/.local/share/scribe/logs"
	defaultModelCacheDir = "~/.cache/scribe/models"
	defaultCacheDir      = "~/.cache/scribe/transcripts"

	defaultModelSize = "base"
	defaultDevice    = "auto"
	defaultBackend   = "auto"
	defaultBeamSize  = 5

	defaultPreset     = "default"
	defaultNoiseLevel = 0.5

	defaultWindowSeconds     = 10.0
	defaultOverlapSeconds    = 0.0
	defaultMinWindowSeconds  = 1.0
	defaultDistanceThreshold = 0.5
	defaultMergeSimilarity   = 0.95
	defaultMaxSpeakers       = 6

	defaultOutputFormat = "txt"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:       defaultWorkDir,
			LogDir:        defaultLogDir,
			ModelCacheDir: defaultModelCacheDir,
		},
		Whisper: Whisper{
			ModelSize: defaultModelSize,
			Device:    defaultDevice,
			Backend:   defaultBackend,
			BeamSize:  defaultBeamSize,
		},
		Enhance: Enhance{
			Preset:         defaultPreset,
			NoiseLevel:     defaultNoiseLevel,
			Dereverb:       true,
			VoiceIsolation: true,
		},
		Diarize: Diarize{
			WindowSeconds:     defaultWindowSeconds,
			OverlapSeconds:    defaultOverlapSeconds,
			MinWindowSeconds:  defaultMinWindowSeconds,
			DistanceThreshold: defaultDistanceThreshold,
			MergeSimilarity:   defaultMergeSimilarity,
			MergePass:         true,
			MaxSpeakers:       defaultMaxSpeakers,
		},
		Output: Output{
			Format: defaultOutputFormat,
		},
		Cache: Cache{
			Enabled: true,
			Dir:     defaultCacheDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
