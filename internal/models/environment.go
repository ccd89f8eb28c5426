package models

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
)

// Environment captures the process-level model settings: the token used for
// gated downloads and the cache directory. It is constructed once at startup
// and passed to every component that needs it.
type Environment struct {
	HFToken  string `envconfig:"HF_TOKEN"`
	CacheDir string `envconfig:"CACHE_DIR"`

	// Device is the resolved compute device, "cpu" or "cuda". Filled by
	// ResolveDevice, not read from the environment.
	Device string `ignored:"true"`
}

// LoadEnvironment reads SCRIBE_-prefixed variables (plus bare HF_TOKEN) and
// applies the fallback cache location under the user cache dir.
func LoadEnvironment() (Environment, error) {
	var env Environment
	if err := envconfig.Process("scribe", &env); err != nil {
		return Environment{}, fmt.Errorf("read environment: %w", err)
	}
	if env.HFToken == "" {
		env.HFToken = os.Getenv("HUGGINGFACE_HUB_TOKEN")
	}
	if env.CacheDir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = os.TempDir()
		}
		env.CacheDir = filepath.Join(base, "scribe", "models")
	}
	return env, nil
}

// ResolveDevice maps the requested device onto what the host offers. The
// assumeYes flag downgrades an unsatisfiable cuda request to cpu instead of
// failing.
func ResolveDevice(requested string, cudaAvailable, assumeYes bool) (string, bool, error) {
	switch requested {
	case "", "auto":
		if cudaAvailable {
			return "cuda", false, nil
		}
		return "cpu", false, nil
	case "cpu":
		return "cpu", false, nil
	case "cuda":
		if cudaAvailable {
			return "cuda", false, nil
		}
		if assumeYes {
			return "cpu", true, nil
		}
		return "", false, fmt.Errorf("cuda requested but not available")
	default:
		return "", false, fmt.Errorf("unknown device %q", requested)
	}
}
