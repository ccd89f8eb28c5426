package enhance

// Settings control the enhancement chain. A zero NoiseLevel disables noise
// reduction entirely.
type Settings struct {
	NoiseLevel     float64
	Dereverb       bool
	VoiceIsolation bool
}

// Preset bundles settings tuned for a recording scenario.
type Preset struct {
	Name        string
	Description string
	Settings    Settings
}

var presets = []Preset{
	{
		Name:        "default",
		Description: "Balanced enhancement for general audio",
		Settings:    Settings{NoiseLevel: 0.5, Dereverb: true, VoiceIsolation: true},
	},
	{
		Name:        "meeting",
		Description: "Optimized for meeting recordings with multiple speakers",
		Settings:    Settings{NoiseLevel: 0.7, Dereverb: true, VoiceIsolation: true},
	},
	{
		Name:        "podcast",
		Description: "Light enhancement for good quality recordings",
		Settings:    Settings{NoiseLevel: 0.4, Dereverb: false, VoiceIsolation: true},
	},
	{
		Name:        "phone",
		Description: "Aggressive enhancement for phone or low quality audio",
		Settings:    Settings{NoiseLevel: 0.8, Dereverb: true, VoiceIsolation: true},
	},
}

// Presets returns the known presets in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// Lookup returns the preset with the given name.
func Lookup(name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// Resolve maps a preset name onto concrete settings. The default preset keeps
// the caller's explicit knobs; the named presets override all of them.
func Resolve(name string, base Settings) Settings {
	if name == "" || name == "default" {
		return base
	}
	if p, ok := Lookup(name); ok {
		return p.Settings
	}
	return base
}
