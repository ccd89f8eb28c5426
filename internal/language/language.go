package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var englishNames = display.English.Languages()

// Normalize lowercases and trims a language code, mapping the whisper
// "auto"/"unknown" spellings to the empty string.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	switch code {
	case "auto", "unknown", "und":
		return ""
	}
	return code
}

// ToISO2 converts any recognized language code or name to ISO 639-1
// (2-letter). Returns empty string for unrecognized input. If the input is
// already a 2-letter code (even if unknown), it passes through.
func ToISO2(code string) string {
	code = Normalize(code)
	if code == "" {
		return ""
	}
	if tag, err := language.Parse(code); err == nil {
		if base, conf := tag.Base(); conf >= language.High {
			return base.String()
		}
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// DisplayName returns a human-readable English language name for any
// recognized code. Returns "Unknown" for empty input, or the uppercased code
// for unrecognized input.
func DisplayName(code string) string {
	code = Normalize(code)
	if code == "" {
		return "Unknown"
	}
	if tag, err := language.Parse(code); err == nil {
		if name := englishNames.Name(tag); name != "" {
			return name
		}
	}
	return strings.ToUpper(code)
}
