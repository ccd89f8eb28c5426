package format

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"scribe/internal/diarize"
	"scribe/internal/logging"
	"scribe/internal/transcribe"
)

// Formats lists the supported output encodings.
var Formats = []string{"json", "txt", "md"}

var recognizedExtensions = map[string]string{
	".json": "json",
	".txt":  "txt",
	".md":   "md",
}

// Formatter serializes a transcription result, with optional speaker
// attribution, to disk.
type Formatter struct {
	logger *slog.Logger
	now    func() time.Time
}

// New returns a formatter that logs through the provided logger.
func New(logger *slog.Logger) *Formatter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Formatter{logger: logger, now: time.Now}
}

// Save aligns speakers onto the transcript when diarization ran, resolves the
// final path, and writes the requested encoding. It returns the path written.
func (f *Formatter) Save(transcript *transcribe.Result, diarization *diarize.Result, outputPath, formatType string) (string, error) {
	var speakers []string
	if diarization != nil {
		diarize.Align(transcript, diarization)
		speakers = diarization.Speakers
	}

	outputFile := ResolvePath(outputPath, formatType)
	if dir := filepath.Dir(outputFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output directory: %w", err)
		}
	}

	var err error
	switch formatType {
	case "json":
		err = f.writeJSON(transcript, speakers, outputFile)
	case "txt":
		err = f.writeText(transcript, speakers, outputFile)
	case "md":
		err = f.writeMarkdown(transcript, speakers, outputFile)
	default:
		return "", fmt.Errorf("unsupported output format %q", formatType)
	}
	if err != nil {
		return "", err
	}

	f.logger.Info("output saved",
		logging.String("path", outputFile),
		logging.String("format", formatType))
	return outputFile, nil
}

// ResolvePath returns the final output path. A recognized extension is kept
// as-is; anything else is replaced with the selected format's extension.
func ResolvePath(outputPath, formatType string) string {
	ext := strings.ToLower(filepath.Ext(outputPath))
	if _, ok := recognizedExtensions[ext]; ok {
		return outputPath
	}
	return strings.TrimSuffix(outputPath, ext) + "." + formatType
}

// FormatForExtension maps a recognized path extension to its format, falling
// back to the given default.
func FormatForExtension(path, fallback string) string {
	if format, ok := recognizedExtensions[strings.ToLower(filepath.Ext(path))]; ok {
		return format
	}
	return fallback
}

// formatTimestamp renders whole seconds as HH:MM:SS.
func formatTimestamp(seconds float64) string {
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
