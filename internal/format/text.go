package format

import (
	"fmt"
	"os"
	"strings"

	"scribe/internal/transcribe"
)

const divider = "=================================================="

func (f *Formatter) writeText(transcript *transcribe.Result, speakers []string, outputFile string) error {
	var b strings.Builder

	b.WriteString("Audio Transcription\n")
	fmt.Fprintf(&b, "Generated: %s\n", f.now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Language: %s\n", transcript.Language)
	if speakers != nil {
		fmt.Fprintf(&b, "Speakers detected: %d\n", len(speakers))
	}
	b.WriteString("\n" + divider + "\n\n")

	for _, seg := range transcript.Segments {
		timestamp := formatTimestamp(seg.Start)
		if seg.Speaker != "" {
			fmt.Fprintf(&b, "[%s] %s: %s\n", timestamp, seg.Speaker, seg.Text)
		} else {
			fmt.Fprintf(&b, "[%s] %s\n", timestamp, seg.Text)
		}
	}

	b.WriteString("\n" + divider + "\n")
	b.WriteString("FULL TRANSCRIPTION:\n\n")
	b.WriteString(transcript.Text)

	if err := os.WriteFile(outputFile, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write text output: %w", err)
	}
	return nil
}

func (f *Formatter) writeMarkdown(transcript *transcribe.Result, speakers []string, outputFile string) error {
	var b strings.Builder

	b.WriteString("# Audio Transcription\n\n")
	fmt.Fprintf(&b, "**Generated:** %s  \n", f.now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Language:** %s  \n", transcript.Language)
	if speakers != nil {
		fmt.Fprintf(&b, "**Speakers:** %d  \n", len(speakers))
	}
	b.WriteString("\n---\n\n")
	b.WriteString("## Transcription with Timestamps\n\n")

	currentSpeaker := ""
	for _, seg := range transcript.Segments {
		timestamp := formatTimestamp(seg.Start)
		if seg.Speaker != "" && seg.Speaker != currentSpeaker {
			fmt.Fprintf(&b, "\n### %s\n\n", seg.Speaker)
			currentSpeaker = seg.Speaker
		}
		fmt.Fprintf(&b, "**%s**: %s\n\n", timestamp, seg.Text)
	}

	b.WriteString("\n---\n\n")
	b.WriteString("## Full Transcription\n\n")
	b.WriteString(transcript.Text)

	if err := os.WriteFile(outputFile, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write markdown output: %w", err)
	}
	return nil
}
