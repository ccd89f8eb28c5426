package format

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"scribe/internal/transcribe"
)

// Metadata is the envelope header of the JSON output.
type Metadata struct {
	CreatedAt     string `json:"created_at"`
	Language      string `json:"language"`
	HasSpeakers   bool   `json:"has_speakers"`
	TotalSegments int    `json:"total_segments"`
}

// Transcription is the transcript body of the JSON output.
type Transcription struct {
	Text     string               `json:"text"`
	Language string               `json:"language"`
	Segments []transcribe.Segment `json:"segments"`
	Speakers []string             `json:"speakers,omitempty"`
}

// Document is the complete JSON output shape.
type Document struct {
	Metadata      Metadata      `json:"metadata"`
	Transcription Transcription `json:"transcription"`
}

func (f *Formatter) writeJSON(transcript *transcribe.Result, speakers []string, outputFile string) error {
	doc := Document{
		Metadata: Metadata{
			CreatedAt:     f.now().Format(time.RFC3339),
			Language:      transcript.Language,
			HasSpeakers:   speakers != nil,
			TotalSegments: len(transcript.Segments),
		},
		Transcription: Transcription{
			Text:     transcript.Text,
			Language: transcript.Language,
			Segments: transcript.Segments,
			Speakers: speakers,
		},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json output: %w", err)
	}
	if err := os.WriteFile(outputFile, data, 0o644); err != nil {
		return fmt.Errorf("write json output: %w", err)
	}
	return nil
}

// ReadDocument loads a previously written JSON output file.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read json output: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse json output: %w", err)
	}
	return &doc, nil
}
