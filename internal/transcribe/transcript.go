package transcribe

import "strings"

// Word is a word-level timestamp within a segment. Backends that cannot
// produce word timings leave the list empty.
type Word struct {
	Word        string  `json:"word"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Probability float64 `json:"probability"`
}

// Segment is one time-bounded span of transcribed speech. Speaker is filled
// in during diarization alignment and stays empty otherwise.
type Segment struct {
	ID      int     `json:"id"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
	Words   []Word  `json:"words"`
}

// Result is the unified transcription shape every backend returns.
type Result struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

// Normalize trims segment text, renumbers IDs sequentially, and rebuilds the
// full text from the segments when it is empty.
func (r *Result) Normalize() {
	var full strings.Builder
	for i := range r.Segments {
		r.Segments[i].ID = i
		r.Segments[i].Text = strings.TrimSpace(r.Segments[i].Text)
		if full.Len() > 0 {
			full.WriteByte(' ')
		}
		full.WriteString(r.Segments[i].Text)
	}
	if strings.TrimSpace(r.Text) == "" {
		r.Text = full.String()
	}
	r.Text = strings.TrimSpace(r.Text)
	if r.Language == "" {
		r.Language = "unknown"
	}
}

// SpeakerLabels returns the distinct speaker labels in segment order.
func (r *Result) SpeakerLabels() []string {
	seen := make(map[string]struct{})
	var labels []string
	for _, seg := range r.Segments {
		if seg.Speaker == "" {
			continue
		}
		if _, ok := seen[seg.Speaker]; ok {
			continue
		}
		seen[seg.Speaker] = struct{}{}
		labels = append(labels, seg.Speaker)
	}
	return labels
}
