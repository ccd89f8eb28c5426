package diarize

import "scribe/internal/transcribe"

// Align attaches speaker labels to transcript segments. The join is a pure
// midpoint-containment lookup against the speaker intervals; segments whose
// midpoint no interval contains get the default speaker.
func Align(transcript *transcribe.Result, diarization *Result) {
	if transcript == nil || diarization == nil {
		return
	}
	for i := range transcript.Segments {
		seg := &transcript.Segments[i]
		mid := (seg.Start + seg.End) / 2
		seg.Speaker = speakerAt(diarization.Segments, mid)
	}
}

func speakerAt(segments []SpeakerSegment, timestamp float64) string {
	for _, seg := range segments {
		if seg.Start <= timestamp && timestamp <= seg.End {
			return seg.Speaker
		}
	}
	return DefaultSpeaker
}
