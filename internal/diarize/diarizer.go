package diarize

import (
	"context"
	"fmt"
	"sort"

	"log/slog"

	"scribe/internal/logging"
	"scribe/internal/waveform"
)

// DefaultSpeaker labels transcript segments no speaker interval covers.
const DefaultSpeaker = "SPEAKER_00"

// Settings are the diarization tunables. The distance and merge thresholds
// are hand-tuned values carried as configuration rather than constants.
type Settings struct {
	WindowSeconds     float64
	OverlapSeconds    float64
	MinWindowSeconds  float64
	DistanceThreshold float64
	MergeSimilarity   float64
	MergePass         bool
	MaxSpeakers       int
}

// SpeakerSegment is one speaker-attributed time interval. Immutable once
// clustering completes.
type SpeakerSegment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}

// Result holds the speaker intervals sorted by start time plus the distinct
// speaker labels.
type Result struct {
	Segments []SpeakerSegment `json:"segments"`
	Speakers []string         `json:"speakers"`
}

// Diarizer attributes stretches of audio to distinct speaker identities.
type Diarizer struct {
	logger   *slog.Logger
	embedder Embedder
	settings Settings
}

// New builds a diarizer around the given speaker embedder.
func New(logger *slog.Logger, embedder Embedder, settings Settings) *Diarizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Diarizer{logger: logger, embedder: embedder, settings: settings}
}

// Diarize windows the audio, embeds each window, clusters the embeddings into
// speakers, and returns labeled intervals. Clustering failure degrades to a
// single speaker instead of aborting.
func (d *Diarizer) Diarize(ctx context.Context, audioPath string) (*Result, error) {
	d.logger.Info("loading audio for diarization", logging.String("path", audioPath))
	w, err := waveform.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("diarize: load audio: %w", err)
	}

	d.logger.Info("segmenting audio",
		logging.Float64("window_seconds", d.settings.WindowSeconds),
		logging.Float64("overlap_seconds", d.settings.OverlapSeconds))
	windows := SegmentWindows(w.Seconds(), d.settings.WindowSeconds, d.settings.OverlapSeconds, d.settings.MinWindowSeconds)
	if len(windows) == 0 {
		d.logger.Warn("no audio segments found for diarization")
		return &Result{Segments: []SpeakerSegment{}, Speakers: []string{}}, nil
	}

	d.logger.Info("extracting speaker embeddings", logging.Int("windows", len(windows)))
	embeddings, err := d.embedder.EmbedWindows(ctx, audioPath, windows)
	if err != nil {
		return nil, fmt.Errorf("diarize: embed windows: %w", err)
	}
	if len(embeddings) == 0 {
		d.logger.Warn("no embeddings extracted")
		return &Result{Segments: []SpeakerSegment{}, Speakers: []string{}}, nil
	}

	d.logger.Info("clustering speakers")
	labels, err := clusterEmbeddings(embeddings, d.settings.DistanceThreshold, d.settings.MaxSpeakers)
	if err != nil {
		d.logger.Warn("clustering failed, assigning single speaker", logging.Error(err))
		labels = make([]int, len(embeddings))
	}

	if d.settings.MergePass {
		labels = mergeSimilarClusters(embeddings, labels, d.settings.MergeSimilarity)
	}

	result := buildResult(windows, labels)
	d.logger.Info("diarization completed",
		logging.Int("speakers", len(result.Speakers)),
		logging.Int("segments", len(result.Segments)))
	return result, nil
}

func buildResult(windows []Window, labels []int) *Result {
	segments := make([]SpeakerSegment, 0, len(windows))
	for i, win := range windows {
		speaker := DefaultSpeaker
		if i < len(labels) {
			speaker = fmt.Sprintf("SPEAKER_%02d", labels[i])
		}
		segments = append(segments, SpeakerSegment{Start: win.Start, End: win.End, Speaker: speaker})
	}
	sort.SliceStable(segments, func(i, j int) bool { return segments[i].Start < segments[j].Start })

	seen := make(map[string]struct{})
	speakers := make([]string, 0)
	for _, seg := range segments {
		if _, ok := seen[seg.Speaker]; ok {
			continue
		}
		seen[seg.Speaker] = struct{}{}
		speakers = append(speakers, seg.Speaker)
	}
	return &Result{Segments: segments, Speakers: speakers}
}
