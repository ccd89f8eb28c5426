package diarize

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"scribe/internal/logging"
	"scribe/internal/transcribe"
	"scribe/internal/waveform"
)

func TestSegmentWindows(t *testing.T) {
	cases := []struct {
		name     string
		duration float64
		window   float64
		overlap  float64
		min      float64
		want     []Window
	}{
		{
			name:     "exact multiple",
			duration: 20, window: 10, min: 1,
			want: []Window{{0, 10}, {10, 20}},
		},
		{
			name:     "tail kept above minimum",
			duration: 25, window: 10, min: 1,
			want: []Window{{0, 10}, {10, 20}, {20, 25}},
		},
		{
			name:     "short tail dropped",
			duration: 20.5, window: 10, min: 1,
			want: []Window{{0, 10}, {10, 20}},
		},
		{
			name:     "overlapping windows",
			duration: 20, window: 10, overlap: 5, min: 1,
			want: []Window{{0, 10}, {5, 15}, {10, 20}},
		},
		{
			name:     "too short for any window",
			duration: 0.5, window: 10, min: 1,
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SegmentWindows(tc.duration, tc.window, tc.overlap, tc.min)
			if len(got) != len(tc.want) {
				t.Fatalf("got %d windows %v, want %d %v", len(got), got, len(tc.want), tc.want)
			}
			for i := range got {
				if math.Abs(got[i].Start-tc.want[i].Start) > 1e-9 || math.Abs(got[i].End-tc.want[i].End) > 1e-9 {
					t.Errorf("window %d = %+v, want %+v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

// basis returns a unit vector along the given axis with slight jitter so
// cluster members are near but not identical.
func basis(dim, axis int, jitter float64) []float64 {
	v := make([]float64, dim)
	v[axis] = 1
	v[(axis+1)%dim] = jitter
	return v
}

func TestClusterEmbeddingsSeparatesDistinctSpeakers(t *testing.T) {
	embeddings := [][]float64{
		basis(8, 0, 0.01),
		basis(8, 0, 0.02),
		basis(8, 4, 0.01),
		basis(8, 4, 0.02),
	}

	labels, err := clusterEmbeddings(embeddings, 0.5, 6)
	if err != nil {
		t.Fatalf("cluster: %v", err)
	}
	if labels[0] != labels[1] || labels[2] != labels[3] {
		t.Errorf("cluster members split: %v", labels)
	}
	if labels[0] == labels[2] {
		t.Errorf("distinct speakers merged: %v", labels)
	}
	if labels[0] != 0 {
		t.Errorf("first window not labeled 0: %v", labels)
	}
}

func TestClusterEmbeddingsCapsSpeakerCount(t *testing.T) {
	embeddings := [][]float64{
		basis(8, 0, 0.01),
		basis(8, 2, 0.01),
		basis(8, 4, 0.01),
		basis(8, 6, 0.01),
	}

	labels, err := clusterEmbeddings(embeddings, 0.1, 2)
	if err != nil {
		t.Fatalf("cluster: %v", err)
	}
	distinct := make(map[int]struct{})
	for _, l := range labels {
		distinct[l] = struct{}{}
	}
	if len(distinct) > 2 {
		t.Errorf("got %d clusters %v, cap was 2", len(distinct), labels)
	}
}

func TestClusterEmbeddingsRejectsAllZero(t *testing.T) {
	embeddings := [][]float64{make([]float64, 8), make([]float64, 8)}
	if _, err := clusterEmbeddings(embeddings, 0.5, 6); err == nil {
		t.Fatal("expected error for all-zero embeddings")
	}
}

func TestMergeSimilarClusters(t *testing.T) {
	// Two clusters with nearly identical centroids and one clearly apart.
	embeddings := [][]float64{
		basis(8, 0, 0.001),
		basis(8, 0, 0.002),
		basis(8, 4, 0.001),
	}
	labels := []int{0, 1, 2}

	merged := mergeSimilarClusters(embeddings, labels, 0.95)
	if merged[0] != merged[1] {
		t.Errorf("near-identical clusters not merged: %v", merged)
	}
	if merged[0] == merged[2] {
		t.Errorf("distinct cluster merged: %v", merged)
	}
}

func TestMergeSimilarClustersKeepsDistinct(t *testing.T) {
	embeddings := [][]float64{
		basis(8, 0, 0.01),
		basis(8, 4, 0.01),
	}
	labels := []int{0, 1}
	merged := mergeSimilarClusters(embeddings, labels, 0.95)
	if merged[0] == merged[1] {
		t.Errorf("orthogonal clusters merged: %v", merged)
	}
}

type fakeEmbedder struct {
	embeddings [][]float64
	err        error
}

func (f *fakeEmbedder) Available(ctx context.Context) bool { return true }
func (f *fakeEmbedder) EmbedWindows(ctx context.Context, audioPath string, windows []Window) ([][]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.embeddings[:len(windows)], nil
}

func writeToneWAV(t *testing.T, seconds int) string {
	t.Helper()
	const sampleRate = 16000
	samples := make([]float64, seconds*sampleRate)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(sampleRate))
	}
	path := filepath.Join(t.TempDir(), "audio.wav")
	w := &waveform.Waveform{Samples: samples, SampleRate: sampleRate}
	if err := waveform.WriteFile(path, w); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	return path
}

func testSettings() Settings {
	return Settings{
		WindowSeconds:     10,
		MinWindowSeconds:  1,
		DistanceThreshold: 0.5,
		MergeSimilarity:   0.95,
		MergePass:         true,
		MaxSpeakers:       6,
	}
}

func TestDiarizeTwoSpeakers(t *testing.T) {
	path := writeToneWAV(t, 30)

	embedder := &fakeEmbedder{embeddings: [][]float64{
		basis(8, 0, 0.01),
		basis(8, 0, 0.02),
		basis(8, 4, 0.01),
	}}
	d := New(logging.NewNop(), embedder, testSettings())

	result, err := d.Diarize(context.Background(), path)
	if err != nil {
		t.Fatalf("Diarize: %v", err)
	}
	if len(result.Segments) != 3 {
		t.Fatalf("segments = %d, want 3", len(result.Segments))
	}
	if len(result.Speakers) != 2 {
		t.Errorf("speakers = %v, want 2 distinct", result.Speakers)
	}
	if result.Segments[0].Speaker != "SPEAKER_00" {
		t.Errorf("first segment speaker = %q", result.Segments[0].Speaker)
	}
	for i := 1; i < len(result.Segments); i++ {
		if result.Segments[i].Start < result.Segments[i-1].Start {
			t.Errorf("segments not time-sorted at %d", i)
		}
	}
}

func TestDiarizeMergesNearIdenticalSpeakers(t *testing.T) {
	path := writeToneWAV(t, 30)

	embedder := &fakeEmbedder{embeddings: [][]float64{
		basis(8, 0, 0.001),
		basis(8, 0, 0.002),
		basis(8, 0, 0.003),
	}}
	d := New(logging.NewNop(), embedder, testSettings())

	result, err := d.Diarize(context.Background(), path)
	if err != nil {
		t.Fatalf("Diarize: %v", err)
	}
	if len(result.Speakers) != 1 {
		t.Errorf("speakers = %v, want 1", result.Speakers)
	}
}

func TestDiarizeDegradesToSingleSpeaker(t *testing.T) {
	path := writeToneWAV(t, 30)

	embedder := &fakeEmbedder{embeddings: [][]float64{
		make([]float64, 8),
		make([]float64, 8),
		make([]float64, 8),
	}}
	d := New(logging.NewNop(), embedder, testSettings())

	result, err := d.Diarize(context.Background(), path)
	if err != nil {
		t.Fatalf("Diarize: %v", err)
	}
	if len(result.Speakers) != 1 || result.Speakers[0] != "SPEAKER_00" {
		t.Errorf("speakers = %v, want single default", result.Speakers)
	}
}

func TestAlignMidpointContainment(t *testing.T) {
	diarization := &Result{
		Segments: []SpeakerSegment{
			{Start: 0, End: 10, Speaker: "SPEAKER_00"},
			{Start: 10, End: 20, Speaker: "SPEAKER_01"},
		},
		Speakers: []string{"SPEAKER_00", "SPEAKER_01"},
	}
	transcript := &transcribe.Result{Segments: []transcribe.Segment{
		{Start: 1, End: 3},
		{Start: 12, End: 18},
		{Start: 40, End: 50},
	}}

	Align(transcript, diarization)

	if got := transcript.Segments[0].Speaker; got != "SPEAKER_00" {
		t.Errorf("segment 0 speaker = %q", got)
	}
	if got := transcript.Segments[1].Speaker; got != "SPEAKER_01" {
		t.Errorf("segment 1 speaker = %q", got)
	}
	if got := transcript.Segments[2].Speaker; got != DefaultSpeaker {
		t.Errorf("uncovered segment speaker = %q, want default", got)
	}
}
