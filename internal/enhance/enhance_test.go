package enhance

import (
	"context"
	"math"
	"testing"

	"scribe/internal/logging"
	"scribe/internal/waveform"
)

func sine(freq float64, sampleRate, n int, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

func rms(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, s := range x {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(x)))
}

func TestResolvePresets(t *testing.T) {
	base := Settings{NoiseLevel: 0.2, Dereverb: false, VoiceIsolation: false}

	cases := []struct {
		preset string
		want   Settings
	}{
		{"default", base},
		{"", base},
		{"meeting", Settings{NoiseLevel: 0.7, Dereverb: true, VoiceIsolation: true}},
		{"podcast", Settings{NoiseLevel: 0.4, Dereverb: false, VoiceIsolation: true}},
		{"phone", Settings{NoiseLevel: 0.8, Dereverb: true, VoiceIsolation: true}},
		{"unknown", base},
	}
	for _, tc := range cases {
		if got := Resolve(tc.preset, base); got != tc.want {
			t.Errorf("Resolve(%q) = %+v, want %+v", tc.preset, got, tc.want)
		}
	}
}

func TestLookup(t *testing.T) {
	p, ok := Lookup("meeting")
	if !ok {
		t.Fatal("meeting preset missing")
	}
	if p.Description == "" {
		t.Error("preset has no description")
	}
	if _, ok := Lookup("studio"); ok {
		t.Error("unexpected preset match")
	}
}

func TestEnhanceNormalizesPeak(t *testing.T) {
	const sampleRate = 16000
	w := &waveform.Waveform{Samples: sine(440, sampleRate, sampleRate, 0.3), SampleRate: sampleRate}

	e := New(logging.NewNop())
	if err := e.Enhance(context.Background(), w, Settings{}); err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if peak := w.Peak(); math.Abs(peak-0.90) > 1e-9 {
		t.Errorf("peak = %.4f, want 0.90", peak)
	}
}

func TestEnhanceRejectsEmptyWaveform(t *testing.T) {
	e := New(logging.NewNop())
	err := e.Enhance(context.Background(), &waveform.Waveform{SampleRate: 16000}, Settings{})
	if err == nil {
		t.Fatal("expected error for empty waveform")
	}
}

func TestEnhanceFullChainKeepsLength(t *testing.T) {
	const sampleRate = 16000
	n := 3 * sampleRate
	samples := sine(700, sampleRate, n, 0.5)
	w := &waveform.Waveform{Samples: samples, SampleRate: sampleRate}

	e := New(logging.NewNop())
	settings := Resolve("meeting", Settings{})
	if err := e.Enhance(context.Background(), w, settings); err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if len(w.Samples) != n {
		t.Fatalf("length changed: got %d want %d", len(w.Samples), n)
	}
	for i, s := range w.Samples {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			t.Fatalf("sample %d is not finite: %v", i, s)
		}
	}
}

func TestIsolateVoiceAttenuatesOutOfBand(t *testing.T) {
	const sampleRate = 16000
	e := New(logging.NewNop())
	ctx := context.Background()

	inBand, err := e.isolateVoice(ctx, sine(1000, sampleRate, sampleRate, 1), sampleRate)
	if err != nil {
		t.Fatalf("isolateVoice: %v", err)
	}
	outOfBand, err := e.isolateVoice(ctx, sine(6500, sampleRate, sampleRate, 1), sampleRate)
	if err != nil {
		t.Fatalf("isolateVoice: %v", err)
	}

	if in, out := rms(inBand), rms(outOfBand); out > in/5 {
		t.Errorf("out-of-band rms %.4f not well below in-band rms %.4f", out, in)
	}
}

func TestDereverbCompressesPeaks(t *testing.T) {
	const sampleRate = 16000
	e := New(logging.NewNop())

	out, err := e.dereverb(context.Background(), sine(1000, sampleRate, sampleRate, 1), sampleRate)
	if err != nil {
		t.Fatalf("dereverb: %v", err)
	}

	// Compression at threshold 0.1 with ratio 4 caps a full-scale peak near
	// 0.1 + 0.9/4.
	limit := 0.1 + 0.9/4.0 + 0.05
	for i, s := range out {
		if math.Abs(s) > limit {
			t.Fatalf("sample %d = %.4f exceeds compression limit %.4f", i, s, limit)
		}
	}
}

func TestEnhanceHonorsCancellation(t *testing.T) {
	const sampleRate = 16000
	w := &waveform.Waveform{Samples: sine(440, sampleRate, 5*sampleRate, 0.5), SampleRate: sampleRate}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New(logging.NewNop())
	err := e.Enhance(ctx, w, Settings{NoiseLevel: 0.5})
	if err == nil {
		t.Fatal("expected context error")
	}
}
