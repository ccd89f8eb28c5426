package audioproc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"scribe/internal/logging"
	"scribe/internal/services"
	"scribe/internal/waveform"
)

func writeTestWAV(t *testing.T, path string, samples []float64, sampleRate int) {
	t.Helper()
	w := &waveform.Waveform{Samples: samples, SampleRate: sampleRate}
	if err := waveform.WriteFile(path, w); err != nil {
		t.Fatalf("write test wav: %v", err)
	}
}

func tone(freq float64, sampleRate, n int, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return out
}

// setFakeFFmpeg replaces the ffmpeg invocation with a helper process that
// copies the source WAV to the destination, or fails outright.
func setFakeFFmpeg(t *testing.T, mode string) {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		src, dest := "", ""
		for i, a := range args {
			if a == "-i" && i+1 < len(args) {
				src = args[i+1]
			}
		}
		if len(args) > 0 {
			dest = args[len(args)-1]
		}
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(),
			"GO_WANT_HELPER_PROCESS=1",
			fmt.Sprintf("AUDIOPROC_HELPER_MODE=%s", mode),
			fmt.Sprintf("AUDIOPROC_HELPER_SRC=%s", src),
			fmt.Sprintf("AUDIOPROC_HELPER_DEST=%s", dest),
		)
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	defer os.Exit(0)

	if os.Getenv("AUDIOPROC_HELPER_MODE") == "fail" {
		fmt.Fprintln(os.Stderr, "decoder error: invalid data found when processing input")
		os.Exit(1)
	}

	src, err := os.Open(os.Getenv("AUDIOPROC_HELPER_SRC"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer src.Close()
	dest, err := os.Create(os.Getenv("AUDIOPROC_HELPER_DEST"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer dest.Close()
	if _, err := io.Copy(dest, src); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func TestProcessNormalizesOutput(t *testing.T) {
	setFakeFFmpeg(t, "copy")

	const sampleRate = 16000
	input := filepath.Join(t.TempDir(), "input.wav")
	writeTestWAV(t, input, tone(440, sampleRate, sampleRate, 0.4), sampleRate)

	p, err := New(logging.NewNop(), "ffmpeg")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Cleanup()

	outPath, err := p.Process(context.Background(), input, Options{})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	out, err := waveform.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if out.SampleRate != sampleRate {
		t.Errorf("sample rate = %d, want %d", out.SampleRate, sampleRate)
	}
	if peak := out.Peak(); math.Abs(peak-0.95) > 0.01 {
		t.Errorf("peak = %.4f, want 0.95", peak)
	}
}

func TestProcessCleanTrimsEdgeSilence(t *testing.T) {
	setFakeFFmpeg(t, "copy")

	const sampleRate = 16000
	silence := make([]float64, sampleRate/2)
	samples := append(append(append([]float64{}, silence...), tone(440, sampleRate, sampleRate, 0.5)...), silence...)

	input := filepath.Join(t.TempDir(), "padded.wav")
	writeTestWAV(t, input, samples, sampleRate)

	p, err := New(logging.NewNop(), "ffmpeg")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Cleanup()

	outPath, err := p.Process(context.Background(), input, Options{CleanAudio: true})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	out, err := waveform.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(out.Samples) >= len(samples) {
		t.Errorf("cleaning did not trim silence: got %d samples, input had %d", len(out.Samples), len(samples))
	}
}

func TestProcessReportsDecodeFailure(t *testing.T) {
	setFakeFFmpeg(t, "fail")

	p, err := New(logging.NewNop(), "ffmpeg")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Cleanup()

	_, err = p.Process(context.Background(), filepath.Join(t.TempDir(), "missing.mp3"), Options{})
	if err == nil {
		t.Fatal("expected decode error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Errorf("error not classified as external tool failure: %v", err)
	}
}

func TestCleanupRemovesTempDir(t *testing.T) {
	p, err := New(logging.NewNop(), "ffmpeg")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	dir := p.TempDir()
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("temp dir missing before cleanup: %v", err)
	}
	p.Cleanup()
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("temp dir still present after cleanup")
	}
}
