package enhance

import (
	"context"
	"io"
	"math"
	"os"

	"log/slog"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"scribe/internal/dsp"
	"scribe/internal/logging"
	"scribe/internal/waveform"
)

const (
	// Final normalization ceiling. Kept below full scale so downstream
	// filtering cannot clip.
	normalizeCeiling = 0.90

	// Spectral subtraction analysis window and hop.
	subtractionWindow = 2048
	subtractionHop    = subtractionWindow / 2

	// Magnitudes are never reduced below this fraction of the original, which
	// keeps subtraction from carving silence artifacts into quiet speech.
	spectralFloor = 0.1
)

// Enhancer runs the noise reduction, dereverberation, and voice isolation
// chain over a waveform.
type Enhancer struct {
	logger   *slog.Logger
	progress io.Writer
}

// New returns an enhancer that logs through the provided logger. Progress bars
// render on stderr when it is a terminal.
func New(logger *slog.Logger) *Enhancer {
	if logger == nil {
		logger = logging.NewNop()
	}
	e := &Enhancer{logger: logger}
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		e.progress = os.Stderr
	}
	return e
}

// Enhance applies the configured enhancement steps to the waveform in place.
// Steps always run in the same order: noise reduction, dereverberation, voice
// isolation, then peak normalization.
func (e *Enhancer) Enhance(ctx context.Context, w *waveform.Waveform, s Settings) error {
	if w == nil || len(w.Samples) == 0 {
		return waveform.ErrEmpty
	}

	e.logger.Info("enhancing audio",
		logging.Float64("noise_level", s.NoiseLevel),
		logging.Bool("dereverb", s.Dereverb),
		logging.Bool("voice_isolation", s.VoiceIsolation),
		logging.Float64("duration_seconds", w.Seconds()))

	if s.NoiseLevel > 0 {
		e.logger.Info("applying noise reduction", logging.Float64("noise_level", s.NoiseLevel))
		reduced, err := e.reduceNoise(ctx, w.Samples, w.SampleRate, s.NoiseLevel)
		if err != nil {
			return err
		}
		w.Samples = reduced
	}

	if s.Dereverb {
		e.logger.Info("applying dereverberation")
		processed, err := e.dereverb(ctx, w.Samples, w.SampleRate)
		if err != nil {
			return err
		}
		w.Samples = processed
	}

	if s.VoiceIsolation {
		e.logger.Info("applying voice isolation")
		isolated, err := e.isolateVoice(ctx, w.Samples, w.SampleRate)
		if err != nil {
			return err
		}
		w.Samples = isolated
	}

	w.PeakNormalize(normalizeCeiling)
	e.logger.Info("audio enhancement completed")
	return nil
}

// reduceNoise runs a chunked Wiener filter followed by spectral subtraction.
// The noise profile comes from the first half second of audio, capped at a
// quarter of the signal so short clips keep enough speech to work with.
func (e *Enhancer) reduceNoise(ctx context.Context, x []float64, sampleRate int, level float64) ([]float64, error) {
	noiseLen := sampleRate / 2
	if quarter := len(x) / 4; noiseLen > quarter {
		noiseLen = quarter
	}
	if noiseLen == 0 {
		return x, nil
	}
	noise := x[:noiseLen]

	noisePower := meanSquaredMagnitude(noise)

	chunkSize := len(x) / 100
	if chunkSize < 1024 {
		chunkSize = 1024
	}
	fallback := dsp.HighPass(sampleRate, 80)

	bar := e.newBar(int64(len(x)), "Noise Reduction")
	defer bar.finish()

	filtered := make([]float64, len(x))
	for start := 0; start < len(x); start += chunkSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + chunkSize
		if end > len(x) {
			end = len(x)
		}
		chunk := x[start:end]

		out, err := dsp.Wiener(chunk, 3, noisePower*level)
		if err != nil {
			out = fallback.ZeroPhase(chunk)
		}
		copy(filtered[start:end], out)
		bar.add(len(chunk))
	}

	return e.spectralSubtract(ctx, filtered, noise, level)
}

// spectralSubtract removes the noise spectrum from overlapping analysis
// windows and reassembles the signal with overlap-add. Signals shorter than
// one window pass through untouched.
func (e *Enhancer) spectralSubtract(ctx context.Context, x, noise []float64, level float64) ([]float64, error) {
	if len(x) < subtractionWindow {
		return x, nil
	}
	nWindows := (len(x)-subtractionWindow)/subtractionHop + 1

	noiseMag := dsp.Magnitudes(dsp.FFT(noise, subtractionWindow))

	bar := e.newBar(int64(nWindows), "Spectral Subtraction")
	defer bar.finish()

	out := make([]float64, len(x))
	counts := make([]float64, len(x))

	for i := 0; i < nWindows; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := i * subtractionHop
		end := start + subtractionWindow
		if end > len(x) {
			break
		}

		coeffs := dsp.FFT(x[start:end], subtractionWindow)
		for k, c := range coeffs {
			mag := math.Hypot(real(c), imag(c))
			phase := math.Atan2(imag(c), real(c))

			reduced := mag - level*noiseMag[k]
			if floor := spectralFloor * mag; reduced < floor {
				reduced = floor
			}
			coeffs[k] = complex(reduced*math.Cos(phase), reduced*math.Sin(phase))
		}

		window := dsp.IFFT(coeffs)
		for j, s := range window {
			out[start+j] += s
			counts[start+j]++
		}
		bar.add(1)
	}

	// Overlap regions accumulate multiple windows; divide them back out.
	// Samples never covered by a window stay zero.
	for i := range out {
		if counts[i] != 0 {
			out[i] /= counts[i]
		}
	}
	return out, nil
}

// dereverb attenuates low-frequency room reflections and compresses the
// dynamic range to shorten reverb tails.
func (e *Enhancer) dereverb(ctx context.Context, x []float64, sampleRate int) ([]float64, error) {
	chain := dsp.HighPass(sampleRate, 120)
	return e.chunked(ctx, x, "Dereverberation", func(chunk []float64) []float64 {
		return dsp.Compress(chain.ZeroPhase(chunk), 0.1, 4.0)
	})
}

// isolateVoice keeps the 80 Hz to 4 kHz voice band and mixes in a boost of the
// 300 Hz to 3 kHz intelligibility range.
func (e *Enhancer) isolateVoice(ctx context.Context, x []float64, sampleRate int) ([]float64, error) {
	voiceBand := dsp.BandPass(sampleRate, 80, 4000)
	speechBand := dsp.BandPass(sampleRate, 300, 3000)
	return e.chunked(ctx, x, "Voice Isolation", func(chunk []float64) []float64 {
		filtered := voiceBand.ZeroPhase(chunk)
		boost := speechBand.ZeroPhase(filtered)
		out := make([]float64, len(filtered))
		for i := range filtered {
			out[i] = filtered[i] + 0.3*boost[i]
		}
		return out
	})
}

func (e *Enhancer) chunked(ctx context.Context, x []float64, desc string, fn func([]float64) []float64) ([]float64, error) {
	chunkSize := len(x) / 100
	if chunkSize < 1024 {
		chunkSize = 1024
	}

	bar := e.newBar(int64(len(x)), desc)
	defer bar.finish()

	out := make([]float64, len(x))
	for start := 0; start < len(x); start += chunkSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + chunkSize
		if end > len(x) {
			end = len(x)
		}
		copy(out[start:end], fn(x[start:end]))
		bar.add(end - start)
	}
	return out, nil
}

func meanSquaredMagnitude(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	mags := dsp.Magnitudes(dsp.FFT(x, len(x)))
	var sum float64
	for _, m := range mags {
		sum += m * m
	}
	return sum / float64(len(mags))
}

type bar struct {
	pb *progressbar.ProgressBar
}

func (e *Enhancer) newBar(total int64, desc string) bar {
	if e.progress == nil {
		return bar{}
	}
	return bar{pb: progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(desc),
		progressbar.OptionSetWriter(e.progress),
		progressbar.OptionClearOnFinish(),
	)}
}

func (b bar) add(n int) {
	if b.pb != nil {
		_ = b.pb.Add(n)
	}
}

func (b bar) finish() {
	if b.pb != nil {
		_ = b.pb.Finish()
	}
}
