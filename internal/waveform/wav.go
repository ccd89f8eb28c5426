package waveform

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const pcm16Scale = 32768.0

// ReadFile decodes a WAV file into a mono waveform at its native sample
// rate. Multi-channel input is downmixed by averaging channels.
func ReadFile(path string) (*Waveform, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wav: %w", err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	if buf == nil || buf.Format == nil || len(buf.Data) == 0 {
		return nil, fmt.Errorf("decode wav %q: %w", path, ErrEmpty)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	scale := math.Pow(2, float64(buf.SourceBitDepth-1))
	if scale <= 0 {
		scale = pcm16Scale
	}

	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[i*channels+c])
		}
		samples[i] = sum / float64(channels) / scale
	}

	return &Waveform{Samples: samples, SampleRate: buf.Format.SampleRate}, nil
}

// WriteFile encodes the waveform as 16-bit PCM mono WAV. Samples outside
// [-1, 1] are clipped.
func WriteFile(path string, w *Waveform) error {
	if w == nil || len(w.Samples) == 0 {
		return ErrEmpty
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}
	defer file.Close()

	encoder := wav.NewEncoder(file, w.SampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: w.SampleRate},
		SourceBitDepth: 16,
		Data:           make([]int, len(w.Samples)),
	}
	for i, s := range w.Samples {
		v := math.Round(s * (pcm16Scale - 1))
		if v > pcm16Scale-1 {
			v = pcm16Scale - 1
		}
		if v < -pcm16Scale {
			v = -pcm16Scale
		}
		buf.Data[i] = int(v)
	}

	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finalize wav: %w", err)
	}
	return file.Close()
}
