package transcache

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"lukechampine.com/blake3"
)

// Key identifies a cached transcript: the audio content hash plus the model
// and language that produced it.
type Key struct {
	AudioHash string
	ModelSize string
	Language  string
}

// String renders the composite cache key.
func (k Key) String() string {
	language := k.Language
	if language == "" {
		language = "auto"
	}
	return k.AudioHash + ":" + k.ModelSize + ":" + language
}

// NewKey hashes the audio file contents and combines them with the model and
// language settings.
func NewKey(audioPath, modelSize, language string) (Key, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return Key{}, fmt.Errorf("open audio for hashing: %w", err)
	}
	defer file.Close()

	hash, err := hashReader(file)
	if err != nil {
		return Key{}, err
	}
	return Key{AudioHash: hash, ModelSize: modelSize, Language: language}, nil
}

func hashReader(r io.Reader) (string, error) {
	h := blake3.New(32, nil)
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("hash audio: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
