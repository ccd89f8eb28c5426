// Package transcribe turns processed audio into timestamped text. Two
// interchangeable backends are supported: faster-whisper via an embedded
// Python helper, and the reference whisper CLI. A capability probe selects
// the preferred backend at startup and failures fall back to the next one.
package transcribe
