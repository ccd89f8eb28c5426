// Package diarize attributes stretches of audio to distinct speakers. Audio
// is split into fixed windows, each window is embedded by an external voice
// encoder, embeddings are clustered bottom-up with a cosine distance
// threshold, and the resulting intervals are joined onto transcript segments
// by midpoint containment.
package diarize
