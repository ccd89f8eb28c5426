// Package models holds the Whisper model catalog, the environment settings
// for gated downloads, device resolution, and a download manager that
// prefetches models into a shared cache.
package models
