// Package config loads, normalizes, and validates scribe's TOML
// configuration. Defaults live in defaults.go; normalization expands paths
// and lowercases enumerated values; validation rejects out-of-range knobs
// before any pipeline stage runs.
package config
