// Command scribe is the command line entry point for the transcription
// pipeline: run transcribes audio files, deps checks external tools, models
// manages the local model cache, and config handles the TOML configuration.
package main
