// Package transcache caches finished transcripts in SQLite so rerunning the
// pipeline over unchanged audio with the same model settings skips the
// expensive model inference.
package transcache
