// Package services defines shared utilities consumed by the pipeline stages
// and external tool integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that keep failure messages
//     consistent across stages.
//   - ExitCode classification so the CLI can report setup problems (exit 2)
//     separately from processing failures (exit 1).
package services
