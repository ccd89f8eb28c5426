package transcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"scribe/internal/transcribe"
)

// ErrMiss indicates the cache holds no transcript for the key.
var ErrMiss = errors.New("transcache: miss")

const schema = `
CREATE TABLE IF NOT EXISTS transcripts (
    cache_key   TEXT PRIMARY KEY,
    audio_hash  TEXT NOT NULL,
    model_size  TEXT NOT NULL,
    language    TEXT NOT NULL,
    result_json TEXT NOT NULL,
    created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transcripts_audio_hash ON transcripts(audio_hash);
`

// Store caches finished transcripts in SQLite keyed by audio content hash,
// model size, and language, so reprocessing identical audio skips the model.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the cache database at dir/transcripts.db.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	dbPath := filepath.Join(dir, "transcripts.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Get returns the cached transcript for the key, or ErrMiss.
func (s *Store) Get(ctx context.Context, key Key) (*transcribe.Result, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT result_json FROM transcripts WHERE cache_key = ?`, key.String())

	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("read cache entry: %w", err)
	}

	var result transcribe.Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("decode cached transcript: %w", err)
	}
	return &result, nil
}

// Put stores a transcript under the key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key Key, result *transcribe.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO transcripts (cache_key, audio_hash, model_size, language, result_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		key.String(), key.AudioHash, key.ModelSize, key.Language, string(payload),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Purge removes every cached transcript.
func (s *Store) Purge(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM transcripts`); err != nil {
		return fmt.Errorf("purge cache: %w", err)
	}
	return nil
}
