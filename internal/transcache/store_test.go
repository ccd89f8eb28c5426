package transcache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"scribe/internal/transcribe"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testResult() *transcribe.Result {
	return &transcribe.Result{
		Text:     "cached text",
		Language: "en",
		Segments: []transcribe.Segment{
			{ID: 0, Start: 0, End: 2, Text: "cached text", Words: []transcribe.Word{
				{Word: " cached", Start: 0, End: 1, Probability: 0.9},
			}},
		},
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	key := Key{AudioHash: "abc123", ModelSize: "base", Language: "en"}

	want := testResult()
	if err := store.Put(ctx, key, want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestGetMiss(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Get(context.Background(), Key{AudioHash: "nothing", ModelSize: "base"})
	if !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss, got %v", err)
	}
}

func TestKeyDistinguishesSettings(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := Key{AudioHash: "abc123", ModelSize: "base", Language: "en"}
	if err := store.Put(ctx, base, testResult()); err != nil {
		t.Fatalf("Put: %v", err)
	}

	for _, other := range []Key{
		{AudioHash: "abc123", ModelSize: "small", Language: "en"},
		{AudioHash: "abc123", ModelSize: "base", Language: "de"},
		{AudioHash: "other", ModelSize: "base", Language: "en"},
	} {
		if _, err := store.Get(ctx, other); !errors.Is(err, ErrMiss) {
			t.Errorf("key %v unexpectedly hit", other)
		}
	}
}

func TestPutReplacesEntry(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	key := Key{AudioHash: "abc123", ModelSize: "base", Language: "en"}

	if err := store.Put(ctx, key, testResult()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	updated := testResult()
	updated.Text = "updated text"
	if err := store.Put(ctx, key, updated); err != nil {
		t.Fatalf("Put replace: %v", err)
	}

	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Text != "updated text" {
		t.Errorf("Text = %q, want updated", got.Text)
	}
}

func TestPurge(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	key := Key{AudioHash: "abc123", ModelSize: "base", Language: "en"}

	if err := store.Put(ctx, key, testResult()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Purge(ctx); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if _, err := store.Get(ctx, key); !errors.Is(err, ErrMiss) {
		t.Errorf("entry survived purge: %v", err)
	}
}

func TestNewKeyHashesContent(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.wav")
	b := filepath.Join(dir, "b.wav")
	c := filepath.Join(dir, "c.wav")
	os.WriteFile(a, []byte("same bytes"), 0o644)
	os.WriteFile(b, []byte("same bytes"), 0o644)
	os.WriteFile(c, []byte("different"), 0o644)

	ka, err := NewKey(a, "base", "en")
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	kb, _ := NewKey(b, "base", "en")
	kc, _ := NewKey(c, "base", "en")

	if ka.AudioHash != kb.AudioHash {
		t.Error("identical content produced different hashes")
	}
	if ka.AudioHash == kc.AudioHash {
		t.Error("different content produced identical hashes")
	}
	if ka.String() == (Key{AudioHash: ka.AudioHash, ModelSize: "base", Language: ""}).String() {
		t.Error("language not part of key")
	}
}

func TestKeyStringDefaultsLanguage(t *testing.T) {
	key := Key{AudioHash: "h", ModelSize: "base"}
	if key.String() != "h:base:auto" {
		t.Errorf("String() = %q", key.String())
	}
}
