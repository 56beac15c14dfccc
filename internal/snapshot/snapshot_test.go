package snapshot_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/harness/ng-tooltip/internal/dictionary"
	"github.com/harness/ng-tooltip/internal/snapshot"
)

var generateID = rapid.StringMatching(`[A-Za-z][A-Za-z0-9_.-]{0,24}`)

// generateDictionary produces a dictionary with a mix of legacy and
// structured entries.
func generateDictionary(t *rapid.T) dictionary.Dictionary {
	d := dictionary.Dictionary{}
	n := rapid.IntRange(0, 6).Draw(t, "num_entries")
	for i := 0; i < n; i++ {
		id := generateID.Draw(t, "id")
		if rapid.Bool().Draw(t, "legacy") {
			d[id] = dictionary.Entry{Content: rapid.StringN(0, 60, -1).Draw(t, "content"), Legacy: true}
		} else {
			d[id] = dictionary.Entry{
				Content: rapid.StringN(0, 60, -1).Draw(t, "content"),
				Width:   rapid.StringMatching(`[1-9][0-9]{0,3}`).Draw(t, "width"),
			}
		}
	}
	return d
}

// A snapshot saved and immediately loaded returns the same dictionary,
// and its expiry lands within a second of now + ttl.
func TestSnapshotRoundTrip(t *testing.T) {
	store, err := snapshot.NewStoreIn(t.TempDir())
	if err != nil {
		t.Fatalf("NewStoreIn: %v", err)
	}

	rapid.Check(t, func(rt *rapid.T) {
		original := generateDictionary(rt)

		before := time.Now()
		saved, err := store.Save(snapshot.KeySaved, original, snapshot.SavedTTL)
		if err != nil {
			rt.Fatalf("Save: %v", err)
		}
		after := time.Now()

		loaded, err := store.Load(snapshot.KeySaved)
		if err != nil {
			rt.Fatalf("Load: %v", err)
		}
		if !loaded.Value.Equal(original) {
			rt.Fatalf("Value mismatch: got %#v, want %#v", loaded.Value, original)
		}
		if loaded.ID != saved.ID {
			rt.Errorf("ID mismatch: got %q, want %q", loaded.ID, saved.ID)
		}

		lo := before.Add(snapshot.SavedTTL).UnixMilli() - 1000
		hi := after.Add(snapshot.SavedTTL).UnixMilli() + 1000
		if loaded.Expiry < lo || loaded.Expiry > hi {
			rt.Errorf("Expiry %d outside [%d, %d]", loaded.Expiry, lo, hi)
		}
	})
}

// Legacy entries must stay bare strings across JSON persistence so a
// later export reproduces the original dataset shape.
func TestSnapshotPreservesLegacyEntries(t *testing.T) {
	store, err := snapshot.NewStoreIn(t.TempDir())
	if err != nil {
		t.Fatalf("NewStoreIn: %v", err)
	}
	d := dictionary.Dictionary{
		"ID_A": {Content: "plain", Legacy: true},
		"ID_B": {Content: "rec", Width: "250"},
	}
	if _, err := store.Save(snapshot.KeySaved, d, snapshot.SavedTTL); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := store.Load(snapshot.KeySaved)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !loaded.Value["ID_A"].Legacy {
		t.Error("legacy entry lost its bare-string form across persistence")
	}
	if loaded.Value["ID_B"].Legacy {
		t.Error("structured entry became legacy across persistence")
	}
}

func TestLoadReturnsErrNoSnapshot(t *testing.T) {
	store, err := snapshot.NewStoreIn(t.TempDir())
	if err != nil {
		t.Fatalf("NewStoreIn: %v", err)
	}
	_, err = store.Load(snapshot.KeySaved)
	if !errors.Is(err, snapshot.ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got: %v", err)
	}
}

// An expired snapshot is treated as absent and deleted on read.
func TestExpiredSnapshotTreatedAsAbsent(t *testing.T) {
	dir := t.TempDir()
	store, err := snapshot.NewStoreIn(dir)
	if err != nil {
		t.Fatalf("NewStoreIn: %v", err)
	}

	d := dictionary.Dictionary{"ID_A": {Content: "hello", Legacy: true}}
	if _, err := store.Save(snapshot.KeySaved, d, -time.Minute); err != nil {
		t.Fatalf("Save: %v", err)
	}

	_, err = store.Load(snapshot.KeySaved)
	if !errors.Is(err, snapshot.ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot for expired snapshot, got: %v", err)
	}

	// The expired file must be gone, not just skipped.
	if _, err := os.Stat(filepath.Join(dir, snapshot.KeySaved+".json")); !errors.Is(err, os.ErrNotExist) {
		t.Error("expired snapshot file was not removed")
	}
}

// NewStore resolves its directory from XDG_DATA_HOME, like the rest of
// the on-disk state.
func TestStoreUsesXDGDataHome(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_DATA_HOME", tmp)

	store, err := snapshot.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	d := dictionary.Dictionary{"ID_A": {Content: "x", Legacy: true}}
	if _, err := store.Save(snapshot.KeyPreview, d, snapshot.PreviewTTL); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tmp, "ng-tooltip", snapshot.KeyPreview+".json")); err != nil {
		t.Errorf("snapshot not written under XDG_DATA_HOME: %v", err)
	}
}

func TestMalformedSnapshotYieldsParseError(t *testing.T) {
	dir := t.TempDir()
	store, err := snapshot.NewStoreIn(dir)
	if err != nil {
		t.Fatalf("NewStoreIn: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, snapshot.KeySaved+".json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err = store.Load(snapshot.KeySaved)
	var pe *snapshot.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got: %v", err)
	}
}

func TestSeedPrefersUnexpiredSnapshot(t *testing.T) {
	store, err := snapshot.NewStoreIn(t.TempDir())
	if err != nil {
		t.Fatalf("NewStoreIn: %v", err)
	}
	saved := dictionary.Dictionary{"ID_A": {Content: "edited", Width: "300"}}
	if _, err := store.Save(snapshot.KeySaved, saved, snapshot.SavedTTL); err != nil {
		t.Fatalf("Save: %v", err)
	}

	def := dictionary.Dictionary{"ID_A": {Content: "default", Legacy: true}}
	got, err := snapshot.Seed(store, def)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if got.Content("ID_A") != "edited" {
		t.Errorf("Seed ignored the saved snapshot: got %q", got.Content("ID_A"))
	}
}

func TestSeedFallsBackWhenAbsent(t *testing.T) {
	store, err := snapshot.NewStoreIn(t.TempDir())
	if err != nil {
		t.Fatalf("NewStoreIn: %v", err)
	}
	def := dictionary.Dictionary{"ID_A": {Content: "default", Legacy: true}}
	got, err := snapshot.Seed(store, def)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if got.Content("ID_A") != "default" {
		t.Errorf("Seed fallback: got %q, want \"default\"", got.Content("ID_A"))
	}
}

// A malformed saved snapshot still seeds the default dictionary, but
// the parse error is surfaced so the user can be alerted.
func TestSeedReportsMalformedSnapshot(t *testing.T) {
	dir := t.TempDir()
	store, err := snapshot.NewStoreIn(dir)
	if err != nil {
		t.Fatalf("NewStoreIn: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, snapshot.KeySaved+".json"), []byte("garbage"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	def := dictionary.Dictionary{"ID_A": {Content: "default", Legacy: true}}
	got, seedErr := snapshot.Seed(store, def)
	if seedErr == nil {
		t.Error("expected Seed to report the parse error")
	}
	if got.Content("ID_A") != "default" {
		t.Errorf("Seed should fall back to default, got %q", got.Content("ID_A"))
	}
}

func TestClearRemovesSnapshot(t *testing.T) {
	store, err := snapshot.NewStoreIn(t.TempDir())
	if err != nil {
		t.Fatalf("NewStoreIn: %v", err)
	}
	d := dictionary.Dictionary{"ID_A": {Content: "x", Legacy: true}}
	if _, err := store.Save(snapshot.KeyPreview, d, snapshot.PreviewTTL); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(snapshot.KeyPreview); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := store.Load(snapshot.KeyPreview); !errors.Is(err, snapshot.ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot after Clear, got: %v", err)
	}
	// Clearing an already-absent key is not an error.
	if err := store.Clear(snapshot.KeyPreview); err != nil {
		t.Fatalf("Clear of absent key: %v", err)
	}
}
