package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/harness/ng-tooltip/internal/dictionary"
)

// ErrNoSnapshot is returned by Load when no snapshot exists under the
// key, or when the stored one had expired (it is deleted on read).
var ErrNoSnapshot = errors.New("no stored snapshot")

// Store persists dictionary snapshots under string keys.
type Store interface {
	Save(key string, d dictionary.Dictionary, ttl time.Duration) (*Snapshot, error)
	Load(key string) (*Snapshot, error) // returns ErrNoSnapshot if absent or expired
	Clear(key string) error
}

// diskStore is the concrete Store that writes one JSON file per key in
// the XDG data directory.
type diskStore struct {
	dir string
	now func() time.Time
}

// NewStore returns a Store backed by the XDG data directory.
// Path: $XDG_DATA_HOME/ng-tooltip/<key>.json or ~/.local/share/ng-tooltip/<key>.json
func NewStore() (Store, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	return NewStoreIn(dir)
}

// NewStoreIn returns a Store rooted at an explicit directory, used when
// the config overrides the data dir and in tests.
func NewStoreIn(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &diskStore{dir: dir, now: time.Now}, nil
}

// dataDir returns the ng-tooltip-specific XDG data directory.
func dataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "ng-tooltip"), nil
}

func (d *diskStore) path(key string) string {
	return filepath.Join(d.dir, key+".json")
}

// Save writes {value, expiry} under key atomically via a temp file +
// os.Rename. Expiry is now + ttl in epoch milliseconds.
func (d *diskStore) Save(key string, dict dictionary.Dictionary, ttl time.Duration) (*Snapshot, error) {
	now := d.now()
	snap := &Snapshot{
		ID:      uuid.New().String(),
		Value:   dict,
		Expiry:  now.Add(ttl).UnixMilli(),
		SavedAt: now,
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to persist snapshot: %w", err)
	}

	// Write to a temp file in the same directory so os.Rename is atomic.
	tmp, err := os.CreateTemp(d.dir, key+"-*.json.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to persist snapshot: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to persist snapshot: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to persist snapshot: %w", err)
	}
	if err = os.Rename(tmpName, d.path(key)); err != nil {
		return nil, fmt.Errorf("failed to persist snapshot: %w", err)
	}
	return snap, nil
}

// Load reads the snapshot stored under key. An expired snapshot is
// deleted and reported as absent; a malformed one yields a *ParseError
// so callers can warn and fall back.
func (d *diskStore) Load(key string) (*Snapshot, error) {
	data, err := os.ReadFile(d.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &ParseError{Path: d.path(key), Err: err}
	}

	if snap.Expired(d.now()) {
		_ = os.Remove(d.path(key))
		return nil, ErrNoSnapshot
	}
	return &snap, nil
}

// Clear removes the snapshot stored under key, if any.
func (d *diskStore) Clear(key string) error {
	if err := os.Remove(d.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// ParseError is returned when a snapshot file exists but cannot be
// parsed. The caller falls back to the default dictionary.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse snapshot " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func isParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
