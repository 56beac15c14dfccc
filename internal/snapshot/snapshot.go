// Package snapshot persists timestamped, expiring copies of the
// tooltip dictionary to the local data directory. Two fixed keys are
// used: the user's own saved edits and a short-lived preview handoff
// read by the hosting application.
package snapshot

import (
	"time"

	"github.com/harness/ng-tooltip/internal/dictionary"
)

// Storage keys and their time-to-live. Key names match the hosting
// application's storage contract.
const (
	KeySaved   = "tooltipDictionary"
	KeyPreview = "previewTooltipDataset"

	SavedTTL   = 6 * time.Hour
	PreviewTTL = 2 * time.Hour
)

// Snapshot wraps a dictionary with its expiry timestamp. Expiry is
// epoch milliseconds; a snapshot with Expiry <= now is treated as
// absent and removed on the next read.
type Snapshot struct {
	ID      string                `json:"id"`
	Value   dictionary.Dictionary `json:"value"`
	Expiry  int64                 `json:"expiry"`
	SavedAt time.Time             `json:"saved_at"`
}

// Expired reports whether the snapshot's TTL has elapsed at now. A
// snapshot expiring exactly now is already expired.
func (s *Snapshot) Expired(now time.Time) bool {
	return now.UnixMilli() >= s.Expiry
}

// Seed returns the user's saved dictionary if an unexpired snapshot
// exists, and def otherwise. A malformed snapshot also falls back to
// def, but the parse error is returned alongside so the caller can
// warn the user; the returned dictionary is usable either way.
func Seed(store Store, def dictionary.Dictionary) (dictionary.Dictionary, error) {
	snap, err := store.Load(KeySaved)
	if err != nil {
		if isParseError(err) {
			return def, err
		}
		return def, nil // absent or expired: silent fallback
	}
	return snap.Value, nil
}
