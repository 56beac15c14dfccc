// Package dictionary holds the in-memory tooltip dictionary: the single
// source of truth for everything the editor exports or persists.
package dictionary

import "sort"

// DefaultWidth is the tooltip width applied to entries that don't carry
// an explicit one. Stored as a numeric-looking string, matching the
// shape of the published datasets.
const DefaultWidth = "400"

// Entry is one tooltip's editable payload. Older datasets store a bare
// string per identifier; newer ones store a {content, width} record.
// Legacy distinguishes the two so a dataset round-trips unchanged.
type Entry struct {
	Content string
	Width   string
	Legacy  bool // bare-string dataset entry; Width is implied
}

// Resolve returns the entry's effective content and width. This is the
// single normalization point for the legacy/structured union: every
// read site goes through it.
func (e Entry) Resolve() (content, width string) {
	if e.Legacy || e.Width == "" {
		return e.Content, DefaultWidth
	}
	return e.Content, e.Width
}

// Dictionary maps tooltip identifiers to entries.
type Dictionary map[string]Entry

// Content returns the resolved content for id, or "" when absent.
func (d Dictionary) Content(id string) string {
	e, ok := d[id]
	if !ok {
		return ""
	}
	content, _ := e.Resolve()
	return content
}

// Width returns the resolved width for id, or DefaultWidth when absent.
func (d Dictionary) Width(id string) string {
	e, ok := d[id]
	if !ok {
		return DefaultWidth
	}
	_, width := e.Resolve()
	return width
}

// WithEntry returns a new dictionary with id's entry replaced by a
// structured record and all other entries unchanged. The receiver is
// never mutated: callers compare object identity to detect change.
func (d Dictionary) WithEntry(id, content, width string) Dictionary {
	if width == "" {
		width = DefaultWidth
	}
	out := make(Dictionary, len(d)+1)
	for k, v := range d {
		out[k] = v
	}
	out[id] = Entry{Content: content, Width: width}
	return out
}

// Clone returns a shallow copy of d. Entries are value types, so the
// copy is independent.
func (d Dictionary) Clone() Dictionary {
	out := make(Dictionary, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Equal reports whether two dictionaries resolve to the same content
// and width for every identifier. Legacy and structured entries that
// resolve identically are considered equal.
func (d Dictionary) Equal(other Dictionary) bool {
	if len(d) != len(other) {
		return false
	}
	for id, e := range d {
		o, ok := other[id]
		if !ok {
			return false
		}
		c1, w1 := e.Resolve()
		c2, w2 := o.Resolve()
		if c1 != c2 || w1 != w2 {
			return false
		}
	}
	return true
}

// IDs returns the dictionary's identifiers in sorted order, for stable
// display and serialization.
func (d Dictionary) IDs() []string {
	ids := make([]string, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
