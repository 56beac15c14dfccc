// Package wiring attaches interaction listeners to scanned tooltip
// anchors and tracks the visual flags they drive: which row is in edit
// mode, which label is hover-highlighted, and which anchors are marked
// as missing content.
package wiring

import (
	"github.com/harness/ng-tooltip/internal/dictionary"
	"github.com/harness/ng-tooltip/internal/page"
)

// EventType identifies one of the three interaction events wired to
// every anchor.
type EventType int

const (
	Click EventType = iota
	HoverEnter
	HoverLeave
)

// Handler receives the identifier of the anchor the event fired on.
type Handler func(id string)

// listenerKey identifies one installed listener. Storing handlers by
// key, rather than by function reference, is what makes detach exact:
// a Binding removes precisely the listeners its Attach call installed.
type listenerKey struct {
	id    string
	event EventType
}

// Board is the dispatch surface the editor routes interaction events
// through. One Board outlives many scans; each scan's listeners live
// in a Binding.
type Board struct {
	listeners map[listenerKey]Handler
}

// NewBoard returns an empty Board.
func NewBoard() *Board {
	return &Board{listeners: make(map[listenerKey]Handler)}
}

// Attach installs the given handlers for every anchor and returns a
// Binding that owns exactly those listeners. Anchors with an empty
// identifier are skipped: an empty id means "no id" and gets no
// interactivity. Duplicate identifiers share one listener per event.
func (b *Board) Attach(anchors []page.Anchor, handlers map[EventType]Handler) *Binding {
	bind := &Binding{board: b}
	for _, a := range anchors {
		if a.ID == "" {
			continue
		}
		for event, h := range handlers {
			key := listenerKey{id: a.ID, event: event}
			if _, exists := b.listeners[key]; exists {
				continue
			}
			b.listeners[key] = h
			bind.keys = append(bind.keys, key)
		}
	}
	return bind
}

// Dispatch invokes the listener registered for (id, event), if any.
func (b *Board) Dispatch(id string, event EventType) {
	if h, ok := b.listeners[listenerKey{id: id, event: event}]; ok {
		h(id)
	}
}

// Binding owns the listeners one Attach call installed. Its lifecycle
// is tied 1:1 to the scan it was attached for.
type Binding struct {
	board *Board
	keys  []listenerKey
}

// Dispose removes the binding's listeners from the board. Safe to call
// more than once.
func (bd *Binding) Dispose() {
	for _, key := range bd.keys {
		delete(bd.board.listeners, key)
	}
	bd.keys = nil
}

// State holds the visual flags the standard listeners maintain.
type State struct {
	// EditMode maps the identifier currently in text-edit mode to true.
	// A click replaces the whole map with a single entry, so at most
	// one row is ever open; any previously open row silently closes.
	EditMode map[string]bool

	// Highlight marks labels currently hover-bolded.
	Highlight map[string]bool

	// Empty marks anchors whose resolved content is blank.
	Empty map[string]bool
}

// NewState returns a State with all flags clear.
func NewState() *State {
	return &State{
		EditMode:  make(map[string]bool),
		Highlight: make(map[string]bool),
		Empty:     make(map[string]bool),
	}
}

// Wire attaches the three standard listeners for the given anchors:
// click opens the row for editing, hover-enter bolds its label,
// hover-leave unbolds it.
func (s *State) Wire(board *Board, anchors []page.Anchor) *Binding {
	return board.Attach(anchors, map[EventType]Handler{
		Click: func(id string) {
			s.EditMode = map[string]bool{id: true}
		},
		HoverEnter: func(id string) {
			s.Highlight[id] = true
		},
		HoverLeave: func(id string) {
			delete(s.Highlight, id)
		},
	})
}

// Editing returns the identifier currently in edit mode, or "".
func (s *State) Editing() string {
	for id, on := range s.EditMode {
		if on {
			return id
		}
	}
	return ""
}

// CloseEdit clears the edit-mode flags.
func (s *State) CloseEdit() {
	s.EditMode = make(map[string]bool)
}

// MarkEmpty recomputes the empty-content markers for every scanned
// anchor from the dictionary. Run whenever the dictionary changes.
func (s *State) MarkEmpty(anchors []page.Anchor, d dictionary.Dictionary) {
	s.Empty = make(map[string]bool)
	for _, a := range anchors {
		if a.ID == "" {
			continue
		}
		if d.Content(a.ID) == "" {
			s.Empty[a.ID] = true
		}
	}
}

// ClearEmpty removes all empty-content markers unconditionally.
func (s *State) ClearEmpty() {
	s.Empty = make(map[string]bool)
}
