package wiring_test

import (
	"testing"

	"github.com/harness/ng-tooltip/internal/dictionary"
	"github.com/harness/ng-tooltip/internal/page"
	"github.com/harness/ng-tooltip/internal/wiring"
)

func anchors(ids ...string) []page.Anchor {
	out := make([]page.Anchor, len(ids))
	for i, id := range ids {
		out[i] = page.Anchor{ID: id, Tag: "span"}
	}
	return out
}

// Clicking a row replaces the whole edit-mode map: at most one row is
// ever open, and a previously open row silently closes.
func TestClickKeepsSingleRowInEditMode(t *testing.T) {
	board := wiring.NewBoard()
	state := wiring.NewState()
	state.Wire(board, anchors("ID_A", "ID_B"))

	board.Dispatch("ID_A", wiring.Click)
	if got := state.Editing(); got != "ID_A" {
		t.Fatalf("after click A: editing %q", got)
	}

	board.Dispatch("ID_B", wiring.Click)
	if got := state.Editing(); got != "ID_B" {
		t.Fatalf("after click B: editing %q", got)
	}
	if len(state.EditMode) != 1 {
		t.Fatalf("edit-mode map must hold exactly one entry, got %#v", state.EditMode)
	}
}

func TestHoverHighlight(t *testing.T) {
	board := wiring.NewBoard()
	state := wiring.NewState()
	state.Wire(board, anchors("ID_A"))

	board.Dispatch("ID_A", wiring.HoverEnter)
	if !state.Highlight["ID_A"] {
		t.Fatal("hover-enter did not highlight the label")
	}
	board.Dispatch("ID_A", wiring.HoverLeave)
	if state.Highlight["ID_A"] {
		t.Fatal("hover-leave did not remove the highlight")
	}
}

// Dispose removes exactly the listeners Attach installed; events after
// Dispose are no-ops.
func TestDisposeRemovesListeners(t *testing.T) {
	board := wiring.NewBoard()
	state := wiring.NewState()
	binding := state.Wire(board, anchors("ID_A"))

	binding.Dispose()
	board.Dispatch("ID_A", wiring.Click)
	board.Dispatch("ID_A", wiring.HoverEnter)

	if state.Editing() != "" || len(state.Highlight) != 0 {
		t.Fatalf("listeners fired after Dispose: edit=%q highlight=%#v", state.Editing(), state.Highlight)
	}

	// Dispose is idempotent.
	binding.Dispose()
}

// A fresh binding after a rescan must work even though the previous
// attach used the same identifiers.
func TestRewireAfterDispose(t *testing.T) {
	board := wiring.NewBoard()
	state := wiring.NewState()

	first := state.Wire(board, anchors("ID_A"))
	first.Dispose()
	state.Wire(board, anchors("ID_A", "ID_B"))

	board.Dispatch("ID_B", wiring.Click)
	if got := state.Editing(); got != "ID_B" {
		t.Fatalf("rewired listener did not fire: editing %q", got)
	}
}

// An empty identifier means "no id": the anchor gets no interactivity.
func TestEmptyIDNotWired(t *testing.T) {
	board := wiring.NewBoard()
	state := wiring.NewState()
	state.Wire(board, anchors("", "ID_A"))

	board.Dispatch("", wiring.Click)
	if state.Editing() != "" {
		t.Fatal("empty-id anchor must not be clickable")
	}
}

// Host page scenario: anchors ID_A and ID_B, default dictionary only
// covers ID_A. ID_B carries the "needs content" marker; after the user
// supplies content for ID_B, the marker goes away.
func TestMarkEmptyFollowsDictionary(t *testing.T) {
	state := wiring.NewState()
	scanned := anchors("ID_A", "ID_B")
	dict := dictionary.Dictionary{"ID_A": {Content: "hello", Legacy: true}}

	state.MarkEmpty(scanned, dict)
	if state.Empty["ID_A"] {
		t.Error("ID_A has content and must not be marked empty")
	}
	if !state.Empty["ID_B"] {
		t.Error("ID_B has no content and must be marked empty")
	}

	dict = dict.WithEntry("ID_B", "world", "300")
	state.MarkEmpty(scanned, dict)
	if state.Empty["ID_B"] {
		t.Error("empty marker must clear once ID_B has content")
	}
}

func TestClearEmptyIsUnconditional(t *testing.T) {
	state := wiring.NewState()
	state.MarkEmpty(anchors("ID_A", "ID_B"), dictionary.Dictionary{})
	if len(state.Empty) != 2 {
		t.Fatalf("precondition: expected 2 empty markers, got %d", len(state.Empty))
	}
	state.ClearEmpty()
	if len(state.Empty) != 0 {
		t.Fatalf("ClearEmpty left markers behind: %#v", state.Empty)
	}
}
