// Package editor provides the Bubble Tea editor for tooltip
// dictionaries: a scrollable list of the page's tooltip anchors with
// inline editing, YAML import, and snapshot save/preview actions.
package editor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"github.com/harness/ng-tooltip/internal/dictionary"
	"github.com/harness/ng-tooltip/internal/page"
	"github.com/harness/ng-tooltip/internal/snapshot"
	"github.com/harness/ng-tooltip/internal/wiring"
)

// ── Styles ────────────

var (
	// Title bar at the very top
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	// Hover-highlighted label
	hoverStyle = lipgloss.NewStyle().Bold(true)

	// Anchor identifier
	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("33")).
		Bold(true)

	// "needs content" marker
	emptyMarkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	widthStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	// Selected row
	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("237"))

	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	statusErrStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("196")).
			Padding(0, 1)
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// ── Modes ─────────────

type editorMode int

const (
	modeBrowse editorMode = iota
	modeEdit
	modeImport
)

// pageChangedMsg is delivered when the watched page file changes.
type pageChangedMsg struct{}

// labeler is implemented by providers that can resolve an anchor's
// visible label (page.FileProvider does).
type labeler interface {
	Label(id string) string
}

// Options configures a new editor.
type Options struct {
	Provider page.Provider
	Store    snapshot.Store
	Default  dictionary.Dictionary // dataset the store is seeded from

	// WatchPath, when set, is a page file watched for changes; a write
	// triggers an automatic rescan.
	WatchPath string

	// OnPreview is invoked after a preview snapshot is written, with
	// the write timestamp in epoch millis, so the hosting application
	// can re-read the snapshot and render the edits live.
	OnPreview func(timestamp int64)
}

// Model is the root Bubble Tea model for the editor.
type Model struct {
	provider page.Provider
	store    snapshot.Store
	def      dictionary.Dictionary
	dict     dictionary.Dictionary

	anchors []page.Anchor
	rows    []string // unique non-empty identifiers in scan order

	board   *wiring.Board
	state   *wiring.State
	binding *wiring.Binding

	cursor int
	mode   editorMode

	contentInput textinput.Model
	widthInput   textinput.Model
	widthFocused bool

	importArea textarea.Model

	list   viewport.Model
	width  int
	height int
	ready  bool

	status    string
	statusErr bool

	watcher   *fsnotify.Watcher
	watchPath string
	onPreview func(int64)
}

// New creates an editor model: it seeds the dictionary from the saved
// snapshot (falling back to the default dataset), scans the page, and
// wires the anchors.
func New(opts Options) Model {
	m := Model{
		provider:  opts.Provider,
		store:     opts.Store,
		def:       opts.Default,
		board:     wiring.NewBoard(),
		state:     wiring.NewState(),
		onPreview: opts.OnPreview,
	}
	if m.def == nil {
		m.def = dictionary.Dictionary{}
	}

	dict, err := snapshot.Seed(m.store, m.def)
	m.dict = dict
	if err != nil {
		m.setError(fmt.Sprintf("saved edits unreadable, using default dataset (%v)", err))
	}

	m.contentInput = textinput.New()
	m.contentInput.Placeholder = "tooltip content"
	m.contentInput.CharLimit = 0
	m.widthInput = textinput.New()
	m.widthInput.Placeholder = dictionary.DefaultWidth
	m.widthInput.CharLimit = 5
	m.importArea = textarea.New()
	m.importArea.Placeholder = "paste the latest YAML dataset here"

	m.rescan()

	if opts.WatchPath != "" {
		// Watch the containing directory, not the file: editors that
		// save via rename replace the inode, and a watch on the file
		// itself goes dead after the first write.
		if w, err := fsnotify.NewWatcher(); err == nil {
			if err := w.Add(filepath.Dir(opts.WatchPath)); err == nil {
				m.watcher = w
				m.watchPath = filepath.Clean(opts.WatchPath)
			} else {
				w.Close()
			}
		}
	}
	return m
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return watchPage(m.watcher, m.watchPath)
	}
	return nil
}

// watchPage blocks on the watcher until the page file is written, then
// delivers a pageChangedMsg. Re-issued after every message. Events for
// other files in the watched directory are dropped.
func watchPage(w *fsnotify.Watcher, path string) tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(ev.Name) != path {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
					return pageChangedMsg{}
				}
			case _, ok := <-w.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeEdit:
			return m.updateEdit(msg)
		case modeImport:
			return m.updateImport(msg)
		default:
			return m.updateBrowse(msg)
		}

	case pageChangedMsg:
		m.rescan()
		m.setStatus("page changed, context updated")
		m.refreshList()
		return m, watchPage(m.watcher, m.watchPath)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.initList()
		m.importArea.SetWidth(msg.Width - 4)
		m.importArea.SetHeight(msg.Height - 6)
		return m, nil
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, m.close()

	case "up", "k":
		m.moveCursor(m.cursor - 1)
		m.refreshList()
		return m, nil
	case "down", "j":
		m.moveCursor(m.cursor + 1)
		m.refreshList()
		return m, nil

	case "enter":
		if id := m.currentID(); id != "" {
			m.board.Dispatch(id, wiring.Click)
			m.openEditRow(id)
			m.refreshList()
		}
		return m, nil

	case "r":
		m.rescan()
		m.setStatus(fmt.Sprintf("context updated: %d anchors", len(m.anchors)))
		m.refreshList()
		return m, nil

	case "s":
		if _, err := m.store.Save(snapshot.KeySaved, m.dict, snapshot.SavedTTL); err != nil {
			m.setError(err.Error())
		} else {
			m.setStatus("edits saved for 6h")
		}
		return m, nil

	case "p":
		snap, err := m.store.Save(snapshot.KeyPreview, m.dict, snapshot.PreviewTTL)
		if err != nil {
			m.setError(err.Error())
			return m, nil
		}
		if m.onPreview != nil {
			m.onPreview(snap.SavedAt.UnixMilli())
		}
		m.setStatus("preview written for 2h — reload the host app to see it")
		return m, nil

	case "y":
		out, err := dictionary.Marshal(m.dict)
		if err != nil {
			m.setError(err.Error())
			return m, nil
		}
		if err := clipboardWriteAll(string(out)); err != nil {
			m.setError("clipboard: " + err.Error())
			return m, nil
		}
		m.setStatus("dictionary copied to clipboard as YAML")
		return m, nil

	case "i":
		m.mode = modeImport
		m.importArea.Reset()
		m.importArea.Focus()
		m.setStatus("paste the latest dataset — applying it replaces ALL current edits")
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state.CloseEdit()
		m.mode = modeBrowse
		m.setStatus("edit cancelled")
		m.refreshList()
		return m, nil

	case "tab", "shift+tab":
		m.widthFocused = !m.widthFocused
		if m.widthFocused {
			m.contentInput.Blur()
			m.widthInput.Focus()
		} else {
			m.widthInput.Blur()
			m.contentInput.Focus()
		}
		m.refreshList()
		return m, nil

	case "enter":
		id := m.state.Editing()
		if id != "" {
			m.dict = m.dict.WithEntry(id, m.contentInput.Value(), m.widthInput.Value())
			m.state.MarkEmpty(m.anchors, m.dict)
			m.setStatus(fmt.Sprintf("%s updated — press s to persist", id))
		}
		m.state.CloseEdit()
		m.mode = modeBrowse
		m.refreshList()
		return m, nil
	}

	var cmd tea.Cmd
	if m.widthFocused {
		m.widthInput, cmd = m.widthInput.Update(msg)
	} else {
		m.contentInput, cmd = m.contentInput.Update(msg)
	}
	// The edit row renders inside the list viewport, so every keystroke
	// needs a content refresh.
	m.refreshList()
	return m, cmd
}

func (m Model) updateImport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.importArea.Blur()
		m.setStatus("import cancelled, edits untouched")
		return m, nil

	case "ctrl+s":
		d, err := dictionary.ParseAndVerify([]byte(m.importArea.Value()))
		if err != nil {
			// Current edits stay untouched on any parse or apply failure.
			m.setError(err.Error())
			return m, nil
		}
		m.dict = d
		m.state.MarkEmpty(m.anchors, m.dict)
		m.mode = modeBrowse
		m.importArea.Blur()
		m.setStatus(fmt.Sprintf("dataset replaced: %d entries", len(d)))
		m.refreshList()
		return m, nil
	}

	var cmd tea.Cmd
	m.importArea, cmd = m.importArea.Update(msg)
	return m, cmd
}

// close clears the preview handoff snapshot and quits.
func (m *Model) close() tea.Cmd {
	_ = m.store.Clear(snapshot.KeyPreview)
	if m.watcher != nil {
		m.watcher.Close()
	}
	if m.binding != nil {
		m.binding.Dispose()
	}
	return tea.Quit
}

// ── Scan / cursor management ──────────────────────────────────────────────────

// rescan replaces the anchor set from the provider and rewires the
// listeners. The previous binding is disposed first so listener
// lifecycle stays 1:1 with scan lifecycle.
func (m *Model) rescan() {
	if m.binding != nil {
		m.binding.Dispose()
	}

	anchors, err := m.provider.Anchors()
	if err != nil {
		m.setError(err.Error())
		anchors = nil
	}
	m.anchors = anchors

	// Interactive rows: unique, non-empty identifiers in scan order.
	seen := make(map[string]bool)
	m.rows = m.rows[:0]
	for _, a := range anchors {
		if a.ID == "" || seen[a.ID] {
			continue
		}
		seen[a.ID] = true
		m.rows = append(m.rows, a.ID)
	}

	m.binding = m.state.Wire(m.board, anchors)
	m.state.MarkEmpty(m.anchors, m.dict)

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.hoverCurrent()
}

// moveCursor moves the hover to a new row, dispatching the leave/enter
// events the wiring expects.
func (m *Model) moveCursor(to int) {
	if to < 0 || to >= len(m.rows) {
		return
	}
	if id := m.currentID(); id != "" {
		m.board.Dispatch(id, wiring.HoverLeave)
	}
	m.cursor = to
	m.hoverCurrent()
}

func (m *Model) hoverCurrent() {
	if id := m.currentID(); id != "" {
		m.board.Dispatch(id, wiring.HoverEnter)
	}
}

func (m *Model) currentID() string {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return ""
	}
	return m.rows[m.cursor]
}

// openEditRow seeds the edit inputs from the dictionary for id.
func (m *Model) openEditRow(id string) {
	m.mode = modeEdit
	m.widthFocused = false
	m.contentInput.SetValue(m.dict.Content(id))
	m.widthInput.SetValue(m.dict.Width(id))
	m.widthInput.Blur()
	m.contentInput.Focus()
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

// ── View ──────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render(
		fmt.Sprintf("  ng-tooltip  %d anchors · %d entries", len(m.anchors), len(m.dict)))

	var content string
	if m.mode == modeImport {
		content = m.renderImport()
	} else {
		content = m.list.View()
	}

	hint := "  ↑/↓ hover  enter edit  r rescan  s save  p preview  y copy yaml  i import  q close"
	switch m.mode {
	case modeEdit:
		hint = "  tab content/width  enter apply  esc cancel"
	case modeImport:
		hint = "  ctrl+s apply (replaces everything)  esc cancel"
	}

	bar := statusBarStyle
	if m.statusErr {
		bar = statusErrStyle
	}
	line := hint
	if m.status != "" {
		line = "  " + m.status + "  ·" + hint
	}
	statusBar := bar.Width(m.width).Render(line)

	return lipgloss.JoinVertical(lipgloss.Left, title, content, statusBar)
}

func (m *Model) initList() {
	// title(1) + statusBar(1) = 2 fixed rows
	h := m.height - 2
	if h < 1 {
		h = 1
	}
	m.list = viewport.New(m.width, h)
	m.refreshList()
}

func (m *Model) refreshList() {
	m.list.SetContent(m.renderRows())
}

func (m *Model) renderRows() string {
	var sb strings.Builder
	sb.WriteString("\n" + sectionHeader.Render("  Tooltip anchors") + "\n\n")

	if len(m.rows) == 0 {
		sb.WriteString(dimStyle.Render("  (no tooltip anchors found in this page)") + "\n")
		return sb.String()
	}

	for i, id := range m.rows {
		label := m.labelFor(id)
		idText := idStyle.Render(id)
		if m.state.Highlight[id] {
			// hover bolds the visible label, mirroring the host page.
			idText = hoverStyle.Render(idStyle.Render(id))
			if label != "" {
				label = hoverStyle.Render(label)
			}
		}

		mark := "  "
		if m.state.Empty[id] {
			mark = emptyMarkStyle.Render("∅ ")
		}

		preview := truncate(m.dict.Content(id), 60)
		if preview == "" {
			preview = dimStyle.Render("(no content)")
		}

		row := fmt.Sprintf("  %s%s  %s", mark, idText, preview)
		if label != "" {
			row += dimStyle.Render("  [" + label + "]")
		}
		row += widthStyle.Render("  w=" + m.dict.Width(id))

		if i == m.cursor {
			row = selectedRowStyle.Width(m.width - 2).Render(row)
		}
		sb.WriteString(row + "\n")

		// Inline edit row under the open anchor.
		if m.mode == modeEdit && m.state.EditMode[id] {
			sb.WriteString("\n")
			sb.WriteString("      content: " + m.contentInput.View() + "\n")
			sb.WriteString("      width:   " + m.widthInput.View() + "\n")
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (m *Model) renderImport() string {
	var sb strings.Builder
	sb.WriteString("\n" + sectionHeader.Render("  Update latest dataset") + "\n\n")
	sb.WriteString(dimStyle.Render("  Applying a pasted dataset replaces all current edits.") + "\n\n")
	sb.WriteString(m.importArea.View())
	return sb.String()
}

// truncate shortens s to at most max runes, never splitting a rune.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "…"
}

// labelFor resolves an anchor's visible label when the provider can.
func (m *Model) labelFor(id string) string {
	if l, ok := m.provider.(labeler); ok {
		return l.Label(id)
	}
	return ""
}

// Run starts the editor for the given options.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
