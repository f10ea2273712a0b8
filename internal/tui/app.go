package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hpungsan/shelf/internal/clip"
	"github.com/hpungsan/shelf/internal/ops"
	"github.com/hpungsan/shelf/internal/prompt"
	"github.com/hpungsan/shelf/internal/saved"
	"github.com/hpungsan/shelf/internal/selection"
)

// StatusDuration is how long a confirmation such as "Copied!" stays visible.
const StatusDuration = 2 * time.Second

// App is the root Bubble Tea model.
// The selection state lives here; the visible list is recomputed from the
// catalog after every change and never edited in place.
type App struct {
	catalog *prompt.Catalog
	mgr     *saved.Manager
	clip    clip.Writer

	state  selection.State
	items  []ops.ItemView
	cursor int
	offset int
	detail bool

	searching bool
	search    textinput.Model
	prevTerm  string // restored by esc

	status    string
	statusSeq int
	err       error

	width  int
	height int
	ready  bool
}

// NewApp creates an App over cat. Saves go through mgr; copies through w.
func NewApp(cat *prompt.Catalog, mgr *saved.Manager, w clip.Writer, initial selection.State) App {
	search := textinput.New()
	search.Placeholder = "Search title, description, content, tags"
	search.Prompt = "/ "
	search.CharLimit = 100
	search.SetValue(initial.Search)

	a := App{
		catalog: cat,
		mgr:     mgr,
		clip:    w,
		state:   initial,
		search:  search,
	}
	a.refresh()
	return a
}

// Init initializes the App.
func (a App) Init() tea.Cmd {
	return nil
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.searching {
			return a.handleSearchKey(msg)
		}
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.search.Width = max(msg.Width-6, 10)
		a.ready = true
		a.clampCursor()
		return a, nil

	case SaveToggled:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		// The saved filter may drop or add the row.
		a.refresh()
		if msg.Saved {
			return a.setStatus("Saved")
		}
		return a.setStatus("Removed from saved")

	case Copied:
		if msg.Err != nil {
			a.err = msg.Err
			return a, nil
		}
		return a.setStatus("Copied!")

	case statusExpired:
		if msg.seq == a.statusSeq {
			a.status = ""
		}
		return a, nil
	}

	return a, nil
}

// handleKeyMsg processes keyboard input outside the search box.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.err != nil {
		a.err = nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "esc":
		a.detail = false
		return a, nil

	case "enter":
		if len(a.items) > 0 {
			a.detail = true
		}
		return a, nil

	case " ", "space":
		if item, ok := a.current(); ok {
			return a, a.toggleSave(item.ID)
		}
		return a, nil

	case "c":
		if item, ok := a.current(); ok {
			return a, a.copyContent(item.ID)
		}
		return a, nil
	}

	if a.detail {
		return a, nil
	}

	switch msg.String() {
	case "j", "down":
		if a.cursor < len(a.items)-1 {
			a.cursor++
		}
		a.clampCursor()
		return a, nil

	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
		a.clampCursor()
		return a, nil

	case "g", "home":
		a.cursor = 0
		a.clampCursor()
		return a, nil

	case "G", "end":
		if len(a.items) > 0 {
			a.cursor = len(a.items) - 1
		}
		a.clampCursor()
		return a, nil

	case "/":
		a.searching = true
		a.prevTerm = a.state.Search
		a.search.SetValue(a.state.Search)
		a.search.CursorEnd()
		return a, a.search.Focus()

	case "r":
		a.state.Role = nextRole(a.state.Role)
		a.refresh()
		return a, nil

	case "p":
		a.state.Purpose = nextPurpose(a.state.Purpose)
		a.refresh()
		return a, nil

	case "1", "2", "3":
		f := selection.SpecialFilters[msg.String()[0]-'1']
		a.state = a.state.ToggleSpecial(f)
		a.refresh()
		return a, nil

	case "s":
		if a.state.Sort == selection.SortRecency {
			a.state.Sort = selection.SortPopularity
		} else {
			a.state.Sort = selection.SortRecency
		}
		a.refresh()
		return a, nil

	case "x":
		a.state = selection.State{Sort: a.state.Sort}
		a.search.SetValue("")
		a.refresh()
		return a, nil
	}

	return a, nil
}

// handleSearchKey routes keys to the search box until enter or esc. The list
// follows the box on every keystroke.
func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "enter":
		a.searching = false
		a.search.Blur()
		return a, nil

	case "esc":
		a.searching = false
		a.search.Blur()
		a.search.SetValue(a.prevTerm)
		if a.state.Search != a.prevTerm {
			a.state.Search = a.prevTerm
			a.refresh()
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	if v := a.search.Value(); v != a.state.Search {
		a.state.Search = v
		a.refresh()
	}
	return a, cmd
}

// refresh recomputes the visible list from the catalog and saved set and
// keeps the cursor on the same prompt when it is still listed.
func (a *App) refresh() {
	var currentID int
	if item, ok := a.current(); ok {
		currentID = item.ID
	}

	set := a.mgr.Snapshot()
	selected := selection.Select(a.catalog.Items(), a.state, set)
	a.items = make([]ops.ItemView, len(selected))
	for i, item := range selected {
		a.items[i] = ops.NewItemView(item, set)
	}

	a.cursor = 0
	for i, item := range a.items {
		if item.ID == currentID {
			a.cursor = i
			break
		}
	}
	if len(a.items) == 0 {
		a.detail = false
	}
	a.clampCursor()
}

// clampCursor keeps the cursor in range and inside the scroll window.
func (a *App) clampCursor() {
	if a.cursor >= len(a.items) {
		a.cursor = len(a.items) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
	rows := a.listRows()
	if a.cursor < a.offset {
		a.offset = a.cursor
	}
	if rows > 0 && a.cursor >= a.offset+rows {
		a.offset = a.cursor - rows + 1
	}
}

func (a App) current() (ops.ItemView, bool) {
	if a.cursor < 0 || a.cursor >= len(a.items) {
		return ops.ItemView{}, false
	}
	return a.items[a.cursor], true
}

func (a App) setStatus(s string) (tea.Model, tea.Cmd) {
	a.status = s
	a.statusSeq++
	seq := a.statusSeq
	return a, tea.Tick(StatusDuration, func(time.Time) tea.Msg {
		return statusExpired{seq: seq}
	})
}

func (a App) toggleSave(id int) tea.Cmd {
	cat, mgr := a.catalog, a.mgr
	return func() tea.Msg {
		out, err := ops.ToggleSave(context.Background(), cat, mgr, ops.ToggleSaveInput{ID: id})
		if err != nil {
			return SaveToggled{ID: id, Err: err}
		}
		return SaveToggled{ID: id, Saved: out.Saved}
	}
}

func (a App) copyContent(id int) tea.Cmd {
	cat, w := a.catalog, a.clip
	return func() tea.Msg {
		out, err := ops.Copy(context.Background(), cat, w, ops.CopyInput{ID: id})
		if err != nil {
			return Copied{ID: id, Err: err}
		}
		return Copied{ID: id, Title: out.Title}
	}
}

func nextRole(r prompt.Role) prompt.Role {
	if r == "" {
		return prompt.Roles[0]
	}
	for i, role := range prompt.Roles {
		if role == r && i+1 < len(prompt.Roles) {
			return prompt.Roles[i+1]
		}
	}
	return ""
}

func nextPurpose(p prompt.Purpose) prompt.Purpose {
	if p == "" {
		return prompt.Purposes[0]
	}
	for i, purpose := range prompt.Purposes {
		if purpose == p && i+1 < len(prompt.Purposes) {
			return prompt.Purposes[i+1]
		}
	}
	return ""
}

// State returns the current selection state (for testing).
func (a App) State() selection.State {
	return a.state
}

// Items returns the visible rows (for testing).
func (a App) Items() []ops.ItemView {
	return a.items
}

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int {
	return a.cursor
}

// Run starts the browser on the terminal's alternate screen.
func Run(cat *prompt.Catalog, mgr *saved.Manager, w clip.Writer, initial selection.State) error {
	p := tea.NewProgram(NewApp(cat, mgr, w, initial), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
