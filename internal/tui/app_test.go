package tui

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hpungsan/shelf/internal/clip"
	"github.com/hpungsan/shelf/internal/prompt"
	"github.com/hpungsan/shelf/internal/saved"
	"github.com/hpungsan/shelf/internal/selection"
)

func testCatalog(t *testing.T) *prompt.Catalog {
	t.Helper()
	cat, err := prompt.NewCatalog([]prompt.Item{
		{ID: 1, Title: "Code Review Helper", Description: "Reviews diffs", Content: "Review [diff]",
			RoleCategory: prompt.RoleEngineer, PurposeCategory: prompt.PurposeCodingAssist,
			Saves: 10, IsEditorsPick: true, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Title: "Cold Outreach", Description: "Prospecting email", Content: "Write to [name]",
			RoleCategory: prompt.RoleSales, PurposeCategory: prompt.PurposeCopywriting,
			Saves: 20, IsWeeklyHot: true, CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 3, Title: "Test Generator", Description: "Unit tests", Content: "Generate tests",
			RoleCategory: prompt.RoleEngineer, PurposeCategory: prompt.PurposeCodingAssist,
			Saves: 5, CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return cat
}

func newTestApp(t *testing.T) (App, *saved.Manager, *clip.Memory) {
	t.Helper()
	mgr := saved.NewManager(saved.New())
	mem := &clip.Memory{}
	app := NewApp(testCatalog(t), mgr, mem, selection.State{})
	model, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return model.(App), mgr, mem
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends one key and runs any resulting command's message back through
// Update, the way the Bubble Tea runtime would. Tick commands are skipped.
func press(t *testing.T, a App, k string) App {
	t.Helper()
	model, cmd := a.Update(key(k))
	a = model.(App)
	if cmd == nil {
		return a
	}
	switch msg := runCmd(cmd).(type) {
	case SaveToggled, Copied:
		model, _ = a.Update(msg)
		a = model.(App)
	}
	return a
}

func runCmd(cmd tea.Cmd) tea.Msg {
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

func ids(a App) []int {
	out := make([]int, len(a.Items()))
	for i, item := range a.Items() {
		out[i] = item.ID
	}
	return out
}

func assertIDs(t *testing.T, a App, want ...int) {
	t.Helper()
	got := ids(a)
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

func TestNewApp_InitialSelection(t *testing.T) {
	a, _, _ := newTestApp(t)
	assertIDs(t, a, 2, 1, 3)
	if a.Init() != nil {
		t.Error("Init should not return a command")
	}
}

func TestApp_Navigation(t *testing.T) {
	a, _, _ := newTestApp(t)

	a = press(t, a, "j")
	if a.Cursor() != 1 {
		t.Errorf("j should move cursor to 1, got %d", a.Cursor())
	}
	a = press(t, a, "G")
	if a.Cursor() != 2 {
		t.Errorf("G should move cursor to 2, got %d", a.Cursor())
	}
	a = press(t, a, "down")
	if a.Cursor() != 2 {
		t.Errorf("down at bottom should keep cursor at 2, got %d", a.Cursor())
	}
	a = press(t, a, "g")
	a = press(t, a, "k")
	if a.Cursor() != 0 {
		t.Errorf("k at top should keep cursor at 0, got %d", a.Cursor())
	}
}

func TestApp_CycleRole(t *testing.T) {
	a, _, _ := newTestApp(t)

	a = press(t, a, "r")
	if a.State().Role != prompt.Roles[0] {
		t.Fatalf("role = %q, want %q", a.State().Role, prompt.Roles[0])
	}
	for a.State().Role != prompt.RoleEngineer {
		a = press(t, a, "r")
	}
	assertIDs(t, a, 1, 3)

	// Cycling past the last role returns to all roles.
	for i := 0; i < len(prompt.Roles) && a.State().Role != ""; i++ {
		a = press(t, a, "r")
	}
	if a.State().Role != "" {
		t.Errorf("role cycle should wrap to all, got %q", a.State().Role)
	}
	assertIDs(t, a, 2, 1, 3)
}

func TestApp_CyclePurpose(t *testing.T) {
	a, _, _ := newTestApp(t)
	for a.State().Purpose != prompt.PurposeCopywriting {
		a = press(t, a, "p")
	}
	assertIDs(t, a, 2)
}

func TestApp_SpecialFilters(t *testing.T) {
	a, _, _ := newTestApp(t)

	a = press(t, a, "2")
	if a.State().Special != selection.SpecialEditorsPick {
		t.Fatalf("special = %q, want editors-pick", a.State().Special)
	}
	assertIDs(t, a, 1)

	a = press(t, a, "3")
	if a.State().Special != selection.SpecialWeeklyHot {
		t.Fatalf("special = %q, want weekly-hot", a.State().Special)
	}
	assertIDs(t, a, 2)

	a = press(t, a, "3")
	if a.State().Special != selection.SpecialNone {
		t.Fatalf("pressing the active filter should clear it, got %q", a.State().Special)
	}
	assertIDs(t, a, 2, 1, 3)
}

func TestApp_SortToggle(t *testing.T) {
	a, _, _ := newTestApp(t)

	a = press(t, a, "s")
	if a.State().Sort != selection.SortRecency {
		t.Fatalf("sort = %q, want latest", a.State().Sort)
	}
	assertIDs(t, a, 2, 3, 1)

	a = press(t, a, "s")
	assertIDs(t, a, 2, 1, 3)
}

func TestApp_CursorFollowsItemAcrossResort(t *testing.T) {
	a, _, _ := newTestApp(t)
	a = press(t, a, "G") // item 3
	a = press(t, a, "s")
	if item := a.Items()[a.Cursor()]; item.ID != 3 {
		t.Errorf("cursor on id %d, want 3", item.ID)
	}
}

func TestApp_Search(t *testing.T) {
	a, _, _ := newTestApp(t)

	a = press(t, a, "/")
	a = press(t, a, "R")
	// Each keystroke re-filters; "R" is typed, not a role cycle.
	if a.State().Role != "" || a.State().Search != "R" {
		t.Fatalf("unexpected state after one key: %+v", a.State())
	}
	for _, r := range "EVIEW" {
		a = press(t, a, string(r))
	}
	if a.State().Search != "REVIEW" {
		t.Fatalf("search = %q, want REVIEW", a.State().Search)
	}
	assertIDs(t, a, 1)

	a = press(t, a, "enter")
	if a.State().Search != "REVIEW" {
		t.Fatalf("search after enter = %q, want REVIEW", a.State().Search)
	}
	assertIDs(t, a, 1)

	// esc abandons an edit and restores the earlier list.
	a = press(t, a, "/")
	a = press(t, a, "x")
	if a.State().Search != "REVIEWx" {
		t.Fatalf("search while editing = %q, want REVIEWx", a.State().Search)
	}
	if len(a.Items()) != 0 {
		t.Errorf("expected no matches for REVIEWx, got %d", len(a.Items()))
	}
	a = press(t, a, "esc")
	if a.State().Search != "REVIEW" {
		t.Errorf("esc should restore the previous search, got %q", a.State().Search)
	}
	assertIDs(t, a, 1)
}

func TestApp_ToggleSave(t *testing.T) {
	a, mgr, _ := newTestApp(t)

	a = press(t, a, "space") // item 2
	if !mgr.Snapshot().Contains(2) {
		t.Fatal("expected item 2 to be saved")
	}
	if item := a.Items()[0]; !item.Saved || item.DisplaySaves != 21 {
		t.Errorf("row not refreshed: %+v", item)
	}
	// Popularity order ignores the viewer's own save.
	assertIDs(t, a, 2, 1, 3)

	a = press(t, a, "1")
	assertIDs(t, a, 2)

	// Unsaving under the saved filter removes the row.
	a = press(t, a, "space")
	assertIDs(t, a)
	if mgr.Snapshot().Len() != 0 {
		t.Error("expected empty saved set")
	}
	if !strings.Contains(a.View(), "No prompts match") {
		t.Error("expected empty-state message")
	}
}

func TestApp_Copy(t *testing.T) {
	a, _, mem := newTestApp(t)
	a = press(t, a, "j") // item 1

	model, cmd := a.Update(key("c"))
	a = model.(App)
	model, tick := a.Update(runCmd(cmd))
	a = model.(App)

	if mem.Text() != "Review [diff]" {
		t.Errorf("clipboard = %q", mem.Text())
	}
	if !strings.Contains(a.View(), "Copied!") {
		t.Error("expected Copied! confirmation")
	}
	if tick == nil {
		t.Fatal("expected a tick to clear the status")
	}

	// A stale expiry does not clear a newer status.
	model, _ = a.Update(statusExpired{seq: a.statusSeq - 1})
	a = model.(App)
	if a.status == "" {
		t.Error("stale expiry cleared the status")
	}
	model, _ = a.Update(statusExpired{seq: a.statusSeq})
	a = model.(App)
	if strings.Contains(a.View(), "Copied!") {
		t.Error("status should clear after expiry")
	}
}

func TestApp_CopyError(t *testing.T) {
	a, _, mem := newTestApp(t)
	mem.Err = fmt.Errorf("no clipboard")

	a = press(t, a, "c")
	if !strings.Contains(a.View(), "Error:") {
		t.Error("expected error bar")
	}
	a = press(t, a, "j")
	if strings.Contains(a.View(), "Error:") {
		t.Error("any key should dismiss the error")
	}
}

func TestApp_Detail(t *testing.T) {
	a, _, _ := newTestApp(t)
	a = press(t, a, "j") // item 1

	a = press(t, a, "enter")
	view := a.View()
	if !strings.Contains(view, "Reviews diffs") || !strings.Contains(view, "Fill in") {
		t.Errorf("detail view missing content:\n%s", view)
	}

	// List navigation is inert while the detail is open.
	a = press(t, a, "j")
	if a.Cursor() != 1 {
		t.Errorf("cursor moved in detail view: %d", a.Cursor())
	}

	a = press(t, a, "esc")
	if strings.Contains(a.View(), "Fill in") {
		t.Error("esc should close the detail view")
	}
}

func TestApp_Quit(t *testing.T) {
	a, _, _ := newTestApp(t)
	_, cmd := a.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestApp_ViewBeforeResize(t *testing.T) {
	a := NewApp(testCatalog(t), saved.NewManager(saved.New()), &clip.Memory{}, selection.State{})
	if a.View() != "Loading..." {
		t.Errorf("View = %q", a.View())
	}
}
