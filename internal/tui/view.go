package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/hpungsan/shelf/internal/ops"
	"github.com/hpungsan/shelf/internal/prompt"
)

// chrome is the number of lines used by heading, filters, search and status.
const chrome = 4

// listRows is the number of rows visible in the list view.
func (a App) listRows() int {
	if !a.ready {
		return 0
	}
	return max(a.height-chrome, 1)
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var b strings.Builder
	if a.detail {
		if item, ok := a.current(); ok {
			b.WriteString(a.renderDetail(item))
		}
	} else {
		b.WriteString(a.renderList())
	}
	b.WriteString("\n")
	b.WriteString(a.renderStatusBar())
	return b.String()
}

func (a App) renderList() string {
	var b strings.Builder
	b.WriteString(Heading.Render(a.state.Heading()))
	b.WriteString("\n")
	b.WriteString(FilterSummary.Render(a.filterSummary()))
	b.WriteString("\n")
	if a.searching {
		b.WriteString(SearchBar.Width(a.width).Render(a.search.View()))
		b.WriteString("\n")
	}

	if len(a.items) == 0 {
		b.WriteString(EmptyStyle.Render("No prompts match these filters."))
		return b.String()
	}

	end := min(a.offset+a.listRows(), len(a.items))
	for i := a.offset; i < end; i++ {
		b.WriteString(a.renderRow(a.items[i], i == a.cursor))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (a App) renderRow(item ops.ItemView, selected bool) string {
	mark := " "
	if item.Saved {
		mark = SavedMark.Render("★")
	}
	title := item.Title
	meta := fmt.Sprintf("%s · %s · %s saves", item.RoleCategory, item.PurposeCategory, humanize.Comma(int64(item.DisplaySaves)))

	style := NormalItem
	if selected {
		style = SelectedItem
	}
	row := fmt.Sprintf("%s %s  %s", mark, title, Meta.Render(meta))
	if a.width > 0 {
		style = style.MaxWidth(a.width)
	}
	return style.Render(row)
}

func (a App) filterSummary() string {
	role, purpose := "all roles", "all purposes"
	if a.state.Role != "" {
		role = string(a.state.Role)
	}
	if a.state.Purpose != "" {
		purpose = string(a.state.Purpose)
	}
	parts := []string{role, purpose, "sort: " + string(a.state.Sort)}
	if a.state.Sort == "" {
		parts[2] = "sort: popular"
	}
	if a.state.Special != "" {
		parts = append(parts, a.state.Special.Label())
	}
	if strings.TrimSpace(a.state.Search) != "" {
		parts = append(parts, fmt.Sprintf("search: %q", a.state.Search))
	}
	return fmt.Sprintf("%s · %d prompts", strings.Join(parts, " · "), len(a.items))
}

func (a App) renderDetail(view ops.ItemView) string {
	item, ok := a.catalog.Get(view.ID)
	if !ok {
		return ErrorStyle.Render(fmt.Sprintf("prompt %d is no longer in the catalog", view.ID))
	}

	var b strings.Builder
	title := Heading.Render(item.Title)
	if item.IsEditorsPick {
		title += Badge.Render("Editors' pick")
	}
	if item.IsWeeklyHot {
		title += Badge.Render("Hot")
	}
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(FilterSummary.Render(fmt.Sprintf("%s · %s · %s saves · added %s",
		item.RoleCategory, item.PurposeCategory,
		humanize.Comma(int64(view.DisplaySaves)), humanize.Time(item.CreatedAt))))
	b.WriteString("\n\n")
	b.WriteString(wrap(item.Description, a.width))
	b.WriteString("\n")

	b.WriteString(SectionTitle.Render("Prompt"))
	b.WriteString("\n")
	b.WriteString(wrap(highlight(item.Content), a.width))
	b.WriteString("\n")

	if names := prompt.Placeholders(item.Content); len(names) > 0 {
		b.WriteString(SectionTitle.Render("Fill in"))
		b.WriteString("\n")
		for _, n := range names {
			b.WriteString("  • [" + n + "]\n")
		}
	}
	if item.UsageInstructions != "" {
		b.WriteString(SectionTitle.Render("How to use"))
		b.WriteString("\n")
		b.WriteString(wrap(item.UsageInstructions, a.width))
		b.WriteString("\n")
	}
	if len(item.Tags) > 0 {
		b.WriteString(Meta.Render("#" + strings.Join(item.Tags, " #")))
		b.WriteString("\n")
	}
	return b.String()
}

// highlight styles each [placeholder] in content.
func highlight(content string) string {
	var b strings.Builder
	for _, seg := range prompt.Segments(content) {
		if seg.Placeholder {
			b.WriteString(Placeholder.Render(seg.Text))
		} else {
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

func wrap(s string, width int) string {
	if width <= 4 {
		return s
	}
	return lipgloss.NewStyle().Width(width - 2).PaddingLeft(1).Render(s)
}

func (a App) renderStatusBar() string {
	if a.err != nil {
		return ErrorStyle.Width(a.width).Render("Error: " + a.err.Error() + " (press any key to dismiss)")
	}
	if a.status != "" {
		return StatusMessage.Render(a.status)
	}

	var hints [][2]string
	if a.detail {
		hints = [][2]string{{"space", "save"}, {"c", "copy"}, {"esc", "back"}, {"q", "quit"}}
	} else {
		hints = [][2]string{
			{"/", "search"}, {"r", "role"}, {"p", "purpose"}, {"1-3", "saved/picks/hot"},
			{"s", "sort"}, {"space", "save"}, {"c", "copy"}, {"enter", "open"}, {"q", "quit"},
		}
	}
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = StatusBarKey.Render(h[0]) + " " + StatusBarText.Render(h[1])
	}
	bar := StatusBar
	if a.width > 0 {
		bar = bar.Width(a.width)
	}
	return bar.Render(strings.Join(parts, "  "))
}
