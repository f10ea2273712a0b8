package ops

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/shelf/internal/clip"
	"github.com/hpungsan/shelf/internal/errors"
	"github.com/hpungsan/shelf/internal/prompt"
	"github.com/hpungsan/shelf/internal/saved"
	"github.com/hpungsan/shelf/internal/selection"
)

func testCatalog(t *testing.T) *prompt.Catalog {
	t.Helper()
	day := func(s string) time.Time {
		d, err := prompt.ParseDate(s)
		require.NoError(t, err)
		return d
	}
	cat, err := prompt.NewCatalog([]prompt.Item{
		{ID: 1, Title: "Code Review Helper", Description: "Reviews diffs", Content: "Review [diff] for [language]",
			RoleCategory: prompt.RoleEngineer, PurposeCategory: prompt.PurposeCodingAssist,
			Tags: []string{"quality"}, Saves: 10, IsEditorsPick: true, CreatedAt: day("2024-01-01")},
		{ID: 2, Title: "Cold Outreach", Description: "Prospecting email", Content: "Write to [name]",
			RoleCategory: prompt.RoleSales, PurposeCategory: prompt.PurposeCopywriting,
			Saves: 20, IsWeeklyHot: true, CreatedAt: day("2024-06-01")},
		{ID: 3, Title: "Test Generator", Description: "Unit tests", Content: "Generate tests",
			RoleCategory: prompt.RoleEngineer, PurposeCategory: prompt.PurposeCodingAssist,
			Saves: 15, CreatedAt: day("2024-03-01")},
	})
	require.NoError(t, err)
	return cat
}

func viewIDs(views []ItemView) []int {
	out := make([]int, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}

func TestBrowse_Defaults(t *testing.T) {
	out, err := Browse(context.Background(), testCatalog(t), saved.New(), BrowseInput{})
	require.NoError(t, err)

	assert.Equal(t, []int{2, 3, 1}, viewIDs(out.Items))
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, selection.SortPopularity, out.Sort)
	assert.Equal(t, "All prompts", out.Heading)
}

func TestBrowse_FiltersAndHeading(t *testing.T) {
	cat := testCatalog(t)

	out, err := Browse(context.Background(), cat, saved.New(), BrowseInput{Role: "Engineer", Sort: "latest"})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1}, viewIDs(out.Items))
	assert.Equal(t, "Engineer", out.Heading)
	assert.Equal(t, prompt.RoleEngineer, out.Filters.Role)

	out, err = Browse(context.Background(), cat, saved.New(), BrowseInput{Special: "editors-pick", Search: "REVIEW"})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, viewIDs(out.Items))
	assert.Equal(t, "Editors' picks", out.Heading)
}

func TestBrowse_SavedViewAndDisplayCounter(t *testing.T) {
	out, err := Browse(context.Background(), testCatalog(t), saved.New(1, 99), BrowseInput{Special: "saved"})
	require.NoError(t, err)

	require.Len(t, out.Items, 1)
	assert.True(t, out.Items[0].Saved)
	assert.Equal(t, 10, out.Items[0].Saves)
	assert.Equal(t, 11, out.Items[0].DisplaySaves)
}

func TestBrowse_SavingDoesNotReorder(t *testing.T) {
	cat := testCatalog(t)
	// Item 3 has 15 saves and item 1 has 10; saving 1 shows 11 but stays last.
	out, err := Browse(context.Background(), cat, saved.New(1), BrowseInput{})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 1}, viewIDs(out.Items))
}

func TestBrowse_InvalidInput(t *testing.T) {
	cat := testCatalog(t)
	for _, in := range []BrowseInput{
		{Role: "Pirate"},
		{Purpose: "Plunder"},
		{Special: "trending"},
		{Sort: "oldest"},
	} {
		_, err := Browse(context.Background(), cat, saved.New(), in)
		assert.True(t, errors.Is(err, errors.ErrInvalidRequest), "%+v", in)
	}
}

func TestBrowse_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Browse(ctx, testCatalog(t), saved.New(), BrowseInput{})
	assert.True(t, errors.Is(err, errors.ErrCancelled))
}

func TestShow(t *testing.T) {
	cat := testCatalog(t)

	out, err := Show(context.Background(), cat, saved.New(1), ShowInput{ID: 1})
	require.NoError(t, err)
	assert.Equal(t, "Review [diff] for [language]", out.Content)
	assert.True(t, out.Saved)
	assert.Equal(t, 11, out.DisplaySaves)
	assert.Equal(t, []string{"diff", "language"}, out.Placeholders)

	_, err = Show(context.Background(), cat, saved.New(), ShowInput{ID: 42})
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	_, err = Show(context.Background(), cat, saved.New(), ShowInput{ID: 0})
	assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestToggleSave(t *testing.T) {
	ctx := context.Background()
	cat := testCatalog(t)
	mgr := saved.NewManager(saved.New())

	out, err := ToggleSave(ctx, cat, mgr, ToggleSaveInput{ID: 2})
	require.NoError(t, err)
	assert.Equal(t, &ToggleSaveOutput{ID: 2, Saved: true, Known: true, DisplaySaves: 21}, out)

	out, err = ToggleSave(ctx, cat, mgr, ToggleSaveInput{ID: 2})
	require.NoError(t, err)
	assert.False(t, out.Saved)
	assert.Equal(t, 20, out.DisplaySaves)
}

func TestToggleSave_UnknownIDIsAccepted(t *testing.T) {
	ctx := context.Background()
	mgr := saved.NewManager(saved.New())

	out, err := ToggleSave(ctx, testCatalog(t), mgr, ToggleSaveInput{ID: 77})
	require.NoError(t, err)
	assert.True(t, out.Saved)
	assert.False(t, out.Known)
	assert.True(t, mgr.Snapshot().Contains(77))
}

func TestToggleSave_AnyIntegerID(t *testing.T) {
	ctx := context.Background()
	mgr := saved.NewManager(saved.New())

	for _, id := range []int{0, -3, 99999} {
		out, err := ToggleSave(ctx, testCatalog(t), mgr, ToggleSaveInput{ID: id})
		require.NoError(t, err, "id %d", id)
		assert.True(t, out.Saved)
		assert.False(t, out.Known)
		assert.Zero(t, out.DisplaySaves)
	}
	assert.Equal(t, []int{-3, 0, 99999}, mgr.Snapshot().IDs())

	out, err := ToggleSave(ctx, testCatalog(t), mgr, ToggleSaveInput{ID: 0})
	require.NoError(t, err)
	assert.False(t, out.Saved)
	assert.Equal(t, []int{-3, 99999}, mgr.Snapshot().IDs())
}

func TestListSaved(t *testing.T) {
	out, err := ListSaved(context.Background(), testCatalog(t), saved.New(1, 2, 50), ListSavedInput{Sort: "latest"})
	require.NoError(t, err)

	assert.Equal(t, []int{2, 1}, viewIDs(out.Items))
	assert.Equal(t, []int{50}, out.Stale)
	assert.Equal(t, 2, out.Total)

	out, err = ListSaved(context.Background(), testCatalog(t), saved.New(), ListSavedInput{})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.NotNil(t, out.Stale)
}

func TestCopy(t *testing.T) {
	var board clip.Memory

	out, err := Copy(context.Background(), testCatalog(t), &board, CopyInput{ID: 2})
	require.NoError(t, err)
	assert.Equal(t, "Write to [name]", board.Text())
	assert.Equal(t, 15, out.Chars)
	assert.Equal(t, "Cold Outreach", out.Title)

	_, err = Copy(context.Background(), testCatalog(t), &board, CopyInput{ID: 9})
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.Equal(t, 1, board.Writes())
}

func TestCopy_ClipboardUnavailable(t *testing.T) {
	board := &clip.Memory{Err: errors.NewClipboardUnavailable(nil)}

	_, err := Copy(context.Background(), testCatalog(t), board, CopyInput{ID: 1})
	assert.True(t, errors.Is(err, errors.ErrClipboardUnavailable))
}

func TestCategories(t *testing.T) {
	out, err := Categories(context.Background(), testCatalog(t))
	require.NoError(t, err)

	require.Len(t, out.Roles, len(prompt.Roles))
	require.Len(t, out.Purposes, len(prompt.Purposes))
	assert.Equal(t, string(prompt.Roles[0]), out.Roles[0].Name)

	counts := map[string]int{}
	for _, c := range out.Roles {
		counts[c.Name] = c.Count
	}
	assert.Equal(t, 2, counts["Engineer"])
	assert.Equal(t, 1, counts["Sales"])
	assert.Equal(t, 0, counts["Marketing"])
	assert.Equal(t, 1, out.EditorsPicks)
	assert.Equal(t, 1, out.WeeklyHot)
	assert.Equal(t, 3, out.Total)
}
