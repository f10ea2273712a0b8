// Package ops implements shelf operations shared by the CLI, TUI, web UI and
// MCP server. Each operation validates its input, works on explicit
// dependencies and returns *errors.ShelfError on failure.
package ops

import (
	"context"

	"github.com/hpungsan/shelf/internal/errors"
	"github.com/hpungsan/shelf/internal/prompt"
	"github.com/hpungsan/shelf/internal/saved"
)

// ItemView is a prompt as seen by one viewer: its summary plus the viewer's
// saved flag and the display counter derived from it.
type ItemView struct {
	prompt.Summary
	Saved        bool `json:"saved"`
	DisplaySaves int  `json:"display_saves"`
}

// NewItemView builds the view of item for a viewer holding set.
func NewItemView(item prompt.Item, set saved.Set) ItemView {
	isSaved := set.Contains(item.ID)
	return ItemView{
		Summary:      item.ToSummary(),
		Saved:        isSaved,
		DisplaySaves: prompt.DisplaySaves(item, isSaved),
	}
}

func viewsOf(items []prompt.Item, set saved.Set) []ItemView {
	views := make([]ItemView, len(items))
	for i, item := range items {
		views[i] = NewItemView(item, set)
	}
	return views
}

// checkContext maps a done context to CANCELLED.
func checkContext(ctx context.Context, op string) error {
	if ctx.Err() != nil {
		return errors.NewCancelled(op)
	}
	return nil
}

func lookup(cat *prompt.Catalog, id int) (prompt.Item, error) {
	if id <= 0 {
		return prompt.Item{}, errors.NewInvalidRequest("id must be a positive integer")
	}
	item, ok := cat.Get(id)
	if !ok {
		return prompt.Item{}, errors.NewNotFound(id)
	}
	return item, nil
}
