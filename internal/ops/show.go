package ops

import (
	"context"

	"github.com/hpungsan/shelf/internal/prompt"
	"github.com/hpungsan/shelf/internal/saved"
)

// ShowInput identifies the prompt to show.
type ShowInput struct {
	ID int `json:"id"`
}

// ShowOutput is the full prompt plus viewer state.
type ShowOutput struct {
	prompt.Item
	Saved        bool     `json:"saved"`
	DisplaySaves int      `json:"display_saves"`
	Placeholders []string `json:"placeholders"`
}

// Show returns one prompt with its content and placeholders.
func Show(ctx context.Context, cat *prompt.Catalog, set saved.Set, input ShowInput) (*ShowOutput, error) {
	if err := checkContext(ctx, "show"); err != nil {
		return nil, err
	}
	item, err := lookup(cat, input.ID)
	if err != nil {
		return nil, err
	}

	isSaved := set.Contains(item.ID)
	return &ShowOutput{
		Item:         item,
		Saved:        isSaved,
		DisplaySaves: prompt.DisplaySaves(item, isSaved),
		Placeholders: prompt.Placeholders(item.Content),
	}, nil
}
