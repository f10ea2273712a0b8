package ops

import (
	"context"

	"github.com/hpungsan/shelf/internal/prompt"
	"github.com/hpungsan/shelf/internal/saved"
	"github.com/hpungsan/shelf/internal/selection"
)

// ListSavedInput selects the order of the saved list.
type ListSavedInput struct {
	Sort string `json:"sort,omitempty"`
}

// ListSavedOutput contains the viewer's saved prompts.
// Stale lists saved ids that match no catalog prompt.
type ListSavedOutput struct {
	Items []ItemView `json:"items"`
	Stale []int      `json:"stale"`
	Total int        `json:"total"`
}

// ListSaved returns the saved prompts in the requested order.
func ListSaved(ctx context.Context, cat *prompt.Catalog, set saved.Set, input ListSavedInput) (*ListSavedOutput, error) {
	if err := checkContext(ctx, "list saved"); err != nil {
		return nil, err
	}
	sort, err := selection.ParseSort(input.Sort)
	if err != nil {
		return nil, err
	}

	items := selection.Select(cat.Items(), selection.State{Special: selection.SpecialSaved, Sort: sort}, set)

	stale := []int{}
	for _, id := range set.IDs() {
		if _, ok := cat.Get(id); !ok {
			stale = append(stale, id)
		}
	}

	return &ListSavedOutput{
		Items: viewsOf(items, set),
		Stale: stale,
		Total: len(items),
	}, nil
}
