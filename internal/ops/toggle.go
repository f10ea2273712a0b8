package ops

import (
	"context"

	"github.com/hpungsan/shelf/internal/errors"
	"github.com/hpungsan/shelf/internal/prompt"
	"github.com/hpungsan/shelf/internal/saved"
)

// ToggleSaveInput identifies the prompt to save or unsave.
type ToggleSaveInput struct {
	ID int `json:"id"`
}

// ToggleSaveOutput reports the new membership.
// Known is false when the id is not in the catalog; the toggle still applies.
type ToggleSaveOutput struct {
	ID           int  `json:"id"`
	Saved        bool `json:"saved"`
	Known        bool `json:"known"`
	DisplaySaves int  `json:"display_saves"`
}

// ToggleSave flips the saved state of a prompt for the manager's viewer.
// Any integer id is accepted, including ids absent from the catalog.
func ToggleSave(ctx context.Context, cat *prompt.Catalog, mgr *saved.Manager, input ToggleSaveInput) (*ToggleSaveOutput, error) {
	if err := checkContext(ctx, "toggle"); err != nil {
		return nil, err
	}
	nowSaved, err := mgr.Toggle(ctx, input.ID)
	if err != nil {
		return nil, errors.As(err)
	}

	out := &ToggleSaveOutput{ID: input.ID, Saved: nowSaved}
	if item, ok := cat.Get(input.ID); ok {
		out.Known = true
		out.DisplaySaves = prompt.DisplaySaves(item, nowSaved)
	}
	return out, nil
}
