package ops

import (
	"context"
	"unicode/utf8"

	"github.com/hpungsan/shelf/internal/clip"
	"github.com/hpungsan/shelf/internal/errors"
	"github.com/hpungsan/shelf/internal/prompt"
)

// CopyInput identifies the prompt whose content is copied.
type CopyInput struct {
	ID int `json:"id"`
}

// CopyOutput reports what was copied.
type CopyOutput struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Chars int    `json:"chars"`
}

// Copy writes a prompt's content to the clipboard.
func Copy(ctx context.Context, cat *prompt.Catalog, w clip.Writer, input CopyInput) (*CopyOutput, error) {
	if err := checkContext(ctx, "copy"); err != nil {
		return nil, err
	}
	item, err := lookup(cat, input.ID)
	if err != nil {
		return nil, err
	}

	if err := w.WriteAll(item.Content); err != nil {
		return nil, errors.As(err)
	}
	return &CopyOutput{
		ID:    item.ID,
		Title: item.Title,
		Chars: utf8.RuneCountInString(item.Content),
	}, nil
}
