package ops

import (
	"context"

	"github.com/hpungsan/shelf/internal/prompt"
	"github.com/hpungsan/shelf/internal/saved"
	"github.com/hpungsan/shelf/internal/selection"
)

// BrowseInput holds the wire form of a selection state.
// Empty fields mean "no filter"; an empty Sort means popularity.
type BrowseInput struct {
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose,omitempty"`
	Special string `json:"special,omitempty"`
	Search  string `json:"search,omitempty"`
	Sort    string `json:"sort,omitempty"`
}

// Filters echoes the parsed state back to the caller.
type Filters struct {
	Role    prompt.Role             `json:"role,omitempty"`
	Purpose prompt.Purpose          `json:"purpose,omitempty"`
	Special selection.SpecialFilter `json:"special,omitempty"`
	Search  string                  `json:"search,omitempty"`
}

// BrowseOutput contains the ordered selection.
type BrowseOutput struct {
	Heading string            `json:"heading"`
	Sort    selection.SortKey `json:"sort"`
	Filters Filters           `json:"filters"`
	Items   []ItemView        `json:"items"`
	Total   int               `json:"total"`
}

// ParseState converts a BrowseInput into a selection.State.
func ParseState(input BrowseInput) (selection.State, error) {
	role, err := selection.ParseRole(input.Role)
	if err != nil {
		return selection.State{}, err
	}
	purpose, err := selection.ParsePurpose(input.Purpose)
	if err != nil {
		return selection.State{}, err
	}
	special, err := selection.ParseSpecial(input.Special)
	if err != nil {
		return selection.State{}, err
	}
	sort, err := selection.ParseSort(input.Sort)
	if err != nil {
		return selection.State{}, err
	}
	return selection.State{
		Role:    role,
		Purpose: purpose,
		Special: special,
		Search:  input.Search,
		Sort:    sort,
	}, nil
}

// Browse runs the selection engine over the catalog for one viewer.
func Browse(ctx context.Context, cat *prompt.Catalog, set saved.Set, input BrowseInput) (*BrowseOutput, error) {
	if err := checkContext(ctx, "browse"); err != nil {
		return nil, err
	}
	state, err := ParseState(input)
	if err != nil {
		return nil, err
	}

	items := selection.Select(cat.Items(), state, set)
	return &BrowseOutput{
		Heading: state.Heading(),
		Sort:    state.Sort,
		Filters: Filters{
			Role:    state.Role,
			Purpose: state.Purpose,
			Special: state.Special,
			Search:  state.Search,
		},
		Items: viewsOf(items, set),
		Total: len(items),
	}, nil
}
