package ops

import (
	"context"

	"github.com/hpungsan/shelf/internal/prompt"
)

// CategoryCount is a category name with the number of prompts in it.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CategoriesOutput lists every role and purpose in canonical order,
// including those with no prompts.
type CategoriesOutput struct {
	Roles        []CategoryCount `json:"roles"`
	Purposes     []CategoryCount `json:"purposes"`
	EditorsPicks int             `json:"editors_picks"`
	WeeklyHot    int             `json:"weekly_hot"`
	Total        int             `json:"total"`
}

// Categories counts catalog prompts per category.
func Categories(ctx context.Context, cat *prompt.Catalog) (*CategoriesOutput, error) {
	if err := checkContext(ctx, "categories"); err != nil {
		return nil, err
	}

	roleCounts := make(map[prompt.Role]int)
	purposeCounts := make(map[prompt.Purpose]int)
	out := &CategoriesOutput{}
	for _, item := range cat.Items() {
		roleCounts[item.RoleCategory]++
		purposeCounts[item.PurposeCategory]++
		if item.IsEditorsPick {
			out.EditorsPicks++
		}
		if item.IsWeeklyHot {
			out.WeeklyHot++
		}
		out.Total++
	}

	out.Roles = make([]CategoryCount, len(prompt.Roles))
	for i, r := range prompt.Roles {
		out.Roles[i] = CategoryCount{Name: string(r), Count: roleCounts[r]}
	}
	out.Purposes = make([]CategoryCount, len(prompt.Purposes))
	for i, p := range prompt.Purposes {
		out.Purposes[i] = CategoryCount{Name: string(p), Count: purposeCounts[p]}
	}
	return out, nil
}
