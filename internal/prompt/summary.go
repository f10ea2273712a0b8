package prompt

import "time"

// Summary represents a prompt's metadata without the full content.
// Used for browse operations to keep listings small.
type Summary struct {
	ID                int       `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	UsageInstructions string    `json:"usage_instructions"`
	RoleCategory      Role      `json:"role_category"`
	PurposeCategory   Purpose   `json:"purpose_category"`
	Tags              []string  `json:"tags,omitempty"`
	Saves             int       `json:"saves"`
	IsEditorsPick     bool      `json:"is_editors_pick"`
	IsWeeklyHot       bool      `json:"is_weekly_hot"`
	CreatedAt         time.Time `json:"created_at"`
}

// ToSummary converts an Item to a Summary by stripping the text bodies.
func (i Item) ToSummary() Summary {
	return Summary{
		ID:                i.ID,
		Title:             i.Title,
		Description:       i.Description,
		UsageInstructions: i.UsageInstructions,
		RoleCategory:      i.RoleCategory,
		PurposeCategory:   i.PurposeCategory,
		Tags:              i.Tags,
		Saves:             i.Saves,
		IsEditorsPick:     i.IsEditorsPick,
		IsWeeklyHot:       i.IsWeeklyHot,
		CreatedAt:         i.CreatedAt,
	}
}
