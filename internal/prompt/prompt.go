package prompt

import "time"

// Role is the job-role category a prompt is written for.
type Role string

const (
	RoleMarketing       Role = "Marketing"
	RoleSales           Role = "Sales"
	RoleEngineer        Role = "Engineer"
	RoleProductManager  Role = "Product Manager"
	RoleHumanResources  Role = "Human Resources"
	RoleManagement      Role = "Management"
	RoleCustomerSuccess Role = "Customer Success"
	RoleGeneral         Role = "General"
)

// Roles lists every role in display order.
var Roles = []Role{
	RoleMarketing,
	RoleSales,
	RoleEngineer,
	RoleProductManager,
	RoleHumanResources,
	RoleManagement,
	RoleCustomerSuccess,
	RoleGeneral,
}

// Purpose is the task category a prompt serves.
type Purpose string

const (
	PurposeCopywriting   Purpose = "Copywriting"
	PurposeDataAnalysis  Purpose = "Data Analysis"
	PurposeCodingAssist  Purpose = "Coding Assist"
	PurposeStrategy      Purpose = "Strategy"
	PurposeBrainstorming Purpose = "Brainstorming"
	PurposeSummarization Purpose = "Summarization"
	PurposeTranslation   Purpose = "Translation"
)

// Purposes lists every purpose in display order.
var Purposes = []Purpose{
	PurposeCopywriting,
	PurposeDataAnalysis,
	PurposeCodingAssist,
	PurposeStrategy,
	PurposeBrainstorming,
	PurposeSummarization,
	PurposeTranslation,
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Valid reports whether p is one of the known purposes.
func (p Purpose) Valid() bool {
	for _, known := range Purposes {
		if p == known {
			return true
		}
	}
	return false
}

// Item is a single catalog prompt. Items are immutable once loaded;
// the viewer's saved state lives in a saved.Set, never here.
type Item struct {
	// ID uniquely identifies the prompt within the catalog
	ID int `json:"id"`

	// Title is the short display name
	Title string `json:"title"`

	// Description summarizes what the prompt does
	Description string `json:"description"`

	// Content is the prompt text copied to the clipboard
	Content string `json:"content"`

	// Variables names the [placeholders] the content expects
	Variables []string `json:"variables,omitempty"`

	// UsageInstructions explains when to use the prompt (markdown)
	UsageInstructions string `json:"usage_instructions"`

	// ExampleOutput shows a sample response (markdown)
	ExampleOutput string `json:"example_output"`

	// SourceURL links to where the prompt came from
	SourceURL string `json:"source_url,omitempty"`

	RoleCategory    Role    `json:"role_category"`
	PurposeCategory Purpose `json:"purpose_category"`

	// Tags are free-text labels kept in display order
	Tags []string `json:"tags,omitempty"`

	// Saves is the catalog popularity counter, independent of any viewer
	Saves int `json:"saves"`

	IsEditorsPick bool `json:"is_editors_pick"`
	IsWeeklyHot   bool `json:"is_weekly_hot"`

	// CreatedAt orders prompts by recency (day resolution is enough)
	CreatedAt time.Time `json:"created_at"`
}

// DisplaySaves returns the counter shown to a viewer: the catalog count plus
// one when the viewer has saved the item. Sorting always uses Saves.
func DisplaySaves(item Item, isSaved bool) int {
	if isSaved {
		return item.Saves + 1
	}
	return item.Saves
}
