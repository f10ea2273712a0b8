package mcp

import "github.com/mark3labs/mcp-go/mcp"

const (
	roleDesc    = "Role category filter (e.g. Engineer, Sales). Omit or \"all\" for every role."
	purposeDesc = "Purpose category filter (e.g. Coding Assist, Copywriting). Omit or \"all\" for every purpose."
	sortDesc    = "Result order: popular (most saves first, default) or latest (newest first)"
)

var listToolDef = mcp.NewTool("prompt_list",
	mcp.WithDescription("List catalog prompts filtered by role, purpose, special filter and a case-insensitive search over title, description, content and tags. Returns summaries without prompt content."),
	mcp.WithString("role", mcp.Description(roleDesc)),
	mcp.WithString("purpose", mcp.Description(purposeDesc)),
	mcp.WithString("special", mcp.Description("Quick filter: saved, editors-pick or weekly-hot"),
		mcp.Enum("saved", "editors-pick", "weekly-hot")),
	mcp.WithString("search", mcp.Description("Search term; blank means no search")),
	mcp.WithString("sort", mcp.Description(sortDesc), mcp.Enum("popular", "latest")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var getToolDef = mcp.NewTool("prompt_get",
	mcp.WithDescription("Fetch one prompt with its full content, usage instructions, example output and [placeholders]."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Prompt id")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var categoriesToolDef = mcp.NewTool("prompt_categories",
	mcp.WithDescription("Count catalog prompts per role and purpose, plus editors' picks and weekly-hot totals."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var toggleToolDef = mcp.NewTool("saved_toggle",
	mcp.WithDescription("Save the prompt if it is not saved, otherwise unsave it. Returns the new state."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Prompt id")),
	mcp.WithReadOnlyHintAnnotation(false),
	mcp.WithIdempotentHintAnnotation(false),
)

var savedListToolDef = mcp.NewTool("saved_list",
	mcp.WithDescription("List saved prompts. Saved ids that no longer match a catalog prompt are reported as stale."),
	mcp.WithString("sort", mcp.Description(sortDesc), mcp.Enum("popular", "latest")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var exportToolDef = mcp.NewTool("saved_export",
	mcp.WithDescription("Write the saved set to a JSONL file. Defaults to ~/.shelf/exports/<profile>-<timestamp>.jsonl."),
	mcp.WithString("path", mcp.Description("Destination .jsonl path")),
)

var importToolDef = mcp.NewTool("saved_import",
	mcp.WithDescription("Read a saved-set export file. merge adds ids to the current set; replace makes the set exactly the file's ids."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Source .jsonl path")),
	mcp.WithString("mode", mcp.Description("merge (default) or replace"), mcp.Enum("merge", "replace")),
	mcp.WithDestructiveHintAnnotation(true),
)
