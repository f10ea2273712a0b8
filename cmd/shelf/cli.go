package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/hpungsan/shelf/internal/db"
	"github.com/hpungsan/shelf/internal/errors"
	"github.com/hpungsan/shelf/internal/logging"
	"github.com/hpungsan/shelf/internal/metrics"
	"github.com/hpungsan/shelf/internal/ops"
	"github.com/hpungsan/shelf/internal/tui"
	"github.com/hpungsan/shelf/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(e *env) *cli.App {
	app := &cli.App{
		Name:    "shelf",
		Usage:   "Browse, search and save ready-to-use AI prompts",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "profile", Aliases: []string{"P"}, Usage: "Saved-set profile (default from config)"},
		},
		Commands: []*cli.Command{
			listCmd(e),
			showCmd(e),
			saveCmd(e),
			savedCmd(e),
			copyCmd(e),
			categoriesCmd(e),
			profilesCmd(e),
			exportCmd(e),
			importCmd(e),
			browseCmd(e),
			serveCmd(e),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// selectionFlags are shared by list and browse.
func selectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "role", Aliases: []string{"r"}, Usage: "Role category (e.g. Engineer)"},
		&cli.StringFlag{Name: "purpose", Aliases: []string{"p"}, Usage: "Purpose category (e.g. \"Coding Assist\")"},
		&cli.StringFlag{Name: "special", Usage: "Quick filter: saved|editors-pick|weekly-hot"},
		&cli.StringFlag{Name: "search", Aliases: []string{"q"}, Usage: "Case-insensitive search term"},
		&cli.StringFlag{Name: "sort", Aliases: []string{"s"}, Usage: "popular|latest (default from config)"},
	}
}

func browseInput(c *cli.Context, e *env) ops.BrowseInput {
	input := ops.BrowseInput{
		Role:    c.String("role"),
		Purpose: c.String("purpose"),
		Special: c.String("special"),
		Search:  c.String("search"),
		Sort:    c.String("sort"),
	}
	if input.Sort == "" {
		input.Sort = e.cfg.DefaultSort
	}
	return input
}

// profile returns the --profile flag or the configured profile.
func profile(c *cli.Context, e *env) string {
	if p := c.String("profile"); p != "" {
		return p
	}
	return e.cfg.Profile
}

// listCmd creates the list command.
func listCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List prompts matching filters and search",
		Flags: selectionFlags(),
		Action: func(c *cli.Context) error {
			mgr, err := e.manager(c.Context, profile(c, e))
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Browse(c.Context, e.catalog, mgr.Snapshot(), browseInput(c, e))
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// showCmd creates the show command.
func showCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a prompt with its full content",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id, err := argID(c)
			if err != nil {
				return outputError(err)
			}
			mgr, err := e.manager(c.Context, profile(c, e))
			if err != nil {
				return outputError(err)
			}

			output, err := ops.Show(c.Context, e.catalog, mgr.Snapshot(), ops.ShowInput{ID: id})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// saveCmd creates the save command.
func saveCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "save",
		Usage:     "Save a prompt, or unsave it if already saved",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id, err := argID(c)
			if err != nil {
				return outputError(err)
			}
			mgr, err := e.manager(c.Context, profile(c, e))
			if err != nil {
				return outputError(err)
			}

			output, err := ops.ToggleSave(c.Context, e.catalog, mgr, ops.ToggleSaveInput{ID: id})
			if err != nil {
				return outputError(err)
			}
			if !output.Known {
				e.log.Warn().Int("id", id).Msg("id is not in the catalog")
			}

			return outputJSON(output)
		},
	}
}

// savedItem adds when a prompt was saved to its list entry.
type savedItem struct {
	ops.ItemView
	SavedAt    int64  `json:"saved_at,omitempty"`
	SavedSince string `json:"saved_since,omitempty"`
}

// savedOutput is the saved command's output.
type savedOutput struct {
	Profile string      `json:"profile"`
	Items   []savedItem `json:"items"`
	Stale   []int       `json:"stale"`
	Total   int         `json:"total"`
}

// savedCmd creates the saved command.
func savedCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "saved",
		Usage: "List saved prompts",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "sort", Aliases: []string{"s"}, Usage: "popular|latest (default from config)"},
		},
		Action: func(c *cli.Context) error {
			p := profile(c, e)
			store := e.store(p)
			entries, err := store.Entries(c.Context)
			if err != nil {
				return outputError(err)
			}
			mgr, err := e.manager(c.Context, p)
			if err != nil {
				return outputError(err)
			}

			sort := c.String("sort")
			if sort == "" {
				sort = e.cfg.DefaultSort
			}
			list, err := ops.ListSaved(c.Context, e.catalog, mgr.Snapshot(), ops.ListSavedInput{Sort: sort})
			if err != nil {
				return outputError(err)
			}

			savedAt := make(map[int]int64, len(entries))
			for _, entry := range entries {
				savedAt[entry.PromptID] = entry.SavedAt
			}
			output := savedOutput{Profile: p, Items: make([]savedItem, len(list.Items)), Stale: list.Stale, Total: list.Total}
			for i, item := range list.Items {
				output.Items[i] = savedItem{ItemView: item}
				if ts, ok := savedAt[item.ID]; ok {
					output.Items[i].SavedAt = ts
					output.Items[i].SavedSince = humanize.Time(time.Unix(ts, 0))
				}
			}

			return outputJSON(output)
		},
	}
}

// copyCmd creates the copy command.
func copyCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:      "copy",
		Usage:     "Copy a prompt's content to the clipboard",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "stdout", Usage: "Print the content instead of copying it"},
		},
		Action: func(c *cli.Context) error {
			id, err := argID(c)
			if err != nil {
				return outputError(err)
			}

			if c.Bool("stdout") {
				item, ok := e.catalog.Get(id)
				if !ok {
					return outputError(errors.NewNotFound(id))
				}
				fmt.Fprint(c.App.Writer, item.Content)
				return nil
			}

			output, err := ops.Copy(c.Context, e.catalog, e.clip, ops.CopyInput{ID: id})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// categoriesCmd creates the categories command.
func categoriesCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "Count prompts per role and purpose",
		Action: func(c *cli.Context) error {
			output, err := ops.Categories(c.Context, e.catalog)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// profilesCmd creates the profiles command.
func profilesCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "profiles",
		Usage: "List profiles that have saved prompts",
		Action: func(c *cli.Context) error {
			output, err := db.ListProfiles(c.Context, e.db)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export saved prompt ids to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"o"}, Usage: "Export file path (default: ~/.shelf/exports/<profile>-<timestamp>.jsonl)"},
		},
		Action: func(c *cli.Context) error {
			p := profile(c, e)
			mgr, err := e.manager(c.Context, p)
			if err != nil {
				return outputError(err)
			}

			output, err := ops.ExportSaved(c.Context, mgr.Snapshot(), e.cfg, ops.ExportInput{
				Path:    c.String("path"),
				Profile: p,
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// importCmd creates the import command.
func importCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import saved prompt ids from a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"i"}, Required: true, Usage: "Import file path"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "merge", Usage: "merge|replace"},
		},
		Action: func(c *cli.Context) error {
			mgr, err := e.manager(c.Context, profile(c, e))
			if err != nil {
				return outputError(err)
			}

			output, err := ops.ImportSaved(c.Context, mgr, e.cfg, ops.ImportInput{
				Path: c.String("path"),
				Mode: ops.ImportMode(c.String("mode")),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// browseCmd creates the browse command.
func browseCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "Browse prompts interactively in the terminal",
		Flags: selectionFlags(),
		Action: func(c *cli.Context) error {
			state, err := ops.ParseState(browseInput(c, e))
			if err != nil {
				return outputError(err)
			}
			mgr, err := e.manager(c.Context, profile(c, e))
			if err != nil {
				return outputError(err)
			}

			if err := tui.Run(e.catalog, mgr, e.clip, state); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(e *env) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Listen address (default from config, 127.0.0.1)"},
			&cli.IntFlag{Name: "port", Usage: "Listen port (default from config, 8420)"},
		},
		Action: func(c *cli.Context) error {
			bind := e.cfg.WebBind
			if c.IsSet("bind") {
				bind = c.String("bind")
			}
			port := e.cfg.WebPort
			if c.IsSet("port") {
				port = c.Int("port")
			}
			if port < 0 || port > 65535 {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("invalid port %d", port)))
			}

			log := logging.Component(e.log, "web")
			srv, err := web.NewServer(web.Options{
				Catalog: e.catalog,
				DB:      e.db,
				Config:  e.cfg,
				Version: Version,
				Logger:  log,
				Metrics: metrics.New(),
			}, bind, port)
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			log.Info().Int("prompts", e.catalog.Len()).Msg("catalog loaded")
			if err := web.Run(srv, log); err != nil {
				return outputError(errors.NewInternal(err))
			}
			return nil
		},
	}
}

// Helper functions

// argID parses the first positional argument as a prompt id.
func argID(c *cli.Context) (int, error) {
	if c.NArg() == 0 {
		return 0, errors.NewInvalidRequest("prompt id is required")
	}
	id, err := strconv.Atoi(c.Args().First())
	if err != nil {
		return 0, errors.NewInvalidRequest(fmt.Sprintf("invalid prompt id %q", c.Args().First()))
	}
	return id, nil
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	sErr := errors.As(err)
	return cli.Exit(fmt.Sprintf("[%s] %s", sErr.Code, sErr.Message), 1)
}
