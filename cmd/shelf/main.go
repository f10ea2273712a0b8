package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hpungsan/shelf/internal/clip"
	"github.com/hpungsan/shelf/internal/config"
	"github.com/hpungsan/shelf/internal/db"
	"github.com/hpungsan/shelf/internal/logging"
	"github.com/hpungsan/shelf/internal/mcp"
	"github.com/hpungsan/shelf/internal/prompt"
	"github.com/hpungsan/shelf/internal/saved"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"list": true, "show": true, "save": true, "saved": true,
	"copy": true, "categories": true, "profiles": true,
	"export": true, "import": true,
	"browse": true, "serve": true,
	"help": true,
}

// env holds what CLI commands need. A nil *env is only valid for --help/--version.
type env struct {
	db      *sql.DB
	cfg     *config.Config
	catalog *prompt.Catalog
	log     zerolog.Logger
	clip    clip.Writer
}

// store returns the persister for profile.
func (e *env) store(profile string) *db.SavedStore {
	return &db.SavedStore{DB: e.db, Profile: profile}
}

// manager opens the saved set of profile.
func (e *env) manager(ctx context.Context, profile string) (*saved.Manager, error) {
	return saved.Open(ctx, e.store(profile))
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	// Global flags come before the subcommand.
	if arg == "--profile" || arg == "-P" {
		return len(os.Args) > 3 && cliCommands[os.Args[3]]
	}
	if strings.HasPrefix(arg, "--profile=") || strings.HasPrefix(arg, "-P=") {
		return len(os.Args) > 2 && cliCommands[os.Args[2]]
	}
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
       _          _  __
   ___| |__   ___| |/ _|
  / __| '_ \ / _ \ | |_
  \__ \ | | |  __/ |  _|
  |___/_| |_|\___|_|_|

  A shelf of ready-to-use AI prompts

  Usage: shelf <command> [options]
         shelf browse
         shelf --help

  MCP server mode requires piped input.`)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fail("%v", err)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fail("could not determine home directory: %v", err)
	}
	baseDir := filepath.Join(homeDir, ".shelf")

	cwd, _ := os.Getwd()
	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fail("failed to load config: %v", err)
	}

	// Logs go to stderr: stdout carries CLI output and the MCP protocol.
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	database, err := db.Init(baseDir)
	if err != nil {
		fail("failed to initialize database: %v", err)
	}
	defer database.Close()
	db.ConfigurePool(database, cfg)

	catalog, err := prompt.Open(cfg.CatalogPath)
	if err != nil {
		fail("failed to load catalog: %v", err)
	}
	logger.Debug().Int("prompts", catalog.Len()).Str("profile", cfg.Profile).Msg("catalog loaded")

	e := &env{db: database, cfg: cfg, catalog: catalog, log: logger, clip: clip.System{}}

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(e)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			database.Close()
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'shelf --help' for usage.\n")
		database.Close()
		os.Exit(1)
	}

	// MCP server mode (default)
	mcpLog := logging.Component(logger, "mcp")
	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		mcpLog.Warn().Strs("tools", unknown).Msg("unknown tools in disabled_tools")
	}
	if unknown := mcp.ValidateDisabledTypes(cfg.DisabledTypes); len(unknown) > 0 {
		mcpLog.Warn().Strs("types", unknown).Msg("unknown types in disabled_types")
	}

	mgr, err := e.manager(context.Background(), cfg.Profile)
	if err != nil {
		fail("failed to load saved prompts: %v", err)
	}
	mcpLog.Info().Int("prompts", catalog.Len()).Str("profile", cfg.Profile).Msg("mcp server starting")
	if err := mcp.Run(catalog, mgr, cfg, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		database.Close()
		os.Exit(1)
	}
}
