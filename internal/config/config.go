package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration.
type Config struct {
	// CatalogPath overrides the embedded catalog with a YAML file.
	CatalogPath string `json:"catalog_path,omitempty"`

	// Profile names the saved set used by the CLI, TUI and MCP server.
	Profile string `json:"profile,omitempty"`

	// DefaultSort is the sort key used when a request does not name one ("popular" or "latest").
	DefaultSort string `json:"default_sort,omitempty"`

	// Theme is the web UI appearance: "light", "dark" or "system".
	Theme string `json:"theme,omitempty"`

	// WebBind and WebPort set the listen address for `shelf serve`.
	WebBind string `json:"web_bind,omitempty"`
	WebPort int    `json:"web_port,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// LogPretty enables human-readable console logs.
	LogPretty bool `json:"log_pretty,omitempty"`

	// AllowedPaths is an allowlist of directories for saved-set import/export.
	// Paths outside ~/.shelf/exports require either being in this list or AllowUnsafePaths=true.
	// Paths should be absolute (relative paths are ignored).
	AllowedPaths []string `json:"allowed_paths,omitempty"`

	// AllowUnsafePaths disables directory restrictions for import/export.
	// Symlink and extension checks still apply.
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DisabledTypes is a list of tool types ("prompt", "saved") to disable entirely.
	DisabledTypes []string `json:"disabled_types,omitempty"`
}

// envOverrides mirrors the scalar settings that may come from SHELF_* variables.
type envOverrides struct {
	CatalogPath string `envconfig:"CATALOG_PATH"`
	Profile     string `envconfig:"PROFILE"`
	DefaultSort string `envconfig:"DEFAULT_SORT"`
	Theme       string `envconfig:"THEME"`
	WebBind     string `envconfig:"WEB_BIND"`
	WebPort     int    `envconfig:"WEB_PORT"`
	LogLevel    string `envconfig:"LOG_LEVEL"`
	LogPretty   bool   `envconfig:"LOG_PRETTY"`
}

// EnvPrefix is the prefix for environment overrides (SHELF_PROFILE, ...).
const EnvPrefix = "SHELF"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Profile:     "default",
		DefaultSort: "popular",
		Theme:       "system",
		WebBind:     "127.0.0.1",
		WebPort:     8420,
		LogLevel:    "info",
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.shelf.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.shelf) and repo (.shelf) directories,
// then applies SHELF_* environment overrides.
// Repo config is found by walking upward from startDir to find the nearest .shelf/config.json.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	env, err := loadEnv()
	if err != nil {
		return nil, err
	}

	cfg := Merge(Merge(Merge(DefaultConfig(), global), repo), env)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindRepoConfig walks upward from startDir to find the nearest .shelf/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	if startDir == "" {
		return ""
	}
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".shelf", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Validate rejects values outside their closed sets.
func (c *Config) Validate() error {
	switch c.DefaultSort {
	case "", "popular", "latest":
	default:
		return fmt.Errorf("invalid default_sort %q (want popular or latest)", c.DefaultSort)
	}
	switch c.Theme {
	case "", "light", "dark", "system":
	default:
		return fmt.Errorf("invalid theme %q (want light, dark or system)", c.Theme)
	}
	if c.WebPort < 0 || c.WebPort > 65535 {
		return fmt.Errorf("invalid web_port %d", c.WebPort)
	}
	return nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the path is empty or the file doesn't exist.
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	merged := Merge(DefaultConfig(), cfg)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// loadEnv reads SHELF_* variables into a zero-valued overlay config.
func loadEnv() (*Config, error) {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	return &Config{
		CatalogPath: env.CatalogPath,
		Profile:     env.Profile,
		DefaultSort: env.DefaultSort,
		Theme:       env.Theme,
		WebBind:     env.WebBind,
		WebPort:     env.WebPort,
		LogLevel:    env.LogLevel,
		LogPretty:   env.LogPretty,
	}, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if non-zero, else base
	result.CatalogPath = pick(overlay.CatalogPath, base.CatalogPath)
	result.Profile = pick(overlay.Profile, base.Profile)
	result.DefaultSort = pick(overlay.DefaultSort, base.DefaultSort)
	result.Theme = pick(overlay.Theme, base.Theme)
	result.WebBind = pick(overlay.WebBind, base.WebBind)
	result.LogLevel = pick(overlay.LogLevel, base.LogLevel)
	result.WebPort = pick(overlay.WebPort, base.WebPort)
	result.DBMaxOpenConns = pick(overlay.DBMaxOpenConns, base.DBMaxOpenConns)
	result.DBMaxIdleConns = pick(overlay.DBMaxIdleConns, base.DBMaxIdleConns)

	// Booleans: overlay wins if true, else base
	result.AllowUnsafePaths = base.AllowUnsafePaths || overlay.AllowUnsafePaths
	result.LogPretty = base.LogPretty || overlay.LogPretty

	// Arrays: merge and deduplicate
	result.AllowedPaths = mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)
	result.DisabledTypes = mergeStringSlice(base.DisabledTypes, overlay.DisabledTypes)

	return result
}

// pick returns v unless it is the zero value, in which case it returns fallback.
func pick[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
