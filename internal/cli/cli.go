// Package cli implements the facilitymap command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/facilitymap/pkg/backend"
	"github.com/matzehuels/facilitymap/pkg/cache"
	"github.com/matzehuels/facilitymap/pkg/config"
	"github.com/matzehuels/facilitymap/pkg/errors"
	"github.com/matzehuels/facilitymap/pkg/floor"
	"github.com/matzehuels/facilitymap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "facilitymap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded by the root command before any subcommand runs.
	Config config.Config

	configPath string
	apiURL     string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Runner Factory
// =============================================================================

// newClient returns the backend client, or nil when no backend is configured.
func (c *CLI) newClient() (*backend.Client, error) {
	if c.Config.Offline() {
		return nil, nil
	}
	return backend.New(c.Config.BackendOptions(c.Logger))
}

// requireClient is newClient for commands that cannot work offline.
func (c *CLI) requireClient() (*backend.Client, error) {
	client, err := c.newClient()
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"no backend configured: set %s, --api-url or backend.base_url", config.EnvAPIURL)
	}
	return client, nil
}

// newRunner creates a pipeline runner for CLI use. Offline runners skip the
// backend and show generated defaults.
func (c *CLI) newRunner(ctx context.Context, noCache, offline bool) (*pipeline.Runner, error) {
	var source pipeline.RoomSource
	if !offline {
		client, err := c.newClient()
		if err != nil {
			return nil, err
		}
		if client != nil {
			source = client
		}
	}

	store, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(source, store, c.newKeyer(), c.Logger), nil
}

// openCache opens the configured artifact cache. A file cache that cannot be
// located degrades to no caching.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case config.CacheMongo:
		return cache.NewMongoCache(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	case config.CacheNone:
		return cache.NewNullCache(), nil
	default:
		dir, err := c.fileCacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

func (c *CLI) newKeyer() cache.Keyer {
	keyer := cache.NewDefaultKeyer()
	if p := c.Config.Cache.Prefix; p != "" {
		keyer = cache.NewScopedKeyer(keyer, p)
	}
	return keyer
}

// =============================================================================
// Paths
// =============================================================================

func (c *CLI) fileCacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/facilitymap/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Argument Helpers
// =============================================================================

// resolveFloor maps user input such as "dfa building" "2nd floor" to
// registered names.
func resolveFloor(reg *floor.Registry, building, fl string) (string, string, error) {
	b, f, ok := reg.Resolve(building, fl)
	if !ok {
		return "", "", errors.New(errors.ErrCodeUnknownFloor,
			"unknown floor %q / %q (see `%s buildings`)", building, fl, appName)
	}
	return b, f, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// parseStatus parses the --status flag. Empty and "all" disable filtering.
func parseStatus(s string) (floor.Status, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(floor.StatusAll)) {
		return "", nil
	}
	st, ok := floor.ParseStatus(s)
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidInput,
			"invalid status %q (must be pending, in_progress, completed, no_request or all)", s)
	}
	return st, nil
}

// slug turns building and floor names into a file name stem:
// "DFA BUILDING", "2ND FLOOR" becomes "dfa-building_2nd-floor".
func slug(building, fl string) string {
	part := func(s string) string {
		return strings.Join(strings.Fields(strings.ToLower(s)), "-")
	}
	return part(building) + "_" + part(fl)
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
