package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/facilitymap/pkg/cache"
	"github.com/matzehuels/facilitymap/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the rendered artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand. Redis and MongoDB
// entries expire on their own, so only the file cache can be cleared.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if b := c.Config.Cache.Backend; b != config.CacheFile {
				printWarning(out, "The %s cache cannot be cleared from here; entries expire on their own", b)
				return nil
			}

			dir, err := c.fileCacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			if err := fc.Clear(); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess(out, "Cleared cached artifacts")
			printDetail(out, "Directory: %s", dir)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand. It prints where
// artifacts are stored for the configured backend.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cached artifacts are stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Cache
			out := cmd.OutOrStdout()
			switch cfg.Backend {
			case config.CacheRedis:
				fmt.Fprintf(out, "redis://%s/%d\n", cfg.RedisAddr, cfg.RedisDB)
			case config.CacheMongo:
				fmt.Fprintln(out, cfg.MongoURI)
			case config.CacheNone:
				fmt.Fprintln(out, "caching disabled")
			default:
				dir, err := c.fileCacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				fmt.Fprintln(out, dir)
			}
			return nil
		},
	}
}
