package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/facilitymap/pkg/buildinfo"
	"github.com/matzehuels/facilitymap/pkg/config"
	"github.com/matzehuels/facilitymap/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Before any subcommand runs, the root command sets the log level from
// --verbose and loads the configuration: defaults, then the TOML file
// (--config or the XDG location), then .env and FACILITYMAP_* variables, then
// --api-url.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Facilitymap draws campus floor plans with live maintenance status",
		Long: `Facilitymap generates the floor layouts of the campus buildings, merges
live room records from the maintenance backend onto them and renders the result
as blueprints, schematics and status reports.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/facilitymap/config.toml)")
	flags.StringVar(&c.apiURL, "api-url", "", "maintenance backend base URL (overrides "+config.EnvAPIURL+")")

	root.AddCommand(c.buildingsCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.roomsCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.requestsCommand())
	root.AddCommand(c.reportCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		observability.NewLogHooks(c.Logger).Install()
	}

	cfg, err := config.Load(c.configPath, c.Logger)
	if err != nil {
		return err
	}
	if c.apiURL != "" {
		cfg.Backend.BaseURL = c.apiURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	c.Config = cfg
	c.Logger.Debug("config loaded", "backend", cfg.Backend.BaseURL, "cache", cfg.Cache.Backend)
	return nil
}
