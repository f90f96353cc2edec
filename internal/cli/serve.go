package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/facilitymap/internal/server"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve floor plans and maintenance requests over HTTP",
		Long: `Serve floor plans and maintenance requests over HTTP.

Routes:
  GET  /healthz
  GET  /api/buildings
  GET  /api/layout?building=&floor=
  GET  /api/blueprint?building=&floor=&format=&style=&grid=&dimensions=&status=&q=&selected=
  GET  /api/rooms/{roomID}/requests
  POST /api/rooms/{roomID}/requests

The listen address comes from --addr, FACILITYMAP_ADDR or server.addr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(cmd.Context(), noCache, false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			client, err := c.newClient()
			if err != nil {
				return err
			}
			var requests server.RequestService
			if client != nil {
				requests = client
			}

			return server.New(runner, requests, c.Logger).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
