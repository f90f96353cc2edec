package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/facilitymap/pkg/backend"
	"github.com/matzehuels/facilitymap/pkg/errors"
	"github.com/matzehuels/facilitymap/pkg/floor"
	"github.com/matzehuels/facilitymap/pkg/reconcile"
	"github.com/matzehuels/facilitymap/pkg/view"
)

// requestsCommand groups the maintenance request subcommands.
func (c *CLI) requestsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "List and file maintenance requests",
	}

	cmd.AddCommand(c.requestsListCommand())
	cmd.AddCommand(c.requestsSubmitCommand())

	return cmd
}

func (c *CLI) requestsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <room-id>",
		Short: "List the maintenance requests of a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateRoomID(args[0]); err != nil {
				return err
			}
			client, err := c.requireClient()
			if err != nil {
				return err
			}

			var reqs []backend.Request
			err = spin(cmd.Context(), cmd.ErrOrStderr(), "Loading requests...", func() error {
				var err error
				reqs, err = client.FetchRequests(cmd.Context(), args[0])
				return err
			})
			if err != nil {
				return fmt.Errorf("list requests for %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			if len(reqs) == 0 {
				printInfo(out, "No requests for room %s", args[0])
				return nil
			}
			fmt.Fprintln(out, requestTable(reqs))
			printDetail(out, "%d requests", len(reqs))
			return nil
		},
	}
}

func (c *CLI) requestsSubmitCommand() *cobra.Command {
	var (
		req      backend.NewRequest
		priority string
		building string
		fl       string
	)

	cmd := &cobra.Command{
		Use:   "submit <room-id>",
		Short: "File a maintenance request for a room",
		Long: `File a maintenance request for a room.

The request is sent once and never retried. If the backend rejects it, the
command prints how the room would look with the request applied locally
(pending, one more request) and exits with the error. Pass --building and
--floor to show that effect against the room's floor.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Room = args[0]
			req.Priority = backend.Priority(priority)
			n, err := req.Normalize()
			if err != nil {
				return err
			}
			client, err := c.requireClient()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var created *backend.Request
			err = spin(cmd.Context(), cmd.ErrOrStderr(), "Submitting request...", func() error {
				var err error
				created, err = client.SubmitRequest(cmd.Context(), n)
				return err
			})
			if err != nil {
				if cmd.Context().Err() != nil {
					return cmd.Context().Err()
				}
				c.printOptimistic(cmd, n, building, fl)
				return fmt.Errorf("submit request: %w", err)
			}

			printSuccess(out, "Request filed for room %s", n.Room)
			if created.ID != "" {
				printKeyValue(out, "ID", string(created.ID))
			}
			printKeyValue(out, "Title", created.Title)
			printKeyValue(out, "Priority", string(created.Priority))
			printKeyValue(out, "Status", created.Status.Label())
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Title, "title", "", "short summary (required)")
	cmd.Flags().StringVar(&req.Description, "description", "", "details")
	cmd.Flags().StringVar(&priority, "priority", string(backend.PriorityMedium), "low, medium or high")
	cmd.Flags().StringVar(&building, "building", "", "building of the room, to show the local effect on failure")
	cmd.Flags().StringVar(&fl, "floor", "", "floor of the room, to show the local effect on failure")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

// printOptimistic shows the request the backend rejected as it would appear
// locally, together with the room it marks pending.
func (c *CLI) printOptimistic(cmd *cobra.Command, n backend.NewRequest, building, fl string) {
	out := cmd.OutOrStdout()
	printError(out, "%s", view.ErrSubmitFailed)
	fmt.Fprintln(out, requestTable([]backend.Request{backend.Placeholder(n, time.Now())}))

	if building == "" || fl == "" {
		return
	}
	b, f, err := resolveFloor(floor.DefaultRegistry(), building, fl)
	if err != nil {
		c.Logger.Warn("cannot show local effect", "error", err)
		return
	}
	runner, err := c.newRunner(cmd.Context(), true, false)
	if err != nil {
		c.Logger.Warn("cannot show local effect", "error", err)
		return
	}
	defer runner.Close()
	snap, err := runner.Load(cmd.Context(), b, f)
	if err != nil {
		return
	}
	if snap.Layout.Index(n.Room) < 0 {
		c.Logger.Warn("room not on floor", "room", n.Room, "floor", floorLabel(b, f))
		return
	}
	after := reconcile.MarkPending(snap.Layout, n.Room)
	room, _ := after.Room(n.Room)
	printDetail(out, "locally: %s is %s with %d requests", room.ID, room.Status.Label(), room.RequestCount)
	printStats(out, reconcile.Compute(after.Rooms), snap.Live)
}
