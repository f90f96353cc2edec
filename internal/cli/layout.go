package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/facilitymap/pkg/floor"
)

// buildingsCommand lists the registered buildings and floors.
func (c *CLI) buildingsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "buildings",
		Short: "List buildings and their floors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := floor.DefaultRegistry()
			out := cmd.OutOrStdout()

			if asJSON {
				b, f := reg.Default()
				return json.NewEncoder(out).Encode(struct {
					Buildings []floor.Building `json:"buildings"`
					Default   [2]string        `json:"default"`
				}{reg.Buildings(), [2]string{b, f}})
			}

			defB, defF := reg.Default()
			for _, b := range reg.Buildings() {
				fmt.Fprintln(out, StyleTitle.Render(b.Name)+" "+StyleDim.Render(fmt.Sprintf("(%d floors)", len(b.Floors))))
				for _, f := range b.Floors {
					rooms := len(reg.Generate(b.Name, f).Rooms)
					line := fmt.Sprintf("  %-14s %s", f, StyleNumber.Render(fmt.Sprintf("%d spaces", rooms)))
					if b.Name == defB && f == defF {
						line += " " + StyleDim.Render("default")
					}
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the registry as JSON")
	return cmd
}

// layoutCommand prints the generated layout of a floor.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		check  bool
		live   bool
	)

	cmd := &cobra.Command{
		Use:   "layout <building> <floor>",
		Short: "Print the generated layout of a floor as JSON",
		Long: `Print the generated layout of a floor as JSON.

Building and floor names are matched ignoring case, so "dfa building" "2nd floor"
selects DFA BUILDING / 2ND FLOOR. Without --live the layout carries the built-in
default statuses; with --live the backend records are merged onto it.

--check verifies the geometry: positive sizes, unique ids, no overlapping rooms
and everything inside the canvas.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeFloors,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := floor.DefaultRegistry()
			b, f, err := resolveFloor(reg, args[0], args[1])
			if err != nil {
				return err
			}

			layout := reg.Generate(b, f)
			if live {
				runner, err := c.newRunner(cmd.Context(), true, false)
				if err != nil {
					return fmt.Errorf("initialize runner: %w", err)
				}
				defer runner.Close()

				snap, err := runner.Load(cmd.Context(), b, f)
				if err != nil {
					return err
				}
				if snap.Warning != "" {
					printWarning(cmd.ErrOrStderr(), "%s", snap.Warning)
				}
				layout = snap.Layout
			}

			if check {
				if err := floor.Check(layout); err != nil {
					return fmt.Errorf("%s: %w", floorLabel(b, f), err)
				}
				printSuccess(cmd.ErrOrStderr(), "%s: %d spaces, geometry ok", floorLabel(b, f), len(layout.Rooms))
			}

			data, err := json.MarshalIndent(layout, "", "  ")
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, append(data, '\n'))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&check, "check", false, "verify the layout geometry")
	cmd.Flags().BoolVar(&live, "live", false, "merge live room records from the backend")
	return cmd
}

// floorLabel is the "BUILDING / FLOOR" heading used in command output.
func floorLabel(building, fl string) string {
	return strings.Join([]string{building, fl}, " / ")
}
