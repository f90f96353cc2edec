package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/facilitymap/pkg/floor"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for facilitymap.

To load completions:

Bash:
  $ source <(facilitymap completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ facilitymap completion bash > /etc/bash_completion.d/facilitymap
  # macOS:
  $ facilitymap completion bash > $(brew --prefix)/etc/bash_completion.d/facilitymap

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ facilitymap completion zsh > "${fpath[1]}/_facilitymap"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ facilitymap completion fish | source

  # To load completions for each session, execute once:
  $ facilitymap completion fish > ~/.config/fish/completions/facilitymap.fish

PowerShell:
  PS> facilitymap completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> facilitymap completion powershell > facilitymap.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// completeFloors completes the <building> <floor> arguments from the registry.
func completeFloors(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	reg := floor.DefaultRegistry()
	var names []string
	switch len(args) {
	case 0:
		for _, b := range reg.Buildings() {
			names = append(names, b.Name)
		}
	case 1:
		for _, b := range reg.Buildings() {
			if strings.EqualFold(b.Name, args[0]) {
				names = b.Floors
			}
		}
	}

	var out []string
	for _, n := range names {
		if strings.HasPrefix(strings.ToLower(n), strings.ToLower(toComplete)) {
			out = append(out, n)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
