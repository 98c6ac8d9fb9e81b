package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gjoin/pkg/motif"
	"github.com/matzehuels/gjoin/pkg/pipeline"
)

// graphFileExt is offered when completing graph file arguments.
const graphFileExt = "graph"

// commonPatterns are offered when completing --pattern. Users may pass any
// other pattern.
var commonPatterns = []string{
	motif.Triangle + "\tfeed-forward triangle",
	"0-1,1-2,2-0\tdirected 3-cycle",
	"0-1,1-2,2-3,3-0\tdirected 4-cycle",
	"0-1,0-2,0-3,1-2,1-3,2-3\t4-clique",
	"0-1,0-2\tout-star with two leaves",
}

// completionCommand creates the completion command.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for gjoin.

Besides commands and flags, the scripts complete graph file arguments to
*.graph files, --pattern to a few common motifs and --format to the plan
output formats.

  bash:        source <(gjoin completion bash)
  zsh:         gjoin completion zsh > "${fpath[1]}/_gjoin"
  fish:        gjoin completion fish > ~/.config/fish/completions/gjoin.fish
  powershell:  gjoin completion powershell | Out-String | Invoke-Expression

Start a new shell after installing a script.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeGraphFile completes the first positional argument to graph files.
func completeGraphFile(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{graphFileExt}, cobra.ShellCompDirectiveFilterFileExt
}

// completeConvertArgs completes any file for the edge list and graph files
// for the output.
func completeConvertArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return nil, cobra.ShellCompDirectiveDefault
	case 1:
		return []string{graphFileExt}, cobra.ShellCompDirectiveFilterFileExt
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func completePattern(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return commonPatterns, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveKeepOrder
}

func completeFormat(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{
		pipeline.FormatSVG,
		pipeline.FormatDOT,
		pipeline.FormatPNG,
		pipeline.FormatPDF,
	}, cobra.ShellCompDirectiveNoFileComp
}

// withPatternCompletion registers --pattern completion on cmd.
func withPatternCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("pattern", completePattern)
}
