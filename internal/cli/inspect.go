package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var validate bool

	cmd := &cobra.Command{
		Use:   "inspect <graph-file>",
		Short: "Print graph file statistics",
		Long: `Print the node and edge counts of a graph file.

Opening a file always checks the offset table. --validate additionally checks
that every neighbor list is strictly ascending and in range, which reads the
whole edge block.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := openGraph(args[0])
			if err != nil {
				return err
			}
			defer g.Close()

			out := cmd.OutOrStdout()
			printResult(out, "nodes", g.NodeCount())
			printResult(out, "edges", g.EdgeCount())
			printKeyValue(out, "max degree", strconv.Itoa(g.MaxDegree()))
			printKeyValue(out, "mapped", strconv.FormatBool(g.Mapped()))
			printKeyValue(out, "fingerprint", fmt.Sprintf("%016x", g.Fingerprint()))

			if !validate {
				return nil
			}
			prog := newProgress(c.Logger)
			if err := g.Validate(); err != nil {
				return err
			}
			prog.done("validated neighbor lists", "nodes", g.NodeCount())
			printSuccess(out, "Neighbor lists are sorted, unique and in range")
			return nil
		},
	}

	cmd.Flags().BoolVar(&validate, "validate", false, "check every neighbor list")
	return cmd
}
