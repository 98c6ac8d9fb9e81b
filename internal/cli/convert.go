package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gjoin/pkg/errors"
	"github.com/matzehuels/gjoin/pkg/graphmap"
)

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var opts graphmap.EdgeListOptions

	cmd := &cobra.Command{
		Use:   "convert <edge-list> <graph-file>",
		Short: "Build a graph file from a text edge list",
		Long: `Build a graph file from a whitespace separated "src dst" edge list.

Neighbor lists are sorted and deduplicated. Lines starting with '#' or '%'
are comments and extra columns are ignored. Use "-" to read from stdin.`,
		Example: `  gjoin convert soc-LiveJournal1.txt livejournal.graph
  zcat edges.txt.gz | gjoin convert - edges.graph --undirected`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeConvertArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Undirected, "undirected", false, "add the reverse of every edge")
	cmd.Flags().BoolVar(&opts.DropSelfLoops, "drop-self-loops", false, "discard u -> u edges")
	cmd.Flags().Uint64Var(&opts.Nodes, "nodes", 0, "node count (default max id + 1, required past 2^28 nodes)")
	return cmd
}

func (c *CLI) runConvert(cmd *cobra.Command, src, dst string, opts graphmap.EdgeListOptions) error {
	if err := errors.ValidateFilePath(dst); err != nil {
		return err
	}

	var r io.Reader = cmd.InOrStdin()
	if src != "-" {
		if err := errors.ValidateFilePath(src); err != nil {
			return err
		}
		f, err := os.Open(src)
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "edge list %s", src)
		}
		if err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "open edge list %s", src)
		}
		defer f.Close()
		r = f
	}

	spin := newSpinner(cmd.Context(), cmd.ErrOrStderr(), "Reading edge list...")
	spin.Start()
	prog := newProgress(c.Logger)
	g, stats, err := graphmap.ReadEdgeList(r, opts)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done("parsed edge list", "lines", stats.Lines, "duplicates", stats.Duplicates, "self_loops", stats.SelfLoops)

	if err := graphmap.WriteFile(dst, g); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printSuccess(out, "Wrote graph file")
	printFile(out, dst)
	printDetail(out, "%d nodes, %d edges, max degree %d", g.NodeCount(), g.EdgeCount(), g.MaxDegree())
	if stats.Duplicates > 0 {
		printDetail(out, "%d duplicate edges removed", stats.Duplicates)
	}
	if stats.SelfLoops > 0 {
		printDetail(out, "%d self loops dropped", stats.SelfLoops)
	}
	return nil
}
