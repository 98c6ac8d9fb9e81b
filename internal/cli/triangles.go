package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gjoin/pkg/motif"
)

// trianglesCommand creates the triangles command.
func (c *CLI) trianglesCommand() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "triangles <graph-file>",
		Short: "Count directed triangles",
		Long: `Count directed triangles a->b, a->c, b->c in a graph file.

Without --workers the count runs single-threaded over each node's neighbor
lists. With --workers it runs the GenericJoin plan for the pattern 0-1,0-2,1-2
over that many workers, and the result is cached.`,
		Example: `  gjoin triangles livejournal.graph
  gjoin triangles livejournal.graph --workers 8`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withMetrics(cmd.Context(), func(ctx context.Context) error {
				return c.runTriangles(ctx, cmd, args[0], &f)
			})
		},
	}

	f.register(cmd)
	return cmd
}

func (c *CLI) runTriangles(ctx context.Context, cmd *cobra.Command, path string, f *runFlags) error {
	g, err := openGraph(path)
	if err != nil {
		return err
	}
	defer g.Close()

	out := cmd.OutOrStdout()
	opts := c.options(cmd, f)
	c.Logger.Debug("graph opened", "path", path, "nodes", g.NodeCount(), "edges", g.EdgeCount(), "mapped", g.Mapped())

	if !cmd.Flags().Changed("workers") {
		prog := newProgress(c.Logger)
		n, active := motif.RawTriangles(g, opts.Intersector)
		prog.done("counted triangles", "active", active)
		printResult(out, "triangles", n)
		return nil
	}

	runner := c.newRunner(ctx)
	defer runner.Cache.Close()

	opts.Pattern = motif.Triangle
	res, err := runner.Count(ctx, g, opts)
	if err != nil {
		return err
	}
	printResult(out, "triangles", res.Rows)
	printGraphStats(out, g.NodeCount(), g.EdgeCount(), res.Elapsed, res.Cached)
	return nil
}
