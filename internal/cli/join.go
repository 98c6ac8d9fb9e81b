package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gjoin/pkg/dataflow"
	"github.com/matzehuels/gjoin/pkg/motif"
)

// joinCommand creates the join command.
func (c *CLI) joinCommand() *cobra.Command {
	var (
		f       runFlags
		pattern string
		list    bool
	)

	cmd := &cobra.Command{
		Use:   "join <graph-file>",
		Short: "Count matches of an edge pattern with GenericJoin",
		Long: `Count matches of a directed edge pattern.

A pattern is a comma separated list of attribute edges "i-j", meaning the node
bound to attribute i has an edge to the node bound to attribute j. Attributes
are bound in ascending order; every attribute after the first must connect to
an earlier one.

  0-1,0-2,1-2   feed-forward triangle
  0-1,1-2,2-0   directed 3-cycle
  0-1,0-2,0-3,1-2,1-3,2-3   4-clique (on an oriented graph)`,
		Example: `  gjoin join web.graph --pattern 0-1,1-2,2-0 --workers 4
  gjoin join web.graph --pattern 0-1,0-2,1-2 --list`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withMetrics(cmd.Context(), func(ctx context.Context) error {
				if list {
					return c.runMatches(ctx, cmd, args[0], pattern, &f)
				}
				return c.runJoin(ctx, cmd, args[0], pattern, &f)
			})
		},
	}

	cmd.Flags().StringVarP(&pattern, "pattern", "p", motif.Triangle, "edge pattern to match")
	cmd.Flags().BoolVar(&list, "list", false, "print every match instead of the count (not cached)")
	f.register(cmd)
	withPatternCompletion(cmd)
	return cmd
}

func (c *CLI) runJoin(ctx context.Context, cmd *cobra.Command, path, pattern string, f *runFlags) error {
	g, err := openGraph(path)
	if err != nil {
		return err
	}
	defer g.Close()

	runner := c.newRunner(ctx)
	defer runner.Cache.Close()

	opts := c.options(cmd, f)
	opts.Pattern = pattern
	res, err := runner.Count(ctx, g, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printResult(out, "matches", res.Rows)
	printKeyValue(out, "pattern", res.Pattern)
	printGraphStats(out, g.NodeCount(), g.EdgeCount(), res.Elapsed, res.Cached)
	printLayers(out, res.Layers)
	return nil
}

// runMatches prints one line per match, attributes separated by spaces.
func (c *CLI) runMatches(ctx context.Context, cmd *cobra.Command, path, pattern string, f *runFlags) error {
	p, err := motif.ParsePattern(pattern)
	if err != nil {
		return err
	}
	g, err := openGraph(path)
	if err != nil {
		return err
	}
	defer g.Close()

	opts := c.options(cmd, f)
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return err
	}
	cluster, err := dataflow.NewCluster(opts.Workers, c.Logger)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	rows, res, err := motif.Matches(ctx, cluster, g, p, motif.Options{Intersector: opts.Intersector, Logger: c.Logger})
	if err != nil {
		return err
	}
	prog.done("collected matches", "pattern", p.String(), "rows", res.Rows)

	out := cmd.OutOrStdout()
	for _, row := range rows {
		for i, v := range row {
			if i > 0 {
				fmt.Fprint(out, " ")
			}
			fmt.Fprint(out, v)
		}
		fmt.Fprintln(out)
	}
	return nil
}
