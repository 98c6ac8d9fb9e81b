package cli

import (
	"bufio"
	"cmp"
	"context"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gjoin/pkg/errors"
)

// defaultBasePort is the first port of the generated localhost host list.
const defaultBasePort = 2101

type pagerankFlags struct {
	run        runFlags
	processID  int
	processes  int
	hostsFile  string
	iterations int
	damping    float64
	tolerance  float64
	top        int
}

// pagerankCommand creates the pagerank command.
func (c *CLI) pagerankCommand() *cobra.Command {
	var f pagerankFlags

	cmd := &cobra.Command{
		Use:   "pagerank <graph-file>",
		Short: "Run iterative PageRank over a graph file",
		Long: `Run a bounded number of PageRank iterations over a graph file and print
the highest ranked nodes.

Workers run in this process. --processid, --processes and --hosts describe a
multi-process cluster; the host list is checked, but only a single process is
supported.`,
		Example: `  gjoin pagerank web.graph --workers 4 --iterations 30
  gjoin pagerank web.graph --top 0 --refresh`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withMetrics(cmd.Context(), func(ctx context.Context) error {
				return c.runPageRank(ctx, cmd, args[0], &f)
			})
		},
	}

	f.run.register(cmd)
	flags := cmd.Flags()
	flags.IntVarP(&f.processID, "processid", "p", 0, "identity of this process")
	flags.IntVarP(&f.processes, "processes", "n", 1, "number of processes involved")
	flags.StringVar(&f.hostsFile, "hosts", "", "file listing host:port for each process, one per line")
	flags.IntVarP(&f.iterations, "iterations", "k", 0, "number of iterations (default from config, 20)")
	flags.Float64Var(&f.damping, "damping", 0, "damping factor (default from config, 0.85)")
	flags.Float64Var(&f.tolerance, "tolerance", 0, "stop once the total rank change drops below this")
	flags.IntVar(&f.top, "top", 10, "number of top ranked nodes to print (0 = none)")
	return cmd
}

func (c *CLI) runPageRank(ctx context.Context, cmd *cobra.Command, path string, f *pagerankFlags) error {
	hosts, err := clusterHosts(f.processID, f.processes, f.hostsFile)
	if err != nil {
		return err
	}

	opts := c.options(cmd, &f.run)
	if cmd.Flags().Changed("iterations") {
		opts.PageRank.Iterations = f.iterations
		if f.iterations < 1 {
			return errors.New(errors.ErrCodeInvalidInput, "--iterations must be at least 1, got %d", f.iterations)
		}
	}
	if cmd.Flags().Changed("damping") {
		opts.PageRank.Damping = f.damping
	}
	if cmd.Flags().Changed("tolerance") {
		opts.PageRank.Tolerance = f.tolerance
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, StyleTitle.Render("Starting pagerank dataflow with"))
	printKeyValue(out, "workers", strconv.Itoa(opts.Workers))
	printKeyValue(out, "processes", strconv.Itoa(f.processes))
	printKeyValue(out, "processid", strconv.Itoa(f.processID))

	if f.processes > 1 {
		return errors.New(errors.ErrCodeUnsupported,
			"multi-process execution is not supported (%d processes on %s); run with --processes 1",
			f.processes, strings.Join(hosts, ", "))
	}

	g, err := openGraph(path)
	if err != nil {
		return err
	}
	defer g.Close()

	runner := c.newRunner(ctx)
	defer runner.Cache.Close()

	res, err := runner.PageRank(ctx, g, opts)
	if err != nil {
		return err
	}

	var total time.Duration
	for i, d := range res.Iterations {
		c.Logger.Debug("iteration", "n", i, "elapsed", d)
		total += d
	}
	printResult(out, "iterations", uint64(len(res.Iterations)))
	printGraphStats(out, g.NodeCount(), g.EdgeCount(), total, res.Cached)

	top := topRanked(res.Ranks, f.top)
	if len(top) > 0 {
		printInfo(out, "Top %d nodes by rank", len(top))
	}
	for _, id := range top {
		printKeyValue(out, strconv.Itoa(id), StyleNumber.Render(strconv.FormatFloat(res.Ranks[id], 'f', 6, 64)))
	}
	return nil
}

// topRanked returns up to k node ids ordered by descending rank, ties by id.
func topRanked(ranks []float64, k int) []int {
	if k <= 0 {
		return nil
	}
	ids := make([]int, len(ranks))
	for i := range ids {
		ids[i] = i
	}
	slices.SortStableFunc(ids, func(a, b int) int {
		return cmp.Compare(ranks[b], ranks[a])
	})
	return ids[:min(k, len(ids))]
}

// clusterHosts validates the process settings and returns one host per
// process: from hostsFile when given, otherwise localhost:2101 upwards.
func clusterHosts(processID, processes int, hostsFile string) ([]string, error) {
	if processes < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "--processes must be at least 1, got %d", processes)
	}
	if processID < 0 || processID >= processes {
		return nil, errors.New(errors.ErrCodeInvalidInput, "--processid must be in [0, %d), got %d", processes, processID)
	}

	if hostsFile == "" {
		hosts := make([]string, processes)
		for i := range hosts {
			hosts[i] = fmt.Sprintf("localhost:%d", defaultBasePort+i)
		}
		return hosts, nil
	}

	hosts, err := readHosts(hostsFile)
	if err != nil {
		return nil, err
	}
	if len(hosts) < processes {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s lists %d hosts, need %d", hostsFile, len(hosts), processes)
	}
	return hosts[:processes], nil
}

// readHosts reads one host:port per line. Blank lines and '#' comments are
// skipped.
func readHosts(path string) ([]string, error) {
	if err := errors.ValidateFilePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "hosts file %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open hosts file %s", path)
	}
	defer f.Close()

	var hosts []string
	sc := bufio.NewScanner(f)
	for line := 1; sc.Scan(); line++ {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		if err := errors.ValidateHostAddress(s); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s:%d", path, line)
		}
		hosts = append(hosts, s)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "read hosts file %s", path)
	}
	return hosts, nil
}
