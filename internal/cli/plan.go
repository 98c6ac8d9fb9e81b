package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gjoin/pkg/errors"
	"github.com/matzehuels/gjoin/pkg/motif"
	"github.com/matzehuels/gjoin/pkg/pipeline"
	"github.com/matzehuels/gjoin/pkg/render"
)

// planCommand creates the plan command.
func (c *CLI) planCommand() *cobra.Command {
	var (
		pattern string
		output  string
		format  string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Render the attribute-order plan of a pattern",
		Long: `Render the attribute-order plan of a pattern as Graphviz.

Each attribute is a node. Each pattern edge is drawn from the attribute whose
neighbor list proposes or filters candidates to the attribute it binds;
dashed edges read in-neighbors. The format is taken from the -o extension
unless --format is given. Without -o the DOT source is printed.`,
		Example: `  gjoin plan --pattern 0-1,1-2,2-0
  gjoin plan --pattern 0-1,0-2,1-2 -o triangle.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = formatFromPath(output)
			}

			data, err := pipeline.NewRunner(nil, nil, c.Logger).Plan(cmd.Context(), pattern, format, render.PlanOptions{})
			if err != nil {
				return err
			}
			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := errors.ValidateFilePath(output); err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeIO, err, "write %s", output)
			}
			printSuccess(cmd.OutOrStdout(), "Rendered plan")
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&pattern, "pattern", "p", motif.Triangle, "edge pattern")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: svg, dot, png or pdf")
	withPatternCompletion(cmd)
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormat)
	return cmd
}

// formatFromPath derives the plan format from a file extension; no file
// means DOT on stdout.
func formatFromPath(path string) string {
	if path == "" {
		return pipeline.FormatDOT
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "gv" {
		return pipeline.FormatDOT
	}
	return ext
}
