package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rankforge/pkg/cmpio"
	"github.com/matzehuels/rankforge/pkg/pipeline"
	"github.com/matzehuels/rankforge/pkg/relgraph"
)

// graphCommand creates the graph command for exporting the resolved order.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "graph <comparisons.json|comparisons.toml>",
		Short: "Export the resolved comparison graph as DOT or SVG",
		Long: `Export the resolved comparison graph as DOT or SVG.

After repair, the comparisons form a directed acyclic graph over equality
classes. The graph command renders that structure, with repaired (flipped)
comparisons highlighted, so contradictions in the input can be inspected.

The output format follows the file extension: .svg renders an image, anything
else (or no --output) emits Graphviz DOT text.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(c.withLogger(cmd.Context()), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.dot or .svg); stdout when omitted")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&opts.EqualBand, "equal-band", 0, "half-width of the value band around 0.5 treated as a tie")
	cmd.Flags().BoolVar(&opts.WeightByConfidence, "weighted", false, "weight repair costs by comparison confidence")
	cmd.Flags().DurationVar(&opts.TimeLimit, "time-limit", 0, "stop after this duration and keep the best ranking found")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	set, err := cmpio.ImportFile(input)
	if err != nil {
		return fmt.Errorf("load comparisons %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	res, err := runner.Execute(ctx, set, opts)
	if err != nil {
		return fmt.Errorf("graph: %w", err)
	}

	ranking := res.Ranking
	levels, err := ranking.Graph.Layers()
	if err != nil {
		return fmt.Errorf("graph: %w", err)
	}
	dot := relgraph.ToDOT(ranking.Graph, relgraph.DOTOptions{
		Levels:  levels,
		Flipped: ranking.Flipped,
	})

	if output == "" {
		fmt.Print(dot)
		return nil
	}

	var data []byte
	if strings.EqualFold(filepath.Ext(output), ".svg") {
		data, err = relgraph.RenderSVG(ctx, dot)
		if err != nil {
			return fmt.Errorf("render svg: %w", err)
		}
	} else {
		data = []byte(dot)
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write graph: %w", err)
	}
	printFile(output)
	return nil
}
