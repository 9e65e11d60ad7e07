package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rankforge/pkg/cmpio"
	"github.com/matzehuels/rankforge/pkg/pipeline"
)

// rankCommand creates the rank command, the primary entry point.
func (c *CLI) rankCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "rank <comparisons.json|comparisons.toml>",
		Short: "Compute a consistent ranking from pairwise comparisons",
		Long: `Compute a consistent ranking from pairwise comparisons.

The rank command reads a comparison file, repairs any contradictions with a
minimum-cost set of reversals, and prints one numeric rank per item. Lower
ranks mean preferred items; equal ranks mean the items tied.

Results are cached locally, keyed by the comparison set and the options, so
repeated runs on the same input return immediately.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRank(c.withLogger(cmd.Context()), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the ranking as JSON to this path")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	cmd.Flags().Float64Var(&opts.EqualBand, "equal-band", 0, "half-width of the value band around 0.5 treated as a tie")
	cmd.Flags().BoolVar(&opts.WeightByConfidence, "weighted", false, "weight repair costs by comparison confidence")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when a cached result exists")
	cmd.Flags().DurationVar(&opts.TimeLimit, "time-limit", 0, "stop after this duration and keep the best ranking found")

	return cmd
}

// runRank loads the comparisons, runs the pipeline and prints the ranking.
func (c *CLI) runRank(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
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

	spinner := newSpinnerWithContext(ctx, "Solving...")
	spinner.Start()

	start := time.Now()
	res, err := runner.Execute(ctx, set, opts)
	if err != nil {
		spinner.StopWithError("Ranking failed")
		return fmt.Errorf("rank: %w", err)
	}
	spinner.Stop()

	ranking := res.Ranking
	fmt.Println(renderRankingTable(ranking))
	printStats(res.Stats.Items, res.Stats.Comparisons, res.CacheHit)

	switch {
	case ranking.Cost == 0:
		printSuccess("comparisons are consistent, nothing repaired")
	default:
		printWarning("repaired %d comparison(s) at cost %s",
			len(ranking.Flipped), StyleNumber.Render(fmt.Sprintf("%.4g", ranking.Cost)))
		for _, pair := range ranking.Flipped {
			printDetail("flipped %d vs %d", pair[0], pair[1])
		}
	}
	if !ranking.ProvenOptimal {
		printWarning("time limit reached after %s, result is best effort",
			time.Since(start).Round(time.Millisecond))
	}

	if output != "" {
		doc := cmpio.NewRankingDoc(ranking, res.RunID)
		if err := cmpio.ExportRanking(doc, output); err != nil {
			return fmt.Errorf("write ranking: %w", err)
		}
		printFile(output)
	}
	return nil
}
