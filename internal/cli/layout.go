package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	scoreio "github.com/notationkit/stave/pkg/io"
	"github.com/notationkit/stave/pkg/pipeline"
)

// layoutCommand creates the layout command for computing engraving
// layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := c.layoutOptions()

	cmd := &cobra.Command{
		Use:   "layout [score.json]",
		Short: "Compute the engraving layout for a score",
		Long: `Compute the engraving layout for a score.

The layout command reads a score file, validates it, and computes the
full engraving layout: line-broken systems, measures with spaced
columns, and positioned glyphs. The output is a layout.json file that
clients render directly, with no further musical decisions to make.

The same score and parameters always produce the same layout, so
results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when a cached layout exists")

	cmd.Flags().Float64Var(&opts.MaxSystemWidth, "max-system-width", opts.MaxSystemWidth, "maximum system width in layout units")
	cmd.Flags().Float64Var(&opts.UnitsPerSpace, "units-per-space", opts.UnitsPerSpace, "layout units per staff space")
	cmd.Flags().Float64Var(&opts.SystemSpacing, "system-spacing", opts.SystemSpacing, "vertical gap between systems")
	cmd.Flags().Float64Var(&opts.SystemHeight, "system-height", opts.SystemHeight, "nominal height of one system")

	return cmd
}

// runLayout loads the score, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	logger := loggerFromContext(ctx)

	sc, err := scoreio.ImportScore(input)
	if err != nil {
		return fmt.Errorf("load score %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = logger

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	result, err := runner.Execute(ctx, sc, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := scoreio.ExportLayout(result.Layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(result.Stats.SystemCount, result.Stats.NoteCount, result.CacheInfo.LayoutHit)
	printNewline()
	printNextStep("View", appName+" view "+outputPath)

	return nil
}
