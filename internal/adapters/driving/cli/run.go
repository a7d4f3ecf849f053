package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/placemap/internal/core/domain"
	"github.com/custodia-labs/placemap/internal/core/ports/driving"
)

var (
	runOutput     string
	runMetric     string
	runHeaded     bool
	runChromePath string
)

var runCmd = &cobra.Command{
	Use:   "run <export.json>",
	Short: "Resolve coordinates and write the map dataset",
	Long: `Reads a saved-places GeoJSON export and fills in every missing coordinate.

Coordinates come from the place's map link, then from the export itself, then
from the local cache. Anything still missing is resolved by opening the link
in a browser and reading the position from the address it redirects to. Each
resolved place is cached immediately, so an interrupted run loses nothing.

The result is written as GeoJSON with [longitude, latitude] geometry and an
"isolation" property holding the distance to the nearest other place.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "output GeoJSON file (default from settings)")
	runCmd.Flags().StringVar(&runMetric, "metric", "", "isolation metric: planar or great_circle")
	runCmd.Flags().BoolVar(&runHeaded, "headed", false, "show the browser window")
	runCmd.Flags().StringVar(&runChromePath, "chrome", "", "path to the Chrome or Chromium binary")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if pipeline == nil {
		return notConfigured("pipeline")
	}

	metric := domain.IsolationMetric(runMetric)
	if metric != "" && !metric.IsValid() {
		return fmt.Errorf("%w: isolation metric %q (want planar or great_circle)", domain.ErrInvalidInput, runMetric)
	}

	output := runOutput
	if output == "" && settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			output = settings.Output.Path
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := pipeline.Run(ctx, driving.PipelineRequest{
		InputPath:  args[0],
		OutputPath: output,
		Metric:     metric,
	})
	if result != nil {
		printRunSummary(cmd, result)
	}
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	if result.Resolve.Cancelled {
		return fmt.Errorf("run interrupted: %w", context.Canceled)
	}
	return nil
}

func printRunSummary(cmd *cobra.Command, result *driving.PipelineResult) {
	st := stylesFor(cmd.OutOrStdout())

	cmd.Println(st.Render(st.Title, "Summary"))
	cmd.Println(st.Row("Places", fmt.Sprintf("%d", len(result.Records))))
	printSources(cmd, st, result.Sources)

	r := result.Resolve
	if r.Requested > 0 {
		cmd.Println()
		cmd.Println(st.Render(st.Title, "Resolution"))
		cmd.Println(st.Row("Requested", fmt.Sprintf("%d", r.Requested)))
		cmd.Println(st.Row("Cached", fmt.Sprintf("%d", r.CacheHits)))
		cmd.Println(st.Row("Resolved", st.Render(st.Success, fmt.Sprintf("%d", r.Resolved))))
		if r.Failed > 0 {
			cmd.Println(st.Row("Failed", st.Render(st.Error, fmt.Sprintf("%d", r.Failed))))
		}
		if r.SaveErrors > 0 {
			cmd.Println(st.Row("Save errors", st.Render(st.Warning, fmt.Sprintf("%d", r.SaveErrors))))
		}
		if r.Cancelled {
			cmd.Println(st.Render(st.Warning, "  Interrupted; resolved places are cached."))
		}
		cmd.Println(st.Row("Run", st.Render(st.Muted, r.RunID)))
	}

	cmd.Println()
	cmd.Println(st.Row("Metric", fmt.Sprintf("%s (%s)", result.Metric, result.Metric.Unit())))
	if result.OutputPath != "" {
		cmd.Println(st.Row("Output", result.OutputPath))
	} else {
		cmd.Println(st.Row("Output", st.Render(st.Muted, "(none, use --output to write a file)")))
	}
}

// sourceOrder is the display order of coordinate sources.
var sourceOrder = []domain.CoordinateSource{
	domain.SourceURL,
	domain.SourceDirect,
	domain.SourceCache,
	domain.SourceResolved,
	domain.SourceUnresolved,
}

func printSources(cmd *cobra.Command, st *Styles, sources map[domain.CoordinateSource]int) {
	for _, src := range sourceOrder {
		n := sources[src]
		if n == 0 {
			continue
		}
		value := fmt.Sprintf("%d", n)
		if src == domain.SourceUnresolved {
			value = st.Render(st.Warning, value)
		}
		cmd.Println(st.Row(src.String(), value))
	}
}
