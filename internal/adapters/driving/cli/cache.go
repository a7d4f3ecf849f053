package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/placemap/internal/core/domain"
	"github.com/custodia-labs/placemap/internal/core/ports/driving"
)

var (
	cacheListJSON bool
	failuresLimit int
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the coordinate cache",
	Long: `View cached coordinates and past resolution failures.

Entries are never removed or replaced; delete the cache file to start over.`,
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached coordinates",
	Args:  cobra.NoArgs,
	RunE:  runCacheList,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cacheFailuresCmd = &cobra.Command{
	Use:   "failures",
	Short: "List recent failed resolutions",
	Long:  `Lists URLs that could not be resolved, newest first. Requires the sqlite backend.`,
	Args:  cobra.NoArgs,
	RunE:  runCacheFailures,
}

func init() {
	cacheListCmd.Flags().BoolVar(&cacheListJSON, "json", false, "output as JSON in cache file format")
	cacheFailuresCmd.Flags().IntVarP(&failuresLimit, "limit", "n", 20, "maximum number of failures (0 for all)")
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheFailuresCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheList(cmd *cobra.Command, _ []string) error {
	if cacheService == nil {
		return notConfigured("cache")
	}

	entries, err := cacheService.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list cache: %w", err)
	}

	if cacheListJSON {
		return outputCacheJSON(cmd, entries)
	}

	if len(entries) == 0 {
		cmd.Println("Cache is empty.")
		return nil
	}

	st := stylesFor(cmd.OutOrStdout())
	for _, e := range entries {
		cmd.Printf("%s  %s\n", e.Coordinate, st.Render(st.Muted, e.URL))
	}
	cmd.Printf("\n%d entries\n", len(entries))
	return nil
}

func outputCacheJSON(cmd *cobra.Command, entries []driving.CacheEntry) error {
	cache := domain.NewCoordinateCache()
	for _, e := range entries {
		cache.Add(e.URL, e.Coordinate)
	}
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	if cacheService == nil {
		return notConfigured("cache")
	}

	stats, err := cacheService.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}

	st := stylesFor(cmd.OutOrStdout())
	cmd.Println(st.Render(st.Title, "Cache"))
	cmd.Println(st.Row("Backend", stats.Backend.Description()))
	cmd.Println(st.Row("Location", stats.Location))
	cmd.Println(st.Row("Entries", fmt.Sprintf("%d", stats.Entries)))
	if stats.Invalid > 0 {
		cmd.Println(st.Row("Invalid", st.Render(st.Warning, fmt.Sprintf("%d", stats.Invalid))))
	}
	if b := stats.Bounds; b != nil {
		cmd.Println(st.Row("Bounds", fmt.Sprintf("%.4f, %.4f to %.4f, %.4f", b[0], b[1], b[2], b[3])))
	}
	return nil
}

func runCacheFailures(cmd *cobra.Command, _ []string) error {
	if cacheService == nil {
		return notConfigured("cache")
	}

	failures, err := cacheService.Failures(context.Background(), failuresLimit)
	if errors.Is(err, domain.ErrUnsupportedType) {
		cmd.Println("No attempt history for this backend. Use --cache-backend sqlite.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to list failures: %w", err)
	}

	if len(failures) == 0 {
		cmd.Println("No failed resolutions recorded.")
		return nil
	}

	st := stylesFor(cmd.OutOrStdout())
	for i := range failures {
		f := &failures[i]
		cmd.Printf("%s  %s\n", st.Render(st.Muted, f.At.Local().Format("2006-01-02 15:04")), f.URL)
		if f.Error != "" {
			cmd.Printf("    %s\n", st.Render(st.Error, f.Error))
		}
		if f.FinalURL != "" && f.FinalURL != f.URL {
			cmd.Printf("    ended at %s\n", truncate(f.FinalURL, 100))
		}
	}
	return nil
}

// truncate shortens s to maxLen runes, marking the cut with "...".
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
