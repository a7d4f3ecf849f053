package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var inspectShowURLs bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <export.json>",
	Short: "Report what a run would resolve",
	Long: `Reads an export and reports where each place's coordinates would come from,
without opening a browser. Places without coordinates are split into those
already in the cache and those a run would look up.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectShowURLs, "urls", false, "list the URLs still to resolve")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	if pipeline == nil {
		return notConfigured("pipeline")
	}

	result, err := pipeline.Inspect(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("inspect failed: %w", err)
	}

	st := stylesFor(cmd.OutOrStdout())
	cmd.Println(st.Render(st.Title, "Export"))
	cmd.Println(st.Row("Places", fmt.Sprintf("%d", result.Total)))
	printSources(cmd, st, result.Sources)

	cmd.Println()
	cmd.Println(st.Render(st.Title, "Missing coordinates"))
	cmd.Println(st.Row("Cached", fmt.Sprintf("%d", len(result.Cached))))
	cmd.Println(st.Row("To resolve", fmt.Sprintf("%d", len(result.Pending))))

	if inspectShowURLs && len(result.Pending) > 0 {
		cmd.Println()
		for _, url := range result.Pending {
			cmd.Printf("  %s\n", url)
		}
	}
	return nil
}
