package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/placemap/internal/core/domain"
	"github.com/custodia-labs/placemap/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the settings stored in config.toml.

Flags such as --cache-backend or --headed override a setting for one run
without changing the file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Change a setting",
	Long: `Change a setting and save it to config.toml.

Durations are in milliseconds. browser.consent_labels takes a comma-separated
list. Without a value, cache.backend and isolation.metric offer a choice.

Keys:
  ` + strings.Join(services.SettingKeys(), "\n  "),
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return notConfigured("settings")
	}

	list, err := settingsService.List()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	st := stylesFor(cmd.OutOrStdout())
	cmd.Println(st.Render(st.Title, "Current Settings"))

	section := ""
	for _, s := range list {
		if prefix, _, ok := strings.Cut(s.Key, "."); ok && prefix != section {
			section = prefix
			cmd.Println()
			cmd.Printf("[%s]\n", section)
		}

		value := s.Value
		if value == "" {
			value = "(not set)"
		}
		if s.IsDefault {
			value += st.Render(st.Muted, " (default)")
		}
		cmd.Printf("  %s = %s\n", s.Key, value)
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return notConfigured("settings")
	}

	key := args[0]
	var value string
	if len(args) == 2 {
		value = args[1]
	} else {
		choices := settingChoices(key)
		if len(choices) == 0 {
			return fmt.Errorf("%w: %s needs a value", domain.ErrInvalidInput, key)
		}
		value = promptChoice(cmd, key, choices)
	}

	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

// settingChoices lists the accepted values of enumerated keys.
func settingChoices(key string) []string {
	switch key {
	case services.KeyCacheBackend:
		return []string{
			domain.CacheBackendJSON.String(),
			domain.CacheBackendSQLite.String(),
			domain.CacheBackendMemory.String(),
		}
	case services.KeyIsolationMetric:
		return []string{
			domain.IsolationPlanar.String(),
			domain.IsolationGreatCircle.String(),
		}
	default:
		return nil
	}
}

func promptChoice(cmd *cobra.Command, key string, choices []string) string {
	cmd.Printf("Select %s:\n", key)
	for i, c := range choices {
		cmd.Printf("  %d. %s\n", i+1, c)
	}
	cmd.Print("\nEnter choice [1]: ")

	reader := bufio.NewReader(cmd.InOrStdin())
	idx := parseChoice(readLine(reader), len(choices), 1)
	return choices[idx-1]
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}
