package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dev-tool/internal/logger"
	"dev-tool/internal/settings"
)

var (
	settingsSet   []string
	settingsUnset []string
	settingsPrint bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change persisted per-user defaults",
	Long: `Reads and writes the per-user settings document. Every change rewrites
the full key set, so the file always lists every known setting. With no flags
the current values are printed.

  dev-tool settings --set build_type=Release --set generator=Ninja
  dev-tool settings --unset generator
  dev-tool settings --print`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		store := settings.Open(root)

		updates := make(map[string]string, len(settingsSet))
		for _, pair := range settingsSet {
			key, value, ok := strings.Cut(pair, "=")
			if !ok {
				return fmt.Errorf("--set expects KEY=VALUE, got %q", pair)
			}
			updates[strings.TrimSpace(key)] = value
		}

		if len(updates) > 0 || len(settingsUnset) > 0 {
			if err := store.Set(updates, settingsUnset); err != nil {
				return fmt.Errorf("failed to save settings: %w", err)
			}
			logger.Info("Settings saved to %s\n", store.Path())
		}

		if settingsPrint || (len(updates) == 0 && len(settingsUnset) == 0) {
			logger.Info("Settings file: %s\n", store.Path())
			for _, key := range store.Keys() {
				logger.Info("  %s: %s\n", key, formatSetting(store.Get(key)))
			}
		}
		return nil
	},
}

// formatSetting renders a setting value for display.
func formatSetting(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}

func init() {
	addSourceDirFlag(settingsCmd)
	settingsCmd.Flags().StringArrayVar(&settingsSet, "set", nil, "Set a value as KEY=VALUE (repeatable)")
	settingsCmd.Flags().StringArrayVar(&settingsUnset, "unset", nil, "Reset a key to its built-in default (repeatable)")
	settingsCmd.Flags().BoolVar(&settingsPrint, "print", false, "Print the current values after applying changes")
	rootCmd.AddCommand(settingsCmd)
}
