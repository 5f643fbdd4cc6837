package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"dev-tool/internal/logger"
	"dev-tool/internal/settings"
	"dev-tool/internal/toolchain"
	"dev-tool/internal/updates"
	"dev-tool/internal/version"
)

var updatesCmd = &cobra.Command{
	Use:   "check-updates",
	Short: "Check Qt and PDCursesMod against their upstream releases",
	Long: `Compares the local Qt installation and the vendored PDCursesMod copy
against the latest upstream releases. The check is advisory: nothing is
downloaded, and a feed that cannot be reached is reported as unavailable.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		store := settings.Open(root)
		probe := toolchain.NewProbe(root)
		qtRequest := flagQtPrefix
		if qtRequest == "" {
			qtRequest = store.QtPrefix()
		}
		qtPrefix := probe.QtPrefix(qtRequest, probe.Generator(store.Generator()))

		checker := updates.NewChecker()
		unavailable := 0

		localQt := toolchain.QtVersionFromPrefix(qtPrefix)
		if latest, source, err := checker.LatestQtVersion(); err != nil {
			logger.Warn("[WARN] Qt: upstream check unavailable (%v)\n", err)
			unavailable++
		} else if reportUpdate("Qt", localQt, latest, source) {
			logger.Hint("  Fetch it with: dev-tool download-qt --qt-version %s\n", latest)
		}

		localPD := updates.LocalPDCursesVersion(root)
		if latest, url, err := checker.LatestPDCursesVersion(); err != nil {
			logger.Warn("[WARN] PDCursesMod: upstream check unavailable (%v)\n", err)
			unavailable++
		} else if reportUpdate("PDCursesMod", localPD, latest, url) {
			logger.Hint("  Release notes: %s\n", url)
		}

		if unavailable > 0 {
			return fmt.Errorf("%d upstream feed(s) could not be queried", unavailable)
		}
		return nil
	},
}

// reportUpdate prints the local-vs-latest status line for one component and
// reports whether an update is available.
func reportUpdate(name, local, latest, source string) bool {
	if local == "" {
		logger.Info("%s: latest upstream release is %s (no local copy detected)\n", name, latest)
		return false
	}
	cmp, ok := version.Compare(local, latest)
	switch {
	case !ok:
		logger.Warn("[WARN] %s: cannot compare local %q against upstream %q\n", name, local, latest)
		return false
	case cmp < 0:
		logger.Warn("%s: update available, %s -> %s (%s)\n", name, local, latest, source)
		return true
	default:
		logger.Info("%s: up to date (%s)\n", name, local)
		return false
	}
}

func init() {
	addSourceDirFlag(updatesCmd)
	updatesCmd.Flags().StringVar(&flagQtPrefix, "qt-prefix", "", "Qt installation root to compare against upstream")
	rootCmd.AddCommand(updatesCmd)
}
