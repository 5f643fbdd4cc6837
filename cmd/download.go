package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"dev-tool/internal/logger"
	"dev-tool/internal/qtdl"
	"dev-tool/internal/settings"
	"dev-tool/internal/toolchain"
	"dev-tool/internal/updates"
)

var (
	downloadVersion   string
	downloadCompiler  string
	downloadOutputDir string
	downloadBaseURL   string
	downloadWithTools bool
)

var downloadCmd = &cobra.Command{
	Use:   "download-qt",
	Short: "Fetch prebuilt Qt 6 binaries via aqt",
	Long: `Downloads an official Qt 6 binary build into the project's vendored
directory using the aqt helper (pip install aqtinstall). The compiler arch is
matched to the detected toolchain when not given explicitly; --qt-version
latest resolves the newest upstream release first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := projectRoot()
		if err != nil {
			return err
		}
		store := settings.Open(root)
		probe := toolchain.NewProbe(root)

		qtVersion := downloadVersion
		if qtVersion == "" {
			qtVersion = store.DownloadVersion()
		}
		if qtVersion == "latest" {
			latest, _, err := updates.NewChecker().LatestQtVersion()
			if err != nil {
				return fmt.Errorf("cannot resolve the latest Qt version: %w", err)
			}
			qtVersion = latest
		}
		compiler := downloadCompiler
		if compiler == "" {
			compiler = store.DownloadCompiler()
		}
		outputDir := downloadOutputDir
		if outputDir == "" {
			outputDir = store.DownloadOutputDir()
		}

		err = qtdl.Download(probe, qtdl.Options{
			Version:   qtVersion,
			Compiler:  compiler,
			OutputDir: outputDir,
			BaseURL:   downloadBaseURL,
			WithTools: downloadWithTools,
		})
		if err != nil {
			return err
		}

		if prefix := probe.QtPrefix("", ""); prefix != "" {
			logger.Info("Qt is now available at %s\n", prefix)
			logger.Hint("Persist it with: dev-tool settings --set qt_prefix=%s\n", prefix)
		}
		return nil
	},
}

func init() {
	addSourceDirFlag(downloadCmd)
	downloadCmd.Flags().StringVar(&downloadVersion, "qt-version", "", "Qt version to fetch, or \"latest\" (default: settings, then "+qtdl.DefaultQtVersion+")")
	downloadCmd.Flags().StringVar(&downloadCompiler, "compiler", "", "Qt compiler arch, e.g. win64_mingw (default: settings, then detected)")
	downloadCmd.Flags().StringVar(&downloadOutputDir, "output-dir", "", "Destination directory (default: settings, then <root>/third_party/qt6)")
	downloadCmd.Flags().StringVar(&downloadBaseURL, "base-url", "", "Mirror base URL passed through to aqt")
	downloadCmd.Flags().BoolVar(&downloadWithTools, "with-tools", false, "Also fetch tools_ninja and tools_cmake")
	rootCmd.AddCommand(downloadCmd)
}
