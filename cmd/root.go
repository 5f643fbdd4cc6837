package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"dev-tool/internal/logger"
	"dev-tool/internal/runner"
)

// debugMode holds the value of the persistent --debug flag. It is read in
// PersistentPreRun, so every verb gets the logger initialized before it runs.
var debugMode bool

var rootCmd = &cobra.Command{
	Use:   "dev-tool",
	Short: "Build, run, and environment helper for the C++/Qt 6 project",
	Long: `dev-tool wraps the project's CMake workflow in a handful of verbs:

  build          configure and compile
  test           compile and run the ctest suite
  run            compile a target and execute it
  verify         diagnose the build environment (compiler, generator, Qt)
  check-updates  compare vendored Qt/PDCursesMod against upstream releases
  download-qt    fetch prebuilt Qt binaries via the aqt helper
  settings       show or change persisted per-user defaults

The generator, compiler flavor, and Qt installation are detected
automatically; flags and persisted settings override the detection.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(debugMode)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
}

// Execute runs the CLI. Errors are printed once here; when the failure came
// from an external command (cmake, ctest, a built binary) its exit code is
// propagated instead of a generic 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("Error: %v\n", err)
		os.Exit(runner.ExitCode(err))
	}
}
