package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"dev-tool/internal/logger"
	"dev-tool/internal/project"
	"dev-tool/internal/toolchain"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Diagnose the build environment",
	Long: `Checks that everything a build needs is present: cmake, a CMake
generator, a C++ compiler, and a Qt 6 installation matching the compiler
flavor. Prints one line per item with a remediation hint for anything missing,
and exits non-zero when a required piece is absent.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := resolveEnv()
		if err != nil {
			return err
		}
		ok := true

		if path, err := env.probe.LookPath("cmake"); err == nil {
			logger.Info("[OK] cmake: %s\n", path)
		} else {
			logger.Error("[MISSING] cmake is not on PATH\n")
			logger.Hint("  %s\n", env.probe.PackageInstallHint("cmake"))
			ok = false
		}

		if env.generator != "" {
			logger.Info("[OK] CMake generator: %s\n", env.generator)
		} else {
			logger.Warn("[WARN] No CMake generator detected; CMake will pick its own default\n")
			logger.Hint("  %s\n", env.probe.PackageInstallHint("ninja"))
		}

		report := env.probe.DescribeCompiler(env.generator)
		if report.Description != "" {
			logger.Info("[OK] C++ compiler: %s\n", report.Description)
			for _, dir := range report.LibraryDirs {
				logger.Info("     library dir: %s\n", dir)
			}
			if report.Hint != "" {
				logger.Hint("  %s\n", report.Hint)
			}
		} else {
			logger.Error("[MISSING] No C++ compiler found\n")
			if report.Hint != "" {
				logger.Hint("  %s\n", report.Hint)
			}
			ok = false
		}

		if env.qtPrefix != "" {
			if v := toolchain.QtVersionFromPrefix(env.qtPrefix); v != "" {
				logger.Info("[OK] Qt prefix: %s (version %s)\n", env.qtPrefix, v)
			} else {
				logger.Info("[OK] Qt prefix: %s\n", env.qtPrefix)
			}
			for _, dir := range toolchain.QtLibraryDirs(env.qtPrefix) {
				logger.Info("     library dir: %s\n", dir)
			}
			if err := env.ensureToolchain(); err != nil {
				logger.Error("[MISMATCH] %v\n", err)
				ok = false
			}
		} else {
			logger.Error("[MISSING] No Qt 6 installation found\n")
			logger.Hint("  Fetch prebuilt binaries with: dev-tool download-qt\n")
			logger.Hint("  Or install system packages: %s\n", env.probe.PackageInstallHint("qt"))
			ok = false
		}

		if paths := project.FindPDCursesPaths(env.root, env.buildDir); len(paths) > 0 {
			for _, path := range paths {
				logger.Info("[OK] PDCursesMod: %s\n", path)
			}
		} else {
			logger.Warn("[WARN] PDCursesMod not found under third_party/ (console targets need it)\n")
		}

		if !ok {
			return fmt.Errorf("environment verification found problems")
		}
		logger.Info("\nEnvironment looks good.\n")
		return nil
	},
}

func init() {
	addBuildFlags(verifyCmd)
	rootCmd.AddCommand(verifyCmd)
}
