package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"dev-tool/internal/logger"
	"dev-tool/internal/project"
	"dev-tool/internal/runner"
)

var runSkipBuild bool

var runCmd = &cobra.Command{
	Use:   "run [target] [-- args...]",
	Short: "Build a target and execute it",
	Long: `Builds the named target (or the first runnable target discovered in the
build directory when none is given), locates the produced executable, and runs
it. Arguments after -- are passed to the program unchanged. The program's exit
code becomes dev-tool's exit code.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := resolveEnv()
		if err != nil {
			return err
		}
		if err := env.ensureToolchain(); err != nil {
			return err
		}
		if err := env.configure(); err != nil {
			return err
		}

		target := ""
		programArgs := args
		if len(args) > 0 {
			target = args[0]
			programArgs = args[1:]
		}
		if target == "" {
			targets := project.ListRunnableTargets(env.buildDir, env.generator, env.buildType, env.config, env.store.RunTargets())
			if len(targets) == 0 {
				return fmt.Errorf("no runnable targets found in %s; pass a target name", env.buildDir)
			}
			target = targets[0]
			logger.Info("No target given; running %q (runnable targets: %s)\n", target, strings.Join(targets, ", "))
		}

		if !runSkipBuild {
			if err := project.Build(env.buildDir, env.generator, env.buildType, []string{target}, env.config); err != nil {
				return err
			}
		}

		exe, err := project.FindBuiltBinary(env.buildDir, target, env.generator, env.buildType, env.config)
		if err != nil {
			var notFound *project.ExecutableNotFoundError
			if errors.As(err, &notFound) {
				logger.Hint("Check the target name against `dev-tool run` without arguments, or rebuild without --skip-build.\n")
			}
			return err
		}

		// Run from the executable's directory so relative resources and
		// side-by-side DLLs resolve.
		return runner.RunIn(filepath.Dir(exe), exe, programArgs...)
	},
}

func init() {
	addBuildFlags(runCmd)
	runCmd.Flags().BoolVar(&runSkipBuild, "skip-build", false, "Run the already-built executable without rebuilding")
	rootCmd.AddCommand(runCmd)
}
