package cmd

import (
	"github.com/spf13/cobra"

	"dev-tool/internal/project"
)

var testCmd = &cobra.Command{
	Use:   "test [-- ctest-args...]",
	Short: "Build the project and run the ctest suite",
	Long: `Configures and builds the project, then runs ctest against the build
directory. Arguments after -- are passed through to ctest unchanged, e.g.

  dev-tool test -- -R version --output-on-failure`,
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
		if err := project.Build(env.buildDir, env.generator, env.buildType, nil, env.config); err != nil {
			return err
		}
		return project.Test(env.buildDir, env.generator, env.buildType, env.config, args)
	},
}

func init() {
	addBuildFlags(testCmd)
	rootCmd.AddCommand(testCmd)
}
