package cmd

import (
	"github.com/spf13/cobra"

	"dev-tool/internal/project"
)

var buildTargets []string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Configure and build the project",
	Long: `Resolves the build environment (generator, compiler, Qt), runs the
CMake configure step, and builds the whole project or the named targets.`,
	Args: cobra.NoArgs,
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
		return project.Build(env.buildDir, env.generator, env.buildType, buildTargets, env.config)
	},
}

func init() {
	addBuildFlags(buildCmd)
	buildCmd.Flags().StringSliceVar(&buildTargets, "target", nil, "Build only the named target(s)")
	rootCmd.AddCommand(buildCmd)
}
