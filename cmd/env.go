package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"dev-tool/internal/logger"
	"dev-tool/internal/project"
	"dev-tool/internal/qtdl"
	"dev-tool/internal/settings"
	"dev-tool/internal/toolchain"
)

// Flag values shared by the build-family verbs. Each verb registers the flags
// it supports; a flag left empty falls back to the settings store and then to
// detection.
var (
	flagSourceDir  string
	flagBuildDir   string
	flagBuildType  string
	flagConfig     string
	flagGenerator  string
	flagQtPrefix   string
	flagDownloadQt bool
)

// addSourceDirFlag registers --source-dir, used by every verb that needs the
// project root.
func addSourceDirFlag(c *cobra.Command) {
	c.Flags().StringVar(&flagSourceDir, "source-dir", "", "Project root (default: current directory)")
}

// addBuildFlags registers the flags common to build, test, and run.
func addBuildFlags(c *cobra.Command) {
	addSourceDirFlag(c)
	c.Flags().StringVar(&flagBuildDir, "build-dir", "", "CMake build directory (default: settings, then <root>/build)")
	c.Flags().StringVar(&flagBuildType, "build-type", "", "CMAKE_BUILD_TYPE (default: settings, then Debug)")
	c.Flags().StringVar(&flagConfig, "config", "", "Configuration for multi-config generators (overrides --build-type)")
	c.Flags().StringVar(&flagGenerator, "generator", "", "CMake generator (default: $CMAKE_GENERATOR, then autodetect)")
	c.Flags().StringVar(&flagQtPrefix, "qt-prefix", "", "Qt installation root (default: settings/$QT_PREFIX_PATH, then autodetect)")
	c.Flags().BoolVar(&flagDownloadQt, "download-qt-if-missing", false, "Fetch Qt with aqt when no installation is found")
}

// projectRoot resolves the project root from --source-dir or the working
// directory, as an absolute path.
func projectRoot() (string, error) {
	root := flagSourceDir
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		root = wd
	}
	return filepath.Abs(root)
}

// buildEnv is the fully resolved environment a build-family verb operates on.
type buildEnv struct {
	store     *settings.Store
	probe     *toolchain.Probe
	root      string
	buildDir  string
	buildType string
	config    string
	generator string
	qtPrefix  string
	// generatorStrict marks an explicitly requested generator (flag or
	// $CMAKE_GENERATOR); a conflict with the build directory's cached
	// generator is then an error instead of a silent reuse.
	generatorStrict bool
}

// resolveEnv merges flags, persisted settings, the environment, and probing
// into the effective build environment. Per value the precedence is flag,
// then settings, then detection.
func resolveEnv() (*buildEnv, error) {
	root, err := projectRoot()
	if err != nil {
		return nil, err
	}
	store := settings.Open(root)
	probe := toolchain.NewProbe(root)

	buildDir := flagBuildDir
	if buildDir == "" {
		buildDir = store.BuildDir()
	}
	if buildDir, err = filepath.Abs(buildDir); err != nil {
		return nil, err
	}

	buildType := flagBuildType
	if buildType == "" {
		buildType = store.BuildType()
	}

	genRequest := flagGenerator
	if genRequest == "" {
		genRequest = store.Generator()
	}
	generator := probe.Generator(genRequest)

	qtRequest := flagQtPrefix
	if qtRequest == "" {
		qtRequest = store.QtPrefix()
	}
	qtPrefix := probe.QtPrefix(qtRequest, generator)
	if qtPrefix == "" && flagDownloadQt {
		logger.Info("No Qt installation found; downloading one into %s\n", store.DownloadOutputDir())
		err := qtdl.Download(probe, qtdl.Options{
			Version:   store.DownloadVersion(),
			Compiler:  store.DownloadCompiler(),
			OutputDir: store.DownloadOutputDir(),
		})
		if err != nil {
			return nil, err
		}
		qtPrefix = probe.QtPrefix(qtRequest, generator)
	}
	if qtPrefix == "" {
		logger.Warn("[WARN] No Qt installation found; CMake will fall back to system packages.\n")
		logger.Hint("Fetch prebuilt binaries with: dev-tool download-qt\n")
	}

	logger.Debug("[DEBUG] root=%s buildDir=%s buildType=%s generator=%q qtPrefix=%q\n",
		root, buildDir, buildType, generator, qtPrefix)

	return &buildEnv{
		store:           store,
		probe:           probe,
		root:            root,
		buildDir:        buildDir,
		buildType:       buildType,
		config:          flagConfig,
		generator:       generator,
		qtPrefix:        qtPrefix,
		generatorStrict: flagGenerator != "" || os.Getenv("CMAKE_GENERATOR") != "",
	}, nil
}

// ensureToolchain aborts the verb when the Qt binaries and the detected
// compiler flavor conflict (MSVC vs MinGW).
func (e *buildEnv) ensureToolchain() error {
	return e.probe.EnforceToolchainMatch(e.qtPrefix, e.generator)
}

// configure runs the CMake configure step. The generator may be rewritten to
// the one cached in the build directory.
func (e *buildEnv) configure() error {
	generator, err := project.Configure(e.root, e.buildDir, e.generator, e.buildType, e.qtPrefix, e.generatorStrict)
	if err != nil {
		return err
	}
	e.generator = generator
	return nil
}
