// Package project drives the CMake build of the C++ project and resolves its
// build artifacts: which generator a build directory was configured with,
// whether it is multi-configuration, which targets are runnable, and where a
// built executable landed. The actual compiling and testing is delegated to
// cmake/ctest subprocesses; their exit codes are the only success signal.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dev-tool/internal/logger"
	"dev-tool/internal/runner"
)

// cacheFileName is CMake's persisted configure-time cache inside a build dir.
const cacheFileName = "CMakeCache.txt"

// IsMultiConfig reports whether the build uses a multi-configuration
// generator (Debug/Release coexist under one tree, selected per build).
// The generator name is checked for the known multi-config markers; when
// that is ambiguous, the build directory's cache is consulted for the
// configuration-types entry recorded at configure time.
func IsMultiConfig(generator, buildDir string) bool {
	if generator != "" &&
		(strings.Contains(generator, "Visual Studio") ||
			strings.Contains(generator, "Xcode") ||
			strings.Contains(generator, "Multi-Config")) {
		return true
	}
	raw, err := os.ReadFile(filepath.Join(buildDir, cacheFileName))
	if err != nil {
		return false
	}
	return strings.Contains(string(raw), "CMAKE_CONFIGURATION_TYPES")
}

// ReadGeneratorFromCache returns the generator a build directory was
// configured with, "" when the cache file or the entry is missing.
func ReadGeneratorFromCache(buildDir string) string {
	raw, err := os.ReadFile(filepath.Join(buildDir, cacheFileName))
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(raw), "\n") {
		if value, ok := strings.CutPrefix(line, "CMAKE_GENERATOR:INTERNAL="); ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// effectiveConfig picks the --config value: an explicit override always wins,
// otherwise the build type applies only to multi-config generators.
func effectiveConfig(generator, buildDir, buildType, configOverride string) string {
	if configOverride != "" {
		return configOverride
	}
	if IsMultiConfig(generator, buildDir) {
		return buildType
	}
	return ""
}

// Configure runs the CMake configure step, reconciling the requested
// generator with any existing cache first. It returns the generator actually
// in effect.
//
// A build directory keeps the generator it was configured with. When the
// request was auto-detected (strict=false) the cached generator is silently
// reused; an explicit --generator/$CMAKE_GENERATOR that conflicts with the
// cache is an error, since switching requires clearing the build directory.
func Configure(root, buildDir, generator, buildType, qtPrefix string, generatorIsStrict bool) (string, error) {
	if info, err := os.Stat(buildDir); err == nil && !info.IsDir() {
		return "", fmt.Errorf("build path exists and is not a directory: %s", buildDir)
	}

	if cached := ReadGeneratorFromCache(buildDir); cached != "" {
		switch {
		case generator == "":
			logger.Info("Reusing cached CMake generator %q from build directory %s\n", cached, buildDir)
			generator = cached
		case cached != generator && !generatorIsStrict:
			logger.Info("Build directory %s was configured with generator %q; reusing it\n", buildDir, cached)
			generator = cached
		case cached != generator:
			return "", fmt.Errorf(
				"build directory %s was configured with generator %q, but %q was requested; "+
					"delete the build directory (or choose a different --build-dir) to switch generators, "+
					"or rerun without --generator to reuse the cached one",
				buildDir, cached, generator)
		}
	}

	if err := os.MkdirAll(buildDir, 0755); err != nil {
		return "", err
	}

	args := []string{"-S", root, "-B", buildDir}
	if generator != "" {
		args = append(args, "-G", generator)
	}
	if qtPrefix != "" {
		args = append(args, "-DCMAKE_PREFIX_PATH="+qtPrefix)
	}
	if buildType != "" {
		args = append(args, "-DCMAKE_BUILD_TYPE="+buildType)
	}
	if err := runner.Run("cmake", args...); err != nil {
		return "", err
	}
	return generator, nil
}

// Build runs the CMake build step for the given targets (all when empty).
func Build(buildDir, generator, buildType string, targets []string, configOverride string) error {
	args := []string{"--build", buildDir}
	if len(targets) > 0 {
		args = append(args, "--target")
		args = append(args, targets...)
	}
	if config := effectiveConfig(generator, buildDir, buildType, configOverride); config != "" {
		args = append(args, "--config", config)
	}
	return runner.Run("cmake", args...)
}

// Test runs the test suite through ctest, passing extra arguments through.
func Test(buildDir, generator, buildType, configOverride string, extra []string) error {
	args := []string{"--test-dir", buildDir}
	if config := effectiveConfig(generator, buildDir, buildType, configOverride); config != "" {
		args = append(args, "-C", config)
	}
	args = append(args, extra...)
	return runner.Run("ctest", args...)
}
