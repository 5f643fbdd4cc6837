package project

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"dev-tool/internal/runner"
)

// nonRunTargets are housekeeping targets the build backends report that are
// never worth offering as something to run.
var nonRunTargets = map[string]bool{
	"all":        true,
	"ALL_BUILD":  true,
	"RUN_TESTS":  true,
	"test":       true,
	"install":    true,
	"help":       true,
	"clean":      true,
	"ZERO_CHECK": true,
}

// ExecutableNotFoundError reports that a built executable could not be
// located anywhere under the build directory, even by recursive search.
type ExecutableNotFoundError struct {
	Target   string
	BuildDir string
}

func (e *ExecutableNotFoundError) Error() string {
	return fmt.Sprintf("executable for target %q not found in %s", e.Target, e.BuildDir)
}

// ListRunnableTargets queries the build backend for its target list, filters
// out housekeeping targets, appends the configured default names, and
// deduplicates preserving first-seen order. The set is recomputed on every
// call; nothing is cached or persisted.
func ListRunnableTargets(buildDir, generator, buildType, configOverride string, defaults []string) []string {
	gen := generator
	if gen == "" {
		gen = ReadGeneratorFromCache(buildDir)
	}
	config := effectiveConfig(gen, buildDir, buildType, configOverride)

	var found []string
	if strings.Contains(gen, "Ninja") {
		found = listTargetsWithNinja(buildDir)
	} else {
		found = listTargetsWithCMake(buildDir, config)
	}
	return dedupeRunnable(append(found, defaults...))
}

// listTargetsWithNinja asks ninja for its full target list.
func listTargetsWithNinja(buildDir string) []string {
	if _, err := exec.LookPath("ninja"); err != nil {
		return nil
	}
	out, err := runner.Output("ninja", "-C", buildDir, "-t", "targets", "all")
	if err != nil {
		return nil
	}
	return parseNinjaTargets(out)
}

// listTargetsWithCMake scrapes the generic `cmake --build --target help`
// listing, which most non-Ninja generators support.
func listTargetsWithCMake(buildDir, config string) []string {
	args := []string{"--build", buildDir, "--target", "help"}
	if config != "" {
		args = append(args, "--config", config)
	}
	out, err := runner.Output("cmake", args...)
	if err != nil {
		return nil
	}
	return parseCMakeHelpTargets(out)
}

// parseNinjaTargets extracts target names from `ninja -t targets all` output,
// where each line reads "name: rule".
func parseNinjaTargets(out string) []string {
	var targets []string
	for _, line := range strings.Split(out, "\n") {
		name, _, _ := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if name != "" && !nonRunTargets[name] {
			targets = append(targets, name)
		}
	}
	return targets
}

// parseCMakeHelpTargets extracts target names from the help-target listing.
// Makefile generators print "... name (description)" lines; others print
// "name: ..." lines.
func parseCMakeHelpTargets(out string) []string {
	var targets []string
	for _, line := range strings.Split(out, "\n") {
		var candidate string
		if rest, ok := strings.CutPrefix(line, "..."); ok {
			candidate = strings.SplitN(strings.TrimSpace(rest), " ", 2)[0]
		} else if name, _, ok := strings.Cut(line, ":"); ok {
			candidate = strings.TrimSpace(name)
		} else {
			continue
		}
		if candidate != "" && !nonRunTargets[candidate] {
			targets = append(targets, candidate)
		}
	}
	return targets
}

// dedupeRunnable removes housekeeping names and duplicates while preserving
// first-seen order.
func dedupeRunnable(names []string) []string {
	seen := make(map[string]bool)
	var cleaned []string
	for _, name := range names {
		if name == "" || nonRunTargets[name] || seen[name] {
			continue
		}
		seen[name] = true
		cleaned = append(cleaned, name)
	}
	return cleaned
}

// FindBuiltBinary locates the executable a target was built into. Direct
// candidates are probed first (build dir root, per-target subdir, and the
// per-configuration variants of both); when none exists the build tree is
// searched recursively and the first match wins.
func FindBuiltBinary(buildDir, target, generator, buildType, configOverride string) (string, error) {
	exeName := target
	if runtime.GOOS == "windows" {
		exeName += ".exe"
	}
	config := effectiveConfig(generator, buildDir, buildType, configOverride)

	candidates := []string{
		filepath.Join(buildDir, exeName),
		filepath.Join(buildDir, target, exeName),
	}
	if config != "" {
		candidates = append(candidates,
			filepath.Join(buildDir, config, exeName),
			filepath.Join(buildDir, config, target, exeName),
		)
	}
	for _, candidate := range candidates {
		if isFile(candidate) {
			return candidate, nil
		}
	}

	// Fall back to a recursive search; generators are free to nest outputs
	// in layouts the direct probes do not anticipate.
	var match string
	_ = filepath.WalkDir(buildDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && d.Name() == exeName {
			match = path
			return filepath.SkipAll
		}
		return nil
	})
	if match != "" {
		return match, nil
	}
	return "", &ExecutableNotFoundError{Target: target, BuildDir: buildDir}
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
