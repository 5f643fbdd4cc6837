package toolchain

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"dev-tool/internal/version"
)

// QtFlavor reports whether a Qt install path looks like a MinGW or MSVC
// build, based on its path segments (a Windows-only naming convention in the
// official binary layout, e.g. 6.10.1/mingw_64 or 6.10.1/msvc2022_64).
// Returns "" when neither marker appears.
func QtFlavor(path string) string {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		lower := strings.ToLower(part)
		if strings.Contains(lower, "mingw") {
			return FlavorMinGW
		}
		if strings.Contains(lower, "msvc") {
			return FlavorMSVC
		}
	}
	return ""
}

// QtPrefix resolves the Qt installation root, honoring CLI, environment, or
// autodetection, in that order:
//   - the CLI value, when the path exists
//   - $QT_PREFIX_PATH, when it exists
//   - the first $CMAKE_PREFIX_PATH segment, when it exists
//   - a scan under <root>/third_party/qt6 for CMake package markers
//
// Returns "" if nothing is found so CMake can still try system Qt installs.
func (p *Probe) QtPrefix(cliValue, generator string) string {
	candidates := []string{cliValue, p.Getenv("QT_PREFIX_PATH")}
	if prefixes := p.Getenv("CMAKE_PREFIX_PATH"); prefixes != "" {
		candidates = append(candidates, strings.Split(prefixes, string(os.PathListSeparator))[0])
	}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		path := expandUser(candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return p.autodetectQtPrefix(p.CompilerFlavor(generator))
}

// qtCandidate is a vendored Qt install found during autodetection, tagged
// with its parsed version and path-derived flavor.
type qtCandidate struct {
	tuple  []int
	flavor string
	prefix string
}

// autodetectQtPrefix guesses a Qt prefix by scanning the vendored download
// directory for lib/cmake/Qt6 marker subpaths. It prefers candidates whose
// flavor matches the detected compiler, and among those the highest version;
// without a flavor match the highest version overall wins.
func (p *Probe) autodetectQtPrefix(preferredFlavor string) string {
	qtRoot := filepath.Join(p.Root, "third_party", "qt6")
	if _, err := os.Stat(qtRoot); err != nil {
		return ""
	}

	marker := filepath.Join("lib", "cmake", "Qt6")
	var candidates []qtCandidate
	_ = filepath.WalkDir(qtRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, string(filepath.Separator)+marker) {
			return nil
		}
		// The prefix is three levels above lib/cmake/Qt6.
		prefix := filepath.Dir(filepath.Dir(filepath.Dir(path)))
		candidates = append(candidates, qtCandidate{
			tuple:  version.ParseFromPath(prefix),
			flavor: QtFlavor(prefix),
			prefix: prefix,
		})
		return filepath.SkipDir
	})
	if len(candidates) == 0 {
		return ""
	}

	if preferredFlavor != "" {
		var matching []qtCandidate
		for _, c := range candidates {
			if c.flavor == preferredFlavor {
				matching = append(matching, c)
			}
		}
		if chosen := pickNewest(matching); chosen != "" {
			return chosen
		}
	}
	return pickNewest(candidates)
}

// pickNewest returns the candidate with the highest version tuple.
func pickNewest(candidates []qtCandidate) string {
	if len(candidates) == 0 {
		return ""
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return version.CompareTuples(candidates[i].tuple, candidates[j].tuple) < 0
	})
	return candidates[len(candidates)-1].prefix
}

// QtLibraryDirs returns the existing library directories under a Qt prefix.
func QtLibraryDirs(prefix string) []string {
	var dirs []string
	for _, name := range []string{"lib", "lib64", "Lib"} {
		candidate := filepath.Join(prefix, name)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			dirs = append(dirs, candidate)
		}
	}
	return dirs
}

// QtVersionFromPrefix extracts the dotted version recorded in the prefix
// path, "" when the path carries none.
func QtVersionFromPrefix(prefix string) string {
	return version.String(version.ParseFromPath(prefix))
}

// EnforceToolchainMatch fails fast when the detected compiler flavor and the
// Qt binaries obviously conflict. Mixing MSVC Qt with MinGW (or vice versa)
// produces slow, cryptic linker errors, so this is the one probe result that
// is fatal rather than advisory. It is a no-op when the prefix is empty, the
// host is not Windows, or either flavor is unknown.
func (p *Probe) EnforceToolchainMatch(qtPrefix, generator string) error {
	if qtPrefix == "" || p.GOOS != "windows" {
		return nil
	}
	compilerFlavor := p.CompilerFlavor(generator)
	qtFlavor := QtFlavor(qtPrefix)
	if compilerFlavor != "" && qtFlavor != "" && compilerFlavor != qtFlavor {
		return fmt.Errorf(
			"Qt install %s looks like %s, but your compiler/generator looks like %s.\n"+
				"Use a matching Qt download (e.g. dev-tool download-qt --compiler win64_mingw) "+
				"or switch to the corresponding toolchain/generator",
			qtPrefix, strings.ToUpper(qtFlavor), strings.ToUpper(compilerFlavor))
	}
	return nil
}

// expandUser expands a leading ~ to the user home directory.
func expandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
