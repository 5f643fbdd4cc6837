package project

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FindPDCursesPaths reports where the vendored PDCursesMod sources live and
// which pdcurses libraries the build has produced so far. Used by the
// environment report; an empty result is advisory, not an error.
func FindPDCursesPaths(root, buildDir string) []string {
	var paths []string
	vendored := filepath.Join(root, "third_party", "PDCursesMod")
	if info, err := os.Stat(vendored); err == nil && info.IsDir() {
		paths = append(paths, vendored)
	}
	_ = filepath.WalkDir(buildDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		name := strings.ToLower(d.Name())
		if strings.Contains(name, "pdcurses") &&
			(strings.HasSuffix(name, ".a") || strings.HasSuffix(name, ".lib")) {
			paths = append(paths, path)
		}
		return nil
	})
	return paths
}
