// Package settings persists per-user defaults for dev-tool (build directory,
// build type, Qt prefix, download options, ...) in a YAML document under the
// platform configuration directory.
//
// The key set is closed: every key has a built-in default, unknown keys in the
// file are ignored on load, and every successful save rewrites the complete
// key set. A corrupted or missing settings file silently degrades to the
// defaults; the tool must stay usable regardless of what is on disk.
package settings

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"dev-tool/internal/logger"
)

// configDirName and configFileName locate the settings document under the
// per-user configuration directory. The directory name matches the project
// the tool serves so earlier installs keep their settings.
const (
	configDirName  = "CPlusPlusQT6Skel"
	configFileName = "settings.yaml"
)

// Setting keys. The set is closed; Set silently drops anything else.
const (
	KeyBuildDir          = "build_dir"
	KeyBuildType         = "build_type"
	KeyQtPrefix          = "qt_prefix"
	KeyGenerator         = "generator"
	KeyDownloadOutputDir = "download_qt_output_dir"
	KeyDownloadVersion   = "download_qt_version"
	KeyDownloadCompiler  = "download_qt_compiler"
	KeyRunTargets        = "default_run_targets"
)

// pathKeys are normalized as filesystem paths (~ expansion, made absolute).
var pathKeys = map[string]bool{
	KeyBuildDir:          true,
	KeyQtPrefix:          true,
	KeyDownloadOutputDir: true,
}

// Store is the explicit settings object constructed once at startup and
// passed to whoever needs it. There is no ambient package-level state.
type Store struct {
	path   string // location of the persisted YAML document
	root   string // project root, anchors relative path values and defaults
	values map[string]any
}

// Open loads the settings store for the given project root from the platform
// configuration directory (Windows: %APPDATA% or %LOCALAPPDATA%; elsewhere
// $XDG_CONFIG_HOME or ~/.config).
func Open(root string) *Store {
	return OpenAt(filepath.Join(configDir(), configDirName, configFileName), root)
}

// OpenAt loads the settings store from an explicit file path. Load failures
// of any kind fall back to the built-in defaults.
func OpenAt(path, root string) *Store {
	s := &Store{path: path, root: root}
	s.values = s.merge(readFile(path))
	return s
}

// Path returns the location of the persisted settings document.
func (s *Store) Path() string {
	return s.path
}

// Keys returns the known setting keys in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for key := range s.defaults() {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the current merged value for key, or nil for unknown keys.
func (s *Store) Get(key string) any {
	return s.values[key]
}

// GetString returns the current value of a scalar setting, "" when unset.
func (s *Store) GetString(key string) string {
	v, _ := s.values[key].(string)
	return v
}

// BuildDir returns the configured build directory.
func (s *Store) BuildDir() string { return s.GetString(KeyBuildDir) }

// BuildType returns the configured CMAKE_BUILD_TYPE label.
func (s *Store) BuildType() string { return s.GetString(KeyBuildType) }

// QtPrefix returns the configured Qt installation root, "" when unset.
func (s *Store) QtPrefix() string { return s.GetString(KeyQtPrefix) }

// Generator returns the configured CMake generator, "" when unset.
func (s *Store) Generator() string { return s.GetString(KeyGenerator) }

// DownloadOutputDir returns the destination for auto-downloaded Qt.
func (s *Store) DownloadOutputDir() string { return s.GetString(KeyDownloadOutputDir) }

// DownloadVersion returns the Qt version to fetch when downloading, "" for latest.
func (s *Store) DownloadVersion() string { return s.GetString(KeyDownloadVersion) }

// DownloadCompiler returns the Qt compiler flavor/arch used for downloads.
func (s *Store) DownloadCompiler() string { return s.GetString(KeyDownloadCompiler) }

// RunTargets returns the ordered default run target names.
func (s *Store) RunTargets() []string {
	if targets, ok := s.values[KeyRunTargets].([]string); ok && len(targets) > 0 {
		return targets
	}
	return defaultRunTargets()
}

// Set resets every key in unset to its built-in default, normalizes and
// applies the known keys from updates, and persists the entire key set to
// disk, creating parent directories as needed. It returns an error only when
// the write itself fails.
//
// Persisting always rewrites the full document rather than merging on disk,
// so concurrent tool invocations can clobber each other's unrelated changes.
// Accepted for the single-developer, one-command-at-a-time usage model.
func (s *Store) Set(updates map[string]string, unset []string) error {
	defaults := s.defaults()
	for _, key := range unset {
		if def, ok := defaults[key]; ok {
			s.values[key] = def
		}
	}
	for key, value := range updates {
		if _, ok := defaults[key]; !ok {
			logger.Warn("[WARN] Ignoring unknown setting %q\n", key)
			continue
		}
		s.values[key] = s.normalize(key, value)
	}
	return s.save()
}

// defaults returns the built-in default for every known key.
func (s *Store) defaults() map[string]any {
	return map[string]any{
		KeyBuildDir:          filepath.Join(s.root, "build"),
		KeyBuildType:         "Debug",
		KeyQtPrefix:          "",
		KeyGenerator:         "",
		KeyDownloadOutputDir: filepath.Join(s.root, "third_party", "qt6"),
		KeyDownloadVersion:   "",
		KeyDownloadCompiler:  "",
		KeyRunTargets:        defaultRunTargets(),
	}
}

func defaultRunTargets() []string {
	return []string{"sample_app", "sample_cli"}
}

// merge lays the user's overrides over the defaults, key by key, normalizing
// each value. Keys absent from the file keep their default.
func (s *Store) merge(user map[string]any) map[string]any {
	merged := s.defaults()
	for key, value := range user {
		if _, ok := merged[key]; !ok {
			continue // unknown keys from manual edits are ignored, not preserved
		}
		merged[key] = s.normalize(key, value)
	}
	return merged
}

// normalize applies the per-key value rules: path keys expand ~ and become
// absolute (relative to the project root), the run target list accepts either
// a delimited string or a list, everything else stringifies.
func (s *Store) normalize(key string, value any) any {
	if key == KeyRunTargets {
		return normalizeTargets(value)
	}
	str := stringify(value)
	if str == "" {
		return ""
	}
	if pathKeys[key] {
		return s.absPath(str)
	}
	return str
}

// absPath expands a leading ~ to the user home and anchors relative paths at
// the project root.
func (s *Store) absPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[1:])
		}
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(s.root, p)
	}
	return filepath.Clean(p)
}

// normalizeTargets converts a delimited string ("a,b" or "a;b"), a YAML list,
// or a string slice into a list of non-empty trimmed names. Anything else
// falls back to the built-in default list.
func normalizeTargets(value any) []string {
	switch v := value.(type) {
	case string:
		parts := strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ';' })
		targets := make([]string, 0, len(parts))
		for _, part := range parts {
			if name := strings.TrimSpace(part); name != "" {
				targets = append(targets, name)
			}
		}
		return targets
	case []string:
		targets := make([]string, 0, len(v))
		for _, item := range v {
			if name := strings.TrimSpace(item); name != "" {
				targets = append(targets, name)
			}
		}
		return targets
	case []any:
		targets := make([]string, 0, len(v))
		for _, item := range v {
			if name := strings.TrimSpace(stringify(item)); name != "" {
				targets = append(targets, name)
			}
		}
		return targets
	}
	return defaultRunTargets()
}

// stringify renders a scalar YAML value back into its string form.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		out, err := yaml.Marshal(v)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(out))
	}
}

// readFile loads the raw settings document. A missing file, unreadable file,
// parse error, or non-mapping content all yield an empty override set; the
// caller merges defaults on top, so corruption never propagates as an error.
func readFile(path string) map[string]any {
	raw, err := os.ReadFile(path)
	if err != nil {
		return map[string]any{}
	}
	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		logger.Debug("[DEBUG] Ignoring unparseable settings file %s: %v\n", path, err)
		return map[string]any{}
	}
	if data == nil {
		return map[string]any{}
	}
	return data
}

// save writes the complete normalized key set to disk. The on-disk file
// always contains every known key after a successful Set.
func (s *Store) save() error {
	full := s.defaults()
	for key := range full {
		if value, ok := s.values[key]; ok {
			full[key] = value
		}
	}
	out, err := yaml.Marshal(full)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	logger.Debug("[DEBUG] Writing settings to %s\n", s.path)
	return os.WriteFile(s.path, out, 0644)
}

// configDir resolves the platform-conventional per-user configuration
// directory: roaming app data on Windows, XDG config home elsewhere, with a
// home-directory fallback when neither is available.
func configDir() string {
	if runtime.GOOS == "windows" {
		if base := os.Getenv("APPDATA"); base != "" {
			return base
		}
		if base := os.Getenv("LOCALAPPDATA"); base != "" {
			return base
		}
	}
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return base
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config")
}
