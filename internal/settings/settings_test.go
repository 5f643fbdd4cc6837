package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return OpenAt(filepath.Join(dir, "settings.yaml"), filepath.Join(dir, "project"))
}

func TestDefaultsWhenFileMissing(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, "Debug", s.BuildType())
	assert.Equal(t, filepath.Join(s.root, "build"), s.BuildDir())
	assert.Equal(t, filepath.Join(s.root, "third_party", "qt6"), s.DownloadOutputDir())
	assert.Equal(t, "", s.QtPrefix())
	assert.Equal(t, []string{"sample_app", "sample_cli"}, s.RunTargets())
}

func TestSetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Set(map[string]string{KeyBuildType: "Release"}, nil))

	// A fresh load sees the update and every other key keeps its default.
	reloaded := OpenAt(s.path, s.root)
	assert.Equal(t, "Release", reloaded.BuildType())
	assert.Equal(t, filepath.Join(s.root, "build"), reloaded.BuildDir())
	assert.Equal(t, []string{"sample_app", "sample_cli"}, reloaded.RunTargets())
}

func TestSetWritesFullKeySet(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Set(map[string]string{KeyGenerator: "Ninja"}, nil))

	raw := readFile(s.path)
	for _, key := range s.Keys() {
		_, ok := raw[key]
		assert.True(t, ok, "persisted file must contain key %q", key)
	}
}

func TestUnsetRestoresDefault(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Set(map[string]string{KeyBuildType: "Release"}, nil))
	require.NoError(t, s.Set(nil, []string{KeyBuildType}))
	assert.Equal(t, "Debug", s.BuildType())

	reloaded := OpenAt(s.path, s.root)
	assert.Equal(t, "Debug", reloaded.BuildType())
}

func TestCorruptedFileYieldsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not: [valid: yaml"), 0644))

	s := OpenAt(path, dir)
	assert.Equal(t, "Debug", s.BuildType())
	assert.Equal(t, []string{"sample_app", "sample_cli"}, s.RunTargets())
}

func TestNonMappingContentYieldsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- just\n- a\n- list\n"), 0644))

	s := OpenAt(path, dir)
	assert.Equal(t, "Debug", s.BuildType())
}

func TestUnknownKeysIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mystery: 42\nbuild_type: Release\n"), 0644))

	s := OpenAt(path, dir)
	assert.Equal(t, "Release", s.BuildType())
	assert.Nil(t, s.Get("mystery"))
}

func TestRunTargetNormalization(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Set(map[string]string{KeyRunTargets: "app_one; app_two, ,app_three"}, nil))
	assert.Equal(t, []string{"app_one", "app_two", "app_three"}, s.RunTargets())

	// A YAML list in the file is accepted as-is.
	require.NoError(t, os.WriteFile(s.path, []byte("default_run_targets:\n  - alpha\n  - ' '\n  - beta\n"), 0644))
	reloaded := OpenAt(s.path, s.root)
	assert.Equal(t, []string{"alpha", "beta"}, reloaded.RunTargets())
}

func TestPathNormalization(t *testing.T) {
	s := newTestStore(t)

	// Relative paths anchor at the project root.
	require.NoError(t, s.Set(map[string]string{KeyBuildDir: "out"}, nil))
	assert.Equal(t, filepath.Join(s.root, "out"), s.BuildDir())

	// ~ expands to the user home.
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	require.NoError(t, s.Set(map[string]string{KeyQtPrefix: "~/qt6"}, nil))
	assert.Equal(t, filepath.Join(home, "qt6"), s.QtPrefix())
}
