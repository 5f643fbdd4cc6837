package project

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCache(t *testing.T, buildDir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(buildDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(buildDir, cacheFileName), []byte(content), 0644))
}

func TestIsMultiConfigByGeneratorName(t *testing.T) {
	assert.True(t, IsMultiConfig("Visual Studio 17 2022", ""))
	assert.True(t, IsMultiConfig("Xcode", ""))
	assert.True(t, IsMultiConfig("Ninja Multi-Config", ""))
	assert.False(t, IsMultiConfig("Ninja", t.TempDir()))
	assert.False(t, IsMultiConfig("Unix Makefiles", t.TempDir()))
}

func TestIsMultiConfigByCacheContents(t *testing.T) {
	buildDir := t.TempDir()

	// An ambiguous generator name defers to what was recorded at configure time.
	writeCache(t, buildDir, "CMAKE_CONFIGURATION_TYPES:STRING=Debug;Release\n")
	assert.True(t, IsMultiConfig("", buildDir))

	writeCache(t, buildDir, "CMAKE_BUILD_TYPE:STRING=Debug\n")
	assert.False(t, IsMultiConfig("", buildDir))
}

func TestReadGeneratorFromCache(t *testing.T) {
	buildDir := t.TempDir()
	assert.Equal(t, "", ReadGeneratorFromCache(buildDir))

	writeCache(t, buildDir, "SOME_KEY:STRING=x\nCMAKE_GENERATOR:INTERNAL=Ninja Multi-Config\n")
	assert.Equal(t, "Ninja Multi-Config", ReadGeneratorFromCache(buildDir))
}

func TestParseNinjaTargets(t *testing.T) {
	out := "sample_app: phony\nall: phony\nclean: phony\nsample_cli: CXX_EXECUTABLE_LINKER\n"
	assert.Equal(t, []string{"sample_app", "sample_cli"}, parseNinjaTargets(out))
}

func TestParseCMakeHelpTargets(t *testing.T) {
	out := "... all (the default if no target is provided)\n" +
		"... clean\n" +
		"... sample_app\n" +
		"... sample_cli\n"
	assert.Equal(t, []string{"sample_app", "sample_cli"}, parseCMakeHelpTargets(out))

	// MSBuild-style listings use "name: description" lines instead.
	out = "sample_app: Builds the app\nZERO_CHECK: Regenerates the project\n"
	assert.Equal(t, []string{"sample_app"}, parseCMakeHelpTargets(out))
}

func TestDedupeRunnable(t *testing.T) {
	names := []string{"sample_app", "install", "sample_cli", "sample_app", "", "extra"}
	assert.Equal(t, []string{"sample_app", "sample_cli", "extra"}, dedupeRunnable(names))
}

func exeName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

func plantExe(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("binary"), 0755))
}

func TestFindBuiltBinaryDirect(t *testing.T) {
	buildDir := t.TempDir()
	want := filepath.Join(buildDir, exeName("sample_app"))
	plantExe(t, want)

	got, err := FindBuiltBinary(buildDir, "sample_app", "Ninja", "Debug", "")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindBuiltBinaryInConfigSubdir(t *testing.T) {
	buildDir := t.TempDir()
	want := filepath.Join(buildDir, "Debug", exeName("sample_app"))
	plantExe(t, want)

	got, err := FindBuiltBinary(buildDir, "sample_app", "Visual Studio 17 2022", "Debug", "")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindBuiltBinaryRecursiveFallback(t *testing.T) {
	buildDir := t.TempDir()
	want := filepath.Join(buildDir, "src", "apps", "nested", exeName("sample_app"))
	plantExe(t, want)

	got, err := FindBuiltBinary(buildDir, "sample_app", "Ninja", "Debug", "")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFindBuiltBinaryNotFound(t *testing.T) {
	buildDir := t.TempDir()
	_, err := FindBuiltBinary(buildDir, "sample_app", "Ninja", "Debug", "")
	require.Error(t, err)

	var notFound *ExecutableNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "sample_app", notFound.Target)
	assert.Equal(t, buildDir, notFound.BuildDir)
}

func TestFindPDCursesPaths(t *testing.T) {
	root := t.TempDir()
	buildDir := t.TempDir()

	assert.Empty(t, FindPDCursesPaths(root, buildDir))

	vendored := filepath.Join(root, "third_party", "PDCursesMod")
	require.NoError(t, os.MkdirAll(vendored, 0755))
	lib := filepath.Join(buildDir, "lib", "libpdcurses.a")
	require.NoError(t, os.MkdirAll(filepath.Dir(lib), 0755))
	require.NoError(t, os.WriteFile(lib, []byte("ar"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(buildDir, "lib", "libother.a"), []byte("ar"), 0644))

	assert.Equal(t, []string{vendored, lib}, FindPDCursesPaths(root, buildDir))
}

func TestConfigureRejectsGeneratorConflict(t *testing.T) {
	buildDir := t.TempDir()
	writeCache(t, buildDir, "CMAKE_GENERATOR:INTERNAL=Ninja\n")

	_, err := Configure(t.TempDir(), buildDir, "Visual Studio 17 2022", "Debug", "", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ninja")
	assert.Contains(t, err.Error(), "Visual Studio 17 2022")
}

func TestConfigureRejectsFileAsBuildDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "occupied")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := Configure(dir, file, "", "Debug", "", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}
