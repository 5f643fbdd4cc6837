package toolchain

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProbe builds a probe with a controlled environment, search path, and
// subprocess output so resolution logic can be exercised on any host.
func fakeProbe(goos string, env map[string]string, path map[string]string) *Probe {
	return &Probe{
		GOOS: goos,
		Getenv: func(key string) string {
			return env[key]
		},
		LookPath: func(name string) (string, error) {
			if p, ok := path[name]; ok {
				return p, nil
			}
			return "", errors.New("not found")
		},
		Output: func(name string, args ...string) (string, error) {
			return "", errors.New("no subprocess in tests")
		},
	}
}

func TestGeneratorPrecedence(t *testing.T) {
	p := fakeProbe("linux", map[string]string{"CMAKE_GENERATOR": "Unix Makefiles"}, map[string]string{"ninja": "/usr/bin/ninja"})

	// Explicit CLI value wins over everything.
	assert.Equal(t, "Ninja Multi-Config", p.Generator("Ninja Multi-Config"))

	// Environment override beats the path probe.
	assert.Equal(t, "Unix Makefiles", p.Generator(""))
}

func TestGeneratorFallsBackToNinjaOnPath(t *testing.T) {
	// No overrides anywhere, only ninja on the search path.
	p := fakeProbe("linux", nil, map[string]string{"ninja": "/usr/bin/ninja"})
	assert.Equal(t, "Ninja", p.Generator(""))
}

func TestGeneratorAbsentDefersToCMake(t *testing.T) {
	p := fakeProbe("linux", nil, nil)
	assert.Equal(t, "", p.Generator(""))
}

func TestGeneratorWindowsPrefersVisualStudio(t *testing.T) {
	p := fakeProbe("windows", nil, map[string]string{"ninja": `C:\tools\ninja.exe`})
	installVSWhere(t, p)
	p.Output = func(name string, args ...string) (string, error) {
		return `[{"installationPath": "C:\\VS", "installationVersion": "17.9.34622.214"}]`, nil
	}
	assert.Equal(t, "Visual Studio 17 2022", p.Generator(""))
}

// installVSWhere plants a fake vswhere.exe under a temp Program Files (x86)
// and points the probe's environment at it.
func installVSWhere(t *testing.T, p *Probe) {
	t.Helper()
	programFiles := t.TempDir()
	dir := filepath.Join(programFiles, "Microsoft Visual Studio", "Installer")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vswhere.exe"), []byte("stub"), 0755))

	inner := p.Getenv
	p.Getenv = func(key string) string {
		if key == "ProgramFiles(x86)" {
			return programFiles
		}
		return inner(key)
	}
}

func TestVSGeneratorForMajor(t *testing.T) {
	assert.Equal(t, "Visual Studio 17 2022", VSGeneratorForMajor(18))
	assert.Equal(t, "Visual Studio 17 2022", VSGeneratorForMajor(17))
	assert.Equal(t, "Visual Studio 16 2019", VSGeneratorForMajor(16))
	assert.Equal(t, "", VSGeneratorForMajor(15))
}

func TestQtArchForMajor(t *testing.T) {
	assert.Equal(t, "win64_msvc2022_64", QtArchForMajor(17))
	assert.Equal(t, "win64_msvc2019_64", QtArchForMajor(16))
	assert.Equal(t, "", QtArchForMajor(15))
}

func TestCompilerFlavorNonWindows(t *testing.T) {
	p := fakeProbe("linux", map[string]string{"CXX": "g++"}, map[string]string{"g++": "/usr/bin/g++"})
	assert.Equal(t, "", p.CompilerFlavor("MinGW Makefiles"))
}

func TestCompilerFlavorFromGenerator(t *testing.T) {
	p := fakeProbe("windows", nil, nil)
	assert.Equal(t, FlavorMSVC, p.CompilerFlavor("Visual Studio 17 2022"))
	assert.Equal(t, FlavorMinGW, p.CompilerFlavor("MinGW Makefiles"))

	p = fakeProbe("windows", map[string]string{"CMAKE_GENERATOR": "MinGW Makefiles"}, nil)
	assert.Equal(t, FlavorMinGW, p.CompilerFlavor(""))
}

func TestCompilerFlavorFromCompilerOverride(t *testing.T) {
	p := fakeProbe("windows", map[string]string{"CXX": `C:\msvc\cl.exe`}, nil)
	assert.Equal(t, FlavorMSVC, p.CompilerFlavor(""))

	p = fakeProbe("windows", map[string]string{"CC": `C:\mingw64\bin\gcc.exe`}, nil)
	assert.Equal(t, FlavorMinGW, p.CompilerFlavor(""))
}

func TestCompilerFlavorFromVSEnvironmentMarkers(t *testing.T) {
	p := fakeProbe("windows", map[string]string{"VCToolsInstallDir": `C:\VS\VC\Tools\MSVC\14.38`}, map[string]string{"g++": `C:\strawberry\g++.exe`})
	// The VS install marker outranks an incidental g++ on PATH.
	assert.Equal(t, FlavorMSVC, p.CompilerFlavor(""))
}

func TestCompilerFlavorFromSearchPath(t *testing.T) {
	p := fakeProbe("windows", nil, map[string]string{"g++": `C:\mingw64\bin\g++.exe`})
	assert.Equal(t, FlavorMinGW, p.CompilerFlavor(""))

	p = fakeProbe("windows", nil, nil)
	assert.Equal(t, "", p.CompilerFlavor(""))
}

func TestQtFlavor(t *testing.T) {
	assert.Equal(t, FlavorMinGW, QtFlavor(filepath.Join("third_party", "qt6", "6.10.1", "mingw_64")))
	assert.Equal(t, FlavorMSVC, QtFlavor(filepath.Join("qt6", "6.10.1", "msvc2022_64")))
	assert.Equal(t, "", QtFlavor(filepath.Join("qt6", "6.10.1", "gcc_64")))
}

// plantQt creates a vendored Qt install with the CMake package marker.
func plantQt(t *testing.T, root string, segments ...string) string {
	t.Helper()
	prefix := filepath.Join(append([]string{root, "third_party", "qt6"}, segments...)...)
	require.NoError(t, os.MkdirAll(filepath.Join(prefix, "lib", "cmake", "Qt6"), 0755))
	return prefix
}

func TestAutodetectQtPrefixPrefersFlavorThenVersion(t *testing.T) {
	root := t.TempDir()
	mingwOld := plantQt(t, root, "6.9.0", "mingw_64")
	plantQt(t, root, "6.10.1", "msvc2022_64")

	p := fakeProbe("windows", nil, nil)
	p.Root = root

	// MinGW generator: the flavor match wins even against a newer MSVC build.
	assert.Equal(t, mingwOld, p.QtPrefix("", "MinGW Makefiles"))
}

func TestAutodetectQtPrefixFallsBackToNewest(t *testing.T) {
	root := t.TempDir()
	plantQt(t, root, "6.9.0", "gcc_64")
	newest := plantQt(t, root, "6.10.1", "gcc_64")

	p := fakeProbe("linux", nil, nil)
	p.Root = root
	assert.Equal(t, newest, p.QtPrefix("", ""))
}

func TestQtPrefixPrecedence(t *testing.T) {
	root := t.TempDir()
	planted := plantQt(t, root, "6.9.0", "gcc_64")

	cliDir := t.TempDir()
	envDir := t.TempDir()

	p := fakeProbe("linux", map[string]string{"QT_PREFIX_PATH": envDir}, nil)
	p.Root = root

	// CLI beats the environment; the environment beats autodetection.
	assert.Equal(t, cliDir, p.QtPrefix(cliDir, ""))
	assert.Equal(t, envDir, p.QtPrefix("", ""))

	// A CLI value that does not exist on disk is skipped.
	p.Getenv = func(string) string { return "" }
	assert.Equal(t, planted, p.QtPrefix(filepath.Join(root, "no-such-dir"), ""))
}

func TestQtPrefixFromCMakePrefixPath(t *testing.T) {
	first := t.TempDir()
	p := fakeProbe("linux", map[string]string{
		"CMAKE_PREFIX_PATH": first + string(os.PathListSeparator) + "/elsewhere",
	}, nil)
	p.Root = t.TempDir()
	assert.Equal(t, first, p.QtPrefix("", ""))
}

func TestQtPrefixAbsentWithoutVendoredRoot(t *testing.T) {
	p := fakeProbe("linux", nil, nil)
	p.Root = t.TempDir()
	assert.Equal(t, "", p.QtPrefix("", ""))
}

func TestEnforceToolchainMatch(t *testing.T) {
	qtMSVC := filepath.Join("third_party", "qt6", "6.10.1", "msvc2022_64")
	qtMinGW := filepath.Join("third_party", "qt6", "6.10.1", "mingw_64")

	p := fakeProbe("windows", nil, nil)

	// Conflicting flavors abort with both flavors named.
	err := p.EnforceToolchainMatch(qtMSVC, "MinGW Makefiles")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MSVC")
	assert.Contains(t, err.Error(), "MINGW")

	// Agreement and unknown flavors are fine.
	assert.NoError(t, p.EnforceToolchainMatch(qtMinGW, "MinGW Makefiles"))
	assert.NoError(t, p.EnforceToolchainMatch(filepath.Join("qt6", "6.10.1", "gcc_64"), "MinGW Makefiles"))
	assert.NoError(t, p.EnforceToolchainMatch("", "MinGW Makefiles"))

	// Never fatal off Windows.
	linux := fakeProbe("linux", nil, nil)
	assert.NoError(t, linux.EnforceToolchainMatch(qtMSVC, "MinGW Makefiles"))
}

func TestMissingVSWhereWarnsOnce(t *testing.T) {
	p := fakeProbe("windows", nil, nil)
	assert.False(t, p.warnedMissingVSWhere)
	p.hasVisualStudioInstall()
	assert.True(t, p.warnedMissingVSWhere)
	// Second probe call keeps the latch set; the hint is not re-emitted.
	p.hasVisualStudioInstall()
	assert.True(t, p.warnedMissingVSWhere)
}

func TestDescribeCompilerBrokenOverride(t *testing.T) {
	p := fakeProbe("linux", map[string]string{"CXX": "/no/such/compiler"}, nil)
	report := p.DescribeCompiler("")
	assert.Empty(t, report.Description)
	assert.Contains(t, report.Hint, "$CXX")
}

func TestDescribeCompilerPosixSearch(t *testing.T) {
	p := fakeProbe("linux", nil, map[string]string{"clang++": "/usr/bin/clang++"})
	report := p.DescribeCompiler("")
	assert.Equal(t, "clang++ at /usr/bin/clang++", report.Description)
	assert.Empty(t, report.Hint)
}

func TestDescribeCompilerMissingYieldsHint(t *testing.T) {
	p := fakeProbe("linux", nil, map[string]string{"apt-get": "/usr/bin/apt-get"})
	report := p.DescribeCompiler("")
	assert.Empty(t, report.Description)
	assert.Equal(t, "sudo apt-get install build-essential", report.Hint)
}

func TestCompilerSearchDirsParsing(t *testing.T) {
	p := fakeProbe("linux", nil, nil)
	p.Output = func(name string, args ...string) (string, error) {
		return "install: /usr/lib/gcc\nlibraries: =/usr/lib/gcc/x86_64" + string(os.PathListSeparator) + "/usr/lib\n", nil
	}
	assert.Equal(t, []string{"/usr/lib/gcc/x86_64", "/usr/lib"}, p.compilerSearchDirs("g++"))
}

func TestPackageInstallHint(t *testing.T) {
	p := fakeProbe("linux", nil, map[string]string{"apt-get": "/usr/bin/apt-get"})
	assert.Equal(t, "sudo apt-get install ninja-build", p.PackageInstallHint("ninja"))

	mac := fakeProbe("darwin", nil, nil)
	assert.Equal(t, "brew install qt@6", mac.PackageInstallHint("qt"))

	none := fakeProbe("linux", nil, nil)
	assert.Equal(t, "Install via your package manager (apt / brew / choco / dnf)", none.PackageInstallHint("cmake"))
	assert.Equal(t, "Install via your package manager", none.PackageInstallHint("unknown-tool"))
}
