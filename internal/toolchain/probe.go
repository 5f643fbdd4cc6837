// Package toolchain decides what CMake generator, compiler flavor, and Qt
// installation a build should use. Every resolution follows the same
// precedence: explicit CLI value, then environment variable, then filesystem
// heuristic. Probes never fail for "not found" — absence is a valid result
// the caller turns into an advisory or, for the Qt/toolchain flavor mismatch,
// into a hard abort.
package toolchain

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Compiler flavors. On Windows, MSVC and MinGW binaries cannot be mixed, so
// telling them apart early avoids confusing linker failures later. The empty
// string means the flavor is unknown (or the host is not Windows).
const (
	FlavorMSVC  = "msvc"
	FlavorMinGW = "mingw"
)

// Probe resolves the build environment. All inputs (OS identity, environment,
// search path, subprocess output) are fields so tests can substitute them,
// and the one-shot missing-vswhere warning is instance state rather than a
// package-level latch.
type Probe struct {
	// GOOS is the host OS identity, normally runtime.GOOS.
	GOOS string
	// Getenv reads an environment variable, normally os.Getenv.
	Getenv func(key string) string
	// LookPath locates an executable on the search path, normally exec.LookPath.
	LookPath func(name string) (string, error)
	// Output runs a command and returns its stdout, used for vswhere queries
	// and `<compiler> -print-search-dirs`.
	Output func(name string, args ...string) (string, error)
	// Root is the project root; Qt autodetection scans <Root>/third_party/qt6.
	Root string

	warnedMissingVSWhere bool
}

// NewProbe returns a probe wired to the real host environment.
func NewProbe(root string) *Probe {
	return &Probe{
		GOOS:     runtime.GOOS,
		Getenv:   os.Getenv,
		LookPath: exec.LookPath,
		Output: func(name string, args ...string) (string, error) {
			out, err := exec.Command(name, args...).Output()
			return string(out), err
		},
		Root: root,
	}
}

// Generator picks the CMake generator to use:
//   - the CLI value wins
//   - $CMAKE_GENERATOR if set
//   - on Windows, a Visual Studio generator matching the newest installed
//     toolset (works without any environment setup)
//   - Ninja when it is on the search path
//   - otherwise "" and CMake decides on its own
func (p *Probe) Generator(cliValue string) string {
	if cliValue != "" {
		return cliValue
	}
	if env := p.Getenv("CMAKE_GENERATOR"); env != "" {
		return env
	}
	if p.GOOS == "windows" {
		if vs := p.visualStudioGenerator(); vs != "" {
			return vs
		}
	}
	if _, err := p.LookPath("ninja"); err == nil {
		return "Ninja"
	}
	return ""
}

// CompilerFlavor guesses the Windows toolchain flavor so Qt binaries can be
// matched against it. It returns FlavorMSVC, FlavorMinGW, or "" when unsure.
// Non-Windows hosts always return "" — the tool never guesses there.
func (p *Probe) CompilerFlavor(generator string) string {
	if p.GOOS != "windows" {
		return ""
	}

	gen := strings.ToLower(generator)
	if gen == "" {
		gen = strings.ToLower(p.Getenv("CMAKE_GENERATOR"))
	}
	if strings.Contains(gen, "visual studio") || strings.Contains(gen, "msvc") {
		return FlavorMSVC
	}
	if strings.Contains(gen, "mingw") {
		return FlavorMinGW
	}

	// Compiler override variables identify the toolchain by executable name.
	for _, envVar := range []string{"CXX", "CC"} {
		compiler := p.Getenv(envVar)
		if compiler == "" {
			continue
		}
		name := strings.ToLower(filepath.Base(compiler))
		if name == "cl" || name == "cl.exe" || strings.Contains(name, "msvc") {
			return FlavorMSVC
		}
		if strings.Contains(name, "mingw") || strings.HasPrefix(name, "g++") || strings.HasPrefix(name, "gcc") {
			return FlavorMinGW
		}
	}

	// An installed Visual Studio wins over incidental MinGW tools on PATH
	// (e.g. the g++ shipped with Strawberry Perl).
	if p.hasVisualStudioInstall() {
		return FlavorMSVC
	}

	if _, err := p.LookPath("cl"); err == nil {
		return FlavorMSVC
	}
	if _, err := p.LookPath("g++"); err == nil {
		return FlavorMinGW
	}
	return ""
}
