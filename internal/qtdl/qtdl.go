// Package qtdl invokes the external `aqt` helper to fetch prebuilt Qt 6
// binaries. The download and extraction work happens entirely inside aqt;
// this package only decides the argv (host, version, compiler arch, output
// directory, mirror) and surfaces the exit code. After a successful download
// the caller re-probes the Qt prefix to pick up the new install.
package qtdl

import (
	"fmt"
	"os/exec"

	"dev-tool/internal/logger"
	"dev-tool/internal/runner"
	"dev-tool/internal/toolchain"
)

// DefaultQtVersion is fetched when no version is requested or configured.
const DefaultQtVersion = "6.7.2"

// defaultModules restricts the download to the archives the project needs.
var defaultModules = []string{
	"qtbase",
	"qtdeclarative",
	"qttools",
	"qtshadertools",
	"qtimageformats",
	"qtmultimedia",
	"qt5compat",
	"qtquick3d",
	"qtquickcontrols",
}

// defaultCompilers maps an aqt host to the compiler arch used when detection
// finds nothing better.
var defaultCompilers = map[string]string{
	"windows": "win64_msvc2019_64",
	"linux":   "linux_gcc_64",
	"mac":     "clang_64",
}

// Options are the download parameters; zero values select the defaults.
type Options struct {
	Version   string // Qt version, e.g. 6.7.2
	Compiler  string // Qt compiler flavor/arch, e.g. win64_mingw
	OutputDir string // destination directory
	BaseURL   string // mirror base URL passed through to aqt
	WithTools bool   // also fetch tools_ninja and tools_cmake
}

// Download fetches Qt by shelling out to aqt. The probe supplies the host
// identity and, on Windows, the toolchain detection used to pick a matching
// compiler arch when none was requested.
func Download(probe *toolchain.Probe, opts Options) error {
	if _, err := exec.LookPath("aqt"); err != nil {
		return fmt.Errorf("aqt not found on PATH; install it with \"pip install aqtinstall>=3.1.0\" " +
			"(https://aqtinstall.readthedocs.io/)")
	}

	host := hostString(probe.GOOS)
	version := opts.Version
	if version == "" {
		version = DefaultQtVersion
	}
	compiler := opts.Compiler
	if compiler == "" {
		compiler = resolveCompiler(probe, host)
	}

	logger.Info("Fetching Qt %s (%s) for %s into %s\n", version, compiler, host, opts.OutputDir)
	args := []string{"install-qt", host, "desktop", version, compiler, "--outputdir", opts.OutputDir}
	args = append(args, "--archives")
	args = append(args, defaultModules...)
	if opts.BaseURL != "" {
		args = append(args, "--base", opts.BaseURL)
	}
	if err := runner.Run("aqt", args...); err != nil {
		return err
	}

	if opts.WithTools {
		for _, tool := range []string{"tools_ninja", "tools_cmake"} {
			toolArgs := []string{"install-tool", host, "desktop", tool, "latest", "--outputdir", opts.OutputDir}
			if opts.BaseURL != "" {
				toolArgs = append(toolArgs, "--base", opts.BaseURL)
			}
			if err := runner.Run("aqt", toolArgs...); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveCompiler picks a compiler arch for the host. On Windows a detected
// MinGW toolchain selects the MinGW build, and an installed Visual Studio
// selects the arch matching its toolset; everything else takes the host's
// default.
func resolveCompiler(probe *toolchain.Probe, host string) string {
	if host == "windows" {
		if probe.CompilerFlavor("") == toolchain.FlavorMinGW {
			return "win64_mingw"
		}
		if major, ok := probe.VisualStudioMajor(); ok {
			if arch := toolchain.QtArchForMajor(major); arch != "" {
				logger.Info("Detected Visual Studio %d; using compiler %s\n", major, arch)
				return arch
			}
			logger.Warn("Detected Visual Studio appears older than 2019; Qt 6 binaries target MSVC 2019/2022.\n")
		}
	}
	fallback := defaultCompilers[host]
	if fallback == "" {
		fallback = defaultCompilers["windows"]
	}
	logger.Debug("[DEBUG] Defaulting to compiler %s\n", fallback)
	return fallback
}

// hostString maps GOOS to the host identifier aqt expects.
func hostString(goos string) string {
	switch goos {
	case "windows":
		return "windows"
	case "darwin":
		return "mac"
	case "linux":
		return "linux"
	}
	return "windows"
}
