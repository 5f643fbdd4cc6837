package toolchain

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CompilerReport is the diagnostic result of DescribeCompiler, consumed by
// the verify command.
type CompilerReport struct {
	// Description is a human-readable identification of the compiler that
	// would be used, "" when none was found.
	Description string
	// Hint carries a remediation suggestion when the compiler is missing or
	// detected but not fully usable (e.g. found via vswhere but cl.exe is not
	// on PATH).
	Hint string
	// LibraryDirs is a best-effort list of the compiler's library search
	// directories.
	LibraryDirs []string
}

// DescribeCompiler locates a usable C++ compiler for the diagnostic report.
// It follows the same precedence as CompilerFlavor but additionally resolves
// a description string and library search directories.
func (p *Probe) DescribeCompiler(generator string) CompilerReport {
	// Explicit compiler overrides always win; a broken override is reported
	// rather than silently skipped.
	for _, envVar := range []string{"CXX", "CC"} {
		compiler := p.Getenv(envVar)
		if compiler == "" {
			continue
		}
		resolved, err := p.LookPath(compiler)
		if err != nil {
			if _, statErr := os.Stat(compiler); statErr == nil {
				resolved = compiler
			}
		}
		if resolved != "" {
			return CompilerReport{
				Description: fmt.Sprintf("%s (from $%s)", resolved, envVar),
				LibraryDirs: p.compilerLibraryDirs(resolved),
			}
		}
		return CompilerReport{Hint: fmt.Sprintf("$%s points to %s, but it is not executable.", envVar, compiler)}
	}

	if p.GOOS == "windows" {
		return p.describeWindowsCompiler(generator)
	}

	for _, candidate := range []string{"c++", "g++", "clang++"} {
		if path, err := p.LookPath(candidate); err == nil {
			return CompilerReport{
				Description: fmt.Sprintf("%s at %s", candidate, path),
				LibraryDirs: p.compilerLibraryDirs(path),
			}
		}
	}
	return CompilerReport{Hint: p.CompilerInstallHint()}
}

// describeWindowsCompiler resolves the Windows toolchain, trying the flavor
// suggested by the generator/environment first and falling back to the other
// family before giving up.
func (p *Probe) describeWindowsCompiler(generator string) CompilerReport {
	const installHint = "Install MSVC Build Tools or MinGW-w64 and ensure cl.exe/g++.exe is available."

	clPath, clErr := p.LookPath("cl")
	gxxPath, gxxErr := p.LookPath("g++")
	vswhere := p.vswherePath()

	msvc := func() (CompilerReport, bool) {
		if clErr == nil {
			return CompilerReport{Description: "cl.exe", LibraryDirs: p.msvcLibraryDirs(clPath, vswhere)}, true
		}
		if vswhere != "" {
			// Toolchain installed but no developer-prompt environment.
			return CompilerReport{
				Description: "Visual Studio toolchain (via vswhere)",
				LibraryDirs: p.msvcLibraryDirs("", vswhere),
			}, true
		}
		return CompilerReport{}, false
	}
	mingw := func() (CompilerReport, bool) {
		if gxxErr == nil {
			return CompilerReport{
				Description: fmt.Sprintf("MinGW-w64 g++ at %s", gxxPath),
				LibraryDirs: p.compilerLibraryDirs(gxxPath),
			}, true
		}
		return CompilerReport{}, false
	}

	order := []func() (CompilerReport, bool){msvc, mingw}
	if p.CompilerFlavor(generator) == FlavorMinGW {
		order = []func() (CompilerReport, bool){mingw, msvc}
	}
	for _, probe := range order {
		if report, ok := probe(); ok {
			return report
		}
	}
	return CompilerReport{Hint: installHint}
}

// compilerLibraryDirs returns likely library directories for a gcc/clang
// style compiler: its own `-print-search-dirs` output when available,
// otherwise conventional lib/lib64 siblings of the install root.
func (p *Probe) compilerLibraryDirs(compilerPath string) []string {
	if compilerPath == "" {
		return nil
	}
	if libs := p.compilerSearchDirs(compilerPath); len(libs) > 0 {
		return uniqueExistingDirs(libs)
	}
	parent := filepath.Dir(compilerPath)
	return uniqueExistingDirs([]string{
		filepath.Join(parent, "lib"),
		filepath.Join(filepath.Dir(parent), "lib"),
		filepath.Join(filepath.Dir(parent), "lib64"),
	})
}

// compilerSearchDirs asks the compiler for its own library search path via
// `-print-search-dirs` and parses the "libraries:" line.
func (p *Probe) compilerSearchDirs(compilerPath string) []string {
	out, err := p.Output(compilerPath, "-print-search-dirs")
	if err != nil {
		return nil
	}
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(strings.ToLower(line), "libraries:") {
			continue
		}
		_, pathList, _ := strings.Cut(line, "=")
		var dirs []string
		for _, dir := range strings.Split(strings.TrimSpace(pathList), string(os.PathListSeparator)) {
			if dir = strings.TrimSpace(dir); dir != "" {
				dirs = append(dirs, dir)
			}
		}
		return dirs
	}
	return nil
}

// msvcLibraryDirs collects likely MSVC library directories from a cl.exe
// location or, failing that, the Visual Studio install root reported by
// vswhere: VC/Tools/MSVC/<newest>/lib plus x64/x86 subdirectories.
func (p *Probe) msvcLibraryDirs(clPath, vswherePath string) []string {
	root := ""
	if clPath != "" {
		root = installRootFromToolPath(clPath)
	} else if info, ok := p.vswhereInfo(); ok && info.InstallationPath != "" {
		root = info.InstallationPath
	} else if vswherePath != "" {
		root = filepath.Dir(filepath.Dir(vswherePath))
	}
	if root == "" {
		return nil
	}

	var candidates []string
	vcTools := filepath.Join(root, "VC", "Tools", "MSVC")
	if entries, err := os.ReadDir(vcTools); err == nil && len(entries) > 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		sort.Strings(names)
		newest := filepath.Join(vcTools, names[len(names)-1])
		candidates = append(candidates,
			filepath.Join(newest, "lib"),
			filepath.Join(newest, "lib", "x64"),
			filepath.Join(newest, "lib", "x86"),
		)
	}
	for dir := clPath; dir != "" && dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
		lib := filepath.Join(filepath.Dir(dir), "lib")
		candidates = append(candidates, lib, filepath.Join(lib, "x64"), filepath.Join(lib, "x86"))
	}
	return uniqueExistingDirs(candidates)
}

// installRootFromToolPath walks upwards from a tool path until it leaves the
// VC/Tools/MSVC subtree, approximating the Visual Studio install root.
func installRootFromToolPath(toolPath string) string {
	dir := filepath.Dir(toolPath)
	for cur := dir; cur != filepath.Dir(cur); cur = filepath.Dir(cur) {
		if strings.EqualFold(filepath.Base(cur), "VC") {
			return filepath.Dir(cur)
		}
	}
	return dir
}

// uniqueExistingDirs filters a candidate list down to existing directories,
// deduplicating while preserving order.
func uniqueExistingDirs(paths []string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, path := range paths {
		cleaned := filepath.Clean(path)
		if seen[cleaned] {
			continue
		}
		info, err := os.Stat(cleaned)
		if err != nil || !info.IsDir() {
			continue
		}
		seen[cleaned] = true
		result = append(result, cleaned)
	}
	return result
}

// PackageManager detects the host's package manager: choco on Windows, brew
// on macOS, apt or dnf on Linux. Returns "" when none is identified.
func (p *Probe) PackageManager() string {
	switch p.GOOS {
	case "windows":
		return "choco"
	case "darwin":
		return "brew"
	}
	if _, err := p.LookPath("apt-get"); err == nil {
		return "apt"
	}
	if _, err := p.LookPath("dnf"); err == nil {
		return "dnf"
	}
	if _, err := p.LookPath("yum"); err == nil {
		return "dnf"
	}
	return ""
}

// packageNames maps a tool to its package name per package manager.
var packageNames = map[string]map[string]string{
	"ninja": {
		"apt":   "ninja-build",
		"dnf":   "ninja-build",
		"brew":  "ninja",
		"choco": "ninja",
	},
	"cmake": {
		"apt":   "cmake",
		"dnf":   "cmake",
		"brew":  "cmake",
		"choco": "cmake",
	},
	"qt": {
		"apt":   "qt6-base-dev qt6-declarative-dev",
		"dnf":   "qt6-qtbase-devel qt6-qtdeclarative-devel",
		"brew":  "qt@6",
		"choco": "qt-lts-long-term-release",
	},
}

// PackageInstallHint renders the install command for a known tool on the
// current host's package manager.
func (p *Probe) PackageInstallHint(tool string) string {
	mgr := p.PackageManager()
	pkgMap := packageNames[tool]
	if pkg, ok := pkgMap[mgr]; ok {
		switch mgr {
		case "apt":
			return "sudo apt-get install " + pkg
		case "dnf":
			return "sudo dnf install " + pkg
		case "brew":
			return "brew install " + pkg
		case "choco":
			return "choco install " + pkg + " -y"
		}
	}
	if len(pkgMap) > 0 {
		managers := make([]string, 0, len(pkgMap))
		for name := range pkgMap {
			managers = append(managers, name)
		}
		sort.Strings(managers)
		return fmt.Sprintf("Install via your package manager (%s)", strings.Join(managers, " / "))
	}
	return "Install via your package manager"
}

// CompilerInstallHint suggests how to get a C++ compiler on the current host.
func (p *Probe) CompilerInstallHint() string {
	if p.GOOS == "darwin" {
		return "Install the Xcode Command Line Tools: xcode-select --install"
	}
	switch p.PackageManager() {
	case "apt":
		return "sudo apt-get install build-essential"
	case "dnf":
		return "sudo dnf install gcc-c++"
	case "brew":
		return "brew install llvm"
	case "choco":
		return "Install Visual Studio Build Tools 2022 (Desktop C++ workload) or MinGW-w64."
	}
	return "Install a C++ compiler (clang++/g++) and ensure it is on PATH."
}
