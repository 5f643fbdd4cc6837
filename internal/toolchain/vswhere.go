package toolchain

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"dev-tool/internal/logger"
)

// vswhere.exe is the installer-query utility shipped with every Visual Studio
// and Build Tools install since 2017. It lives at a fixed location under
// Program Files (x86) regardless of where Visual Studio itself went.

// vswhereArgs restricts queries to installs that actually carry the MSBuild
// component, i.e. a usable build toolchain.
var vswhereArgs = []string{"-latest", "-products", "*", "-requires", "Microsoft.Component.MSBuild"}

// vswherePath returns the path to vswhere.exe, or "" when it is not present.
func (p *Probe) vswherePath() string {
	programFilesX86 := p.Getenv("ProgramFiles(x86)")
	if programFilesX86 == "" {
		return ""
	}
	path := filepath.Join(programFilesX86, "Microsoft Visual Studio", "Installer", "vswhere.exe")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// maybeWarnMissingVSWhere emits a one-time hint about installing vswhere.
// The latch lives on the probe instance, so separate probes (and tests) do
// not share it.
func (p *Probe) maybeWarnMissingVSWhere() {
	if p.warnedMissingVSWhere || p.GOOS != "windows" {
		return
	}
	p.warnedMissingVSWhere = true
	logger.Hint("vswhere.exe not found. Install Visual Studio (or the free Build Tools 2022) " +
		"so vswhere.exe is placed under Program Files (x86)/Microsoft Visual Studio/Installer, " +
		"or add an existing vswhere.exe to PATH.\n")
}

// vswhereInstall holds the fields consumed from vswhere's JSON output.
type vswhereInstall struct {
	InstallationPath    string `json:"installationPath"`
	InstallationVersion string `json:"installationVersion"`
}

// vswhereInfo queries the latest Visual Studio install. The second return is
// false when vswhere is missing, fails, or reports nothing.
func (p *Probe) vswhereInfo() (vswhereInstall, bool) {
	if p.GOOS != "windows" {
		return vswhereInstall{}, false
	}
	vswhere := p.vswherePath()
	if vswhere == "" {
		p.maybeWarnMissingVSWhere()
		return vswhereInstall{}, false
	}

	out, err := p.Output(vswhere, append(vswhereArgs, "-format", "json")...)
	if err != nil {
		return vswhereInstall{}, false
	}
	var installs []vswhereInstall
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &installs); err != nil || len(installs) == 0 {
		return vswhereInstall{}, false
	}
	return installs[0], true
}

// hasVisualStudioInstall detects a Visual Studio toolchain even when cl.exe
// is not on PATH, via the developer-prompt environment markers or a
// successful vswhere query.
func (p *Probe) hasVisualStudioInstall() bool {
	for _, envVar := range []string{"VCToolsInstallDir", "VCINSTALLDIR", "VSINSTALLDIR"} {
		if p.Getenv(envVar) != "" {
			return true
		}
	}

	vswhere := p.vswherePath()
	if vswhere == "" {
		p.maybeWarnMissingVSWhere()
		return false
	}
	out, err := p.Output(vswhere, append(vswhereArgs, "-property", "installationVersion")...)
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) != ""
}

// VisualStudioMajor reports the major version of the newest installed Visual
// Studio toolset (e.g. 17 for VS 2022). ok is false when none is detected.
func (p *Probe) VisualStudioMajor() (int, bool) {
	info, ok := p.vswhereInfo()
	if !ok || info.InstallationVersion == "" {
		return 0, false
	}
	major, err := strconv.Atoi(strings.SplitN(info.InstallationVersion, ".", 2)[0])
	if err != nil {
		return 0, false
	}
	return major, true
}

// VSGeneratorForMajor maps a Visual Studio major version to the CMake
// generator label. Majors without Qt 6 support yield no suggestion.
func VSGeneratorForMajor(major int) string {
	switch {
	case major >= 17:
		return "Visual Studio 17 2022"
	case major == 16:
		return "Visual Studio 16 2019"
	}
	return ""
}

// QtArchForMajor maps a Visual Studio major version to the Qt binary arch
// identifier used by the download helper.
func QtArchForMajor(major int) string {
	switch {
	case major >= 17:
		return "win64_msvc2022_64"
	case major >= 16:
		return "win64_msvc2019_64"
	}
	return ""
}

// visualStudioGenerator returns the generator for the newest installed
// Visual Studio toolset, or "" when none qualifies.
func (p *Probe) visualStudioGenerator() string {
	major, ok := p.VisualStudioMajor()
	if !ok {
		return ""
	}
	return VSGeneratorForMajor(major)
}
