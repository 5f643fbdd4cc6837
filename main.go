package main

import (
	"dev-tool/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// dev-tool is a cross-platform helper for working on a C++/Qt 6 project:
//   - Resolves the build environment (CMake generator, compiler flavor, Qt prefix)
//     from CLI flags, environment variables, and filesystem heuristics
//   - Configures and builds the project by shelling out to CMake, and runs the
//     test suite through ctest; exit codes of those tools are the only success signal
//   - Locates and launches built executables, discovering runnable targets from
//     the build backend
//   - Fetches prebuilt Qt binaries by invoking the external `aqt` helper
//   - Checks vendored/installed library versions against upstream release feeds
//   - Persists per-user defaults (build dir, build type, Qt prefix, ...) in a
//     settings file under the platform config directory
//
// Error handling strategy:
//   - Probes report absence as an empty value, never as an error; the tool prints
//     an advisory with a remediation hint and keeps going where safe
//   - A detected Qt/toolchain flavor mismatch and failing external commands are
//     the only conditions that abort with a non-zero status
func main() {
	cmd.Execute()
}
