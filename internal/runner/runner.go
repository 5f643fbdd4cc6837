// Package runner executes external collaborators (cmake, ctest, aqt, built
// binaries). Every invocation is logged before it runs, blocks until exit,
// and surfaces a non-zero exit as an error carrying the original exit code.
// There is no retry and no timeout: a long configure or build blocks for as
// long as it takes.
package runner

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"dev-tool/internal/logger"
)

// Run executes a command with the tool's stdin/stdout/stderr attached.
func Run(name string, args ...string) error {
	return RunIn("", name, args...)
}

// RunIn executes a command in the given working directory ("" for inherit).
func RunIn(dir, name string, args ...string) error {
	display := strings.Join(append([]string{name}, args...), " ")
	if dir != "" {
		display = fmt.Sprintf("(cd %s) %s", dir, display)
	}
	logger.Info("\n>>> %s\n", display)

	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}

// Output executes a command and returns its standard output as a string.
func Output(name string, args ...string) (string, error) {
	logger.Debug("[DEBUG] Running command: %s\n", strings.Join(append([]string{name}, args...), " "))
	out, err := exec.Command(name, args...).Output()
	return string(out), err
}

// ExitCode extracts the exit code from a command failure, so the tool can
// propagate the collaborator's status instead of inventing its own.
// It returns 1 for failures that never produced an exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
