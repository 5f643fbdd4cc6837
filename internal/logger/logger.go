package logger

import (
	"github.com/fatih/color" // Import the fatih/color package for colored console output
)

// Define colorized printing functions for different log levels using fatih/color.
// These are package-level variables holding functions that behave like fmt.Printf,
// but with text colored appropriately for the log level.

// Info logs informational messages in green color.
var Info = color.New(color.FgGreen).PrintfFunc()

// Warn logs warning messages in bright magenta color.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error logs error messages in red color.
var Error = color.New(color.FgRed).PrintfFunc()

// Hint logs remediation suggestions in yellow color.
// This tool leans heavily on actionable hints (suggested install commands,
// override flags) instead of bare error codes, so hints get their own level.
var Hint = color.New(color.FgYellow).PrintfFunc()

// Debug logs debug messages in cyan color if enabled, otherwise is a no-op.
// It starts as a no-op so packages stay usable before Init runs (e.g. in tests)
// and is reassigned during Init based on the --debug flag.
var Debug = func(format string, a ...any) {}

// Init initializes the logger package, enabling or disabling debug logging.
// When disabled, Debug is a no-op function that silently ignores debug logs.
func Init(enableDebug bool) {
	if enableDebug {
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		Debug = func(format string, a ...any) {}
	}
}
