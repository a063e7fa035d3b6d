// Package logging is the process-wide logger. A thin wrapper over the
// standard library keeps call sites uniform and lets the CLI silence
// everything for clean output.
package logging

import (
	"log"
	"os"
)

var (
	disabled = false
	verbose  = os.Getenv("COACH_DEBUG") != ""
	logger   = log.New(os.Stdout, "", log.LstdFlags)
)

// Disable turns off all logging (used by CLI one-shot commands).
func Disable() { disabled = true }

// Enable turns logging back on.
func Enable() { disabled = false }

// SetVerbose toggles debug output at runtime.
func SetVerbose(v bool) { verbose = v }

// Infof logs a formatted info message.
func Infof(format string, v ...any) {
	if !disabled {
		logger.Printf("INFO  "+format, v...)
	}
}

// Warnf logs a formatted warning.
func Warnf(format string, v ...any) {
	if !disabled {
		logger.Printf("WARN  "+format, v...)
	}
}

// Errorf logs a formatted error.
func Errorf(format string, v ...any) {
	if !disabled {
		logger.Printf("ERROR "+format, v...)
	}
}

// Debugf logs a formatted debug message when verbose mode is on.
func Debugf(format string, v ...any) {
	if !disabled && verbose {
		logger.Printf("DEBUG "+format, v...)
	}
}
