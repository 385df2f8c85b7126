// Package logger provides logging functionality for the application.
package logger

// Level represents a logging level.
type Level string

// Available logging levels.
const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
	FatalLevel Level = "fatal"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum logging level.
	Level Level
	// Development enables development-friendly console output.
	Development bool
	// Encoding is the log output format: "console" or "json".
	Encoding string
	// OutputPaths is the list of paths to write log output to.
	OutputPaths []string
	// EnableColor enables colored level output in console encoding.
	EnableColor bool
}
