// Package logging builds the slog loggers used by vidconv.
//
// Two handlers are available: a compact console handler that colors level
// labels when writing to a terminal, and a JSON handler. The interactive TUI
// owns the terminal, so NewFromConfig routes its logs to the configured file
// only (or nowhere).
package logging
