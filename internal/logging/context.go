package logging

import "log/slog"

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldPath is the standardized structured logging key for file paths.
	FieldPath = "path"
	// FieldLine is the standardized structured logging key for match-file line numbers.
	FieldLine = "line"
	// FieldRunID is the standardized structured logging key for search run identifiers.
	FieldRunID = "run_id"
)

// WithComponent returns a logger tagged with a component name.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(slog.String(FieldComponent, component))
}
