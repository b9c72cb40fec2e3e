// Package logging builds slog loggers with console and JSON handlers and
// standardized field names shared across the repository.
package logging
