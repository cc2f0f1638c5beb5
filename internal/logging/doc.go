// Package logging builds the application's slog loggers and provides shared
// attribute helpers and field names so components report events consistently.
package logging
