// Package logging defines the structured-logging interface used by the client
// side of fileupload
package logging

import "context"

// Logger is a context-aware, structured logger
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "entity saved", "kind", "file", "id", id)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs
	With(args ...any) Logger
}
