package logger

import "context"

type contextKey struct{}

// NewContext returns a context carrying l.
func NewContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext extracts the logger stored by NewContext, falling back to a
// default info-level logger when none is present.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(contextKey{}).(Logger); ok {
		return l
	}
	return NewLogger("info", "")
}
