package logging

import (
	"context"
	"io"
	"log/slog"

	"generator-backoffice/internal/config"
)

type ctxKey struct{}

// New builds the process logger based on log configuration
func New(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: cfg.Level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Inject stores a request scoped logger in ctx
func Inject(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request scoped logger, or the default one
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return slog.Default()
}
