package typedfsm

import (
	"context"
	"log/slog"
	"time"
)

// Match builds an action that calls onMatch when the wrapper holds a V and
// otherwise when it holds any other variant. otherwise may be nil.
func Match[V, W any](onMatch func(ctx context.Context, v V), otherwise func(ctx context.Context, w W)) Action[W] {
	return func(ctx context.Context, w W) {
		if v, ok := any(w).(V); ok {
			onMatch(ctx, v)
			return
		}
		if otherwise != nil {
			otherwise(ctx, w)
		}
	}
}

// Logged wraps an action with debug logging of its name and duration.
func Logged[W any](logger *slog.Logger, name string, a Action[W]) Action[W] {
	if logger == nil {
		logger = Logger
	}
	return func(ctx context.Context, w W) {
		logger.DebugContext(ctx, "executing action", slog.String("action", name))
		start := time.Now()
		a(ctx, w)
		logger.DebugContext(ctx, "action completed",
			slog.String("action", name),
			slog.Duration("duration", time.Since(start)),
		)
	}
}
