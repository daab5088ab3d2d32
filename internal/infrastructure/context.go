package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	apperrors "casestat/internal/errors"
)

// GenerateTraceID creates a new unique trace ID using UUID v4
func GenerateTraceID() string {
	return uuid.New().String()
}

// ContextWithTraceID creates a new context with a generated trace ID
func ContextWithTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, GenerateTraceID())
}

// EnsureTraceID ensures the context has a trace ID, generating one if needed
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) == "" {
		return ContextWithTraceID(ctx)
	}
	return ctx
}

// WithComponent creates a logger with a component field
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With("component", component)
}

// ErrorAttrs returns the log attributes describing err: its message and, for
// an *errors.AppError, the error type and its context as a group.
func ErrorAttrs(err error) []any {
	if err == nil {
		return nil
	}
	attrs := []any{slog.String("error", err.Error())}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return attrs
	}
	attrs = append(attrs, slog.String("error_type", string(appErr.Type)))

	keys := make([]string, 0, len(appErr.Context))
	for k := range appErr.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return attrs
	}
	group := make([]any, 0, len(keys))
	for _, k := range keys {
		group = append(group, slog.String(k, fmt.Sprint(appErr.Context[k])))
	}
	return append(attrs, slog.Group("context", group...))
}
