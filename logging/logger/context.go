package logger

import (
	"context"

	"github.com/ncobase/searchsync/ctxutil"
)

var traceKey = ctxutil.TraceIDKey

func getTraceID(ctx context.Context) string {
	return ctxutil.GetTraceID(ctx)
}

// EnsureTraceID ensures that a trace ID exists in the context.
func EnsureTraceID(ctx context.Context) (context.Context, string) {
	return ctxutil.EnsureTraceID(ctx)
}
