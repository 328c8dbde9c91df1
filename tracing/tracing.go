// Package tracing provides functions to help integrate logging with
// per-call correlation IDs, for callers that need to tell one translate
// call's log lines apart from another's — [batch]'s concurrent workers and
// cmd/pgrestfmt's per-line NDJSON processing both instrument this way.
package tracing

import (
	"context"

	"github.com/google/uuid"

	"github.com/relaysql/pgrestsql/slog"
)

// InstrumentCall returns a context carrying traceID (generating one via
// uuid if traceID is empty) and a logger that tags every line it emits
// with that trace ID. Use [slog.FromCtx] on the returned context to
// retrieve the logger, and [CtxGetTraceID] to retrieve the bare ID.
func InstrumentCall(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		traceID = uuid.NewString()
	}

	ctx = CtxWithTraceID(ctx, traceID)

	log := slog.FromCtx(ctx).With("trace_id", traceID)
	return slog.NewContext(ctx, log)
}

// CtxWithTraceID creates a new [context.Context] with the given trace ID associated with it.
// Call [CtxGetTraceID] to retrieve the trace ID.
func CtxWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// CtxGetTraceID gets the trace ID associated with this context.
// Return the trace ID and true if there is a trace ID, empty and false otherwise.
func CtxGetTraceID(ctx context.Context) (string, bool) {
	return ctxget(ctx, traceIDKey)
}

// CtxWithOrgID creates a new [context.Context] with the given organization ID associated with it.
// Call [CtxGetOrgID] to retrieve the organization ID.
func CtxWithOrgID(ctx context.Context, orgID string) context.Context {
	return context.WithValue(ctx, orgIDKey, orgID)
}

// CtxGetOrgID gets the organization ID associated with this context.
// Return the organization ID and true if there is one, empty and false otherwise.
func CtxGetOrgID(ctx context.Context) (string, bool) {
	return ctxget(ctx, orgIDKey)
}

// key is the type used to store data on contexts.
type key int

const (
	traceIDKey key = iota
	orgIDKey
)

func ctxget(ctx context.Context, k key) (string, bool) {
	val := ctx.Value(k)
	if val == nil {
		return "", false
	}
	str, ok := val.(string)
	if !ok {
		return "", false
	}
	return str, true
}
