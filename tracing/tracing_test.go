package tracing_test

import (
	"context"
	"testing"

	"github.com/relaysql/pgrestsql/slog"
	"github.com/relaysql/pgrestsql/tracing"
)

func TestInstrumentCallWithGivenTraceID(t *testing.T) {
	t.Parallel()

	const want = "test-trace-id"
	ctx := tracing.InstrumentCall(context.Background(), want)

	got, ok := tracing.CtxGetTraceID(ctx)
	if !ok || got != want {
		t.Fatalf("got %q, %v; want %q, true", got, ok, want)
	}

	if log := slog.FromCtx(ctx); log == nil {
		t.Fatal("got nil logger")
	}
}

func TestInstrumentCallGeneratesTraceIDWhenEmpty(t *testing.T) {
	t.Parallel()

	ctx := tracing.InstrumentCall(context.Background(), "")

	got, ok := tracing.CtxGetTraceID(ctx)
	if !ok || got == "" {
		t.Fatalf("got %q, %v; want a generated non-empty trace ID", got, ok)
	}
}

func TestCtxWithTraceID(t *testing.T) {
	t.Parallel()

	const want = "trace-id-value"
	ctx := context.Background()

	got, ok := tracing.CtxGetTraceID(ctx)
	if ok {
		t.Fatalf("unexpected trace id: %q", got)
	}

	ctx = tracing.CtxWithTraceID(ctx, want)

	got, ok = tracing.CtxGetTraceID(ctx)
	if !ok {
		t.Fatal("want trace ID")
	}
	if got != want {
		t.Fatalf("got %q != want %q", got, want)
	}
}
