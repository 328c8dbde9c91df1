// Package batch fans a set of independent translate calls out across
// bounded concurrency and collects their results in input order. Each
// request is translated by [restsql.ParseRequest] in isolation — there is
// no shared mutable state between them (see the generator package doc) —
// so the only coordination needed is collecting results and the first
// error, which [xerrgroup.Group] already provides.
package batch

import (
	"context"

	"github.com/relaysql/pgrestsql/ast"
	"github.com/relaysql/pgrestsql/restsql"
	"github.com/relaysql/pgrestsql/slog"
	"github.com/relaysql/pgrestsql/tracing"
	"github.com/relaysql/pgrestsql/xerrgroup"
)

// result pairs a request's position with its outcome so concurrent
// completion order can be restored to input order before returning.
type result struct {
	index int
	value ast.QueryResult
}

// Translate runs every request in reqs through [restsql.ParseRequest]
// concurrently, bounded by limit goroutines at a time (limit <= 0 means
// unbounded: no limit is set on the group). It returns
// results in the same order as reqs. On the first error from any request,
// the remaining in-flight requests still run to completion — collecting
// independent translate failures is a caller concern, not batch's — but
// only the first error is returned, per [xerrgroup.Group.Wait]'s contract.
func Translate(ctx context.Context, reqs []restsql.Request, limit int) ([]ast.QueryResult, error) {
	log := slog.FromCtx(ctx)
	g := xerrgroup.New[result]()
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, req := range reqs {
		i, req := i, req
		g.Go(func() (result, error) {
			callCtx := tracing.InstrumentCall(ctx, "")
			res, err := restsql.ParseRequest(callCtx, req)
			if err != nil {
				log.Error("batch translate failed", "index", i, "method", req.Method, "path", req.Path, "err", err)
				return result{}, err
			}
			return result{index: i, value: res}, nil
		})
	}

	collected, err := g.Wait()
	if err != nil {
		return nil, err
	}

	out := make([]ast.QueryResult, len(reqs))
	for _, r := range collected {
		out[r.index] = r.value
	}
	return out, nil
}
