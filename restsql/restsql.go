// Package restsql wires the router, parser, validator and generator into
// the single entry point external callers use: hand it a method, path,
// query string, body and headers, get back a parameterized SQL statement.
// Nothing here touches a network or a database; see the generator package
// doc for the purity contract this facade preserves.
package restsql

import (
	"context"
	"strings"
	"time"

	"github.com/relaysql/pgrestsql/ast"
	"github.com/relaysql/pgrestsql/generator"
	"github.com/relaysql/pgrestsql/metrics"
	"github.com/relaysql/pgrestsql/parser"
	"github.com/relaysql/pgrestsql/qerrors"
	"github.com/relaysql/pgrestsql/router"
	"github.com/relaysql/pgrestsql/slog"
)

// kindLabel names an [ast.OperationKind] for metrics/log attributes.
func kindLabel(kind ast.OperationKind) string {
	switch kind {
	case ast.KindSelect:
		return "select"
	case ast.KindInsert:
		return "insert"
	case ast.KindUpdate:
		return "update"
	case ast.KindDelete:
		return "delete"
	case ast.KindRpc:
		return "rpc"
	default:
		return "unknown"
	}
}

// defaultSchemaFallback is the schema used when no request ever resolves one
// and no [Config] override has been applied via [Configure].
const defaultSchemaFallback = "public"

// defaultSchema is the schema resolveTable falls back to; [Configure]
// overrides it from [Config.DefaultSchema] at startup, the same way
// [slog.Configure] mutates slog's package-level default logger.
var defaultSchema = defaultSchemaFallback

// Request is everything a caller supplies for one translate call.
type Request struct {
	Method      string
	Path        string
	QueryString string
	Body        []byte
	Headers     parser.Headers
}

// ParseRequest runs Request through router→parser→validate→generator and
// returns the terminal [ast.QueryResult]. It logs stage transitions at
// Debug and failures at Error through the logger attached to ctx (see
// [slog.FromCtx]); ctx carries no deadline or cancellation semantics of its
// own since no I/O ever occurs — it exists purely to carry the logger and,
// for [batch] callers, a correlation ID.
func ParseRequest(ctx context.Context, req Request) (ast.QueryResult, error) {
	log := slog.FromCtx(ctx)
	start := time.Now()
	kind := "unknown"
	var err error
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		metrics.ObserveTranslate(kind, outcome, time.Since(start))
	}()

	schema, path := splitSchemaPrefix(req.Path)
	var decision router.Decision
	decision, err = router.Route(req.Method, path)
	if err != nil {
		log.Error("route failed", "method", req.Method, "path", req.Path, "err", err)
		return ast.QueryResult{}, err
	}
	kind = kindLabel(decision.Kind)
	log.Debug("routed", "kind", decision.Kind, "target", decision.Target)

	qs, err := parser.ParseQueryString(req.QueryString)
	if err != nil {
		log.Error("query string parse failed", "err", err)
		return ast.QueryResult{}, err
	}

	prefer := req.Headers.ParsePrefer()

	table, err := resolveTable(decision.Target, schema, decision.Kind, req.Headers)
	if err != nil {
		log.Error("table resolution failed", "target", decision.Target, "err", err)
		return ast.QueryResult{}, err
	}

	var putSynthesized bool
	if strings.EqualFold(req.Method, "PUT") {
		putSynthesized = router.SynthesizeUpsertConflict(&qs)
	}

	op, err := buildOperation(decision.Kind, &qs, req.Body, prefer, putSynthesized)
	if err != nil {
		log.Error("body parse failed", "kind", decision.Kind, "err", err)
		return ast.QueryResult{}, err
	}

	if err = validateOperation(op); err != nil {
		log.Error("validation failed", "kind", decision.Kind, "err", err)
		return ast.QueryResult{}, err
	}

	result, err := generator.Generate(table, op)
	if err != nil {
		log.Error("generation failed", "kind", decision.Kind, "err", err)
		return ast.QueryResult{}, err
	}
	log.Debug("generated", "tables", result.Tables)
	return result, nil
}

// Parse is the query-string-only convenience wrapper for a GET request
// against table, with no headers and the default schema.
func Parse(ctx context.Context, table, queryString string) (ast.QueryResult, error) {
	return ParseRequest(ctx, Request{Method: "GET", Path: table, QueryString: queryString})
}

// ToSQL is an alias for ParseRequest kept for callers that think in terms
// of "give me SQL for this request" rather than "parse this request".
func ToSQL(ctx context.Context, req Request) (ast.QueryResult, error) {
	return ParseRequest(ctx, req)
}

// splitSchemaPrefix splits a dotted `schema.table` path into its two parts;
// a bare path has no schema prefix and is returned as ("", path).
func splitSchemaPrefix(path string) (schema, rest string) {
	path = strings.TrimPrefix(path, "/")
	if before, after, found := strings.Cut(path, "."); found {
		return before, after
	}
	return "", path
}

// resolveTable applies the schema priority: dotted prefix > profile header
// (Accept-Profile for reads, Content-Profile for writes) > defaultSchema
// ("public" unless [Configure] overrode it).
func resolveTable(name, dottedSchema string, kind ast.OperationKind, h parser.Headers) (ast.ResolvedTable, error) {
	if err := parser.ValidateIdentifier(name); err != nil {
		return ast.ResolvedTable{}, qerrors.Parse(qerrors.ErrInvalidTableName, "table name: %v", err)
	}
	if dottedSchema != "" {
		if err := parser.ValidateIdentifier(dottedSchema); err != nil {
			return ast.ResolvedTable{}, qerrors.Parse(qerrors.ErrInvalidSchema, "schema name: %v", err)
		}
		return ast.ResolvedTable{Schema: dottedSchema, Name: name}, nil
	}

	var profile string
	var ok bool
	if kind == ast.KindSelect {
		profile, ok = h.AcceptProfile()
	} else {
		profile, ok = h.ContentProfile()
	}
	if ok && profile != "" {
		if err := parser.ValidateIdentifier(profile); err != nil {
			return ast.ResolvedTable{}, qerrors.Parse(qerrors.ErrInvalidSchema, "profile header: %v", err)
		}
		return ast.ResolvedTable{Schema: profile, Name: name}, nil
	}

	return ast.ResolvedTable{Schema: defaultSchema, Name: name}, nil
}
