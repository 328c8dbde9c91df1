// Package router classifies an HTTP method and path into the
// [ast.OperationKind] it selects, and, for PUT, synthesizes the auto
// ON CONFLICT target from the parsed filter list per the upsert
// convention. It never touches the query string's filter or select
// grammar directly; it operates on the already-parsed [parser.QueryString]
// alongside the raw method/path.
package router

import (
	"strings"

	"github.com/relaysql/pgrestsql/ast"
	"github.com/relaysql/pgrestsql/parser"
	"github.com/relaysql/pgrestsql/qerrors"
)

const rpcPrefix = "rpc/"

// Decision is the router's output: the operation kind the request selects,
// plus the resolved table/function name and, for Rpc, its own path segment.
type Decision struct {
	Kind   ast.OperationKind
	Target string
}

// Route classifies method and path. path is the request path with any
// leading slash and schema prefix already stripped by the caller (restsql
// strips the dotted schema prefix before calling Route, since that prefix
// feeds schema resolution, not routing).
func Route(method, path string) (Decision, error) {
	switch strings.ToUpper(method) {
	case "GET":
		return Decision{Kind: ast.KindSelect, Target: path}, nil
	case "POST":
		if fn, ok := strings.CutPrefix(path, rpcPrefix); ok {
			return Decision{Kind: ast.KindRpc, Target: fn}, nil
		}
		return Decision{Kind: ast.KindInsert, Target: path}, nil
	case "PUT":
		return Decision{Kind: ast.KindInsert, Target: path}, nil
	case "PATCH":
		return Decision{Kind: ast.KindUpdate, Target: path}, nil
	case "DELETE":
		return Decision{Kind: ast.KindDelete, Target: path}, nil
	default:
		return Decision{}, qerrors.Parse(qerrors.ErrUnsupportedMethod, "unsupported method %q", method)
	}
}

// SynthesizeUpsertConflict implements the PUT convention: when the caller
// didn't already supply on_conflict, collect every top-level filter field
// compared with eq and target them for ON CONFLICT DO UPDATE. Filters
// nested inside and/or/not groups are not eq-target candidates — PUT's
// upsert-by-primary-key convention only reads the flat top-level filter
// list, matching how the query-string parser keeps bare `field=eq.value`
// pairs as top-level leaves. If no eq filters exist, qs is left untouched
// and the caller proceeds with a plain insert; the returned bool tells the
// caller whether synthesis happened, since a PUT-synthesized conflict
// target always resolves to DO UPDATE regardless of the Prefer.resolution
// header.
func SynthesizeUpsertConflict(qs *parser.QueryString) bool {
	if len(qs.OnConflictColumns) > 0 {
		return false
	}
	var cols []string
	for _, node := range qs.Filters {
		if node.Kind != ast.LogicLeaf || node.Leaf == nil {
			continue
		}
		if node.Leaf.Op == ast.OpEq && !node.Leaf.Negated {
			cols = append(cols, node.Leaf.Field.Name)
		}
	}
	if len(cols) == 0 {
		return false
	}
	qs.OnConflictColumns = cols
	return true
}
