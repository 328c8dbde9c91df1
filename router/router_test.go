package router_test

import (
	"errors"
	"testing"

	"github.com/relaysql/pgrestsql/ast"
	"github.com/relaysql/pgrestsql/parser"
	"github.com/relaysql/pgrestsql/qerrors"
	"github.com/relaysql/pgrestsql/router"
)

func TestRouteMethods(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method string
		path   string
		want   ast.OperationKind
		target string
	}{
		{"GET", "users", ast.KindSelect, "users"},
		{"POST", "users", ast.KindInsert, "users"},
		{"POST", "rpc/sum", ast.KindRpc, "sum"},
		{"PUT", "users", ast.KindInsert, "users"},
		{"PATCH", "users", ast.KindUpdate, "users"},
		{"DELETE", "users", ast.KindDelete, "users"},
		{"get", "users", ast.KindSelect, "users"},
	}
	for _, tc := range tests {
		got, err := router.Route(tc.method, tc.path)
		if err != nil {
			t.Fatalf("%s %s: unexpected error %v", tc.method, tc.path, err)
		}
		if got.Kind != tc.want || got.Target != tc.target {
			t.Errorf("%s %s: got %+v, want kind=%v target=%q", tc.method, tc.path, got, tc.want, tc.target)
		}
	}
}

func TestRouteUnsupportedMethod(t *testing.T) {
	t.Parallel()

	_, err := router.Route("TRACE", "users")
	if !errors.Is(err, qerrors.ErrUnsupportedMethod) {
		t.Fatalf("got %v, want ErrUnsupportedMethod", err)
	}
}

func TestSynthesizeUpsertConflictFromEqFilters(t *testing.T) {
	t.Parallel()

	qs := &parser.QueryString{
		Filters: []ast.LogicNode{
			ast.Leaf(ast.Filter{Field: ast.NewField("email"), Op: ast.OpEq, Value: ast.SingleValue("a@b.com")}),
			ast.Leaf(ast.Filter{Field: ast.NewField("age"), Op: ast.OpGt, Value: ast.SingleValue("5")}),
		},
	}
	synthesized := router.SynthesizeUpsertConflict(qs)
	if !synthesized {
		t.Fatal("expected synthesis")
	}
	if len(qs.OnConflictColumns) != 1 || qs.OnConflictColumns[0] != "email" {
		t.Errorf("got %v, want [email]", qs.OnConflictColumns)
	}
}

func TestSynthesizeUpsertConflictNoEqFiltersLeavesPlainInsert(t *testing.T) {
	t.Parallel()

	qs := &parser.QueryString{
		Filters: []ast.LogicNode{
			ast.Leaf(ast.Filter{Field: ast.NewField("age"), Op: ast.OpGt, Value: ast.SingleValue("5")}),
		},
	}
	if router.SynthesizeUpsertConflict(qs) {
		t.Fatal("expected no synthesis")
	}
	if len(qs.OnConflictColumns) != 0 {
		t.Errorf("got %v, want none", qs.OnConflictColumns)
	}
}

func TestSynthesizeUpsertConflictSkippedWhenAlreadySupplied(t *testing.T) {
	t.Parallel()

	qs := &parser.QueryString{
		OnConflictColumns: []string{"id"},
		Filters: []ast.LogicNode{
			ast.Leaf(ast.Filter{Field: ast.NewField("email"), Op: ast.OpEq, Value: ast.SingleValue("a@b.com")}),
		},
	}
	if router.SynthesizeUpsertConflict(qs) {
		t.Fatal("expected no synthesis when on_conflict already supplied")
	}
	if len(qs.OnConflictColumns) != 1 || qs.OnConflictColumns[0] != "id" {
		t.Errorf("got %v, want [id] unchanged", qs.OnConflictColumns)
	}
}
