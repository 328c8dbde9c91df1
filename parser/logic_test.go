package parser_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/relaysql/pgrestsql/ast"
	"github.com/relaysql/pgrestsql/parser"
)

func TestParseLogicGroup(t *testing.T) {
	t.Parallel()

	got, err := parser.ParseLogicGroup("(a.gte.1,or(b.eq.x,c.eq.y))")
	if err != nil {
		t.Fatal(err)
	}
	want := []ast.LogicNode{
		ast.Leaf(ast.Filter{Field: ast.NewField("a"), Op: ast.OpGte, Value: ast.SingleValue("1")}),
		ast.Or([]ast.LogicNode{
			ast.Leaf(ast.Filter{Field: ast.NewField("b"), Op: ast.OpEq, Value: ast.SingleValue("x")}),
			ast.Leaf(ast.Filter{Field: ast.NewField("c"), Op: ast.OpEq, Value: ast.SingleValue("y")}),
		}),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestParseLogicGroupDeepNesting(t *testing.T) {
	t.Parallel()

	// and(or(and(or(...))))) to depth 16, mirroring the boundary behavior
	// that deeply nested trees must parse successfully.
	inner := "a.eq.1"
	for i := 0; i < 16; i++ {
		if i%2 == 0 {
			inner = "or(" + inner + ")"
		} else {
			inner = "and(" + inner + ")"
		}
	}
	value := "(" + inner + ")"

	got, err := parser.ParseLogicGroup(value)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d top-level nodes, want 1", len(got))
	}
}

func TestParseLogicGroupNot(t *testing.T) {
	t.Parallel()

	got, err := parser.ParseLogicGroup("(not.and(a.eq.1,b.eq.2))")
	if err != nil {
		t.Fatal(err)
	}
	want := []ast.LogicNode{
		ast.Not(ast.And([]ast.LogicNode{
			ast.Leaf(ast.Filter{Field: ast.NewField("a"), Op: ast.OpEq, Value: ast.SingleValue("1")}),
			ast.Leaf(ast.Filter{Field: ast.NewField("b"), Op: ast.OpEq, Value: ast.SingleValue("2")}),
		})),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}
}
