package parser_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/relaysql/pgrestsql/ast"
	"github.com/relaysql/pgrestsql/parser"
	"github.com/relaysql/pgrestsql/qerrors"
)

func TestParseFilterPair(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		key  string
		val  string
		want ast.Filter
	}{
		{
			name: "eq",
			key:  "age", val: "eq.18",
			want: ast.Filter{Field: ast.NewField("age"), Op: ast.OpEq, Value: ast.SingleValue("18")},
		},
		{
			name: "gte",
			key:  "price", val: "gte.50",
			want: ast.Filter{Field: ast.NewField("price"), Op: ast.OpGte, Value: ast.SingleValue("50")},
		},
		{
			name: "negated",
			key:  "status", val: "not.eq.banned",
			want: ast.Filter{Field: ast.NewField("status"), Op: ast.OpEq, Value: ast.SingleValue("banned"), Negated: true},
		},
		{
			name: "in list",
			key:  "id", val: "in.(1,2,3)",
			want: ast.Filter{Field: ast.NewField("id"), Op: ast.OpIn, Value: ast.ListValue([]string{"1", "2", "3"})},
		},
		{
			name: "quantifier any",
			key:  "score", val: "eq(any).{1,2,3}",
			want: ast.Filter{Field: ast.NewField("score"), Op: ast.OpEq, Quantifier: ast.QuantifierAny, Value: ast.ListValue([]string{"1", "2", "3"})},
		},
		{
			name: "quantifier any single element",
			key:  "score", val: "eq(any).{1}",
			want: ast.Filter{Field: ast.NewField("score"), Op: ast.OpEq, Quantifier: ast.QuantifierAny, Value: ast.ListValue([]string{"1"})},
		},
		{
			name: "overlap",
			key:  "tags", val: "ov.{a,b}",
			want: ast.Filter{Field: ast.NewField("tags"), Op: ast.OpOv, Value: ast.ListValue([]string{"a", "b"})},
		},
		{
			name: "fts with language",
			key:  "body", val: "fts(english).cat",
			want: ast.Filter{Field: ast.NewField("body"), Op: ast.OpFts, Language: "english", Value: ast.SingleValue("cat")},
		},
		{
			name: "like preserves star",
			key:  "name", val: "like.jo*n",
			want: ast.Filter{Field: ast.NewField("name"), Op: ast.OpLike, Value: ast.SingleValue("jo*n")},
		},
		{
			name: "array containment",
			key:  "tags", val: "cs.{a,b}",
			want: ast.Filter{Field: ast.NewField("tags"), Op: ast.OpCs, Value: ast.SingleValue("{a,b}")},
		},
		{
			name: "range adjacent",
			key:  "span", val: "adj.[1,5)",
			want: ast.Filter{Field: ast.NewField("span"), Op: ast.OpAdj, Value: ast.SingleValue("[1,5)")},
		},
		{
			name: "is null",
			key:  "deleted_at", val: "is.null",
			want: ast.Filter{Field: ast.NewField("deleted_at"), Op: ast.OpIs, Value: ast.SingleValue("null")},
		},
		{
			name: "json path field",
			key:  "data->>age", val: "gt.21",
			want: ast.Filter{
				Field: ast.Field{Name: "data", JSONPath: []ast.PathSegment{{Kind: ast.PathObject, Key: "age", ReturnsText: true}}},
				Op:    ast.OpGt, Value: ast.SingleValue("21"),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := parser.ParseFilterPair(tc.key, tc.val)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestParseFilterPairErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		key     string
		val     string
		wantErr error
	}{
		{name: "unknown operator", key: "age", val: "bogus.18", wantErr: qerrors.ErrUnknownOperator},
		{name: "unclosed in list", key: "id", val: "in.(1,2,3", wantErr: qerrors.ErrUnclosedParenthesis},
		{name: "missing value", key: "age", val: "eq", wantErr: qerrors.ErrUnknownOperator},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := parser.ParseFilterPair(tc.key, tc.val)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got err %v, want %v", err, tc.wantErr)
			}
			if !qerrors.IsParse(err) {
				t.Fatal("expected a parse-stage error")
			}
		})
	}
}

func TestParseLimitOffset(t *testing.T) {
	t.Parallel()

	n, err := parser.ParseLimitOffset("10", true)
	if err != nil {
		t.Fatal(err)
	}
	if n == nil || *n != 10 {
		t.Fatalf("got %v, want 10", n)
	}

	zero, err := parser.ParseLimitOffset("0", true)
	if err != nil {
		t.Fatal(err)
	}
	if zero == nil || *zero != 0 {
		t.Fatalf("got %v, want 0", zero)
	}

	_, err = parser.ParseLimitOffset("abc", true)
	if !errors.Is(err, qerrors.ErrInvalidLimit) {
		t.Fatalf("got %v, want ErrInvalidLimit", err)
	}

	_, err = parser.ParseLimitOffset("abc", false)
	if !errors.Is(err, qerrors.ErrInvalidOffset) {
		t.Fatalf("got %v, want ErrInvalidOffset", err)
	}
}
