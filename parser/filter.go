package parser

import (
	"bytes"
	"fmt"

	"github.com/relaysql/pgrestsql/ast"
	"github.com/relaysql/pgrestsql/lex"
	"github.com/relaysql/pgrestsql/qerrors"
)

// operators is the flat token table driving §9's "no dynamic dispatch"
// design note: the set of recognized operator tokens, keyed by their
// query-string spelling.
var operators = map[string]ast.FilterOp{
	"eq": ast.OpEq, "neq": ast.OpNeq,
	"gt": ast.OpGt, "gte": ast.OpGte, "lt": ast.OpLt, "lte": ast.OpLte,
	"like": ast.OpLike, "ilike": ast.OpIlike,
	"match": ast.OpMatch, "imatch": ast.OpImatch,
	"in": ast.OpIn, "is": ast.OpIs,
	"fts": ast.OpFts, "plfts": ast.OpPlfts, "phfts": ast.OpPhfts, "wfts": ast.OpWfts,
	"cs": ast.OpCs, "cd": ast.OpCd, "ov": ast.OpOv,
	"sl": ast.OpSl, "sr": ast.OpSr, "nxl": ast.OpNxl, "nxr": ast.OpNxr, "adj": ast.OpAdj,
}

var ftsOps = map[ast.FilterOp]bool{
	ast.OpFts: true, ast.OpPlfts: true, ast.OpPhfts: true, ast.OpWfts: true,
}

// ParseFilterPair parses one `key=value` pair of the query string into a
// [ast.Filter], where key has already been isolated as the field expression
// (including its JSON path / cast) and value is the raw, URL-decoded
// `[not.][op][(arg)].value` string.
func ParseFilterPair(key, value string) (ast.Filter, error) {
	field, rest, err := ParseField([]byte(key))
	if err != nil {
		return ast.Filter{}, err
	}
	if len(rest) != 0 {
		return ast.Filter{}, qerrors.Parse(qerrors.ErrInvalidIdentifier, "unexpected trailing bytes in field %q: %q", key, rest)
	}
	return parseOpValueTail(field, []byte(value))
}

// parseOpValueTail parses `[not.][op][(arg)].value` — the part of a filter
// expression that follows the field — for a field already parsed by the
// caller. Shared by top-level `key=value` pairs (ParseFilterPair) and nested
// logic-group items (parseLogicItem), which differ only in how the field was
// isolated.
func parseOpValueTail(field ast.Field, value []byte) (ast.Filter, error) {
	in := value
	negated := false
	if bytes.HasPrefix(in, []byte("not.")) {
		negated = true
		in = in[len("not."):]
	}

	opTok, in, err := lex.Ident(in)
	if err != nil {
		return ast.Filter{}, qerrors.Parse(qerrors.ErrUnknownOperator, "missing operator token in %q", value)
	}
	op, ok := operators[opTok]
	if !ok {
		return ast.Filter{}, qerrors.Parse(qerrors.ErrUnknownOperator, "%q", opTok)
	}

	var quant ast.Quantifier
	var language string
	if len(in) > 0 && in[0] == '(' {
		inner, next, err := lex.SplitParen(in)
		if err != nil {
			return ast.Filter{}, qerrors.Parse(qerrors.ErrUnclosedParenthesis, "operator argument for %q", opTok)
		}
		in = next
		arg := string(inner)
		if ftsOps[op] {
			language = arg
		} else if arg == string(ast.QuantifierAny) || arg == string(ast.QuantifierAll) {
			quant = ast.Quantifier(arg)
		} else {
			return ast.Filter{}, qerrors.Parse(qerrors.ErrUnknownOperator, "unexpected operator argument %q for %q", arg, opTok)
		}
	}

	if len(in) == 0 || in[0] != '.' {
		return ast.Filter{}, qerrors.Parse(qerrors.ErrUnknownOperator, "missing value after operator in %q", value)
	}
	in = in[1:]

	val, err := parseFilterValue(op, quant, in)
	if err != nil {
		return ast.Filter{}, err
	}

	return ast.Filter{
		Field:      field,
		Op:         op,
		Value:      val,
		Quantifier: quant,
		Language:   language,
		Negated:    negated,
	}, nil
}

func parseFilterValue(op ast.FilterOp, quant ast.Quantifier, in []byte) (ast.FilterValue, error) {
	if quant != ast.QuantifierNone {
		return parseBraceListLiteral(in)
	}
	switch op {
	case ast.OpIn:
		return parseListLiteral(in)
	case ast.OpOv:
		return parseBraceListLiteral(in)
	case ast.OpCs, ast.OpCd:
		return parseArrayLiteral(in)
	case ast.OpSl, ast.OpSr, ast.OpNxl, ast.OpNxr, ast.OpAdj:
		return parseRangeLiteral(in)
	default:
		return ast.SingleValue(string(in)), nil
	}
}

func parseListLiteral(in []byte) (ast.FilterValue, error) {
	inner, rest, err := lex.SplitParen(in)
	if err != nil {
		return ast.FilterValue{}, qerrors.Parse(qerrors.ErrUnclosedParenthesis, "in() list")
	}
	if len(rest) != 0 {
		return ast.FilterValue{}, qerrors.Parse(qerrors.ErrUnknownOperator, "unexpected trailing bytes after in() list: %q", rest)
	}
	items := lex.SplitTopLevel(inner, ',')
	return ast.ListValue(items), nil
}

func parseArrayLiteral(in []byte) (ast.FilterValue, error) {
	if len(in) < 2 || in[0] != '{' || in[len(in)-1] != '}' {
		return ast.FilterValue{}, qerrors.Parse(qerrors.ErrUnknownOperator, "expected array literal {..} but got %q", in)
	}
	return ast.SingleValue(string(in)), nil
}

// parseBraceListLiteral parses a `{v1,v2,...}` literal into a [ast.ListValue],
// splitting on top-level commas. Used for quantified filters (`op(any).{...}`
// / `op(all).{...}`) and `ov`, which — unlike `cs`/`cd` — bind the parsed
// element list as a single array parameter rather than the raw literal text.
func parseBraceListLiteral(in []byte) (ast.FilterValue, error) {
	if len(in) < 2 || in[0] != '{' || in[len(in)-1] != '}' {
		return ast.FilterValue{}, qerrors.Parse(qerrors.ErrUnknownOperator, "expected array literal {..} but got %q", in)
	}
	inner := in[1 : len(in)-1]
	items := lex.SplitTopLevel(inner, ',')
	return ast.ListValue(items), nil
}

func parseRangeLiteral(in []byte) (ast.FilterValue, error) {
	if len(in) < 2 {
		return ast.FilterValue{}, qerrors.Parse(qerrors.ErrUnknownOperator, "expected range literal but got %q", in)
	}
	open, close := in[0], in[len(in)-1]
	okOpen := open == '[' || open == '('
	okClose := close == ']' || close == ')'
	if !okOpen || !okClose {
		return ast.FilterValue{}, qerrors.Parse(qerrors.ErrUnknownOperator, "expected range literal [.. / (.. but got %q", in)
	}
	return ast.SingleValue(string(in)), nil
}

// ParseLimitOffset parses a reserved `limit=`/`offset=` value into a *uint64,
// rejecting anything that isn't a bare unsigned decimal integer.
func ParseLimitOffset(raw string, isLimit bool) (*uint64, error) {
	n, rest, err := lex.Uint([]byte(raw))
	if err != nil || len(rest) != 0 {
		if isLimit {
			return nil, qerrors.Parse(qerrors.ErrInvalidLimit, "%q", raw)
		}
		return nil, qerrors.Parse(qerrors.ErrInvalidOffset, "%q", raw)
	}
	var v uint64
	for _, b := range n {
		v = v*10 + uint64(b-'0')
	}
	return &v, nil
}

func init() {
	// guard against a typo silently dropping an operator from the table.
	if len(operators) != 24 {
		panic(fmt.Sprintf("parser: operator table has %d entries, want 24", len(operators)))
	}
}
