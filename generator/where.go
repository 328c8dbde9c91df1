package generator

import (
	"strings"

	"github.com/relaysql/pgrestsql/ast"
	"github.com/relaysql/pgrestsql/qerrors"
)

// opSymbol is the flat, auditable table driving operator emission: one entry
// per token, no dynamic dispatch. symbol is the comparison operator used both
// in the plain form (`F symbol P`) and, quantified, in `F symbol ANY/ALL(P)`.
// negSymbol is the operator's natural negation when one exists; an empty
// negSymbol means negation must fall back to wrapping the whole clause in
// `NOT(...)`.
type opSymbol struct {
	symbol    string
	negSymbol string
}

var symbolOps = map[ast.FilterOp]opSymbol{
	ast.OpEq:     {"=", "<>"},
	ast.OpNeq:    {"<>", "="},
	ast.OpGt:     {">", "<="},
	ast.OpGte:    {">=", "<"},
	ast.OpLt:     {"<", ">="},
	ast.OpLte:    {"<=", ">"},
	ast.OpLike:   {"LIKE", "NOT LIKE"},
	ast.OpIlike:  {"ILIKE", "NOT ILIKE"},
	ast.OpMatch:  {"~", "!~"},
	ast.OpImatch: {"~*", "!~*"},
	ast.OpCs:     {"@>", ""},
	ast.OpCd:     {"<@", ""},
	ast.OpOv:     {"&&", ""},
	ast.OpSl:     {"<<", ""},
	ast.OpSr:     {">>", ""},
	ast.OpNxl:    {"&<", ""},
	ast.OpNxr:    {"&>", ""},
	ast.OpAdj:    {"-|-", ""},
}

// genWhere emits the SQL fragment for a top-level filter list (an implicit
// AND of its siblings, joined without outer parentheses) and returns whether
// anything was written. An empty list writes nothing and the caller omits
// the WHERE clause entirely.
func (b *builder) genWhere(nodes []ast.LogicNode) (bool, error) {
	if len(nodes) == 0 {
		return false, nil
	}
	b.sql.WriteString("WHERE ")
	for i, n := range nodes {
		if i > 0 {
			b.sql.WriteString(" AND ")
		}
		if err := b.genLogicNode(n); err != nil {
			return false, err
		}
	}
	return true, nil
}

// genLogicList emits `(x JOIN y JOIN ...)` for a sibling list, where JOIN is
// "AND" or "OR". An empty list emits the literal fragment TRUE per §4.4.
func (b *builder) genLogicList(nodes []ast.LogicNode, join string) error {
	if len(nodes) == 0 {
		b.sql.WriteString("TRUE")
		return nil
	}
	if len(nodes) == 1 {
		return b.genLogicNode(nodes[0])
	}
	b.sql.WriteByte('(')
	for i, n := range nodes {
		if i > 0 {
			b.sql.WriteByte(' ')
			b.sql.WriteString(join)
			b.sql.WriteByte(' ')
		}
		if err := b.genLogicNode(n); err != nil {
			return err
		}
	}
	b.sql.WriteByte(')')
	return nil
}

func (b *builder) genLogicNode(n ast.LogicNode) error {
	switch n.Kind {
	case ast.LogicLeaf:
		if n.Leaf == nil {
			return qerrors.Generation(qerrors.ErrGenerationInvariantViolated, "leaf node with nil filter")
		}
		return b.genFilter(*n.Leaf)
	case ast.LogicAnd:
		return b.genLogicList(n.Children, "AND")
	case ast.LogicOr:
		return b.genLogicList(n.Children, "OR")
	case ast.LogicNot:
		if n.Child == nil {
			return qerrors.Generation(qerrors.ErrGenerationInvariantViolated, "not node with nil child")
		}
		b.sql.WriteString("NOT (")
		if err := b.genLogicNode(*n.Child); err != nil {
			return err
		}
		b.sql.WriteByte(')')
		return nil
	default:
		return qerrors.Generation(qerrors.ErrGenerationInvariantViolated, "unknown logic node kind %v", n.Kind)
	}
}

// genFilter emits one predicate. See the operator table (symbolOps) and the
// per-operator special cases (in, is, fts family) below.
func (b *builder) genFilter(f ast.Filter) error {
	switch f.Op {
	case ast.OpIn:
		return b.genIn(f)
	case ast.OpIs:
		return b.genIs(f)
	case ast.OpFts, ast.OpPlfts, ast.OpPhfts, ast.OpWfts:
		return b.genFts(f)
	}

	sym, ok := symbolOps[f.Op]
	if !ok {
		return qerrors.Generation(qerrors.ErrGenerationInvariantViolated, "no operator mapping for %q", f.Op)
	}

	symbol := sym.symbol
	canFlip := sym.negSymbol != ""
	negated := f.Negated
	if negated && canFlip {
		symbol = sym.negSymbol
		negated = false
	}

	if negated {
		b.sql.WriteString("NOT (")
	}
	if err := b.emitField(f.Field); err != nil {
		return err
	}
	b.sql.WriteByte(' ')
	b.sql.WriteString(symbol)
	b.sql.WriteByte(' ')
	if f.Quantifier != ast.QuantifierNone {
		b.sql.WriteString(strings.ToUpper(string(f.Quantifier)))
		b.sql.WriteByte('(')
		b.writeValueParam(f.Op, f.Value)
		b.sql.WriteByte(')')
	} else {
		b.writeValueParam(f.Op, f.Value)
	}
	if negated {
		b.sql.WriteByte(')')
	}
	return nil
}

func (b *builder) genIn(f ast.Filter) error {
	if f.Negated {
		b.sql.WriteString("NOT (")
	}
	if err := b.emitField(f.Field); err != nil {
		return err
	}
	b.sql.WriteString(" = ANY(")
	b.writeValueParam(f.Op, f.Value)
	b.sql.WriteByte(')')
	if f.Negated {
		b.sql.WriteByte(')')
	}
	return nil
}

// genIs emits the keyword-form predicate for the `is` operator. Recognized
// values are matched case-insensitively; an unrecognized value falls back to
// `IS NOT DISTINCT FROM $n` with the raw value as a text parameter, which
// stays safe (still a placeholder) without inventing a new parse error for
// what is, at worst, a forward-compatible keyword this generator doesn't
// know yet.
func (b *builder) genIs(f ast.Filter) error {
	if err := b.emitField(f.Field); err != nil {
		return err
	}
	b.sql.WriteByte(' ')

	kw := strings.ToLower(f.Value.Single)
	is, not := "IS", "IS NOT"
	if f.Negated {
		is, not = not, is
	}
	switch kw {
	case "null":
		b.sql.WriteString(is)
		b.sql.WriteString(" NULL")
	case "not_null":
		b.sql.WriteString(not)
		b.sql.WriteString(" NULL")
	case "true":
		b.sql.WriteString(is)
		b.sql.WriteString(" TRUE")
	case "false":
		b.sql.WriteString(is)
		b.sql.WriteString(" FALSE")
	case "unknown":
		b.sql.WriteString(is)
		b.sql.WriteString(" UNKNOWN")
	default:
		b.sql.WriteString(strings.ToUpper(not))
		b.sql.WriteString(" DISTINCT FROM ")
		n := b.addParam(f.Value.Single)
		b.writePlaceholder(n)
	}
	return nil
}

// genFts emits the full-text-search family. The language argument is only
// included when the caller supplied one (§4.7: no hardcoded default).
func (b *builder) genFts(f ast.Filter) error {
	fn := map[ast.FilterOp]string{
		ast.OpFts:   "plainto_tsquery",
		ast.OpPlfts: "plainto_tsquery",
		ast.OpPhfts: "phraseto_tsquery",
		ast.OpWfts:  "websearch_to_tsquery",
	}[f.Op]

	if f.Negated {
		b.sql.WriteString("NOT (")
	}
	b.sql.WriteString("to_tsvector(")
	if f.Language != "" {
		b.writeTextLiteral(f.Language)
		b.sql.WriteString(", ")
	}
	if err := b.emitField(f.Field); err != nil {
		return err
	}
	b.sql.WriteString(") @@ ")
	b.sql.WriteString(fn)
	b.sql.WriteByte('(')
	if f.Language != "" {
		b.writeTextLiteral(f.Language)
		b.sql.WriteString(", ")
	}
	b.writeValueParam(f.Op, f.Value)
	b.sql.WriteByte(')')
	if f.Negated {
		b.sql.WriteByte(')')
	}
	return nil
}

// writeValueParam adds the filter's value as one parameter and writes its
// placeholder. `like`/`ilike` get the `*`→`%`, `?`→`_` wildcard translation
// described in §4.7, applied only to the parameter value, never to query
// text.
func (b *builder) writeValueParam(op ast.FilterOp, v ast.FilterValue) {
	var value any
	if v.IsList {
		value = v.List
	} else {
		s := v.Single
		if op == ast.OpLike || op == ast.OpIlike {
			s = translateWildcards(s)
		}
		value = s
	}
	n := b.addParam(value)
	b.writePlaceholder(n)
}

func translateWildcards(s string) string {
	s = strings.ReplaceAll(s, "*", "%")
	s = strings.ReplaceAll(s, "?", "_")
	return s
}
