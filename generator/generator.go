// Package generator walks a validated [ast.Operation] and emits a single
// parameterized PostgreSQL statement: SQL text into a growing buffer, values
// into a parallel parameter list, and the ordered set of referenced base
// tables. It re-checks the safety invariants the validator enforces and
// reports a violation with the same sentinel ([qerrors.ErrUnsafeUpdate],
// [qerrors.ErrUnsafeDelete], [qerrors.ErrLimitWithoutOrder],
// [qerrors.ErrNoInsertValues], [qerrors.ErrNoUpdateSet]) rather than emitting
// unsafe SQL; any other malformed IR is reported as
// [qerrors.ErrGenerationInvariantViolated]. It performs no I/O, and every
// call uses its own builder, so nothing is shared between calls or
// goroutines.
package generator

import (
	"strconv"
	"strings"

	"github.com/relaysql/pgrestsql/ast"
	"github.com/relaysql/pgrestsql/qerrors"
)

// builder is a per-call value, never shared across goroutines or calls; see
// the package doc for why that matters.
type builder struct {
	sql    strings.Builder
	params []any
	tables []string
	seen   map[string]bool
}

func newBuilder() *builder {
	return &builder{seen: make(map[string]bool)}
}

// Generate produces the [ast.QueryResult] for op against table. table is the
// already schema-resolved base table or function the operation targets.
func Generate(table ast.ResolvedTable, op ast.Operation) (ast.QueryResult, error) {
	b := newBuilder()
	var err error
	switch op.Kind {
	case ast.KindSelect:
		err = b.genSelect(table, op.Select)
	case ast.KindInsert:
		err = b.genInsert(table, op.Insert, op.Prefer)
	case ast.KindUpdate:
		err = b.genUpdate(table, op.Update, op.Prefer)
	case ast.KindDelete:
		err = b.genDelete(table, op.Delete, op.Prefer)
	case ast.KindRpc:
		err = b.genRpc(table, op.Rpc)
	default:
		err = qerrors.Generation(qerrors.ErrGenerationInvariantViolated, "unknown operation kind %v", op.Kind)
	}
	if err != nil {
		return ast.QueryResult{}, err
	}
	return ast.QueryResult{
		Query:  b.sql.String(),
		Params: b.params,
		Tables: b.tables,
	}, nil
}

// emitIdent writes a double-quoted identifier, rejecting one that embeds a
// literal double quote (such identifiers must already have been rejected at
// parse time; this is the generator's last line of defense).
func (b *builder) emitIdent(name string) error {
	if name == "" {
		return qerrors.Generation(qerrors.ErrGenerationInvariantViolated, "empty identifier reached the generator")
	}
	if strings.ContainsRune(name, '"') {
		return qerrors.Generation(qerrors.ErrGenerationInvariantViolated, "identifier %q contains a double quote", name)
	}
	b.sql.WriteByte('"')
	b.sql.WriteString(name)
	b.sql.WriteByte('"')
	return nil
}

// emitTable writes `"schema"."name"` and records it (first-mention order, no
// duplicates) in tables.
func (b *builder) emitTable(t ast.ResolvedTable) error {
	if err := b.emitIdent(t.Schema); err != nil {
		return err
	}
	b.sql.WriteByte('.')
	if err := b.emitIdent(t.Name); err != nil {
		return err
	}
	key := t.Schema + "." + t.Name
	if !b.seen[key] {
		b.seen[key] = true
		b.tables = append(b.tables, key)
	}
	return nil
}

// captured runs fn with a fresh SQL buffer swapped in, then restores the
// original buffer and returns whatever fn wrote as a string. Parameter and
// table bookkeeping (addParam, emitTable) are unaffected by the swap, so
// building a clause out-of-line to measure whether it's empty never
// disturbs placeholder numbering. This is how genSelect/genUpdate/genDelete
// assemble optional clauses (WHERE/ORDER BY/LIMIT/OFFSET) without emitting a
// stray separator when a clause turns out to be empty.
func (b *builder) captured(fn func() error) (string, error) {
	saved := b.sql
	b.sql = strings.Builder{}
	err := fn()
	out := b.sql.String()
	b.sql = saved
	return out, err
}

// addParam appends v to params and returns its 1-based placeholder number.
func (b *builder) addParam(v any) int {
	b.params = append(b.params, v)
	return len(b.params)
}

// writePlaceholder writes `$n` for the parameter index n.
func (b *builder) writePlaceholder(n int) {
	b.sql.WriteByte('$')
	b.sql.WriteString(strconv.Itoa(n))
}

// emitField writes the identifier, any JSON-path segments, and any cast. For
// a field with both a JSON path and a cast it wraps the path expression in
// parens before casting, e.g. `("f"->'k')::T`.
func (b *builder) emitField(f ast.Field) error {
	hasPath := len(f.JSONPath) > 0
	wrap := hasPath && f.Cast != ""
	if wrap {
		b.sql.WriteByte('(')
	}
	if err := b.emitIdent(f.Name); err != nil {
		return err
	}
	for i, seg := range f.JSONPath {
		last := i == len(f.JSONPath)-1
		arrow := "->"
		if last && seg.ReturnsText {
			arrow = "->>"
		}
		b.sql.WriteString(arrow)
		switch seg.Kind {
		case ast.PathObject:
			b.writeTextLiteral(seg.Key)
		case ast.PathIndex:
			b.sql.WriteString(strconv.Itoa(seg.Index))
		}
	}
	if wrap {
		b.sql.WriteByte(')')
	}
	if f.Cast != "" {
		b.sql.WriteString("::")
		b.sql.WriteString(f.Cast)
	}
	return nil
}

// writeTextLiteral writes a single-quoted SQL text literal, doubling any
// embedded single quote. JSON-path keys are a closed, parser-validated
// identifier set in practice, but the generator quotes defensively rather
// than trusting that invariant silently.
func (b *builder) writeTextLiteral(s string) {
	b.sql.WriteByte('\'')
	b.sql.WriteString(strings.ReplaceAll(s, "'", "''"))
	b.sql.WriteByte('\'')
}
