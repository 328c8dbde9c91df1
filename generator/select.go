package generator

import (
	"github.com/relaysql/pgrestsql/ast"
)

func (b *builder) genSelect(table ast.ResolvedTable, p *ast.SelectParams) error {
	b.sql.WriteString("SELECT ")
	if err := b.genProjection(p.Select); err != nil {
		return err
	}
	b.sql.WriteString(" FROM ")
	if err := b.emitTable(table); err != nil {
		return err
	}

	where, err := b.captured(func() error {
		_, err := b.genWhere(p.Filters)
		return err
	})
	if err != nil {
		return err
	}
	if where != "" {
		b.sql.WriteByte(' ')
		b.sql.WriteString(where)
	}

	order, err := b.captured(func() error { return b.genOrderBy(p.Order) })
	if err != nil {
		return err
	}
	if order != "" {
		b.sql.WriteByte(' ')
		b.sql.WriteString(order)
	}

	limitOffset := b.captureLimitOffset(p.Limit, p.Offset)
	if limitOffset != "" {
		b.sql.WriteByte(' ')
		b.sql.WriteString(limitOffset)
	}

	return nil
}

// genProjection emits the SELECT list, or a bare `*` when none was given.
func (b *builder) genProjection(items []ast.SelectItem) error {
	if len(items) == 0 {
		b.sql.WriteByte('*')
		return nil
	}
	for i, item := range items {
		if i > 0 {
			b.sql.WriteString(", ")
		}
		if err := b.genSelectItem(item); err != nil {
			return err
		}
	}
	return nil
}

// genSelectItem emits one projection entry. Relation and Spread items have
// no attached schema resolver in this implementation (§9: JOIN synthesis is
// out of scope), so per the documented open-question decision it emits the
// relation's own name as a column reference and continues, rather than
// refusing.
func (b *builder) genSelectItem(item ast.SelectItem) error {
	switch item.Kind {
	case ast.ItemStar:
		b.sql.WriteByte('*')
		return nil
	case ast.ItemRelation, ast.ItemSpread:
		if err := b.emitIdent(item.Name); err != nil {
			return err
		}
		return b.maybeAlias(item.Alias)
	default:
		field := ast.Field{Name: item.Name, JSONPath: item.JSONPath, Cast: item.Cast}
		if err := b.emitField(field); err != nil {
			return err
		}
		return b.maybeAlias(item.Alias)
	}
}

func (b *builder) maybeAlias(alias string) error {
	if alias == "" {
		return nil
	}
	b.sql.WriteString(" AS ")
	return b.emitIdent(alias)
}

// genOrderBy emits `ORDER BY ...` or nothing.
func (b *builder) genOrderBy(terms []ast.OrderTerm) error {
	if len(terms) == 0 {
		return nil
	}
	b.sql.WriteString("ORDER BY ")
	for i, t := range terms {
		if i > 0 {
			b.sql.WriteString(", ")
		}
		if err := b.emitField(t.Field); err != nil {
			return err
		}
		if t.Direction == ast.Desc {
			b.sql.WriteString(" DESC")
		} else {
			b.sql.WriteString(" ASC")
		}
		switch t.Nulls {
		case ast.NullsFirst:
			b.sql.WriteString(" NULLS FIRST")
		case ast.NullsLast:
			b.sql.WriteString(" NULLS LAST")
		}
	}
	return nil
}

// genLimitOffset emits `LIMIT $k OFFSET $k` as applicable. limit=0 is valid
// and passes through (§9 open question).
func (b *builder) genLimitOffset(limit, offset *uint64) {
	wrote := false
	if limit != nil {
		b.sql.WriteString("LIMIT ")
		n := b.addParam(*limit)
		b.writePlaceholder(n)
		wrote = true
	}
	if offset != nil {
		if wrote {
			b.sql.WriteByte(' ')
		}
		b.sql.WriteString("OFFSET ")
		n := b.addParam(*offset)
		b.writePlaceholder(n)
	}
}

// captureLimitOffset runs genLimitOffset in an out-of-line buffer so callers
// can test whether it wrote anything before deciding to emit a separator.
func (b *builder) captureLimitOffset(limit, offset *uint64) string {
	out, _ := b.captured(func() error {
		b.genLimitOffset(limit, offset)
		return nil
	})
	return out
}
