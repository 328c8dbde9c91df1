package generator

import (
	"sort"

	"github.com/relaysql/pgrestsql/ast"
)

// genRpc emits `SELECT <returning|*> FROM schema.fn("arg" := $k, ...)
// [WHERE ...] [ORDER BY ...] [LIMIT $k] [OFFSET $k]`. Arguments are bound by
// name, sorted for determinism, against the stored function named by table.
// An RPC call is a bare SELECT, so returning= chooses the projection the way
// it chooses one on any other SELECT; there is no trailing RETURNING clause,
// which Postgres only allows on INSERT/UPDATE/DELETE.
func (b *builder) genRpc(table ast.ResolvedTable, p *ast.RpcParams) error {
	b.sql.WriteString("SELECT ")
	if err := b.genProjection(p.Returning); err != nil {
		return err
	}
	b.sql.WriteString(" FROM ")
	if err := b.emitTable(table); err != nil {
		return err
	}
	b.sql.WriteByte('(')

	names := make([]string, 0, len(p.Args))
	for n := range p.Args {
		names = append(names, n)
	}
	sort.Strings(names)
	for i, n := range names {
		if i > 0 {
			b.sql.WriteString(", ")
		}
		if err := b.emitIdent(n); err != nil {
			return err
		}
		b.sql.WriteString(" := ")
		num := b.addParam(p.Args[n])
		b.writePlaceholder(num)
	}
	b.sql.WriteByte(')')

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
