package generator

import (
	"sort"

	"github.com/relaysql/pgrestsql/ast"
	"github.com/relaysql/pgrestsql/parser"
	"github.com/relaysql/pgrestsql/qerrors"
)

// genInsert emits `INSERT INTO t (cols) VALUES (row), ... [ON CONFLICT ...]
// [RETURNING ...]`. Columns are the sorted union of keys across all rows;
// a row missing a column gets DEFAULT or NULL per Prefer.Missing (§4.4),
// written as a bare keyword rather than a parameter since it carries no
// user data.
func (b *builder) genInsert(table ast.ResolvedTable, p *ast.InsertParams, prefer *ast.PreferOptions) error {
	rows := p.Values.AllRows()
	if len(rows) == 0 {
		return qerrors.Generation(qerrors.ErrNoInsertValues, "insert has no rows")
	}
	if len(p.Columns) > 0 {
		filtered := make([]map[string]any, len(rows))
		for i, row := range rows {
			filtered[i] = parser.FilterColumns(row, p.Columns)
		}
		rows = filtered
	}

	cols := unionColumns(rows)
	if len(cols) == 0 {
		return qerrors.Generation(qerrors.ErrNoInsertValues, "insert rows have no columns")
	}

	missingNull := prefer != nil && prefer.Missing == ast.MissingNull

	b.sql.WriteString("INSERT INTO ")
	if err := b.emitTable(table); err != nil {
		return err
	}
	b.sql.WriteString(" (")
	for i, c := range cols {
		if i > 0 {
			b.sql.WriteString(", ")
		}
		if err := b.emitIdent(c); err != nil {
			return err
		}
	}
	b.sql.WriteString(") VALUES ")
	for ri, row := range rows {
		if ri > 0 {
			b.sql.WriteString(", ")
		}
		b.sql.WriteByte('(')
		for ci, c := range cols {
			if ci > 0 {
				b.sql.WriteString(", ")
			}
			v, ok := row[c]
			switch {
			case ok:
				n := b.addParam(v)
				b.writePlaceholder(n)
			case missingNull:
				b.sql.WriteString("NULL")
			default:
				b.sql.WriteString("DEFAULT")
			}
		}
		b.sql.WriteByte(')')
	}

	if p.OnConflict != nil {
		if err := b.genOnConflict(p.OnConflict, cols); err != nil {
			return err
		}
	}

	return b.genReturning(p.Returning, prefer)
}

// unionColumns returns the sorted union of keys across rows.
func unionColumns(rows []map[string]any) []string {
	set := make(map[string]bool)
	for _, row := range rows {
		for k := range row {
			set[k] = true
		}
	}
	cols := make([]string, 0, len(set))
	for c := range set {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// genOnConflict walks the OnConflict state machine: None is never reached
// here (the field is non-nil), Targeted always has columns, Actioned
// appends the DO NOTHING/DO UPDATE clause. insertCols is the fallback
// update-column set when UpdateColumns is absent (§4.4: "all insert columns
// if absent").
func (b *builder) genOnConflict(oc *ast.OnConflict, insertCols []string) error {
	if len(oc.Columns) == 0 {
		return qerrors.Generation(qerrors.ErrGenerationInvariantViolated, "on_conflict with no target columns")
	}
	b.sql.WriteString(" ON CONFLICT (")
	for i, c := range oc.Columns {
		if i > 0 {
			b.sql.WriteString(", ")
		}
		if err := b.emitIdent(c); err != nil {
			return err
		}
	}
	b.sql.WriteByte(')')

	if oc.Action == ast.DoNothing {
		b.sql.WriteString(" DO NOTHING")
		return nil
	}

	updateCols := oc.UpdateColumns
	if len(updateCols) == 0 {
		updateCols = insertCols
	}
	sorted := append([]string(nil), updateCols...)
	sort.Strings(sorted)

	b.sql.WriteString(" DO UPDATE SET ")
	for i, c := range sorted {
		if i > 0 {
			b.sql.WriteString(", ")
		}
		if err := b.emitIdent(c); err != nil {
			return err
		}
		b.sql.WriteString("=EXCLUDED.")
		if err := b.emitIdent(c); err != nil {
			return err
		}
	}

	if len(oc.Where) > 0 {
		where, err := b.captured(func() error {
			_, err := b.genWhere(oc.Where)
			return err
		})
		if err != nil {
			return err
		}
		b.sql.WriteByte(' ')
		b.sql.WriteString(where)
	}
	return nil
}

// genUpdate emits `UPDATE t SET assignments WHERE filters [ORDER BY ...]
// [LIMIT $k] [RETURNING ...]`. Assignment order is sorted for determinism.
func (b *builder) genUpdate(table ast.ResolvedTable, p *ast.UpdateParams, prefer *ast.PreferOptions) error {
	if len(p.SetValues) == 0 {
		return qerrors.Generation(qerrors.ErrNoUpdateSet, "update has no set values")
	}
	if len(p.Filters) == 0 {
		return qerrors.Generation(qerrors.ErrUnsafeUpdate, "update without filters")
	}
	if p.Limit != nil && len(p.Order) == 0 {
		return qerrors.Generation(qerrors.ErrLimitWithoutOrder, "update limit without order")
	}

	cols := make([]string, 0, len(p.SetValues))
	for c := range p.SetValues {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	b.sql.WriteString("UPDATE ")
	if err := b.emitTable(table); err != nil {
		return err
	}
	b.sql.WriteString(" SET ")
	for i, c := range cols {
		if i > 0 {
			b.sql.WriteString(", ")
		}
		if err := b.emitIdent(c); err != nil {
			return err
		}
		b.sql.WriteString(" = ")
		n := b.addParam(p.SetValues[c])
		b.writePlaceholder(n)
	}

	b.sql.WriteString(" WHERE ")
	if err := b.genLogicList(p.Filters, "AND"); err != nil {
		return err
	}

	order, err := b.captured(func() error { return b.genOrderBy(p.Order) })
	if err != nil {
		return err
	}
	if order != "" {
		b.sql.WriteByte(' ')
		b.sql.WriteString(order)
	}

	limitOffset := b.captureLimitOffset(p.Limit, nil)
	if limitOffset != "" {
		b.sql.WriteByte(' ')
		b.sql.WriteString(limitOffset)
	}

	return b.genReturning(p.Returning, prefer)
}

// genDelete emits `DELETE FROM t WHERE filters [ORDER BY ...] [LIMIT $k]
// [RETURNING ...]`.
func (b *builder) genDelete(table ast.ResolvedTable, p *ast.DeleteParams, prefer *ast.PreferOptions) error {
	if len(p.Filters) == 0 {
		return qerrors.Generation(qerrors.ErrUnsafeDelete, "delete without filters")
	}
	if p.Limit != nil && len(p.Order) == 0 {
		return qerrors.Generation(qerrors.ErrLimitWithoutOrder, "delete limit without order")
	}

	b.sql.WriteString("DELETE FROM ")
	if err := b.emitTable(table); err != nil {
		return err
	}
	b.sql.WriteString(" WHERE ")
	if err := b.genLogicList(p.Filters, "AND"); err != nil {
		return err
	}

	order, err := b.captured(func() error { return b.genOrderBy(p.Order) })
	if err != nil {
		return err
	}
	if order != "" {
		b.sql.WriteByte(' ')
		b.sql.WriteString(order)
	}

	limitOffset := b.captureLimitOffset(p.Limit, nil)
	if limitOffset != "" {
		b.sql.WriteByte(' ')
		b.sql.WriteString(limitOffset)
	}

	return b.genReturning(p.Returning, prefer)
}

// genReturning emits ` RETURNING ...` per §4.4: Prefer.Return of minimal or
// headers-only emits nothing, even with an explicit select list; otherwise an
// explicit select list wins, then representation emits `RETURNING *` and an
// unset preference emits nothing.
func (b *builder) genReturning(items []ast.SelectItem, prefer *ast.PreferOptions) error {
	if prefer != nil && (prefer.Return == ast.ReturnMinimal || prefer.Return == ast.ReturnHeadersOnly) {
		return nil
	}
	if len(items) > 0 {
		b.sql.WriteString(" RETURNING ")
		return b.genProjection(items)
	}
	if prefer == nil {
		return nil
	}
	switch prefer.Return {
	case ast.ReturnRepresentation:
		b.sql.WriteString(" RETURNING *")
	case ast.ReturnMinimal, ast.ReturnHeadersOnly, ast.ReturnUnset:
	}
	return nil
}
