package restsql

import (
	"github.com/relaysql/pgrestsql/ast"
	"github.com/relaysql/pgrestsql/parser"
	"github.com/relaysql/pgrestsql/validate"
)

// buildOperation dispatches on kind to assemble the [ast.Operation], parsing
// body bytes only for the kinds that need one. putSynthesized is true only
// when the caller already ran [router.SynthesizeUpsertConflict] for a PUT
// request and it found eq filters to target; it forces the resulting
// ON CONFLICT action to DO UPDATE regardless of Prefer.resolution.
func buildOperation(kind ast.OperationKind, qs *parser.QueryString, body []byte, prefer *ast.PreferOptions, putSynthesized bool) (ast.Operation, error) {
	switch kind {
	case ast.KindSelect:
		return ast.Operation{Kind: kind, Select: &ast.SelectParams{
			Select:  qs.Select,
			Filters: qs.Filters,
			Order:   qs.Order,
			Limit:   qs.Limit,
			Offset:  qs.Offset,
		}, Prefer: prefer}, nil

	case ast.KindInsert:
		return buildInsert(qs, body, prefer, putSynthesized)

	case ast.KindUpdate:
		row, err := parser.ParseUpdateBody(body)
		if err != nil {
			return ast.Operation{}, err
		}
		return ast.Operation{Kind: kind, Update: &ast.UpdateParams{
			SetValues: parser.FilterColumns(row, qs.Columns),
			Filters:   qs.Filters,
			Order:     qs.Order,
			Limit:     qs.Limit,
			Returning: qs.Returning,
		}, Prefer: prefer}, nil

	case ast.KindDelete:
		return ast.Operation{Kind: kind, Delete: &ast.DeleteParams{
			Filters:   qs.Filters,
			Order:     qs.Order,
			Limit:     qs.Limit,
			Returning: qs.Returning,
		}, Prefer: prefer}, nil

	case ast.KindRpc:
		args, err := parser.ParseRpcArgs(body)
		if err != nil {
			return ast.Operation{}, err
		}
		return ast.Operation{Kind: kind, Rpc: &ast.RpcParams{
			Args:      args,
			Filters:   qs.Filters,
			Order:     qs.Order,
			Limit:     qs.Limit,
			Offset:    qs.Offset,
			Returning: qs.Returning,
		}, Prefer: prefer}, nil

	default:
		return ast.Operation{}, nil
	}
}

// buildInsert handles both plain POST inserts and PUT's upsert convention.
// For PUT, the caller has already invoked [router.SynthesizeUpsertConflict]
// on qs, so by the time buildInsert runs, qs.OnConflictColumns already
// reflects either the caller's explicit on_conflict= or the router's
// synthesized target; forceDoUpdate is true only when that synthesis
// actually happened, and forces DO UPDATE regardless of Prefer.resolution.
func buildInsert(qs *parser.QueryString, body []byte, prefer *ast.PreferOptions, forceDoUpdate bool) (ast.Operation, error) {
	rows, bulk, err := parser.ParseInsertBody(body)
	if err != nil {
		return ast.Operation{}, err
	}
	if len(qs.Columns) > 0 {
		for i, row := range rows {
			rows[i] = parser.FilterColumns(row, qs.Columns)
		}
	}

	values := ast.InsertValues{Bulk: bulk}
	if bulk {
		values.Rows = rows
	} else if len(rows) > 0 {
		values.Single = rows[0]
	}

	insert := &ast.InsertParams{
		Values:    values,
		Columns:   qs.Columns,
		Returning: qs.Returning,
	}

	if len(qs.OnConflictColumns) > 0 {
		action := conflictAction(prefer)
		if forceDoUpdate {
			action = ast.DoUpdate
		}
		insert.OnConflict = &ast.OnConflict{
			Columns: qs.OnConflictColumns,
			Action:  action,
		}
	}

	return ast.Operation{Kind: ast.KindInsert, Insert: insert, Prefer: prefer}, nil
}

// conflictAction maps Prefer.resolution to an ON CONFLICT action, defaulting
// to DO NOTHING when no resolution preference was given (see DESIGN.md's
// Open Question decisions: an explicit on_conflict= with no stated
// resolution is treated conservatively).
func conflictAction(prefer *ast.PreferOptions) ast.ConflictAction {
	if prefer != nil && prefer.Resolution == ast.ResolutionMergeDuplicates {
		return ast.DoUpdate
	}
	return ast.DoNothing
}

func validateOperation(op ast.Operation) error {
	return validate.Operation(op)
}
