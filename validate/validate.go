// Package validate enforces the cross-field invariants that must hold
// before an [ast.Operation] reaches the generator: no whole-table mutation,
// no unordered limited mutation, non-empty bulk inserts, and so on. It never
// touches SQL; it only accepts or rejects an already-parsed IR.
package validate

import (
	"github.com/relaysql/pgrestsql/ast"
	"github.com/relaysql/pgrestsql/qerrors"
)

// Operation checks the cross-field invariants for op, dispatching on its
// kind. It returns the first violation found.
func Operation(op ast.Operation) error {
	switch op.Kind {
	case ast.KindSelect:
		return nil
	case ast.KindInsert:
		return insert(op.Insert)
	case ast.KindUpdate:
		return update(op.Update)
	case ast.KindDelete:
		return del(op.Delete)
	case ast.KindRpc:
		return rpc(op.Rpc)
	default:
		return qerrors.Generation(qerrors.ErrGenerationInvariantViolated, "unknown operation kind %v", op.Kind)
	}
}

func insert(p *ast.InsertParams) error {
	if p == nil || p.Values.Len() == 0 {
		return qerrors.Generation(qerrors.ErrNoInsertValues, "insert has no values")
	}
	if p.OnConflict != nil {
		if len(p.OnConflict.Columns) == 0 {
			return qerrors.Parse(qerrors.ErrInvalidOnConflict, "on_conflict requires at least one column")
		}
		if err := checkFilterFieldNames(p.OnConflict.Where); err != nil {
			return err
		}
	}
	return nil
}

func update(p *ast.UpdateParams) error {
	if p == nil || len(p.Filters) == 0 {
		return qerrors.Generation(qerrors.ErrUnsafeUpdate, "update without filters")
	}
	if len(p.SetValues) == 0 {
		return qerrors.Generation(qerrors.ErrNoUpdateSet, "update has no set values")
	}
	if p.Limit != nil && len(p.Order) == 0 {
		return qerrors.Generation(qerrors.ErrLimitWithoutOrder, "update limit without order")
	}
	return checkFilterFieldNames(p.Filters)
}

func del(p *ast.DeleteParams) error {
	if p == nil || len(p.Filters) == 0 {
		return qerrors.Generation(qerrors.ErrUnsafeDelete, "delete without filters")
	}
	if p.Limit != nil && len(p.Order) == 0 {
		return qerrors.Generation(qerrors.ErrLimitWithoutOrder, "delete limit without order")
	}
	return checkFilterFieldNames(p.Filters)
}

func rpc(p *ast.RpcParams) error {
	if p == nil {
		return qerrors.Generation(qerrors.ErrGenerationInvariantViolated, "nil rpc params")
	}
	return checkFilterFieldNames(p.Filters)
}

// checkFilterFieldNames walks a filter tree and rejects any leaf whose field
// name is empty.
func checkFilterFieldNames(nodes []ast.LogicNode) error {
	for _, n := range nodes {
		if err := checkNode(n); err != nil {
			return err
		}
	}
	return nil
}

func checkNode(n ast.LogicNode) error {
	switch n.Kind {
	case ast.LogicLeaf:
		if n.Leaf == nil || n.Leaf.Field.Name == "" {
			return qerrors.Parse(qerrors.ErrInvalidIdentifier, "filter references an empty field name")
		}
		return nil
	case ast.LogicAnd, ast.LogicOr:
		for _, c := range n.Children {
			if err := checkNode(c); err != nil {
				return err
			}
		}
		return nil
	case ast.LogicNot:
		if n.Child == nil {
			return qerrors.Generation(qerrors.ErrGenerationInvariantViolated, "not node with no child")
		}
		return checkNode(*n.Child)
	default:
		return qerrors.Generation(qerrors.ErrGenerationInvariantViolated, "unknown logic node kind %v", n.Kind)
	}
}
