package parser

import (
	"github.com/relaysql/pgrestsql/ast"
	"github.com/relaysql/pgrestsql/lex"
	"github.com/relaysql/pgrestsql/qerrors"
)

// ParseLogicGroup parses the parenthesized body of an `and=(...)`/`or=(...)`
// reserved key into the list of child [ast.LogicNode] it describes. value is
// the raw reserved-key value, including its surrounding parens.
func ParseLogicGroup(value string) ([]ast.LogicNode, error) {
	inner, rest, err := lex.SplitParen([]byte(value))
	if err != nil {
		return nil, qerrors.Parse(qerrors.ErrUnclosedParenthesis, "logic group %q", value)
	}
	if len(rest) != 0 {
		return nil, qerrors.Parse(qerrors.ErrUnknownOperator, "unexpected trailing bytes after logic group: %q", rest)
	}
	items := lex.SplitTopLevel(inner, ',')
	nodes := make([]ast.LogicNode, 0, len(items))
	for _, item := range items {
		node, err := parseLogicItem([]byte(item))
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// parseLogicItem parses one comma-separated item inside a logic group: it is
// either a nested `and(...)`/`or(...)`/`not.and(...)`/`not.or(...)` call, or a
// dotted filter expression `field.op.value`.
func parseLogicItem(in []byte) (ast.LogicNode, error) {
	ident, rest, identErr := lex.Ident(in)
	if identErr == nil && len(rest) > 0 && rest[0] == '(' {
		switch ident {
		case "and", "or":
			children, err := ParseLogicGroup(string(rest))
			if err != nil {
				return ast.LogicNode{}, err
			}
			if ident == "and" {
				return ast.And(children), nil
			}
			return ast.Or(children), nil
		}
	}
	if identErr == nil && ident == "not" {
		// not.and(...) / not.or(...): lex.Ident stops at the literal dot, so
		// check for it explicitly and recurse into the inner group.
		if len(rest) > 0 && rest[0] == '.' {
			inner := rest[1:]
			innerIdent, innerRest, err := lex.Ident(inner)
			if err == nil && len(innerRest) > 0 && innerRest[0] == '(' && (innerIdent == "and" || innerIdent == "or") {
				children, err := ParseLogicGroup(string(innerRest))
				if err != nil {
					return ast.LogicNode{}, err
				}
				if innerIdent == "and" {
					return ast.Not(ast.And(children)), nil
				}
				return ast.Not(ast.Or(children)), nil
			}
		}
	}

	field, rest, err := ParseField(in)
	if err != nil {
		return ast.LogicNode{}, err
	}
	if len(rest) == 0 || rest[0] != '.' {
		return ast.LogicNode{}, qerrors.Parse(qerrors.ErrUnknownOperator, "expected `.op.value` after field in logic item %q", in)
	}
	filter, err := parseOpValueTail(field, rest[1:])
	if err != nil {
		return ast.LogicNode{}, err
	}
	return ast.Leaf(filter), nil
}
