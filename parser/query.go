// Package parser turns the PostgREST query string, JSON body and header map
// of a request into the typed intermediate representation in package ast. It
// is a hand-rolled combinator grammar over byte slices; no regular
// expressions are used anywhere in this package.
package parser

import (
	"net/url"
	"strings"

	"github.com/relaysql/pgrestsql/ast"
	"github.com/relaysql/pgrestsql/qerrors"
)

// reserved query-string keys, routed to a dedicated sub-grammar instead of
// being treated as a filter column.
const (
	keySelect     = "select"
	keyOrder      = "order"
	keyLimit      = "limit"
	keyOffset     = "offset"
	keyOnConflict = "on_conflict"
	keyColumns    = "columns"
	keyReturning  = "returning"
	keyAnd        = "and"
	keyOr         = "or"
	keyNotAnd     = "not.and"
	keyNotOr      = "not.or"
)

// QueryString is everything the query-string grammar can contribute to any
// operation kind. Each operation's own parser picks the fields it needs.
type QueryString struct {
	Select            []ast.SelectItem
	Filters           []ast.LogicNode
	Order             []ast.OrderTerm
	Limit             *uint64
	Offset            *uint64
	OnConflictColumns []string
	Columns           []string
	Returning         []ast.SelectItem
}

// ParseQueryString parses the full raw query string (without the leading
// `?`) into a [QueryString]. An empty string is valid and yields a zero
// value with no filters.
func ParseQueryString(qs string) (QueryString, error) {
	var out QueryString
	if strings.TrimSpace(qs) == "" {
		return out, nil
	}

	reserved := make(map[string]string)
	var filterPairs [][2]string

	for _, rawPair := range strings.Split(qs, "&") {
		if rawPair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(rawPair, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return QueryString{}, qerrors.Parse(qerrors.ErrInvalidIdentifier, "query key %q: %v", rawKey, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return QueryString{}, qerrors.Parse(qerrors.ErrInvalidIdentifier, "query value for %q: %v", key, err)
		}

		switch key {
		case keySelect, keyOrder, keyLimit, keyOffset, keyOnConflict, keyColumns, keyReturning,
			keyAnd, keyOr, keyNotAnd, keyNotOr:
			reserved[key] = value
		default:
			filterPairs = append(filterPairs, [2]string{key, value})
		}
	}

	for _, kv := range filterPairs {
		f, err := ParseFilterPair(kv[0], kv[1])
		if err != nil {
			return QueryString{}, err
		}
		out.Filters = append(out.Filters, ast.Leaf(f))
	}

	if v, ok := reserved[keyAnd]; ok {
		children, err := ParseLogicGroup(v)
		if err != nil {
			return QueryString{}, err
		}
		out.Filters = append(out.Filters, ast.And(children))
	}
	if v, ok := reserved[keyOr]; ok {
		children, err := ParseLogicGroup(v)
		if err != nil {
			return QueryString{}, err
		}
		out.Filters = append(out.Filters, ast.Or(children))
	}
	if v, ok := reserved[keyNotAnd]; ok {
		children, err := ParseLogicGroup(v)
		if err != nil {
			return QueryString{}, err
		}
		out.Filters = append(out.Filters, ast.Not(ast.And(children)))
	}
	if v, ok := reserved[keyNotOr]; ok {
		children, err := ParseLogicGroup(v)
		if err != nil {
			return QueryString{}, err
		}
		out.Filters = append(out.Filters, ast.Not(ast.Or(children)))
	}

	if v, ok := reserved[keySelect]; ok {
		items, err := ParseSelectList(v)
		if err != nil {
			return QueryString{}, err
		}
		out.Select = items
	}
	if v, ok := reserved[keyOrder]; ok {
		terms, err := ParseOrderList(v)
		if err != nil {
			return QueryString{}, err
		}
		out.Order = terms
	}
	if v, ok := reserved[keyLimit]; ok {
		n, err := ParseLimitOffset(v, true)
		if err != nil {
			return QueryString{}, err
		}
		out.Limit = n
	}
	if v, ok := reserved[keyOffset]; ok {
		n, err := ParseLimitOffset(v, false)
		if err != nil {
			return QueryString{}, err
		}
		out.Offset = n
	}
	if v, ok := reserved[keyOnConflict]; ok {
		out.OnConflictColumns = splitIdentList(v)
	}
	if v, ok := reserved[keyColumns]; ok {
		out.Columns = splitIdentList(v)
	}
	if v, ok := reserved[keyReturning]; ok {
		items, err := ParseSelectList(v)
		if err != nil {
			return QueryString{}, err
		}
		out.Returning = items
	}

	return out, nil
}

// splitIdentList splits a bare comma-separated list of column names, used by
// `on_conflict=` and `columns=`.
func splitIdentList(v string) []string {
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}
