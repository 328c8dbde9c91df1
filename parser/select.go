package parser

import (
	"github.com/relaysql/pgrestsql/ast"
	"github.com/relaysql/pgrestsql/lex"
	"github.com/relaysql/pgrestsql/qerrors"
)

// ParseSelectList parses a `select=` value into its comma-separated items.
func ParseSelectList(value string) ([]ast.SelectItem, error) {
	items := lex.SplitTopLevel([]byte(value), ',')
	out := make([]ast.SelectItem, 0, len(items))
	for _, item := range items {
		si, err := parseSelectItem([]byte(item))
		if err != nil {
			return nil, err
		}
		out = append(out, si)
	}
	return out, nil
}

func parseSelectItem(in []byte) (ast.SelectItem, error) {
	if len(in) == 0 {
		return ast.SelectItem{}, qerrors.Parse(qerrors.ErrInvalidIdentifier, "empty select item")
	}

	if string(in) == "*" {
		return ast.SelectItem{Kind: ast.ItemStar}, nil
	}

	spread := false
	if len(in) >= 3 && string(in[:3]) == "..." {
		spread = true
		in = in[3:]
	}

	var alias string
	if maybeAlias, rest, err := lex.Ident(in); err == nil && len(rest) >= 1 && rest[0] == ':' &&
		!(len(rest) >= 2 && rest[1] == ':') {
		alias = maybeAlias
		in = rest[1:]
	}

	name, rest, err := lex.Ident(in)
	if err != nil {
		return ast.SelectItem{}, qerrors.Parse(qerrors.ErrInvalidIdentifier, "select item: %v", err)
	}

	if len(rest) > 0 && rest[0] == '(' {
		inner, next, err := lex.SplitParen(rest)
		if err != nil {
			return ast.SelectItem{}, qerrors.Parse(qerrors.ErrUnclosedParenthesis, "relation %q", name)
		}
		if len(next) != 0 {
			return ast.SelectItem{}, qerrors.Parse(qerrors.ErrInvalidIdentifier, "unexpected trailing bytes after relation %q: %q", name, next)
		}
		children, err := ParseSelectList(string(inner))
		if err != nil {
			return ast.SelectItem{}, err
		}
		kind := ast.ItemRelation
		if spread {
			kind = ast.ItemSpread
		}
		return ast.SelectItem{Kind: kind, Name: name, Alias: alias, Inner: children}, nil
	}

	field := ast.NewField(name)
	for len(rest) >= 2 && rest[0] == '-' && rest[1] == '>' {
		returnsText := false
		rest = rest[2:]
		if len(rest) > 0 && rest[0] == '>' {
			returnsText = true
			rest = rest[1:]
		}
		seg, next, err := parsePathSegment(rest, returnsText)
		if err != nil {
			return ast.SelectItem{}, err
		}
		field.JSONPath = append(field.JSONPath, seg)
		rest = next
	}
	if len(rest) >= 2 && rest[0] == ':' && rest[1] == ':' {
		cast, next, err := lex.Ident(rest[2:])
		if err != nil {
			return ast.SelectItem{}, qerrors.Parse(qerrors.ErrInvalidIdentifier, "cast type: %v", err)
		}
		field.Cast = cast
		rest = next
	}
	if len(rest) != 0 {
		return ast.SelectItem{}, qerrors.Parse(qerrors.ErrInvalidIdentifier, "unexpected trailing bytes in select item: %q", rest)
	}

	return ast.SelectItem{Kind: ast.ItemField, Name: field.Name, Alias: alias, JSONPath: field.JSONPath, Cast: field.Cast}, nil
}

// ParseOrderList parses an `order=` value into its comma-separated terms.
func ParseOrderList(value string) ([]ast.OrderTerm, error) {
	items := lex.SplitTopLevel([]byte(value), ',')
	out := make([]ast.OrderTerm, 0, len(items))
	for _, item := range items {
		term, err := parseOrderTerm(item)
		if err != nil {
			return nil, err
		}
		out = append(out, term)
	}
	return out, nil
}

func parseOrderTerm(item string) (ast.OrderTerm, error) {
	parts := splitDot(item)
	if len(parts) == 0 || parts[0] == "" {
		return ast.OrderTerm{}, qerrors.Parse(qerrors.ErrInvalidIdentifier, "empty order term")
	}
	field, rest, err := ParseField([]byte(parts[0]))
	if err != nil {
		return ast.OrderTerm{}, err
	}
	if len(rest) != 0 {
		return ast.OrderTerm{}, qerrors.Parse(qerrors.ErrInvalidIdentifier, "unexpected trailing bytes in order field: %q", rest)
	}
	term := ast.OrderTerm{Field: field, Direction: ast.Asc, Nulls: ast.NullsDefault}
	for _, mod := range parts[1:] {
		switch mod {
		case "asc":
			term.Direction = ast.Asc
		case "desc":
			term.Direction = ast.Desc
		case "nullsfirst":
			term.Nulls = ast.NullsFirst
		case "nullslast":
			term.Nulls = ast.NullsLast
		default:
			return ast.OrderTerm{}, qerrors.Parse(qerrors.ErrInvalidIdentifier, "unknown order modifier %q", mod)
		}
	}
	return term, nil
}

// splitDot splits on literal '.' bytes. The order grammar's field component
// never contains JSON-path arrows or casts that themselves contain dots, so a
// plain split is sufficient here (unlike the filter grammar's field+op+value).
func splitDot(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}
