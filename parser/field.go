package parser

import (
	"strconv"
	"strings"

	"github.com/relaysql/pgrestsql/ast"
	"github.com/relaysql/pgrestsql/lex"
	"github.com/relaysql/pgrestsql/qerrors"
)

// ParseField parses `col(->key|->>key|->N)*(::type)?` and returns the field
// plus the unconsumed remainder of in.
func ParseField(in []byte) (ast.Field, []byte, error) {
	name, rest, err := lex.Ident(in)
	if err != nil {
		return ast.Field{}, in, qerrors.Parse(qerrors.ErrInvalidIdentifier, "field name: %v", err)
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
			return ast.Field{}, in, err
		}
		field.JSONPath = append(field.JSONPath, seg)
		rest = next
	}

	if len(rest) >= 2 && rest[0] == ':' && rest[1] == ':' {
		rest = rest[2:]
		cast, next, err := lex.Ident(rest)
		if err != nil {
			return ast.Field{}, in, qerrors.Parse(qerrors.ErrInvalidIdentifier, "cast type: %v", err)
		}
		field.Cast = cast
		rest = next
	}

	return field, rest, nil
}

func parsePathSegment(in []byte, returnsText bool) (ast.PathSegment, []byte, error) {
	if len(in) > 0 && in[0] >= '0' && in[0] <= '9' {
		digits, rest, err := lex.Uint(in)
		if err != nil {
			return ast.PathSegment{}, in, qerrors.Parse(qerrors.ErrInvalidIdentifier, "array index: %v", err)
		}
		idx, err := strconv.Atoi(string(digits))
		if err != nil {
			return ast.PathSegment{}, in, qerrors.Parse(qerrors.ErrInvalidIdentifier, "array index: %v", err)
		}
		return ast.PathSegment{Kind: ast.PathIndex, Index: idx, ReturnsText: returnsText}, rest, nil
	}
	key, rest, err := lex.Ident(in)
	if err != nil {
		return ast.PathSegment{}, in, qerrors.Parse(qerrors.ErrInvalidIdentifier, "json path key: %v", err)
	}
	return ast.PathSegment{Kind: ast.PathObject, Key: key, ReturnsText: returnsText}, rest, nil
}

// ValidateIdentifier rejects identifiers that could not be safely
// double-quoted: empty, or containing a literal `"`.
func ValidateIdentifier(name string) error {
	if name == "" {
		return qerrors.Parse(qerrors.ErrInvalidIdentifier, "empty identifier")
	}
	if strings.ContainsRune(name, '"') {
		return qerrors.Parse(qerrors.ErrInvalidIdentifier, "identifier %q contains a double quote", name)
	}
	return nil
}
