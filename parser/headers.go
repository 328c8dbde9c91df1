package parser

import (
	"strings"

	"github.com/relaysql/pgrestsql/ast"
)

// Headers is a header map with lower-case keys: lookups lower-case the name
// before indexing, so a map built directly must use lower-case keys, while
// [NewHeaders] accepts any case. A nil Headers is safe to query.
type Headers map[string]string

// NewHeaders builds a [Headers] from the given case-insensitive raw map.
func NewHeaders(raw map[string]string) Headers {
	h := make(Headers, len(raw))
	for k, v := range raw {
		h[strings.ToLower(k)] = v
	}
	return h
}

func (h Headers) get(name string) (string, bool) {
	v, ok := h[strings.ToLower(name)]
	return v, ok
}

// AcceptProfile returns the `Accept-Profile` header value, used as the
// read-side schema override.
func (h Headers) AcceptProfile() (string, bool) {
	return h.get("Accept-Profile")
}

// ContentProfile returns the `Content-Profile` header value, used as the
// write-side schema override.
func (h Headers) ContentProfile() (string, bool) {
	return h.get("Content-Profile")
}

// ParsePrefer parses the comma-separated `key=value` pairs of the `Prefer`
// header into [ast.PreferOptions]. Unknown keys, and unknown values of known
// keys, are ignored silently to allow forward compatibility.
func (h Headers) ParsePrefer() *ast.PreferOptions {
	raw, ok := h.get("Prefer")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	opts := &ast.PreferOptions{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "return":
			switch ast.ReturnPreference(value) {
			case ast.ReturnRepresentation, ast.ReturnMinimal, ast.ReturnHeadersOnly:
				opts.Return = ast.ReturnPreference(value)
			}
		case "resolution":
			switch ast.ResolutionPreference(value) {
			case ast.ResolutionMergeDuplicates, ast.ResolutionIgnoreDuplicates:
				opts.Resolution = ast.ResolutionPreference(value)
			}
		case "count":
			switch ast.CountPreference(value) {
			case ast.CountExact, ast.CountPlanned, ast.CountEstimated:
				opts.Count = ast.CountPreference(value)
			}
		case "missing":
			switch ast.MissingPreference(value) {
			case ast.MissingDefault, ast.MissingNull:
				opts.Missing = ast.MissingPreference(value)
			}
		case "plurality":
			switch ast.PluralityPreference(value) {
			case ast.PluralitySingular, ast.PluralityMultiple:
				opts.Plurality = ast.PluralityPreference(value)
			}
		}
	}
	return opts
}
