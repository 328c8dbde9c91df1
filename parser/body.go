package parser

import (
	"bytes"
	"errors"

	"github.com/relaysql/pgrestsql/obj"
	"github.com/relaysql/pgrestsql/qerrors"
	"github.com/relaysql/pgrestsql/xjson"
)

// ParseInsertBody decodes an insert body: either a single JSON object or a
// non-empty array of objects (bulk). bulk reports which shape was found.
func ParseInsertBody(body []byte) (rows []obj.O, bulk bool, err error) {
	probe, err := xjson.Unmarshal[any](bytes.NewReader(body))
	if err != nil {
		return nil, false, qerrors.Parse(qerrors.ErrInvalidInsertBody, "%v", unwrapUnmarshal(err))
	}
	switch v := probe.(type) {
	case map[string]any:
		return []obj.O{v}, false, nil
	case []any:
		if len(v) == 0 {
			return nil, false, qerrors.Parse(qerrors.ErrInvalidInsertBody, "bulk insert body must be non-empty")
		}
		rows = make([]obj.O, 0, len(v))
		for _, item := range v {
			row, ok := item.(map[string]any)
			if !ok {
				return nil, false, qerrors.Parse(qerrors.ErrInvalidInsertBody, "bulk insert row %T is not a JSON object", item)
			}
			rows = append(rows, row)
		}
		return rows, true, nil
	default:
		return nil, false, qerrors.Parse(qerrors.ErrInvalidInsertBody, "expected a JSON object or array of objects, got %T", v)
	}
}

// ParseUpdateBody decodes an update body: a single non-empty JSON object.
func ParseUpdateBody(body []byte) (obj.O, error) {
	row, err := xjson.Unmarshal[obj.O](bytes.NewReader(body))
	if err != nil {
		return nil, qerrors.Parse(qerrors.ErrInvalidUpdateBody, "%v", unwrapUnmarshal(err))
	}
	if len(row) == 0 {
		return nil, qerrors.Parse(qerrors.ErrEmptyUpdateBody, "update body has no fields")
	}
	return row, nil
}

// ParseRpcArgs decodes an RPC call body: a single JSON object of named
// arguments.
func ParseRpcArgs(body []byte) (obj.O, error) {
	args, err := xjson.Unmarshal[obj.O](bytes.NewReader(body))
	if err != nil {
		return nil, qerrors.Parse(qerrors.ErrInvalidRpcArgs, "%v", unwrapUnmarshal(err))
	}
	return args, nil
}

// FilterColumns restricts row to the keys named in columns, when columns is
// non-empty. An empty columns list means "no restriction".
func FilterColumns(row obj.O, columns []string) obj.O {
	if len(columns) == 0 {
		return row
	}
	out := make(obj.O, len(columns))
	for _, c := range columns {
		if v, ok := row[c]; ok {
			out[c] = v
		}
	}
	return out
}

// unwrapUnmarshal narrows an [xjson.UnmarshalError] down to its underlying
// decode error; the raw payload it also carries is for debugging via
// errors.As at the call site, not for the message surfaced to the caller.
func unwrapUnmarshal(err error) error {
	var uerr xjson.UnmarshalError
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}
