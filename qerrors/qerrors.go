// Package qerrors defines the two error taxonomies surfaced by the
// translator: parse-time errors (raised before any SQL is emitted) and
// generation-time errors (raised at the SQL boundary). Both are flat tagged
// unions built on top of [xerrors.Tag], so a caller can test for a specific
// failure with errors.Is(err, qerrors.ErrUnsafeDelete) no matter how many
// layers wrapped the underlying message.
package qerrors

import (
	"errors"
	"fmt"

	"github.com/relaysql/pgrestsql/xerrors"
)

// Parse-error sentinels. Test with errors.Is.
var (
	ErrUnknownOperator     = errors.New("qerrors: unknown operator")
	ErrUnclosedParenthesis = errors.New("qerrors: unclosed parenthesis")
	ErrInvalidLimit        = errors.New("qerrors: invalid limit")
	ErrInvalidOffset       = errors.New("qerrors: invalid offset")
	ErrInvalidJSONBody     = errors.New("qerrors: invalid JSON body")
	ErrInvalidInsertBody   = errors.New("qerrors: invalid insert body")
	ErrInvalidUpdateBody   = errors.New("qerrors: invalid update body")
	ErrInvalidRpcArgs      = errors.New("qerrors: invalid rpc arguments")
	ErrEmptyUpdateBody     = errors.New("qerrors: empty update body")
	ErrInvalidOnConflict   = errors.New("qerrors: invalid on_conflict")
	ErrUnsupportedMethod   = errors.New("qerrors: unsupported method")
	ErrInvalidSchema       = errors.New("qerrors: invalid schema name")
	ErrInvalidTableName    = errors.New("qerrors: invalid table name")
	ErrInvalidIdentifier   = errors.New("qerrors: invalid identifier")
)

// Generation-error sentinels. Test with errors.Is.
var (
	ErrUnsafeUpdate                = errors.New("qerrors: update without filters")
	ErrUnsafeDelete                = errors.New("qerrors: delete without filters")
	ErrLimitWithoutOrder           = errors.New("qerrors: limit without order")
	ErrNoInsertValues              = errors.New("qerrors: no insert values")
	ErrNoUpdateSet                 = errors.New("qerrors: no update set values")
	ErrGenerationInvariantViolated = errors.New("qerrors: generation invariant violated")
)

// ErrParse is the umbrella tag for every parse-stage sentinel above; errors.Is
// matches it for any of them because each is constructed via [Parse].
var ErrParse = errors.New("qerrors: parse error")

// ErrGeneration is the umbrella tag for every generation-stage sentinel
// above; errors.Is matches it for any of them because each is constructed
// via [Generation].
var ErrGeneration = errors.New("qerrors: generation error")

// Parse tags msg-formatted detail as a parse error carrying sentinel as its
// specific kind, itself tagged as [ErrParse].
func Parse(sentinel error, format string, args ...any) error {
	detail := fmt.Errorf(format, args...)
	return xerrors.Tag(xerrors.Tag(detail, sentinel), ErrParse)
}

// Generation tags msg-formatted detail as a generation error carrying
// sentinel as its specific kind, itself tagged as [ErrGeneration].
func Generation(sentinel error, format string, args ...any) error {
	detail := fmt.Errorf(format, args...)
	return xerrors.Tag(xerrors.Tag(detail, sentinel), ErrGeneration)
}

// IsParse reports whether err is a parse-stage error.
func IsParse(err error) bool {
	return errors.Is(err, ErrParse)
}

// IsGeneration reports whether err is a generation-stage error.
func IsGeneration(err error) bool {
	return errors.Is(err, ErrGeneration)
}
