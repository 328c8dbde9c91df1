package ast

// FilterOp is the closed set of PostgREST comparison/containment operators.
// Kept as a string type so the token the parser read and the operator the generator switches on are the same value.
type FilterOp string

// The full operator set. See the generator for the SQL each one emits.
const (
	OpEq     FilterOp = "eq"
	OpNeq    FilterOp = "neq"
	OpGt     FilterOp = "gt"
	OpGte    FilterOp = "gte"
	OpLt     FilterOp = "lt"
	OpLte    FilterOp = "lte"
	OpLike   FilterOp = "like"
	OpIlike  FilterOp = "ilike"
	OpMatch  FilterOp = "match"
	OpImatch FilterOp = "imatch"
	OpIn     FilterOp = "in"
	OpIs     FilterOp = "is"
	OpFts    FilterOp = "fts"
	OpPlfts  FilterOp = "plfts"
	OpPhfts  FilterOp = "phfts"
	OpWfts   FilterOp = "wfts"
	OpCs     FilterOp = "cs"
	OpCd     FilterOp = "cd"
	OpOv     FilterOp = "ov"
	OpSl     FilterOp = "sl"
	OpSr     FilterOp = "sr"
	OpNxl    FilterOp = "nxl"
	OpNxr    FilterOp = "nxr"
	OpAdj    FilterOp = "adj"
)

// Quantifier modifies an operator to apply against every element of a list
// (`op(all)`) or any element (`op(any)`).
type Quantifier string

const (
	// QuantifierNone means no quantifier was present.
	QuantifierNone Quantifier = ""
	QuantifierAny  Quantifier = "any"
	QuantifierAll  Quantifier = "all"
)

// FilterValue is either a single scalar string or a comma-separated list of
// them. Values are kept as raw strings end-to-end; only the generator decides
// how to coerce them into a parameter.
type FilterValue struct {
	Single string
	List   []string
	IsList bool
}

// SingleValue builds a scalar FilterValue.
func SingleValue(s string) FilterValue { return FilterValue{Single: s} }

// ListValue builds a list FilterValue.
func ListValue(items []string) FilterValue { return FilterValue{List: items, IsList: true} }

// Filter is one predicate: `field op value`, optionally quantified, FTS
// language-tagged, and/or negated.
type Filter struct {
	Field      Field
	Op         FilterOp
	Value      FilterValue
	Quantifier Quantifier
	Language   string
	Negated    bool
}
