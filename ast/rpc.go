package ast

// RpcParams holds the named arguments and the optional post-filtering of an
// RPC (stored function) call.
type RpcParams struct {
	Function  ResolvedTable
	Args      map[string]any
	Filters   []LogicNode
	Order     []OrderTerm
	Limit     *uint64
	Offset    *uint64
	Returning []SelectItem
}
