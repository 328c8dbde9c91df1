package ast

// LogicKind tags the variant held by a [LogicNode].
type LogicKind int

const (
	LogicLeaf LogicKind = iota
	LogicAnd
	LogicOr
	LogicNot
)

// LogicNode is a boolean combination of filters: a leaf predicate, or an
// And/Or/Not over child nodes. The top-level filter list handed to the
// generator is treated as an implicit And of its siblings.
type LogicNode struct {
	Kind     LogicKind
	Leaf     *Filter
	Children []LogicNode
	Child    *LogicNode
}

// Leaf wraps a single filter as a logic tree node.
func Leaf(f Filter) LogicNode {
	return LogicNode{Kind: LogicLeaf, Leaf: &f}
}

// And combines children with AND.
func And(children []LogicNode) LogicNode {
	return LogicNode{Kind: LogicAnd, Children: children}
}

// Or combines children with OR.
func Or(children []LogicNode) LogicNode {
	return LogicNode{Kind: LogicOr, Children: children}
}

// Not negates a single child node.
func Not(child LogicNode) LogicNode {
	return LogicNode{Kind: LogicNot, Child: &child}
}
