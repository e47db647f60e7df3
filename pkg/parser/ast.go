package parser

import "github.com/leapstack-labs/sqllens/pkg/token"

// NodeKind classifies a syntax tree node.
type NodeKind int

// Node kinds. Only structure that matters for folding and navigation is
// represented; ordinary expressions do not get nodes of their own.
const (
	Script NodeKind = iota
	With
	CTE
	Select
	SetOp
	Values
	Insert
	Update
	Delete
	Create
	Drop
	Alter
	Block
	Transaction
	Command
	Paren
	Case
	Function
	Window
	Invalid
)

var nodeKindNames = [...]string{
	Script:      "Script",
	With:        "With",
	CTE:         "CTE",
	Select:      "Select",
	SetOp:       "SetOp",
	Values:      "Values",
	Insert:      "Insert",
	Update:      "Update",
	Delete:      "Delete",
	Create:      "Create",
	Drop:        "Drop",
	Alter:       "Alter",
	Block:       "Block",
	Transaction: "Transaction",
	Command:     "Command",
	Paren:       "Paren",
	Case:        "Case",
	Function:    "Function",
	Window:      "Window",
	Invalid:     "Invalid",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "Unknown"
}

// IsStatement reports whether nodes of this kind appear directly under a
// Script or Block.
func (k NodeKind) IsStatement() bool {
	switch k {
	case With, Select, SetOp, Values, Insert, Update, Delete, Create, Drop, Alter, Block, Transaction, Command, Invalid:
		return true
	}
	return false
}

// Node is a syntax tree node covering the half-open byte range [From, To).
type Node struct {
	Kind     NodeKind
	From     int
	To       int
	Start    token.Position
	End      token.Position
	Children []*Node
}

// Text returns the source text covered by n.
func (n *Node) Text(src string) string {
	if n.From < 0 || n.To > len(src) || n.From > n.To {
		return ""
	}
	return src[n.From:n.To]
}

// Lines returns the number of source lines n touches.
func (n *Node) Lines() int {
	return token.Span{Start: n.Start, End: n.End}.Lines()
}

// Walk visits n and its descendants in pre-order. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Statements returns the statement nodes of a Script.
func (n *Node) Statements() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind.IsStatement() {
			out = append(out, c)
		}
	}
	return out
}

// Innermost returns the deepest node containing offset, or nil.
func (n *Node) Innermost(offset int) *Node {
	if n == nil || offset < n.From || offset >= n.To {
		return nil
	}
	for _, c := range n.Children {
		if found := c.Innermost(offset); found != nil {
			return found
		}
	}
	return n
}
