// Package syntax parses R source code into a concrete syntax tree.
// It provides nodes with stable byte-offset ranges, structural navigation,
// and comment trivia partitioned into leading/trailing/dangling categories.
package syntax

// Kind identifies the type of a syntax node.
type Kind string

const (
	KindProgram    Kind = "program"     // Top-level sequence of expressions
	KindIdentifier Kind = "identifier"  // Plain or backquoted identifier
	KindString     Kind = "string"      // String literal
	KindNumber     Kind = "number"      // Numeric literal (including integer/complex suffixes)
	KindTrue       Kind = "true"        // TRUE, T
	KindFalse      Kind = "false"       // FALSE, F
	KindNA         Kind = "na"          // NA and typed NA_* literals
	KindNull       Kind = "null"        // NULL
	KindNaN        Kind = "nan"         // NaN
	KindInf        Kind = "inf"         // Inf
	KindCall       Kind = "call"        // fn(args...)
	KindArgument   Kind = "argument"    // One call/subset argument, possibly named
	KindNamespace  Kind = "namespace"   // pkg::name or pkg:::name
	KindBinary     Kind = "binary"      // Binary expression, operator in Op
	KindUnary      Kind = "unary"       // Unary expression, operator in Op
	KindParen      Kind = "paren"       // Parenthesized expression
	KindBraced     Kind = "braced"      // { expr; expr; ... }
	KindIf         Kind = "if"          // if (cond) then [else alt]
	KindFor        Kind = "for"         // for (var in seq) body
	KindWhile      Kind = "while"       // while (cond) body
	KindRepeat     Kind = "repeat"      // repeat body
	KindFunction   Kind = "function"    // function(params) body or \(params) body
	KindParameter  Kind = "parameter"   // One formal parameter, optional default
	KindBreak      Kind = "break"       // break
	KindNext       Kind = "next"        // next
	KindSubset     Kind = "subset"      // x[...]
	KindSubset2    Kind = "subset2"     // x[[...]]
)

// Range is a half-open byte-offset span [Start, End) into the source text.
type Range struct {
	Start int
	End   int
}

// Contains reports whether r fully contains other.
func (r Range) Contains(other Range) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// Cover returns the smallest range containing both a and b.
func Cover(a, b Range) Range {
	out := a
	if b.Start < out.Start {
		out.Start = b.Start
	}
	if b.End > out.End {
		out.End = b.End
	}
	return out
}

// Comment is a single # comment with its raw text (including the marker)
// and byte range.
type Comment struct {
	Text  string
	Range Range
}

// Node is a node in the concrete syntax tree. Children are ordered; their
// meaning depends on Kind (see the accessor methods). Nodes are identified
// by a sequential ID unique within one Tree, usable as a map key in place
// of pointer identity.
type Node struct {
	ID       int
	Kind     Kind
	Start    int
	End      int
	Text     string // raw source text for leaf nodes; argument/parameter name
	Op       string // operator token for binary/unary/namespace nodes
	Parent   *Node
	Children []*Node

	Leading  []Comment
	Trailing []Comment
	Dangling []Comment
}

// Range returns the node's trimmed source range.
func (n *Node) Range() Range {
	return Range{Start: n.Start, End: n.End}
}

// Child returns the i-th child or nil if out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Callee returns the function expression of a call, subset or subset2 node.
func (n *Node) Callee() *Node { return n.Child(0) }

// Args returns the argument nodes of a call, subset or subset2 node.
func (n *Node) Args() []*Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[1:]
}

// CalleeName returns the called function's name for a call whose callee is
// an identifier or a namespace access, or "" otherwise.
func (n *Node) CalleeName() string {
	callee := n.Callee()
	if callee == nil {
		return ""
	}
	switch callee.Kind {
	case KindIdentifier:
		return callee.Text
	case KindNamespace:
		if name := callee.Child(1); name != nil {
			return name.Text
		}
	}
	return ""
}

// Cond returns the condition of an if or while node.
func (n *Node) Cond() *Node { return n.Child(0) }

// Then returns the consequence branch of an if node.
func (n *Node) Then() *Node { return n.Child(1) }

// Else returns the alternative branch of an if node, or nil when absent.
func (n *Node) Else() *Node { return n.Child(2) }

// Left returns the left operand of a binary node.
func (n *Node) Left() *Node { return n.Child(0) }

// Right returns the right operand of a binary node.
func (n *Node) Right() *Node { return n.Child(1) }

// Operand returns the operand of a unary or paren node.
func (n *Node) Operand() *Node { return n.Child(0) }

// Body returns the body of a function/for/while/repeat node.
func (n *Node) Body() *Node {
	switch n.Kind {
	case KindFunction:
		return n.Child(len(n.Children) - 1)
	case KindFor:
		return n.Child(2)
	case KindWhile:
		return n.Child(1)
	case KindRepeat:
		return n.Child(0)
	}
	return nil
}

// Params returns the formal parameters of a function node.
func (n *Node) Params() []*Node {
	if n.Kind != KindFunction || len(n.Children) == 0 {
		return nil
	}
	return n.Children[:len(n.Children)-1]
}

// Var returns the loop variable of a for node.
func (n *Node) Var() *Node { return n.Child(0) }

// Seq returns the iterated sequence of a for node.
func (n *Node) Seq() *Node { return n.Child(1) }

// IsAssignment reports whether the node is an assignment expression
// (`<-`, `<<-`, `=`, `->` or `->>`).
func (n *Node) IsAssignment() bool {
	if n.Kind != KindBinary {
		return false
	}
	switch n.Op {
	case "<-", "<<-", "=", "->", "->>":
		return true
	}
	return false
}

// Walk calls fn for n and every descendant in source order. If fn returns
// false the node's children are skipped.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Tree holds one parsed source file.
type Tree struct {
	Root     *Node
	Source   string
	Comments []Comment // every comment in the file, in source order
	nodes    int
}

// NodeCount returns the number of nodes allocated in the tree. Node IDs are
// in [0, NodeCount).
func (t *Tree) NodeCount() int { return t.nodes }

// Text returns the source text covered by the node.
func (t *Tree) Text(n *Node) string {
	if n.Start < 0 || n.End > len(t.Source) || n.Start > n.End {
		return ""
	}
	return t.Source[n.Start:n.End]
}

// TopLevel returns the top-level expressions of the file.
func (t *Tree) TopLevel() []*Node {
	if t.Root == nil {
		return nil
	}
	return t.Root.Children
}
