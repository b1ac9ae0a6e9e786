// Package cfg builds control flow graphs for function bodies and top-level
// programs and finds unreachable code in them.
//
// The graph is an arena of basic blocks addressed by integer handles. Edges
// are stored on both sides: Successors carries the real control-flow edges,
// while Predecessors may additionally hold "tombstone" entries pointing at a
// block that produced this one without any real edge (code after a return,
// dead branches of constant conditions). The reachability pass reads that
// asymmetry to explain why a block cannot execute.
package cfg

import "github.com/jarl-lint/jarl/pkg/syntax"

// BlockID is an index into the graph's block arena.
type BlockID int

// Terminator is the control transfer that ends a basic block.
type Terminator string

const (
	TermNone   Terminator = "none"
	TermGoto   Terminator = "goto"
	TermReturn Terminator = "return"
	TermStop   Terminator = "stop"
	TermBreak  Terminator = "break"
	TermNext   Terminator = "next"
	TermBranch Terminator = "branch"
	TermLoop   Terminator = "loop"
)

// BasicBlock is a straight-line run of statements.
type BasicBlock struct {
	ID           BlockID
	Statements   []*syntax.Node
	Successors   []BlockID
	Predecessors []BlockID
	Terminator   Terminator
	// Range covers the statements added through addStatement. It stays nil
	// for blocks that only received whole dead-branch nodes.
	Range *syntax.Range
}

// Graph is a control flow graph over one function body or one top-level
// program. Entry and Exit are always present, at indices 0 and 1.
type Graph struct {
	Blocks []*BasicBlock
	Entry  BlockID
	Exit   BlockID
}

// NewGraph allocates a graph holding only the entry and exit blocks.
func NewGraph() *Graph {
	g := &Graph{}
	g.Entry = g.NewBlock()
	g.Exit = g.NewBlock()
	return g
}

// NewBlock appends an empty block to the arena and returns its handle.
func (g *Graph) NewBlock() BlockID {
	id := BlockID(len(g.Blocks))
	g.Blocks = append(g.Blocks, &BasicBlock{ID: id, Terminator: TermNone})
	return id
}

// Block resolves a handle, returning nil for out-of-range ids.
func (g *Graph) Block(id BlockID) *BasicBlock {
	if id < 0 || int(id) >= len(g.Blocks) {
		return nil
	}
	return g.Blocks[id]
}

// AddEdge records a real control-flow edge on both endpoints.
func (g *Graph) AddEdge(from, to BlockID) {
	f, t := g.Block(from), g.Block(to)
	if f == nil || t == nil {
		return
	}
	f.Successors = append(f.Successors, to)
	t.Predecessors = append(t.Predecessors, from)
}

func contains(ids []BlockID, id BlockID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
