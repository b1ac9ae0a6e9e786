package cfg

import "github.com/jarl-lint/jarl/pkg/syntax"

// DefaultStopFunctions are the call names treated as unconditionally
// stopping execution, in addition to whatever the configuration adds.
var DefaultStopFunctions = []string{"stop", ".Defunct", "abort", "cli_abort", "q", "quit"}

// Options tune graph construction.
type Options struct {
	// StopFunctions overrides DefaultStopFunctions when non-nil.
	StopFunctions []string
	// TopLevel builds the graph for a whole file rather than a function
	// body. At top level `return` is not control flow and is kept as a
	// plain statement.
	TopLevel bool
}

type loopContext struct {
	continueTarget BlockID
	breakTarget    BlockID
}

type builder struct {
	g         *Graph
	loopStack []loopContext
	stops     map[string]bool
	topLevel  bool
}

// Build constructs the control flow graph of a function body. The body may
// be a braced block or any single expression.
func Build(body *syntax.Node, opts Options) *Graph {
	b := newBuilder(opts)
	if body != nil {
		b.buildExpression(body, b.g.Entry)
	}
	return b.g
}

// BuildTopLevel constructs the graph for a file's top-level statements.
func BuildTopLevel(stmts []*syntax.Node, opts Options) *Graph {
	opts.TopLevel = true
	b := newBuilder(opts)
	b.buildStatements(stmts, b.g.Entry)
	return b.g
}

func newBuilder(opts Options) *builder {
	names := opts.StopFunctions
	if names == nil {
		names = DefaultStopFunctions
	}
	stops := make(map[string]bool, len(names))
	for _, n := range names {
		stops[n] = true
	}
	return &builder{g: NewGraph(), stops: stops, topLevel: opts.TopLevel}
}

// hasIncomingEdges reports whether any predecessor holds a real edge to the
// block. The entry block always counts as reachable for building purposes.
// Tombstone predecessors (recorded without a matching successor edge) do
// not count.
func (b *builder) hasIncomingEdges(id BlockID) bool {
	if id == b.g.Entry {
		return true
	}
	block := b.g.Block(id)
	if block == nil {
		return false
	}
	for _, pred := range block.Predecessors {
		if p := b.g.Block(pred); p != nil && contains(p.Successors, id) {
			return true
		}
	}
	return false
}

func (b *builder) buildExpression(expr *syntax.Node, current BlockID) BlockID {
	if expr.Kind == syntax.KindBraced {
		return b.buildStatements(expr.Children, current)
	}
	return b.buildStatement(expr, current)
}

func (b *builder) buildStatements(stmts []*syntax.Node, current BlockID) BlockID {
	for idx, stmt := range stmts {
		current = b.buildStatement(stmt, current)

		block := b.g.Block(current)
		if block == nil || !isTerminating(block.Terminator) {
			continue
		}
		// Everything after the terminator in this lexical sequence is
		// unreachable. Collect it in one fresh block so it reports as a
		// single span; the terminator block is recorded as a tombstone
		// predecessor to explain why.
		if idx+1 < len(stmts) {
			unreachable := b.g.NewBlock()
			b.g.Block(unreachable).Predecessors = append(b.g.Block(unreachable).Predecessors, current)
			for _, rest := range stmts[idx+1:] {
				b.addStatement(unreachable, rest)
			}
			return unreachable
		}
	}
	return current
}

func isTerminating(t Terminator) bool {
	return t == TermReturn || t == TermBreak || t == TermNext || t == TermStop
}

func (b *builder) buildStatement(stmt *syntax.Node, current BlockID) BlockID {
	// Inside an unreachable block, nested control flow is not expanded;
	// statements are appended as-is so the whole region stays one span.
	if !b.hasIncomingEdges(current) {
		b.addStatement(current, stmt)
		return current
	}

	switch stmt.Kind {
	case syntax.KindBreak:
		b.buildBreak(current)
		return current
	case syntax.KindNext:
		b.buildNext(current)
		return current
	case syntax.KindIf:
		return b.buildIf(stmt, current)
	case syntax.KindFor:
		return b.buildLoop(stmt.Body(), current, true)
	case syntax.KindWhile:
		return b.buildLoop(stmt.Body(), current, true)
	case syntax.KindRepeat:
		return b.buildLoop(stmt.Body(), current, false)
	case syntax.KindCall:
		switch name := stmt.CalleeName(); {
		case name == "return":
			if b.topLevel {
				b.addStatement(current, stmt)
			} else {
				b.setTerminator(current, TermReturn)
			}
			return current
		case name == "break":
			b.buildBreak(current)
			return current
		case name == "next":
			b.buildNext(current)
			return current
		case b.stops[name]:
			b.setTerminator(current, TermStop)
			return current
		}
		b.addStatement(current, stmt)
		return current
	default:
		b.addStatement(current, stmt)
		return current
	}
}

func (b *builder) buildIf(stmt *syntax.Node, current BlockID) BlockID {
	cond := stmt.Cond()
	thenBlock := b.g.NewBlock()
	elseBlock := b.g.NewBlock()
	afterIf := b.g.NewBlock()

	constValue, constKnown := ConstantCondition(cond)

	b.setTerminator(current, TermBranch)
	switch {
	case constKnown && constValue:
		b.g.AddEdge(current, thenBlock)
		// Dead else branch: tombstone predecessor, no edge.
		b.g.Block(elseBlock).Predecessors = append(b.g.Block(elseBlock).Predecessors, current)
	case constKnown && !constValue:
		b.g.AddEdge(current, elseBlock)
		b.g.Block(thenBlock).Predecessors = append(b.g.Block(thenBlock).Predecessors, current)
	default:
		b.g.AddEdge(current, thenBlock)
		b.g.AddEdge(current, elseBlock)
	}

	if cons := stmt.Then(); cons != nil {
		if constKnown && !constValue {
			// The whole dead branch reports as one statement.
			b.g.Block(thenBlock).Statements = append(b.g.Block(thenBlock).Statements, cons)
		} else {
			thenEnd := b.buildExpression(cons, thenBlock)
			b.joinBranch(thenEnd, afterIf)
		}
	}

	if alt := stmt.Else(); alt != nil {
		if constKnown && constValue {
			b.g.Block(elseBlock).Statements = append(b.g.Block(elseBlock).Statements, alt)
		} else {
			elseEnd := b.buildExpression(alt, elseBlock)
			b.joinBranch(elseEnd, afterIf)
		}
	} else {
		// The implicit empty else always flows to the continuation.
		b.setTerminator(elseBlock, TermGoto)
		b.g.AddEdge(elseBlock, afterIf)
	}

	// When every branch terminated, record the branch block as a tombstone
	// predecessor so the continuation classifies as AfterBranchTerminating.
	if !b.hasIncomingEdges(afterIf) {
		b.g.Block(afterIf).Predecessors = append(b.g.Block(afterIf).Predecessors, current)
	}

	return afterIf
}

// joinBranch wires a branch's final block to the continuation unless the
// branch ended in a terminator or ran off into unreachable territory.
func (b *builder) joinBranch(end, afterIf BlockID) {
	block := b.g.Block(end)
	if block == nil || isTerminating(block.Terminator) || !b.hasIncomingEdges(end) {
		return
	}
	b.setTerminator(end, TermGoto)
	b.g.AddEdge(end, afterIf)
}

// buildLoop handles for, while and repeat bodies. For and while get a
// header block with edges into the body and past the loop (zero
// iterations); repeat flows straight into the body, with the break edge
// modeling the only way out.
func (b *builder) buildLoop(body *syntax.Node, current BlockID, hasHeader bool) BlockID {
	afterLoop := b.g.NewBlock()

	var loopBody, backEdgeTarget BlockID
	if hasHeader {
		header := b.g.NewBlock()
		loopBody = b.g.NewBlock()
		b.setTerminator(current, TermGoto)
		b.g.AddEdge(current, header)
		b.setTerminator(header, TermLoop)
		b.g.AddEdge(header, loopBody)
		b.g.AddEdge(header, afterLoop)
		backEdgeTarget = header
	} else {
		loopBody = b.g.NewBlock()
		b.setTerminator(current, TermGoto)
		b.g.AddEdge(current, loopBody)
		// A break may always end the repeat.
		b.g.AddEdge(loopBody, afterLoop)
		backEdgeTarget = loopBody
	}

	b.loopStack = append(b.loopStack, loopContext{
		continueTarget: backEdgeTarget,
		breakTarget:    afterLoop,
	})

	if body != nil {
		bodyEnd := b.buildExpression(body, loopBody)
		if block := b.g.Block(bodyEnd); block != nil && !isTerminating(block.Terminator) {
			b.setTerminator(bodyEnd, TermGoto)
			b.g.AddEdge(bodyEnd, backEdgeTarget)
		}
	}

	b.loopStack = b.loopStack[:len(b.loopStack)-1]

	return afterLoop
}

// buildBreak and buildNext only act inside a loop; outside one the
// statement has no control-flow meaning and is dropped.
func (b *builder) buildBreak(current BlockID) {
	if len(b.loopStack) == 0 {
		return
	}
	ctx := b.loopStack[len(b.loopStack)-1]
	b.setTerminator(current, TermBreak)
	b.g.AddEdge(current, ctx.breakTarget)
}

func (b *builder) buildNext(current BlockID) {
	if len(b.loopStack) == 0 {
		return
	}
	ctx := b.loopStack[len(b.loopStack)-1]
	b.setTerminator(current, TermNext)
	b.g.AddEdge(current, ctx.continueTarget)
}

func (b *builder) setTerminator(id BlockID, t Terminator) {
	if block := b.g.Block(id); block != nil {
		block.Terminator = t
	}
}

func (b *builder) addStatement(id BlockID, stmt *syntax.Node) {
	block := b.g.Block(id)
	if block == nil {
		return
	}
	block.Statements = append(block.Statements, stmt)
	r := stmt.Range()
	if block.Range == nil {
		block.Range = &r
	} else {
		cover := syntax.Cover(*block.Range, r)
		block.Range = &cover
	}
}
