package cfg

import (
	"sort"

	"github.com/jarl-lint/jarl/pkg/syntax"
)

// Reason explains why a block can never execute.
type Reason string

const (
	AfterReturn            Reason = "after_return"
	AfterBreak             Reason = "after_break"
	AfterNext              Reason = "after_next"
	AfterStop              Reason = "after_stop"
	AfterBranchTerminating Reason = "after_branch_terminating"
	DeadBranch             Reason = "dead_branch"
	NoPathFromEntry        Reason = "no_path_from_entry"
)

// Message returns the user-facing explanation for the reason.
func (r Reason) Message() string {
	switch r {
	case AfterReturn:
		return "This code is unreachable because it appears after a return statement."
	case AfterStop:
		return "This code is unreachable because it appears after a `stop()` statement (or equivalent)."
	case AfterBreak:
		return "This code is unreachable because it appears after a break statement."
	case AfterNext:
		return "This code is unreachable because it appears after a next statement."
	case AfterBranchTerminating:
		return "This code is unreachable because the preceding if/else terminates in all branches."
	case DeadBranch:
		return "This code is in a branch that can never be executed."
	case NoPathFromEntry:
		return "This code has no execution path from the function entry."
	}
	return "This code is unreachable."
}

// UnreachableCode is one reportable span of unreachable statements.
type UnreachableCode struct {
	Range  syntax.Range
	Reason Reason
}

// FindUnreachable classifies every block of the graph and returns the
// unreachable spans sorted by source position, with textually contiguous
// same-reason spans merged. It is total: any well-formed graph yields a
// result without error.
func FindUnreachable(g *Graph) []UnreachableCode {
	reachable := reachableBlocks(g)

	type entry struct {
		rng    syntax.Range
		reason Reason
	}
	var entries []entry

	for _, block := range g.Blocks {
		if block.ID == g.Entry || block.ID == g.Exit || reachable[block.ID] {
			continue
		}
		reason := unreachableReason(g, block.ID)

		switch {
		case len(block.Statements) > 0:
			first := block.Statements[0].Range()
			last := block.Statements[len(block.Statements)-1].Range()
			entries = append(entries, entry{rng: syntax.Cover(first, last), reason: reason})
		case block.Range != nil:
			entries = append(entries, entry{rng: *block.Range, reason: reason})
		}
		// Blocks with neither statements nor a range have nothing to report.
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].rng.Start < entries[j].rng.Start })

	var out []UnreachableCode
	for _, e := range entries {
		if n := len(out); n > 0 {
			prev := &out[n-1]
			if prev.Reason == e.reason && e.rng.Start == prev.Range.End {
				prev.Range = syntax.Cover(prev.Range, e.rng)
				continue
			}
		}
		out = append(out, UnreachableCode{Range: e.rng, Reason: e.reason})
	}
	return out
}

// FilterTopLevel drops the reasons that make no sense outside a function
// body. AfterStop and AfterBranchTerminating stay reportable at top level.
func FilterTopLevel(infos []UnreachableCode) []UnreachableCode {
	out := infos[:0]
	for _, info := range infos {
		if info.Reason == AfterReturn || info.Reason == NoPathFromEntry {
			continue
		}
		out = append(out, info)
	}
	return out
}

// reachableBlocks walks the real successor edges from entry.
func reachableBlocks(g *Graph) map[BlockID]bool {
	visited := make(map[BlockID]bool, len(g.Blocks))
	queue := []BlockID{g.Entry}
	for len(queue) > 0 {
		id := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if visited[id] {
			continue
		}
		visited[id] = true
		if block := g.Block(id); block != nil {
			for _, succ := range block.Successors {
				if !visited[succ] {
					queue = append(queue, succ)
				}
			}
		}
	}
	return visited
}

// unreachableReason picks the explanation for one unreachable block.
//
// Priority:
//  1. a predecessor ended in return/break/next/stop (return wins when
//     several apply)
//  2. a Branch predecessor whose paths all terminate
//  3. a tombstone predecessor with no real edge (dead branch)
//  4. no path from entry
func unreachableReason(g *Graph, id BlockID) Reason {
	block := g.Block(id)
	if block == nil {
		return NoPathFromEntry
	}

	var sawBreak, sawNext, sawStop bool
	for _, pred := range block.Predecessors {
		p := g.Block(pred)
		if p == nil {
			continue
		}
		switch p.Terminator {
		case TermReturn:
			return AfterReturn
		case TermBreak:
			sawBreak = true
		case TermNext:
			sawNext = true
		case TermStop:
			sawStop = true
		}
	}
	switch {
	case sawBreak:
		return AfterBreak
	case sawNext:
		return AfterNext
	case sawStop:
		return AfterStop
	}

	for _, pred := range block.Predecessors {
		if p := g.Block(pred); p != nil && p.Terminator == TermBranch {
			if reason, ok := branchTerminatorReason(g, pred); ok {
				return reason
			}
		}
	}

	if len(block.Predecessors) > 0 {
		hasIncoming := false
		for _, pred := range block.Predecessors {
			if p := g.Block(pred); p != nil && contains(p.Successors, id) {
				hasIncoming = true
				break
			}
		}
		if !hasIncoming {
			return DeadBranch
		}
	}

	return NoPathFromEntry
}

// branchTerminatorReason checks whether every path out of a Branch block
// terminates in a return or stop. Break and next do not count: they exit to
// an enclosing loop, which keeps code after the conditional reachable.
func branchTerminatorReason(g *Graph, branchID BlockID) (Reason, bool) {
	branch := g.Block(branchID)
	if branch == nil || len(branch.Successors) == 0 {
		return "", false
	}

	cache := make(map[BlockID]Reason)
	allTerminate := true
	foundHard := false

	for _, succ := range branch.Successors {
		reason, ok := pathTerminator(g, succ, cache)
		if !ok {
			allTerminate = false
			continue
		}
		if reason == AfterReturn || reason == AfterStop {
			foundHard = true
		}
	}
	if allTerminate && foundHard {
		return AfterBranchTerminating, true
	}
	return "", false
}

// pathTerminator follows a path to see what terminator it ends in. The
// cache both memoizes converging paths and breaks cycles: a block found
// in-progress resolves to "does not terminate".
func pathTerminator(g *Graph, id BlockID, cache map[BlockID]Reason) (Reason, bool) {
	if cached, seen := cache[id]; seen {
		return cached, cached != ""
	}
	cache[id] = "" // in progress; cycles resolve as non-terminating

	block := g.Block(id)
	if block == nil {
		return "", false
	}

	var result Reason
	switch block.Terminator {
	case TermReturn:
		result = AfterReturn
	case TermStop:
		result = AfterStop
	case TermGoto:
		if len(block.Successors) > 0 {
			if r, ok := pathTerminator(g, block.Successors[0], cache); ok {
				result = r
			}
		}
	case TermBranch:
		for _, succ := range block.Successors {
			r, ok := pathTerminator(g, succ, cache)
			if !ok {
				cache[id] = ""
				return "", false
			}
			result = r
		}
	}

	cache[id] = result
	return result, result != ""
}
