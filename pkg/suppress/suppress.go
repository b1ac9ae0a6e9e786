// Package suppress collects suppression directives from a file's comments
// and filters diagnostics against them.
//
// Collection is a single pre-order walk over the tree. A node-level ignore
// applies to the statement the comment is attached to (its next sibling at
// the same syntactic level, per the comment attachment rules in pkg/syntax)
// and, through range containment, everything inside it. Range suppressions
// pair -start and -end comments at the same block nesting depth. File
// suppressions are only honored on top-level statements.
package suppress

import (
	"strings"

	"github.com/jarl-lint/jarl/pkg/diagnostic"
	"github.com/jarl-lint/jarl/pkg/directive"
	"github.com/jarl-lint/jarl/pkg/syntax"
)

// SkipRegion suppresses one rule between a -start and -end comment pair.
type SkipRegion struct {
	Range        syntax.Range
	Rule         string
	CommentRange syntax.Range
}

// NodeSuppression suppresses one rule on one statement and its contents.
type NodeSuppression struct {
	NodeRange    syntax.Range
	Rule         string
	CommentRange syntax.Range
}

// FileSuppression suppresses one rule for the whole file.
type FileSuppression struct {
	Rule         string
	CommentRange syntax.Range
}

// Manager holds the suppression state of one file plus the misuse findings
// gathered while collecting it.
type Manager struct {
	SkipRegions      []SkipRegion
	FileSuppressions []FileSuppression
	NodeSuppressions []NodeSuppression

	// Misuse buckets, reported as their own diagnostics by the caller.
	BlanketSuppressions       []syntax.Range
	UnexplainedSuppressions   []syntax.Range
	MisplacedFileSuppressions []syntax.Range
	MisplacedSuppressions     []syntax.Range
	MisnamedSuppressions      []syntax.Range
	UnmatchedStarts           []syntax.Range
	UnmatchedEnds             []syntax.Range

	hasAny bool
	used   map[syntax.Range]bool
	// nodeRules caches, per node ID, the rules suppressed at that exact
	// node (regions, file and own-comment ignores). Filled lazily by Check.
	nodeRules map[int]map[string]bool
}

type startKey struct {
	rule  string
	level int
}

type collector struct {
	mgr    *Manager
	starts map[startKey]syntax.Range
}

// FromTree scans every comment in the tree and builds the file's
// suppression state. Files whose source never mentions the directive
// keyword skip collection entirely.
func FromTree(tree *syntax.Tree) *Manager {
	mgr := &Manager{
		used:      make(map[syntax.Range]bool),
		nodeRules: make(map[int]map[string]bool),
	}
	if !strings.Contains(tree.Source, "jarl-ignore") {
		return mgr
	}

	c := &collector{mgr: mgr, starts: make(map[startKey]syntax.Range)}
	c.walk(tree.Root, 0)

	// Whatever is still open never found its end.
	for _, commentRange := range c.starts {
		mgr.UnmatchedStarts = append(mgr.UnmatchedStarts, commentRange)
	}

	mgr.hasAny = mgr.hasAny || len(mgr.SkipRegions) > 0 || len(mgr.FileSuppressions) > 0
	return mgr
}

func (c *collector) walk(node *syntax.Node, nesting int) {
	fileAllowed := nesting == 0 && node.Parent != nil && node.Parent.Kind == syntax.KindProgram

	for _, comment := range node.Leading {
		c.process(comment, node.Range(), fileAllowed, false, nesting)
	}
	for _, comment := range node.Trailing {
		c.process(comment, node.Range(), false, true, nesting)
	}
	for _, comment := range node.Dangling {
		c.process(comment, node.Range(), false, false, nesting)
	}

	for _, child := range node.Children {
		level := nesting
		if child.Kind == syntax.KindBraced {
			level++
		}
		c.walk(child, level)
	}
}

func (c *collector) process(comment syntax.Comment, nodeRange syntax.Range, fileAllowed, trailing bool, nesting int) {
	res, ok := directive.Parse(comment.Text)
	if !ok {
		return
	}
	mgr := c.mgr

	// Placement outranks content: an end-of-line directive of any shape is
	// misplaced, even when it would otherwise be valid.
	if trailing {
		mgr.MisplacedSuppressions = append(mgr.MisplacedSuppressions, comment.Range)
		return
	}

	switch res.Status {
	case directive.Blanket:
		mgr.BlanketSuppressions = append(mgr.BlanketSuppressions, comment.Range)
	case directive.MissingExplanation:
		mgr.UnexplainedSuppressions = append(mgr.UnexplainedSuppressions, comment.Range)
	case directive.InvalidRuleName:
		mgr.MisnamedSuppressions = append(mgr.MisnamedSuppressions, comment.Range)
	case directive.Valid:
		mgr.hasAny = true
		switch res.Kind {
		case directive.IgnoreStart:
			c.starts[startKey{rule: res.Rule, level: nesting}] = comment.Range
		case directive.IgnoreEnd:
			key := startKey{rule: res.Rule, level: nesting}
			start, found := c.starts[key]
			if !found {
				mgr.UnmatchedEnds = append(mgr.UnmatchedEnds, comment.Range)
				return
			}
			delete(c.starts, key)
			mgr.SkipRegions = append(mgr.SkipRegions, SkipRegion{
				Range:        syntax.Range{Start: start.Start, End: comment.Range.End},
				Rule:         res.Rule,
				CommentRange: start,
			})
		case directive.IgnoreFile:
			if !fileAllowed {
				mgr.MisplacedFileSuppressions = append(mgr.MisplacedFileSuppressions, comment.Range)
				return
			}
			mgr.FileSuppressions = append(mgr.FileSuppressions, FileSuppression{
				Rule:         res.Rule,
				CommentRange: comment.Range,
			})
		case directive.Ignore:
			mgr.NodeSuppressions = append(mgr.NodeSuppressions, NodeSuppression{
				NodeRange:    nodeRange,
				Rule:         res.Rule,
				CommentRange: comment.Range,
			})
		}
	}
}

// Check reports whether rule is suppressed at node. It consults file
// suppressions, skip regions covering the node and ignore directives
// attached to the node itself; inheritance to descendants is the dispatch
// walk's job. Results are cached per node.
func (m *Manager) Check(rule string, node *syntax.Node) bool {
	if !m.hasAny {
		return false
	}
	set, ok := m.nodeRules[node.ID]
	if !ok {
		set = m.resolveNode(node)
		m.nodeRules[node.ID] = set
	}
	return set[rule]
}

func (m *Manager) resolveNode(node *syntax.Node) map[string]bool {
	set := make(map[string]bool)
	for _, sup := range m.FileSuppressions {
		set[sup.Rule] = true
	}
	nodeRange := node.Range()
	for _, region := range m.SkipRegions {
		if region.Range.Contains(nodeRange) {
			set[region.Rule] = true
		}
	}
	for _, sup := range m.NodeSuppressions {
		if sup.NodeRange == nodeRange {
			set[sup.Rule] = true
		}
	}
	return set
}

// FilterDiagnostics drops every suppressed diagnostic, marking the
// responsible directive as used. A manager with no suppressions returns the
// input untouched. Order is preserved.
func (m *Manager) FilterDiagnostics(diags []diagnostic.Diagnostic) []diagnostic.Diagnostic {
	if !m.hasAny {
		return diags
	}
	out := diags[:0]
	for _, d := range diags {
		if !m.suppressed(d) {
			out = append(out, d)
		}
	}
	return out
}

func (m *Manager) suppressed(d diagnostic.Diagnostic) bool {
	for _, sup := range m.FileSuppressions {
		if sup.Rule == d.Rule {
			m.used[sup.CommentRange] = true
			return true
		}
	}
	for _, region := range m.SkipRegions {
		if region.Rule == d.Rule && region.Range.Contains(d.Range) {
			m.used[region.CommentRange] = true
			return true
		}
	}
	for _, sup := range m.NodeSuppressions {
		if sup.Rule == d.Rule && sup.NodeRange.Contains(d.Range) {
			m.used[sup.CommentRange] = true
			return true
		}
	}
	return false
}

// UnusedSuppressions returns the comment ranges of every directive that
// suppressed nothing, in collection order. Call after FilterDiagnostics.
func (m *Manager) UnusedSuppressions() []syntax.Range {
	var unused []syntax.Range
	for _, sup := range m.FileSuppressions {
		if !m.used[sup.CommentRange] {
			unused = append(unused, sup.CommentRange)
		}
	}
	for _, region := range m.SkipRegions {
		if !m.used[region.CommentRange] {
			unused = append(unused, region.CommentRange)
		}
	}
	for _, sup := range m.NodeSuppressions {
		if !m.used[sup.CommentRange] {
			unused = append(unused, sup.CommentRange)
		}
	}
	return unused
}
