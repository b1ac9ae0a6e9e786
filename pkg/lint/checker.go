// Package lint runs the rule checks over one parsed file and assembles the
// final diagnostic list: per-expression rules first, then the document-level
// passes (top-level reachability, suppression hygiene, package duplicates),
// then suppression filtering and outdated-directive reporting.
package lint

import (
	"github.com/jarl-lint/jarl/pkg/diagnostic"
	"github.com/jarl-lint/jarl/pkg/rules"
	"github.com/jarl-lint/jarl/pkg/suppress"
	"github.com/jarl-lint/jarl/pkg/syntax"
)

// Options configures one document check.
type Options struct {
	// Rules is the set of enabled rule names. Nil enables every rule that
	// is on by default.
	Rules map[string]bool
	// StopFunctions supplements the default terminating functions
	// recognized by the control flow analysis.
	StopFunctions []string
	// PackageDuplicates carries this file's findings from the package-level
	// duplicate definition pre-pass (pkg/rpkg).
	PackageDuplicates []Duplicate
	// Fixable, when non-nil, is the only set of rules allowed to keep an
	// automatic fix. Unfixable strips fixes from the named rules.
	Fixable   []string
	Unfixable []string
}

// Duplicate is one duplicated top-level definition reported against this
// file by the package pre-pass.
type Duplicate struct {
	Name  string
	Range syntax.Range
	Help  string
}

// Checker accumulates diagnostics for one file.
type Checker struct {
	tree    *syntax.Tree
	enabled map[string]bool
	supp    *suppress.Manager
	opts    Options
	diags   []diagnostic.Diagnostic
}

func newChecker(tree *syntax.Tree, supp *suppress.Manager, opts Options) *Checker {
	enabled := opts.Rules
	if enabled == nil {
		enabled = make(map[string]bool)
		for _, name := range rules.DefaultEnabled() {
			enabled[name] = true
		}
	}
	return &Checker{tree: tree, enabled: enabled, supp: supp, opts: opts}
}

func (c *Checker) isEnabled(name string) bool { return c.enabled[name] }

func (c *Checker) report(d diagnostic.Diagnostic, ok bool) {
	if ok {
		c.diags = append(c.diags, d)
	}
}

// checkExpression dispatches an expression to the rules registered for its
// kind, then recurses into its child expressions. Suppressions are applied
// in post-processing by FilterDiagnostics, which also has to see suppressed
// diagnostics to know which directives were used.
func (c *Checker) checkExpression(n *syntax.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case syntax.KindBinary:
		c.checkBinary(n)
		c.checkExpression(n.Left())
		c.checkExpression(n.Right())
	case syntax.KindUnary:
		c.checkExpression(n.Operand())
	case syntax.KindParen:
		c.checkExpression(n.Operand())
	case syntax.KindBraced:
		for _, child := range n.Children {
			c.checkExpression(child)
		}
	case syntax.KindCall:
		c.checkCall(n)
		c.checkArguments(n)
	case syntax.KindSubset, syntax.KindSubset2:
		c.checkArguments(n)
	case syntax.KindFunction:
		if c.isEnabled(rules.UnreachableCode) {
			c.reportAll(unreachableCode(n, c.opts.StopFunctions))
		}
		for _, param := range n.Params() {
			c.checkExpression(param.Child(0))
		}
		c.checkExpression(n.Body())
	case syntax.KindIf:
		if c.isEnabled(rules.IfConstantCondition) {
			c.report(ifConstantCondition(n))
		}
		c.checkExpression(n.Cond())
		c.checkExpression(n.Then())
		c.checkExpression(n.Else())
	case syntax.KindFor:
		c.checkExpression(n.Seq())
		c.checkExpression(n.Body())
	case syntax.KindWhile:
		c.checkExpression(n.Cond())
		c.checkExpression(n.Body())
	case syntax.KindRepeat:
		c.checkExpression(n.Body())
	}
}

func (c *Checker) checkBinary(n *syntax.Node) {
	if c.isEnabled(rules.AnyIsNA) {
		c.report(anyIsNAIn(c.tree, n))
	}
	if c.isEnabled(rules.ClassEquals) {
		c.report(classEquals(c.tree, n))
	}
	if c.isEnabled(rules.EqualsNA) {
		c.report(equalsNA(c.tree, n))
	}
	if c.isEnabled(rules.EqualsNull) {
		c.report(equalsNull(c.tree, n))
	}
}

func (c *Checker) checkCall(n *syntax.Node) {
	if c.isEnabled(rules.AnyIsNA) {
		c.report(anyIsNA(c.tree, n))
	}
	if c.isEnabled(rules.Browser) {
		c.report(browser(n))
	}
	if c.isEnabled(rules.ClassEquals) {
		c.report(classIdentical(c.tree, n))
	}
}

func (c *Checker) checkArguments(n *syntax.Node) {
	for _, arg := range n.Args() {
		c.checkExpression(arg.Child(0))
	}
}

func (c *Checker) reportAll(diags []diagnostic.Diagnostic) {
	c.diags = append(c.diags, diags...)
}
