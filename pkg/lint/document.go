package lint

import (
	"fmt"

	"github.com/jarl-lint/jarl/pkg/diagnostic"
	"github.com/jarl-lint/jarl/pkg/rules"
	"github.com/jarl-lint/jarl/pkg/suppress"
	"github.com/jarl-lint/jarl/pkg/syntax"
)

// Check lints one parsed file. Per-expression rules run first, then the
// document-level passes. Package-duplicate diagnostics are emitted before
// suppression filtering so that ignore directives can cover them; outdated
// directives are computed after filtering, which is when usage is known.
func Check(tree *syntax.Tree, opts Options) []diagnostic.Diagnostic {
	supp := suppress.FromTree(tree)
	c := newChecker(tree, supp, opts)

	for _, expr := range tree.TopLevel() {
		c.checkExpression(expr)
	}

	if c.isEnabled(rules.UnreachableCode) {
		c.reportAll(unreachableCodeTopLevel(tree.TopLevel(), opts.StopFunctions))
	}

	if c.isEnabled(rules.BlanketSuppression) {
		for _, rng := range supp.BlanketSuppressions {
			c.diags = append(c.diags, blanketSuppression(rng))
		}
	}
	if c.isEnabled(rules.UnexplainedSuppression) {
		for _, rng := range supp.UnexplainedSuppressions {
			c.diags = append(c.diags, unexplainedSuppression(rng))
		}
	}
	if c.isEnabled(rules.MisplacedFileSuppression) {
		for _, rng := range supp.MisplacedFileSuppressions {
			c.diags = append(c.diags, misplacedFileSuppression(rng))
		}
	}
	if c.isEnabled(rules.MisplacedSuppression) {
		for _, rng := range supp.MisplacedSuppressions {
			c.diags = append(c.diags, misplacedSuppression(rng))
		}
	}
	if c.isEnabled(rules.MisnamedSuppression) {
		for _, rng := range supp.MisnamedSuppressions {
			c.diags = append(c.diags, misnamedSuppression(rng))
		}
	}
	if c.isEnabled(rules.UnmatchedRangeSuppression) {
		for _, rng := range supp.UnmatchedStarts {
			c.diags = append(c.diags, unmatchedStartSuppression(rng))
		}
		for _, rng := range supp.UnmatchedEnds {
			c.diags = append(c.diags, unmatchedEndSuppression(rng))
		}
	}

	// Before filtering, so ignore directives can cover these too.
	if c.isEnabled(rules.DuplicatedFunctionDefinition) {
		for _, dup := range opts.PackageDuplicates {
			c.diags = append(c.diags, diagnostic.New(
				rules.DuplicatedFunctionDefinition,
				fmt.Sprintf("`%s` is defined more than once in this package.", dup.Name),
				dup.Help,
				dup.Range,
			))
		}
	}

	c.diags = supp.FilterDiagnostics(c.diags)

	if c.isEnabled(rules.OutdatedSuppression) {
		for _, rng := range supp.UnusedSuppressions() {
			c.diags = append(c.diags, outdatedSuppression(rng))
		}
	}

	return stripUnwantedFixes(c.diags, opts)
}

// stripUnwantedFixes clears fixes that the configuration rules out: rules
// registered without a fix, rules named in unfixable, rules outside an
// explicit fixable set, and fixes flagged as comment-destroying.
func stripUnwantedFixes(diags []diagnostic.Diagnostic, opts Options) []diagnostic.Diagnostic {
	unfixable := make(map[string]bool, len(opts.Unfixable))
	for _, name := range opts.Unfixable {
		unfixable[name] = true
	}
	var fixable map[string]bool
	if opts.Fixable != nil {
		fixable = make(map[string]bool, len(opts.Fixable))
		for _, name := range opts.Fixable {
			fixable[name] = true
		}
	}
	for i := range diags {
		d := &diags[i]
		if d.Fix.Empty() {
			continue
		}
		r, known := rules.ByName(d.Rule)
		switch {
		case known && r.HasNoFix(),
			unfixable[d.Rule],
			fixable != nil && !fixable[d.Rule],
			d.Fix.SkipDueToComments:
			d.Fix = diagnostic.Fix{}
		}
	}
	return diags
}
