package lint

import (
	"sort"
	"strings"

	"github.com/jarl-lint/jarl/pkg/diagnostic"
)

// ApplyFixes rewrites source with every applicable fix and returns the new
// text plus the number of fixes applied. Fixes are applied left to right;
// when two fixes overlap (nested findings rewriting the same span) only the
// first is applied in this round, the rest are picked up by the next
// lint-fix iteration.
func ApplyFixes(source string, diags []diagnostic.Diagnostic) (string, int) {
	var fixes []diagnostic.Fix
	for _, d := range diags {
		if d.Fix.Empty() || d.Fix.SkipDueToComments {
			continue
		}
		fixes = append(fixes, d.Fix)
	}
	if len(fixes) == 0 {
		return source, 0
	}
	sort.Slice(fixes, func(i, j int) bool {
		if fixes[i].Start != fixes[j].Start {
			return fixes[i].Start < fixes[j].Start
		}
		return fixes[i].End < fixes[j].End
	})

	var out strings.Builder
	pos := 0
	applied := 0
	for _, f := range fixes {
		if f.Start < pos || f.End > len(source) {
			continue
		}
		out.WriteString(source[pos:f.Start])
		out.WriteString(f.Content)
		pos = f.End
		applied++
	}
	out.WriteString(source[pos:])
	return out.String(), applied
}

// HasApplicableFixes reports whether any diagnostic carries a fix that
// ApplyFixes would use.
func HasApplicableFixes(diags []diagnostic.Diagnostic) bool {
	for _, d := range diags {
		if !d.Fix.Empty() && !d.Fix.SkipDueToComments {
			return true
		}
	}
	return false
}
