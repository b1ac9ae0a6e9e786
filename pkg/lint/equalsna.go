package lint

import (
	"github.com/jarl-lint/jarl/pkg/diagnostic"
	"github.com/jarl-lint/jarl/pkg/rules"
	"github.com/jarl-lint/jarl/pkg/syntax"
)

// equalsNA flags comparisons against NA with `==`, `!=` or `%in%`. NA never
// compares equal to anything, including itself, so these always yield NA.
func equalsNA(tree *syntax.Tree, n *syntax.Node) (diagnostic.Diagnostic, bool) {
	left, right := n.Left(), n.Right()
	if left == nil || right == nil {
		return diagnostic.Diagnostic{}, false
	}
	leftNA := left.Kind == syntax.KindNA
	rightNA := right.Kind == syntax.KindNA

	var content string
	switch n.Op {
	case "==", "!=":
		// Exactly one side must be NA.
		if leftNA == rightNA {
			return diagnostic.Diagnostic{}, false
		}
		other := left
		if leftNA {
			other = right
		}
		content = "is.na(" + tree.Text(other) + ")"
		if n.Op == "!=" {
			content = "!" + content
		}
	case "%in%":
		// `NA %in% x` belongs to any_is_na; only `x %in% NA` lints here,
		// and it is equivalent to anyNA(x) rather than is.na(x).
		if !rightNA || leftNA {
			return diagnostic.Diagnostic{}, false
		}
		content = "anyNA(" + tree.Text(left) + ")"
	default:
		return diagnostic.Diagnostic{}, false
	}

	rng := n.Range()
	d := diagnostic.New(
		rules.EqualsNA,
		"Comparing to NA with `==`, `!=` or `%in%` is problematic.",
		"Use `is.na()` instead.",
		rng,
	).WithFix(diagnostic.Fix{
		Content:           content,
		Start:             rng.Start,
		End:               rng.End,
		SkipDueToComments: containsComments(n),
	})
	return d, true
}
