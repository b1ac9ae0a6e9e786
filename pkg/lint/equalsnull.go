package lint

import (
	"github.com/jarl-lint/jarl/pkg/diagnostic"
	"github.com/jarl-lint/jarl/pkg/rules"
	"github.com/jarl-lint/jarl/pkg/syntax"
)

// equalsNull flags comparisons against NULL with `==`, `!=` or `%in%`.
// NULL has length zero, so these comparisons yield logical(0) instead of
// the membership test the author intended.
func equalsNull(tree *syntax.Tree, n *syntax.Node) (diagnostic.Diagnostic, bool) {
	left, right := n.Left(), n.Right()
	if left == nil || right == nil {
		return diagnostic.Diagnostic{}, false
	}
	leftNull := left.Kind == syntax.KindNull
	rightNull := right.Kind == syntax.KindNull

	var other *syntax.Node
	switch n.Op {
	case "==", "!=":
		if leftNull == rightNull {
			return diagnostic.Diagnostic{}, false
		}
		other = left
		if leftNull {
			other = right
		}
	case "%in%":
		if !rightNull || leftNull {
			return diagnostic.Diagnostic{}, false
		}
		other = left
	default:
		return diagnostic.Diagnostic{}, false
	}

	content := "is.null(" + tree.Text(other) + ")"
	if n.Op == "!=" {
		content = "!" + content
	}

	rng := n.Range()
	d := diagnostic.New(
		rules.EqualsNull,
		"Comparing to NULL with `==`, `!=` or `%in%` is problematic.",
		"Use `is.null()` instead.",
		rng,
	).WithFix(diagnostic.Fix{
		Content:           content,
		Start:             rng.Start,
		End:               rng.End,
		SkipDueToComments: containsComments(n),
	})
	return d, true
}
