package lint

import (
	"github.com/jarl-lint/jarl/pkg/diagnostic"
	"github.com/jarl-lint/jarl/pkg/rules"
	"github.com/jarl-lint/jarl/pkg/syntax"
)

// anyIsNA flags `any(is.na(...))`, which allocates the full logical vector
// where `anyNA(...)` short-circuits.
func anyIsNA(tree *syntax.Tree, call *syntax.Node) (diagnostic.Diagnostic, bool) {
	inner, ok := nestedCallContent(tree, call, "any", "is.na")
	if !ok {
		return diagnostic.Diagnostic{}, false
	}
	rng := call.Range()
	d := diagnostic.New(
		rules.AnyIsNA,
		"`any(is.na(...))` is inefficient.",
		"Use `anyNA(...)` instead.",
		rng,
	).WithFix(diagnostic.Fix{
		Content:           "anyNA(" + inner + ")",
		Start:             rng.Start,
		End:               rng.End,
		SkipDueToComments: containsComments(call),
	})
	return d, true
}

// anyIsNAIn flags `NA %in% x`, the vector-membership spelling of anyNA(x).
// `x %in% NA` is not equivalent and is left to equalsNA.
func anyIsNAIn(tree *syntax.Tree, n *syntax.Node) (diagnostic.Diagnostic, bool) {
	if n.Op != "%in%" {
		return diagnostic.Diagnostic{}, false
	}
	left, right := n.Left(), n.Right()
	if left == nil || right == nil {
		return diagnostic.Diagnostic{}, false
	}
	if left.Kind != syntax.KindNA || right.Kind == syntax.KindNA {
		return diagnostic.Diagnostic{}, false
	}
	rng := n.Range()
	d := diagnostic.New(
		rules.AnyIsNA,
		"`NA %in% x` is inefficient.",
		"Use `anyNA(x)` instead.",
		rng,
	).WithFix(diagnostic.Fix{
		Content:           "anyNA(" + tree.Text(right) + ")",
		Start:             rng.Start,
		End:               rng.End,
		SkipDueToComments: containsComments(n),
	})
	return d, true
}

// nestedCallContent matches `outer(inner(content))` where the inner call is
// the first unnamed argument, and returns the raw text of the inner call's
// argument list.
func nestedCallContent(tree *syntax.Tree, call *syntax.Node, outer, inner string) (string, bool) {
	if call.CalleeName() != outer {
		return "", false
	}
	arg := firstUnnamedArg(call)
	if arg == nil {
		return "", false
	}
	value := arg.Child(0)
	if value == nil || value.Kind != syntax.KindCall || value.CalleeName() != inner {
		return "", false
	}
	args := value.Args()
	if len(args) == 0 {
		return "", true
	}
	span := syntax.Range{Start: args[0].Start, End: args[len(args)-1].End}
	return tree.Source[span.Start:span.End], true
}

func firstUnnamedArg(call *syntax.Node) *syntax.Node {
	for _, arg := range call.Args() {
		if arg.Text == "" {
			return arg
		}
	}
	return nil
}

// containsComments reports whether the node encloses comment trivia that a
// textual replacement of the node would destroy. The node's own leading and
// trailing comments sit outside the replaced range and do not count.
func containsComments(n *syntax.Node) bool {
	if len(n.Dangling) > 0 {
		return true
	}
	for _, child := range n.Children {
		if hasComments(child) {
			return true
		}
	}
	return false
}

func hasComments(n *syntax.Node) bool {
	if len(n.Leading) > 0 || len(n.Trailing) > 0 || len(n.Dangling) > 0 {
		return true
	}
	for _, child := range n.Children {
		if hasComments(child) {
			return true
		}
	}
	return false
}
