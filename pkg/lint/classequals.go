package lint

import (
	"github.com/jarl-lint/jarl/pkg/diagnostic"
	"github.com/jarl-lint/jarl/pkg/rules"
	"github.com/jarl-lint/jarl/pkg/syntax"
)

// classEquals flags `class(x) == 'a'` (and `!=`, `%in%`) inside an if or
// while condition, where the comparison breaks for objects with several
// classes. Outside a condition the intent of the logical vector cannot be
// inferred, so nothing is reported there.
func classEquals(tree *syntax.Tree, n *syntax.Node) (diagnostic.Diagnostic, bool) {
	switch n.Op {
	case "==", "!=", "%in%":
	default:
		return diagnostic.Diagnostic{}, false
	}
	left, right := n.Left(), n.Right()
	if left == nil || right == nil {
		return diagnostic.Diagnostic{}, false
	}
	classCall, other := classCallOperand(left, right)
	if classCall == nil {
		return diagnostic.Diagnostic{}, false
	}
	if !inConditionContext(n) {
		return diagnostic.Diagnostic{}, false
	}

	rng := n.Range()
	d := diagnostic.New(
		rules.ClassEquals,
		"Comparing `class(x)` with `==` or `%in%` can be problematic.",
		"Use `inherits(x, 'a')` instead.",
		rng,
	)
	if content, ok := inheritsFix(tree, classCall, other); ok {
		if n.Op == "!=" {
			content = "!" + content
		}
		d = d.WithFix(diagnostic.Fix{
			Content:           content,
			Start:             rng.Start,
			End:               rng.End,
			SkipDueToComments: containsComments(n),
		})
	}
	return d, true
}

// classIdentical flags `identical(class(x), 'a')`, which compares the whole
// class vector and so fails for objects with more than one class. Unlike the
// comparison form, the call form is reported in any context.
func classIdentical(tree *syntax.Tree, call *syntax.Node) (diagnostic.Diagnostic, bool) {
	if call.CalleeName() != "identical" {
		return diagnostic.Diagnostic{}, false
	}
	args := call.Args()
	if len(args) != 2 || args[0].Text != "" || args[1].Text != "" {
		return diagnostic.Diagnostic{}, false
	}
	classCall, other := classCallOperand(args[0].Child(0), args[1].Child(0))
	if classCall == nil {
		return diagnostic.Diagnostic{}, false
	}

	rng := call.Range()
	d := diagnostic.New(
		rules.ClassEquals,
		"Using `identical(class(x), 'a')` can be problematic.",
		"Use `inherits(x, 'a')` instead.",
		rng,
	)
	if content, ok := inheritsFix(tree, classCall, other); ok {
		d = d.WithFix(diagnostic.Fix{
			Content:           content,
			Start:             rng.Start,
			End:               rng.End,
			SkipDueToComments: containsComments(call),
		})
	}
	return d, true
}

// classCallOperand picks the `class(...)` call out of a pair of operands.
// Only one operand may be a class call; the other operand is returned as is.
func classCallOperand(a, b *syntax.Node) (classCall, other *syntax.Node) {
	aClass := isClassCall(a)
	bClass := isClassCall(b)
	switch {
	case aClass && !bClass:
		return a, b
	case bClass && !aClass:
		return b, a
	}
	return nil, nil
}

func isClassCall(n *syntax.Node) bool {
	return n != nil && n.Kind == syntax.KindCall && n.CalleeName() == "class" && len(n.Args()) == 1
}

// inheritsFix renders `inherits(x, other)` from the class call's argument
// and the expression it is compared against. Vector operands like
// c('a', 'b') keep their text verbatim, which inherits accepts.
func inheritsFix(tree *syntax.Tree, classCall, other *syntax.Node) (string, bool) {
	obj := classCall.Args()[0].Child(0)
	if obj == nil || other == nil {
		return "", false
	}
	return "inherits(" + tree.Text(obj) + ", " + tree.Text(other) + ")", true
}

// inConditionContext reports whether the node sits inside the condition of
// an if or while statement. The walk stops at braced blocks and function
// boundaries: those re-enter statement position.
func inConditionContext(n *syntax.Node) bool {
	for cur := n; cur.Parent != nil; cur = cur.Parent {
		p := cur.Parent
		if p.Kind == syntax.KindBraced || p.Kind == syntax.KindFunction {
			return false
		}
		if (p.Kind == syntax.KindIf || p.Kind == syntax.KindWhile) && p.Cond() == cur {
			return true
		}
	}
	return false
}
