package lint

import (
	"github.com/jarl-lint/jarl/pkg/cfg"
	"github.com/jarl-lint/jarl/pkg/diagnostic"
	"github.com/jarl-lint/jarl/pkg/rules"
	"github.com/jarl-lint/jarl/pkg/syntax"
)

// ifConstantCondition flags `if` conditions that always evaluate the same
// way. Only reported for if statements without an else clause; with an else
// the dead branch is already covered by unreachable_code.
func ifConstantCondition(n *syntax.Node) (diagnostic.Diagnostic, bool) {
	if n.Else() != nil {
		return diagnostic.Diagnostic{}, false
	}
	cond := n.Cond()
	if cond == nil {
		return diagnostic.Diagnostic{}, false
	}
	value, known := cfg.ConstantCondition(cond)
	if !known {
		return diagnostic.Diagnostic{}, false
	}

	message := "`if` condition is always `FALSE`."
	help := "Remove this `if` statement."
	if value {
		message = "`if` condition is always `TRUE`."
		help = "Remove the `if` condition and keep the body."
	}
	return diagnostic.New(rules.IfConstantCondition, message, help, cond.Range()), true
}
