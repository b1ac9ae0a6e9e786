package lint

import (
	"github.com/jarl-lint/jarl/pkg/diagnostic"
	"github.com/jarl-lint/jarl/pkg/rules"
	"github.com/jarl-lint/jarl/pkg/syntax"
)

// browser flags lingering `browser()` calls. No fix: there is no suitable
// replacement, the call has to be deleted by hand.
func browser(call *syntax.Node) (diagnostic.Diagnostic, bool) {
	if call.CalleeName() != "browser" {
		return diagnostic.Diagnostic{}, false
	}
	return diagnostic.New(
		rules.Browser,
		"Calls to `browser()` should be removed.",
		"",
		call.Range(),
	), true
}
