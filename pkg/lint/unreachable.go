package lint

import (
	"github.com/jarl-lint/jarl/pkg/cfg"
	"github.com/jarl-lint/jarl/pkg/diagnostic"
	"github.com/jarl-lint/jarl/pkg/rules"
	"github.com/jarl-lint/jarl/pkg/syntax"
)

// unreachableCode builds the control flow graph of one function definition
// and reports every span of statements no execution path can reach.
func unreachableCode(fn *syntax.Node, extraStops []string) []diagnostic.Diagnostic {
	g := cfg.Build(fn.Body(), cfg.Options{StopFunctions: stopFunctions(extraStops)})
	return unreachableDiagnostics(cfg.FindUnreachable(g))
}

// unreachableCodeTopLevel does the same for a file's top-level statements.
// Reasons that only make sense inside a function body (after-return,
// no-path-from-entry) are filtered out.
func unreachableCodeTopLevel(stmts []*syntax.Node, extraStops []string) []diagnostic.Diagnostic {
	g := cfg.BuildTopLevel(stmts, cfg.Options{StopFunctions: stopFunctions(extraStops)})
	return unreachableDiagnostics(cfg.FilterTopLevel(cfg.FindUnreachable(g)))
}

func unreachableDiagnostics(infos []cfg.UnreachableCode) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	for _, info := range infos {
		out = append(out, diagnostic.New(rules.UnreachableCode, info.Reason.Message(), "", info.Range))
	}
	return out
}

// stopFunctions merges configured stop function names into the defaults.
func stopFunctions(extra []string) []string {
	if len(extra) == 0 {
		return nil
	}
	names := make([]string, 0, len(cfg.DefaultStopFunctions)+len(extra))
	names = append(names, cfg.DefaultStopFunctions...)
	names = append(names, extra...)
	return names
}
