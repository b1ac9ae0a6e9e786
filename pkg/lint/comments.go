package lint

import (
	"github.com/jarl-lint/jarl/pkg/diagnostic"
	"github.com/jarl-lint/jarl/pkg/rules"
	"github.com/jarl-lint/jarl/pkg/syntax"
)

// Diagnostics about the suppression comments themselves. Each one points at
// the comment's own range and never carries a fix.

func blanketSuppression(rng syntax.Range) diagnostic.Diagnostic {
	return diagnostic.New(
		rules.BlanketSuppression,
		"This comment isn't used by Jarl because it suppresses all possible violations of this node.",
		"Use targeted comments instead, e.g., `# jarl-ignore any_is_na: <explanation>`.",
		rng,
	)
}

func unexplainedSuppression(rng syntax.Range) diagnostic.Diagnostic {
	return diagnostic.New(
		rules.UnexplainedSuppression,
		"This comment isn't used by Jarl because it is missing an explanation.",
		"Add an explanation after the colon, e.g., `# jarl-ignore rule: <reason>`.",
		rng,
	)
}

func misplacedFileSuppression(rng syntax.Range) diagnostic.Diagnostic {
	return diagnostic.New(
		rules.MisplacedFileSuppression,
		"This comment isn't used by Jarl because `# jarl-ignore-file` must be at the top of the file.",
		"Move this comment to the beginning of the file, before any code.",
		rng,
	)
}

func misplacedSuppression(rng syntax.Range) diagnostic.Diagnostic {
	return diagnostic.New(
		rules.MisplacedSuppression,
		"This comment isn't used by Jarl because end-of-line suppressions are not supported.",
		"Move the suppression comment to its own line above the code you want to suppress.",
		rng,
	)
}

func misnamedSuppression(rng syntax.Range) diagnostic.Diagnostic {
	return diagnostic.New(
		rules.MisnamedSuppression,
		"This comment isn't used by Jarl because it contains an unrecognized rule name.",
		"Check the rule name for typos.",
		rng,
	)
}

func unmatchedStartSuppression(rng syntax.Range) diagnostic.Diagnostic {
	return diagnostic.New(
		rules.UnmatchedRangeSuppression,
		"This `jarl-ignore-start` has no matching `jarl-ignore-end` at the same nesting level.",
		"Add a matching `jarl-ignore-end` comment at the same nesting level.",
		rng,
	)
}

func unmatchedEndSuppression(rng syntax.Range) diagnostic.Diagnostic {
	return diagnostic.New(
		rules.UnmatchedRangeSuppression,
		"This `jarl-ignore-end` has no matching `jarl-ignore-start` at the same nesting level.",
		"Add a matching `jarl-ignore-start` comment at the same nesting level.",
		rng,
	)
}

func outdatedSuppression(rng syntax.Range) diagnostic.Diagnostic {
	return diagnostic.New(
		rules.OutdatedSuppression,
		"This suppression comment is unused, no violation would be reported without it.",
		"Remove this suppression comment or verify that it's still needed.",
		rng,
	)
}
