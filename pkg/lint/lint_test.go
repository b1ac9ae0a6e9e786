package lint_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jarl-lint/jarl/pkg/diagnostic"
	"github.com/jarl-lint/jarl/pkg/lint"
	"github.com/jarl-lint/jarl/pkg/rules"
	"github.com/jarl-lint/jarl/pkg/syntax"
)

func check(t *testing.T, source string) []diagnostic.Diagnostic {
	t.Helper()
	tree, err := syntax.Parse(source)
	require.NoError(t, err)
	return lint.Check(tree, lint.Options{})
}

func checkWith(t *testing.T, source string, opts lint.Options) []diagnostic.Diagnostic {
	t.Helper()
	tree, err := syntax.Parse(source)
	require.NoError(t, err)
	return lint.Check(tree, opts)
}

func byRule(diags []diagnostic.Diagnostic, rule string) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	for _, d := range diags {
		if d.Rule == rule {
			out = append(out, d)
		}
	}
	return out
}

func TestEqualsNA(t *testing.T) {
	for _, tc := range []struct {
		source string
		fix    string
	}{
		{"x == NA", "is.na(x)"},
		{"NA == x", "is.na(x)"},
		{"x != NA", "!is.na(x)"},
		{"x == NA_integer_", "is.na(x)"},
		{"x == NA_character_", "is.na(x)"},
		{"foo(x(y)) == NA", "is.na(foo(x(y)))"},
		{"x %in% NA", "anyNA(x)"},
	} {
		diags := byRule(check(t, tc.source), rules.EqualsNA)
		require.Len(t, diags, 1, tc.source)
		assert.Equal(t, "Comparing to NA with `==`, `!=` or `%in%` is problematic.", diags[0].Message)
		assert.Equal(t, "Use `is.na()` instead.", diags[0].Help)
		assert.Equal(t, tc.fix, diags[0].Fix.Content, tc.source)
	}
}

func TestEqualsNANoLint(t *testing.T) {
	for _, source := range []string{
		"NA %in% x", // any_is_na territory
		"x + NA",
		"x <- NA",
		`x == "NA"`,
		"NA == NA",
		"x == y",
	} {
		assert.Empty(t, byRule(check(t, source), rules.EqualsNA), source)
	}
}

func TestEqualsNull(t *testing.T) {
	for _, tc := range []struct {
		source string
		fix    string
	}{
		{"x == NULL", "is.null(x)"},
		{"NULL == x", "is.null(x)"},
		{"x != NULL", "!is.null(x)"},
		{"x %in% NULL", "is.null(x)"},
	} {
		diags := byRule(check(t, tc.source), rules.EqualsNull)
		require.Len(t, diags, 1, tc.source)
		assert.Equal(t, "Comparing to NULL with `==`, `!=` or `%in%` is problematic.", diags[0].Message)
		assert.Equal(t, tc.fix, diags[0].Fix.Content, tc.source)
	}

	for _, source := range []string{"x + NULL", "x <- NULL", `x == "NULL"`, "x == f(NULL)"} {
		assert.Empty(t, byRule(check(t, source), rules.EqualsNull), source)
	}
}

func TestAnyIsNA(t *testing.T) {
	diags := byRule(check(t, "any(is.na(x))"), rules.AnyIsNA)
	require.Len(t, diags, 1)
	assert.Equal(t, "`any(is.na(...))` is inefficient.", diags[0].Message)
	assert.Equal(t, "Use `anyNA(...)` instead.", diags[0].Help)
	assert.Equal(t, "anyNA(x)", diags[0].Fix.Content)

	diags = byRule(check(t, "any(is.na(x + y))"), rules.AnyIsNA)
	require.Len(t, diags, 1)
	assert.Equal(t, "anyNA(x + y)", diags[0].Fix.Content)

	diags = byRule(check(t, "NA %in% x"), rules.AnyIsNA)
	require.Len(t, diags, 1)
	assert.Equal(t, "`NA %in% x` is inefficient.", diags[0].Message)
	assert.Equal(t, "anyNA(x)", diags[0].Fix.Content)

	for _, source := range []string{
		"any(x)",
		"is.na(x)",
		"any(duplicated(x))",
		"anyNA(x)",
	} {
		assert.Empty(t, byRule(check(t, source), rules.AnyIsNA), source)
	}
}

func TestAnyIsNAFixSkippedWithComments(t *testing.T) {
	source := "any(is.na(\n  # inner comment\n  x\n))"
	diags := byRule(check(t, source), rules.AnyIsNA)
	require.Len(t, diags, 1)
	assert.True(t, diags[0].Fix.Empty(), "comment inside the call must drop the fix")
}

func TestBrowser(t *testing.T) {
	diags := byRule(check(t, "f <- function() {\n  browser()\n  1\n}"), rules.Browser)
	require.Len(t, diags, 1)
	assert.Equal(t, "Calls to `browser()` should be removed.", diags[0].Message)
	assert.True(t, diags[0].Fix.Empty())

	assert.Empty(t, byRule(check(t, "x$browser()"), rules.Browser))
	assert.Empty(t, byRule(check(t, "browser"), rules.Browser))
}

func TestClassEquals(t *testing.T) {
	for _, tc := range []struct {
		source string
		fix    string
	}{
		{"if (class(x) == 'character') 1", "inherits(x, 'character')"},
		{"if ('character' %in% class(x)) 1", "inherits(x, 'character')"},
		{"if (class(x) != 'character') 1", "!inherits(x, 'character')"},
		{"while (class(x) != 'character') 1", "!inherits(x, 'character')"},
		{"if (base::class(x) == 'character') 1", "inherits(x, 'character')"},
	} {
		diags := byRule(check(t, tc.source), rules.ClassEquals)
		require.Len(t, diags, 1, tc.source)
		assert.Equal(t, "Comparing `class(x)` with `==` or `%in%` can be problematic.", diags[0].Message)
		assert.Equal(t, "Use `inherits(x, 'a')` instead.", diags[0].Help)
		assert.Equal(t, tc.fix, diags[0].Fix.Content, tc.source)
	}

	// Outside a condition the intended use of the logical vector is unknown.
	for _, source := range []string{
		"is_regression <- class(x) == 'lm'",
		"is_regression <- 'lm' == class(x)",
		"class(x) <- 'character'",
		"all(sup %in% class(model))",
	} {
		assert.Empty(t, byRule(check(t, source), rules.ClassEquals), source)
	}
}

func TestClassEqualsRangeIsCondition(t *testing.T) {
	source := "if (class(x) == 'character') 1"
	diags := byRule(check(t, source), rules.ClassEquals)
	require.Len(t, diags, 1)
	want := "class(x) == 'character'"
	assert.Equal(t, strings.Index(source, want), diags[0].Range.Start)
	assert.Equal(t, strings.Index(source, want)+len(want), diags[0].Range.End)
}

func TestClassIdentical(t *testing.T) {
	for _, tc := range []struct {
		source string
		fix    string
	}{
		{"is_regression <- identical(class(x), 'lm')", "inherits(x, 'lm')"},
		{"is_regression <- identical('lm', class(x))", "inherits(x, 'lm')"},
		{"if (identical(class(x), 'character')) 1", "inherits(x, 'character')"},
	} {
		diags := byRule(check(t, tc.source), rules.ClassEquals)
		require.Len(t, diags, 1, tc.source)
		assert.Equal(t, "Using `identical(class(x), 'a')` can be problematic.", diags[0].Message)
		assert.Equal(t, tc.fix, diags[0].Fix.Content, tc.source)
	}

	assert.Empty(t, byRule(check(t, "identical(foo(x), 'a')"), rules.ClassEquals))
	assert.Empty(t, byRule(check(t, "identical(class(x), class(y))"), rules.ClassEquals))
}

func TestIfConstantCondition(t *testing.T) {
	source := "if (TRUE) {\n  1\n}"
	diags := byRule(check(t, source), rules.IfConstantCondition)
	require.Len(t, diags, 1)
	assert.Equal(t, "`if` condition is always `TRUE`.", diags[0].Message)
	assert.Equal(t, "Remove the `if` condition and keep the body.", diags[0].Help)
	assert.Equal(t, strings.Index(source, "TRUE"), diags[0].Range.Start)
	assert.True(t, diags[0].Fix.Empty())

	diags = byRule(check(t, "if (FALSE && foo()) 1"), rules.IfConstantCondition)
	require.Len(t, diags, 1)
	assert.Equal(t, "`if` condition is always `FALSE`.", diags[0].Message)
	assert.Equal(t, "Remove this `if` statement.", diags[0].Help)

	// With an else clause the dead branch belongs to unreachable_code.
	assert.Empty(t, byRule(check(t, "if (TRUE) 1 else 2"), rules.IfConstantCondition))
	assert.Empty(t, byRule(check(t, "if (x) 1"), rules.IfConstantCondition))
}

func TestUnreachableCodeInFunction(t *testing.T) {
	source := "f <- function(x) {\n  return(x)\n  print(x)\n}"
	diags := byRule(check(t, source), rules.UnreachableCode)
	require.Len(t, diags, 1)
	assert.Equal(t, "This code is unreachable because it appears after a return statement.", diags[0].Message)
	assert.Equal(t, strings.Index(source, "print(x)"), diags[0].Range.Start)
}

func TestUnreachableCodeTopLevel(t *testing.T) {
	// return() at top level is not control flow, stop() is.
	assert.Empty(t, byRule(check(t, "return(1)\nprint(2)"), rules.UnreachableCode))

	diags := byRule(check(t, "stop('boom')\nprint(2)"), rules.UnreachableCode)
	require.Len(t, diags, 1)
	assert.Equal(t, "This code is unreachable because it appears after a `stop()` statement (or equivalent).", diags[0].Message)
}

func TestConfiguredStopFunctions(t *testing.T) {
	source := "f <- function() {\n  give_up()\n  1\n}"
	assert.Empty(t, byRule(check(t, source), rules.UnreachableCode))

	diags := byRule(checkWith(t, source, lint.Options{StopFunctions: []string{"give_up"}}), rules.UnreachableCode)
	require.Len(t, diags, 1)
}

func TestDisabledRuleDoesNotRun(t *testing.T) {
	opts := lint.Options{Rules: map[string]bool{rules.EqualsNull: true}}
	diags := checkWith(t, "x == NA\nx == NULL", opts)
	assert.Empty(t, byRule(diags, rules.EqualsNA))
	assert.Len(t, byRule(diags, rules.EqualsNull), 1)
}

func TestSuppressionFiltersDiagnostic(t *testing.T) {
	source := "# jarl-ignore equals_na: legacy data\nx == NA"
	diags := check(t, source)
	assert.Empty(t, byRule(diags, rules.EqualsNA))
	assert.Empty(t, byRule(diags, rules.OutdatedSuppression))
}

func TestWrongRuleSuppressionReportsBoth(t *testing.T) {
	source := "# jarl-ignore any_is_na: wrong rule\nx == NA"
	diags := check(t, source)
	assert.Len(t, byRule(diags, rules.EqualsNA), 1)
	outdated := byRule(diags, rules.OutdatedSuppression)
	require.Len(t, outdated, 1)
	assert.Equal(t, 0, outdated[0].Range.Start)
	assert.Equal(t, "This suppression comment is unused, no violation would be reported without it.", outdated[0].Message)
}

func TestOutdatedSuppression(t *testing.T) {
	diags := check(t, "\n# jarl-ignore any_is_na: nothing here\nx <- 1")
	outdated := byRule(diags, rules.OutdatedSuppression)
	require.Len(t, outdated, 1)
	assert.Equal(t, "Remove this suppression comment or verify that it's still needed.", outdated[0].Help)
}

func TestFileSuppression(t *testing.T) {
	source := "# jarl-ignore-file equals_na: generated\nx == NA\ny == NA"
	diags := check(t, source)
	assert.Empty(t, byRule(diags, rules.EqualsNA))
}

func TestBlanketSuppression(t *testing.T) {
	diags := check(t, "# jarl-ignore\nx <- 1")
	blanket := byRule(diags, rules.BlanketSuppression)
	require.Len(t, blanket, 1)
	assert.Equal(t, "This comment isn't used by Jarl because it suppresses all possible violations of this node.", blanket[0].Message)
}

func TestUnexplainedSuppression(t *testing.T) {
	diags := check(t, "# jarl-ignore equals_na:\nx == NA")
	unexplained := byRule(diags, rules.UnexplainedSuppression)
	require.Len(t, unexplained, 1)
	// The directive is unusable, so the violation stays.
	assert.Len(t, byRule(diags, rules.EqualsNA), 1)
}

func TestMisplacedSuppression(t *testing.T) {
	diags := check(t, "x == NA # jarl-ignore equals_na: inline")
	misplaced := byRule(diags, rules.MisplacedSuppression)
	require.Len(t, misplaced, 1)
	assert.Equal(t, "This comment isn't used by Jarl because end-of-line suppressions are not supported.", misplaced[0].Message)
	assert.Len(t, byRule(diags, rules.EqualsNA), 1)
}

func TestMisplacedFileSuppression(t *testing.T) {
	source := "f <- function() {\n  # jarl-ignore-file equals_na: too late\n  x == NA\n}"
	diags := check(t, source)
	assert.Len(t, byRule(diags, rules.MisplacedFileSuppression), 1)
}

func TestMisnamedSuppression(t *testing.T) {
	diags := check(t, "# jarl-ignore any_isna: typo\nany(is.na(x))")
	misnamed := byRule(diags, rules.MisnamedSuppression)
	require.Len(t, misnamed, 1)
	assert.Equal(t, "Check the rule name for typos.", misnamed[0].Help)
	assert.Len(t, byRule(diags, rules.AnyIsNA), 1)
}

func TestUnmatchedRangeSuppression(t *testing.T) {
	diags := check(t, "# jarl-ignore-start equals_na: open\nx <- 1")
	unmatched := byRule(diags, rules.UnmatchedRangeSuppression)
	require.Len(t, unmatched, 1)
	assert.Contains(t, unmatched[0].Message, "no matching `jarl-ignore-end`")

	diags = check(t, "x <- 1\n# jarl-ignore-end equals_na")
	unmatched = byRule(diags, rules.UnmatchedRangeSuppression)
	require.Len(t, unmatched, 1)
	assert.Contains(t, unmatched[0].Message, "no matching `jarl-ignore-start`")
}

func TestRangeSuppression(t *testing.T) {
	source := "# jarl-ignore-start equals_na: block\nx == NA\n# jarl-ignore-end equals_na\ny == NA"
	diags := check(t, source)
	kept := byRule(diags, rules.EqualsNA)
	require.Len(t, kept, 1)
	assert.Equal(t, strings.LastIndex(source, "y == NA"), kept[0].Range.Start)
}

func TestPackageDuplicatesAreInjected(t *testing.T) {
	source := "foo <- function() 1"
	opts := lint.Options{PackageDuplicates: []lint.Duplicate{{
		Name:  "foo",
		Range: syntax.Range{Start: 0, End: 3},
		Help:  "other definition at R/aaa.R:1:1",
	}}}
	diags := byRule(checkWith(t, source, opts), rules.DuplicatedFunctionDefinition)
	require.Len(t, diags, 1)
	assert.Equal(t, "`foo` is defined more than once in this package.", diags[0].Message)
	assert.Equal(t, "other definition at R/aaa.R:1:1", diags[0].Help)
}

func TestPackageDuplicatesAreSuppressible(t *testing.T) {
	source := "# jarl-ignore-file duplicated_function_definition: intentional reexport\nfoo <- function() 1"
	start := strings.Index(source, "foo")
	opts := lint.Options{PackageDuplicates: []lint.Duplicate{{
		Name:  "foo",
		Range: syntax.Range{Start: start, End: start + 3},
		Help:  "other definition at R/aaa.R:1:1",
	}}}
	diags := checkWith(t, source, opts)
	assert.Empty(t, byRule(diags, rules.DuplicatedFunctionDefinition))
	assert.Empty(t, byRule(diags, rules.OutdatedSuppression))
}

func TestUnfixableStripsFix(t *testing.T) {
	opts := lint.Options{Unfixable: []string{rules.EqualsNA}}
	diags := byRule(checkWith(t, "x == NA", opts), rules.EqualsNA)
	require.Len(t, diags, 1)
	assert.True(t, diags[0].Fix.Empty())
}

func TestFixableRestrictsFixes(t *testing.T) {
	opts := lint.Options{Fixable: []string{rules.EqualsNull}}
	diags := checkWith(t, "x == NA\ny == NULL", opts)
	naDiags := byRule(diags, rules.EqualsNA)
	require.Len(t, naDiags, 1)
	assert.True(t, naDiags[0].Fix.Empty())
	nullDiags := byRule(diags, rules.EqualsNull)
	require.Len(t, nullDiags, 1)
	assert.False(t, nullDiags[0].Fix.Empty())
}

func TestApplyFixes(t *testing.T) {
	source := "x == NA\ny == NULL"
	diags := check(t, source)
	fixed, applied := lint.ApplyFixes(source, diags)
	assert.Equal(t, 2, applied)
	assert.Equal(t, "is.na(x)\nis.null(y)", fixed)
}

func TestApplyFixesSkipsOverlaps(t *testing.T) {
	source := "x == NA"
	diags := check(t, source)
	require.Len(t, byRule(diags, rules.EqualsNA), 1)
	// Duplicate the same fix to force an overlap.
	diags = append(diags, diags...)
	fixed, applied := lint.ApplyFixes(source, diags)
	assert.Equal(t, 1, applied)
	assert.Equal(t, "is.na(x)", fixed)
}

func TestCheckFullDiagnosticShape(t *testing.T) {
	got := check(t, "x == NA")
	want := []diagnostic.Diagnostic{
		{
			Rule:    rules.EqualsNA,
			Message: "Comparing to NA with `==`, `!=` or `%in%` is problematic.",
			Help:    "Use `is.na()` instead.",
			Range:   syntax.Range{Start: 0, End: 7},
			Fix:     diagnostic.Fix{Content: "is.na(x)", Start: 0, End: 7},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}
