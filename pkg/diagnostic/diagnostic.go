// Package diagnostic defines the diagnostic and fix values exchanged
// between the analysis passes, the suppression filter and the reporters.
package diagnostic

import "github.com/jarl-lint/jarl/pkg/syntax"

// Diagnostic is a single finding over a byte range of one source file.
type Diagnostic struct {
	Rule    string
	Message string
	Help    string
	Range   syntax.Range
	Fix     Fix
}

// Fix is a textual replacement for the range [Start, End). An empty Fix
// (zero Content and range) means the rule offers no automatic fix.
// SkipDueToComments is set when applying the fix would destroy comments
// inside the replaced range; such fixes are reported but not applied.
type Fix struct {
	Content           string
	Start             int
	End               int
	SkipDueToComments bool
}

// Empty reports whether the fix carries no replacement.
func (f Fix) Empty() bool {
	return f.Content == "" && f.Start == 0 && f.End == 0
}

// New builds a diagnostic without a fix.
func New(rule, message, help string, rng syntax.Range) Diagnostic {
	return Diagnostic{Rule: rule, Message: message, Help: help, Range: rng}
}

// WithFix attaches a fix to the diagnostic.
func (d Diagnostic) WithFix(f Fix) Diagnostic {
	d.Fix = f
	return d
}
