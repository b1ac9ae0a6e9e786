// Package directive parses suppression comments of the form
//
//	# jarl-ignore <rule>: <explanation>
//	# jarl-ignore-file <rule>: <explanation>
//	# jarl-ignore-start <rule>: <explanation>
//	# jarl-ignore-end <rule>
//
// into structured directives, classifying malformed attempts so the
// suppression manager can report them.
package directive

import (
	"strings"

	"github.com/jarl-lint/jarl/pkg/rules"
)

const keyword = "jarl-ignore"

// Kind identifies the scope of a valid directive.
type Kind string

const (
	// Ignore suppresses one rule on the next statement.
	Ignore Kind = "ignore"
	// IgnoreFile suppresses one rule for the whole file.
	IgnoreFile Kind = "ignore-file"
	// IgnoreStart opens a range suppression for one rule.
	IgnoreStart Kind = "ignore-start"
	// IgnoreEnd closes a range suppression for one rule.
	IgnoreEnd Kind = "ignore-end"
)

// Status classifies the parse outcome of a directive-looking comment.
type Status string

const (
	// Valid carries a well-formed directive.
	Valid Status = "valid"
	// Blanket marks the degenerate `# jarl-ignore` form with no rule name.
	Blanket Status = "blanket"
	// MissingExplanation marks a known rule without the required
	// `: <explanation>` part.
	MissingExplanation Status = "missing-explanation"
	// InvalidRuleName marks a directive whose rule segment does not name
	// a known rule.
	InvalidRuleName Status = "invalid-rule-name"
)

// Result is the classification of one comment. Rule is set for Valid and
// MissingExplanation results.
type Result struct {
	Status Status
	Kind   Kind
	Rule   string
}

// Parse classifies a raw comment (including its leading # marker). The
// second return value is false when the comment is not a suppression
// directive at all; such comments are ignored without any diagnostic.
// Parse is a pure function of its input.
func Parse(text string) (Result, bool) {
	text = strings.TrimLeft(text, " \t")

	var body string
	switch {
	case strings.HasPrefix(text, "# "):
		body = text[2:]
	case strings.HasPrefix(text, "#"):
		body = text[1:]
	default:
		return Result{}, false
	}

	rest, ok := strings.CutPrefix(body, keyword)
	if !ok {
		return Result{}, false
	}

	switch {
	case strings.HasPrefix(rest, "-file "):
		return parseRuleWithExplanation(rest[len("-file "):], IgnoreFile, false)
	case strings.HasPrefix(rest, "-start "):
		return parseRuleWithExplanation(rest[len("-start "):], IgnoreStart, false)
	case strings.HasPrefix(rest, "-end "):
		return parseEndRule(rest[len("-end "):])
	case rest == "" || strings.HasPrefix(rest, ":"):
		// Plain `# jarl-ignore` or `# jarl-ignore:` with no rule at all.
		return Result{Status: Blanket, Kind: Ignore}, true
	case strings.HasPrefix(rest, " "):
		tail := rest[1:]
		if tail == "" || strings.HasPrefix(strings.TrimLeft(tail, " \t"), ":") {
			return Result{Status: Blanket, Kind: Ignore}, true
		}
		return parseRuleWithExplanation(tail, Ignore, true)
	default:
		// Keyword ran into other text, e.g. `# jarl-ignorefoo`. Not a
		// directive; deliberately not reported as malformed.
		return Result{}, false
	}
}

// parseRuleWithExplanation parses `<rule>: <explanation>`. When
// emptyRuleIsBlanket is set (the plain ignore form), an empty rule segment
// before the colon degrades to a blanket suppression instead of being
// silently dropped.
func parseRuleWithExplanation(text string, kind Kind, emptyRuleIsBlanket bool) (Result, bool) {
	colon := strings.IndexByte(text, ':')
	if colon < 0 {
		name := strings.TrimSpace(text)
		if name == "" {
			if emptyRuleIsBlanket {
				return Result{Status: Blanket, Kind: kind}, true
			}
			return Result{}, false
		}
		if rules.IsKnown(name) {
			return Result{Status: MissingExplanation, Kind: kind, Rule: name}, true
		}
		return Result{}, false
	}

	name := strings.TrimSpace(text[:colon])
	if name == "" {
		if emptyRuleIsBlanket {
			return Result{Status: Blanket, Kind: kind}, true
		}
		return Result{}, false
	}
	if !rules.IsKnown(name) {
		return Result{Status: InvalidRuleName, Kind: kind, Rule: name}, true
	}
	if strings.TrimSpace(text[colon+1:]) == "" {
		return Result{Status: MissingExplanation, Kind: kind, Rule: name}, true
	}
	return Result{Status: Valid, Kind: kind, Rule: name}, true
}

// parseEndRule parses the `-end` form: a rule name, with an optional
// trailing `: <reason>` that is tolerated and discarded.
func parseEndRule(text string) (Result, bool) {
	if colon := strings.IndexByte(text, ':'); colon >= 0 {
		text = text[:colon]
	}
	name := strings.TrimSpace(text)
	if name == "" {
		return Result{}, false
	}
	if !rules.IsKnown(name) {
		return Result{Status: InvalidRuleName, Kind: IgnoreEnd, Rule: name}, true
	}
	return Result{Status: Valid, Kind: IgnoreEnd, Rule: name}, true
}
