package directive

import "testing"

func TestParseValidDirectives(t *testing.T) {
	tests := []struct {
		text string
		kind Kind
		rule string
	}{
		{"# jarl-ignore equals_na: test data uses NA sentinels", Ignore, "equals_na"},
		{"#jarl-ignore equals_na: no space after marker", Ignore, "equals_na"},
		{"   # jarl-ignore browser: left in on purpose", Ignore, "browser"},
		{"# jarl-ignore-file unreachable_code: generated file", IgnoreFile, "unreachable_code"},
		{"# jarl-ignore-start class_equals: legacy block", IgnoreStart, "class_equals"},
		{"# jarl-ignore-end class_equals", IgnoreEnd, "class_equals"},
		{"# jarl-ignore-end class_equals: reason is tolerated here", IgnoreEnd, "class_equals"},
	}
	for _, tt := range tests {
		res, ok := Parse(tt.text)
		if !ok {
			t.Errorf("Parse(%q) = not a directive", tt.text)
			continue
		}
		if res.Status != Valid || res.Kind != tt.kind || res.Rule != tt.rule {
			t.Errorf("Parse(%q) = %+v, want Valid %s %s", tt.text, res, tt.kind, tt.rule)
		}
	}
}

func TestParseBlanket(t *testing.T) {
	for _, text := range []string{
		"# jarl-ignore",
		"# jarl-ignore:",
		"# jarl-ignore : some text",
		"#jarl-ignore",
		"# jarl-ignore ",
	} {
		res, ok := Parse(text)
		if !ok || res.Status != Blanket {
			t.Errorf("Parse(%q) = %+v ok=%v, want Blanket", text, res, ok)
		}
	}
}

func TestParseMissingExplanation(t *testing.T) {
	for _, text := range []string{
		"# jarl-ignore equals_na",
		"# jarl-ignore equals_na:",
		"# jarl-ignore equals_na:   ",
		"# jarl-ignore-file browser",
		"# jarl-ignore-start unreachable_code:  ",
	} {
		res, ok := Parse(text)
		if !ok || res.Status != MissingExplanation {
			t.Errorf("Parse(%q) = %+v ok=%v, want MissingExplanation", text, res, ok)
		}
	}
}

func TestParseInvalidRuleName(t *testing.T) {
	for _, text := range []string{
		"# jarl-ignore no_such_rule: reason",
		"# jarl-ignore EQUALS_NA: case matters",
		"# jarl-ignore-file bogus: reason",
		"# jarl-ignore-end bogus",
	} {
		res, ok := Parse(text)
		if !ok || res.Status != InvalidRuleName {
			t.Errorf("Parse(%q) = %+v ok=%v, want InvalidRuleName", text, res, ok)
		}
	}
}

func TestParseNotADirective(t *testing.T) {
	for _, text := range []string{
		"",
		"plain text",
		"# plain comment",
		"# jarl-ignorefoo",
		"# jarl-ignore-filefoo: x",
		"# jarl-ignore-file ",
		"# jarl-ignore-file bogus_without_colon",
		"# jarl-ignore-end ",
		"jarl-ignore equals_na: missing marker",
	} {
		if res, ok := Parse(text); ok {
			t.Errorf("Parse(%q) = %+v, want not a directive", text, res)
		}
	}
}

// Parse must never panic, whatever bytes the comment holds.
func TestParseArbitraryInput(t *testing.T) {
	inputs := []string{
		"# jarl-ignore \x00\xff: x",
		"#\t jarl-ignore",
		"# jarl-ignore ::::",
		"# jarl-ignore-start : :",
		"####",
		"# jarl-ignore-end :",
		"# jarl-ignore-file :",
	}
	for _, text := range inputs {
		Parse(text)
	}
}
