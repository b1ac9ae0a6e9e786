// Package rules holds the closed registry of lint rules. Rule names are
// matched exactly (case sensitive) everywhere: configuration, suppression
// comments and diagnostics.
package rules

// DefaultStatus says whether a rule runs without explicit opt-in.
type DefaultStatus string

const (
	Enabled  DefaultStatus = "enabled"
	Disabled DefaultStatus = "disabled"
)

// FixStatus classifies a rule's automatic fix.
type FixStatus string

const (
	FixNone   FixStatus = "none"
	FixSafe   FixStatus = "safe"
	FixUnsafe FixStatus = "unsafe"
)

// Rule describes one lint rule.
type Rule struct {
	Name          string
	Categories    []string
	DefaultStatus DefaultStatus
	FixStatus     FixStatus
}

func (r Rule) HasSafeFix() bool   { return r.FixStatus == FixSafe }
func (r Rule) HasUnsafeFix() bool { return r.FixStatus == FixUnsafe }
func (r Rule) HasNoFix() bool     { return r.FixStatus == FixNone }

func (r Rule) IsEnabledByDefault() bool { return r.DefaultStatus == Enabled }

// Core rule names.
const (
	AnyIsNA                     = "any_is_na"
	Browser                     = "browser"
	ClassEquals                 = "class_equals"
	EqualsNA                    = "equals_na"
	EqualsNull                  = "equals_null"
	IfConstantCondition         = "if_constant_condition"
	UnreachableCode             = "unreachable_code"
	DuplicatedFunctionDefinition = "duplicated_function_definition"
)

// Suppression hygiene rule names.
const (
	BlanketSuppression        = "blanket_suppression"
	UnexplainedSuppression    = "unexplained_suppression"
	MisplacedFileSuppression  = "misplaced_file_suppression"
	MisplacedSuppression      = "misplaced_suppression"
	MisnamedSuppression       = "misnamed_suppression"
	UnmatchedRangeSuppression = "unmatched_range_suppression"
	OutdatedSuppression       = "outdated_suppression"
)

var all = []Rule{
	{Name: AnyIsNA, Categories: []string{"efficiency"}, DefaultStatus: Enabled, FixStatus: FixSafe},
	{Name: Browser, Categories: []string{"correctness"}, DefaultStatus: Enabled, FixStatus: FixNone},
	{Name: ClassEquals, Categories: []string{"robustness"}, DefaultStatus: Enabled, FixStatus: FixUnsafe},
	{Name: EqualsNA, Categories: []string{"correctness"}, DefaultStatus: Enabled, FixStatus: FixSafe},
	{Name: EqualsNull, Categories: []string{"correctness"}, DefaultStatus: Enabled, FixStatus: FixSafe},
	{Name: IfConstantCondition, Categories: []string{"correctness"}, DefaultStatus: Enabled, FixStatus: FixNone},
	{Name: UnreachableCode, Categories: []string{"correctness"}, DefaultStatus: Enabled, FixStatus: FixNone},
	{Name: DuplicatedFunctionDefinition, Categories: []string{"correctness"}, DefaultStatus: Enabled, FixStatus: FixNone},

	{Name: BlanketSuppression, Categories: []string{"suppression"}, DefaultStatus: Enabled, FixStatus: FixNone},
	{Name: UnexplainedSuppression, Categories: []string{"suppression"}, DefaultStatus: Enabled, FixStatus: FixNone},
	{Name: MisplacedFileSuppression, Categories: []string{"suppression"}, DefaultStatus: Enabled, FixStatus: FixNone},
	{Name: MisplacedSuppression, Categories: []string{"suppression"}, DefaultStatus: Enabled, FixStatus: FixNone},
	{Name: MisnamedSuppression, Categories: []string{"suppression"}, DefaultStatus: Enabled, FixStatus: FixNone},
	{Name: UnmatchedRangeSuppression, Categories: []string{"suppression"}, DefaultStatus: Enabled, FixStatus: FixNone},
	{Name: OutdatedSuppression, Categories: []string{"suppression"}, DefaultStatus: Enabled, FixStatus: FixNone},
}

var byName = func() map[string]Rule {
	m := make(map[string]Rule, len(all))
	for _, r := range all {
		m[r.Name] = r
	}
	return m
}()

// All returns every registered rule in declaration order. The returned slice
// must not be mutated.
func All() []Rule { return all }

// ByName resolves a rule name against the registry.
func ByName(name string) (Rule, bool) {
	r, ok := byName[name]
	return r, ok
}

// IsKnown reports whether name names a registered rule.
func IsKnown(name string) bool {
	_, ok := byName[name]
	return ok
}

// DefaultEnabled returns the names of all rules enabled by default.
func DefaultEnabled() []string {
	var names []string
	for _, r := range all {
		if r.IsEnabledByDefault() {
			names = append(names, r.Name)
		}
	}
	return names
}
