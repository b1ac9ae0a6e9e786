package cfg

import (
	"strings"
	"testing"

	"github.com/jarl-lint/jarl/pkg/syntax"
)

// functionBody parses src and returns the body of the first function
// assigned at top level.
func functionBody(t *testing.T, src string) *syntax.Node {
	t.Helper()
	tree, err := syntax.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, stmt := range tree.TopLevel() {
		if stmt.IsAssignment() && stmt.Right() != nil && stmt.Right().Kind == syntax.KindFunction {
			return stmt.Right().Body()
		}
	}
	t.Fatalf("no function definition in %q", src)
	return nil
}

func findInFunction(t *testing.T, src string) []UnreachableCode {
	t.Helper()
	return FindUnreachable(Build(functionBody(t, src), Options{}))
}

func TestAfterReturnMergesIntoOneSpan(t *testing.T) {
	src := `foo <- function() {
  return(1)
  return(2)
  return(3)
}`
	infos := findInFunction(t, src)
	if len(infos) != 1 {
		t.Fatalf("got %d spans, want 1: %+v", len(infos), infos)
	}
	if infos[0].Reason != AfterReturn {
		t.Errorf("reason = %s, want %s", infos[0].Reason, AfterReturn)
	}
	covered := src[infos[0].Range.Start:infos[0].Range.End]
	if !strings.Contains(covered, "return(2)") || !strings.Contains(covered, "return(3)") {
		t.Errorf("span %q does not cover both trailing returns", covered)
	}
	if strings.Contains(covered, "return(1)") {
		t.Errorf("span %q covers the live return", covered)
	}
}

func TestDeadBranchSymmetry(t *testing.T) {
	src := `f <- function() {
  if (FALSE) {
    a <- 1
    b <- 2
  } else {
    c <- 3
  }
}`
	infos := findInFunction(t, src)
	if len(infos) != 1 {
		t.Fatalf("got %d spans, want 1: %+v", len(infos), infos)
	}
	if infos[0].Reason != DeadBranch {
		t.Errorf("reason = %s, want %s", infos[0].Reason, DeadBranch)
	}
	covered := src[infos[0].Range.Start:infos[0].Range.End]
	if !strings.Contains(covered, "a <- 1") || strings.Contains(covered, "c <- 3") {
		t.Errorf("wrong branch reported: %q", covered)
	}
}

func TestConstantTrueConditionKillsElse(t *testing.T) {
	src := `f <- function() {
  if (TRUE) {
    a <- 1
  } else {
    b <- 2
  }
  done()
}`
	infos := findInFunction(t, src)
	if len(infos) != 1 {
		t.Fatalf("got %d spans, want 1: %+v", len(infos), infos)
	}
	covered := src[infos[0].Range.Start:infos[0].Range.End]
	if !strings.Contains(covered, "b <- 2") {
		t.Errorf("expected dead else branch, got %q", covered)
	}
}

func TestNumericTruthinessInCondition(t *testing.T) {
	src := `f <- function() {
  if (0) {
    dead()
  } else {
    live()
  }
}`
	infos := findInFunction(t, src)
	if len(infos) != 1 || !strings.Contains(src[infos[0].Range.Start:infos[0].Range.End], "dead()") {
		t.Fatalf("expected the zero branch to be dead: %+v", infos)
	}
}

func TestBranchTerminatingInAllPaths(t *testing.T) {
	src := `f <- function(x) {
  if (x > 0) {
    return(1)
  } else {
    stop("negative")
  }
  leftover()
}`
	infos := findInFunction(t, src)
	if len(infos) != 1 {
		t.Fatalf("got %d spans, want 1: %+v", len(infos), infos)
	}
	if infos[0].Reason != AfterBranchTerminating {
		t.Errorf("reason = %s, want %s", infos[0].Reason, AfterBranchTerminating)
	}
}

func TestBranchNotTerminatingKeepsContinuationLive(t *testing.T) {
	src := `f <- function(x) {
  if (x > 0) {
    return(1)
  } else {
    y <- 2
  }
  leftover()
}`
	if infos := findInFunction(t, src); len(infos) != 0 {
		t.Fatalf("expected no unreachable code, got %+v", infos)
	}
}

func TestBreakAndNextInLoops(t *testing.T) {
	src := `f <- function() {
  for (i in 1:10) {
    break
    skipped()
  }
  while (cond()) {
    next
    also_skipped()
  }
}`
	infos := findInFunction(t, src)
	if len(infos) != 2 {
		t.Fatalf("got %d spans, want 2: %+v", len(infos), infos)
	}
	if infos[0].Reason != AfterBreak || infos[1].Reason != AfterNext {
		t.Errorf("reasons = %s, %s; want %s, %s", infos[0].Reason, infos[1].Reason, AfterBreak, AfterNext)
	}
}

func TestStopFunctionsTerminate(t *testing.T) {
	for _, stopper := range []string{"stop", "abort", "cli_abort", ".Defunct"} {
		src := "f <- function() {\n  " + stopper + "(\"boom\")\n  after()\n}"
		infos := findInFunction(t, src)
		if len(infos) != 1 || infos[0].Reason != AfterStop {
			t.Errorf("%s: got %+v, want one AfterStop span", stopper, infos)
		}
	}
}

func TestConfigurableStopFunctions(t *testing.T) {
	src := `f <- function() {
  my_abort("boom")
  after()
}`
	body := functionBody(t, src)

	if infos := FindUnreachable(Build(body, Options{})); len(infos) != 0 {
		t.Fatalf("my_abort should not terminate by default: %+v", infos)
	}
	opts := Options{StopFunctions: append([]string{"my_abort"}, DefaultStopFunctions...)}
	infos := FindUnreachable(Build(body, opts))
	if len(infos) != 1 || infos[0].Reason != AfterStop {
		t.Fatalf("got %+v, want one AfterStop span", infos)
	}
}

func TestNestedFunctionIsOpaque(t *testing.T) {
	src := `f <- function() {
  g <- function() {
    return(1)
    inner_dead()
  }
  after()
}`
	// The nested body is not inlined: building f finds nothing.
	if infos := findInFunction(t, src); len(infos) != 0 {
		t.Fatalf("nested function body leaked into enclosing CFG: %+v", infos)
	}
}

func TestRepeatLoopContinuationReachable(t *testing.T) {
	src := `f <- function() {
  repeat {
    if (done()) break
    work()
  }
  after()
}`
	if infos := findInFunction(t, src); len(infos) != 0 {
		t.Fatalf("expected no unreachable code, got %+v", infos)
	}
}

func TestBreakOutsideLoopIsNotControlFlow(t *testing.T) {
	src := `f <- function() {
  break
  after()
}`
	if infos := findInFunction(t, src); len(infos) != 0 {
		t.Fatalf("break outside a loop must not terminate the block: %+v", infos)
	}
}

func TestEmptyBodyHasNoFindings(t *testing.T) {
	src := `f <- function() {
}`
	if infos := findInFunction(t, src); len(infos) != 0 {
		t.Fatalf("got %+v, want none", infos)
	}
}

func TestTopLevelReturnIsPlainStatement(t *testing.T) {
	src := `return(1)
x <- 2`
	tree, err := syntax.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	g := BuildTopLevel(tree.TopLevel(), Options{})
	infos := FilterTopLevel(FindUnreachable(g))
	if len(infos) != 0 {
		t.Fatalf("top-level return must not create unreachable code: %+v", infos)
	}
}

func TestTopLevelStopStillReported(t *testing.T) {
	src := `stop("fatal")
x <- 2`
	tree, err := syntax.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	g := BuildTopLevel(tree.TopLevel(), Options{})
	infos := FilterTopLevel(FindUnreachable(g))
	if len(infos) != 1 || infos[0].Reason != AfterStop {
		t.Fatalf("got %+v, want one AfterStop span", infos)
	}
}

func TestFilterTopLevelDropsFunctionOnlyReasons(t *testing.T) {
	infos := []UnreachableCode{
		{Range: syntax.Range{Start: 0, End: 5}, Reason: AfterReturn},
		{Range: syntax.Range{Start: 6, End: 9}, Reason: AfterBreak},
		{Range: syntax.Range{Start: 10, End: 15}, Reason: NoPathFromEntry},
		{Range: syntax.Range{Start: 16, End: 20}, Reason: AfterBranchTerminating},
	}
	got := FilterTopLevel(infos)
	if len(got) != 2 || got[0].Reason != AfterBreak || got[1].Reason != AfterBranchTerminating {
		t.Fatalf("got %+v", got)
	}
}

// Contiguous same-reason spans merge; a gap or a different reason splits.
func TestMergeContiguousSameReason(t *testing.T) {
	g := NewGraph()
	a := g.NewBlock()
	b := g.NewBlock()
	c := g.NewBlock()
	g.Block(a).Range = &syntax.Range{Start: 10, End: 15}
	g.Block(b).Range = &syntax.Range{Start: 15, End: 20}
	g.Block(c).Range = &syntax.Range{Start: 22, End: 25}

	infos := FindUnreachable(g)
	if len(infos) != 2 {
		t.Fatalf("got %d spans, want 2: %+v", len(infos), infos)
	}
	if infos[0].Range != (syntax.Range{Start: 10, End: 20}) {
		t.Errorf("merged range = %+v", infos[0].Range)
	}
	if infos[1].Range != (syntax.Range{Start: 22, End: 25}) {
		t.Errorf("second range = %+v", infos[1].Range)
	}
	for _, info := range infos {
		if info.Reason != NoPathFromEntry {
			t.Errorf("reason = %s, want %s", info.Reason, NoPathFromEntry)
		}
	}
}

// Every block ends up either reachable or with exactly one reason, on an
// assortment of shapes including loops back to their own headers.
func TestReachabilityTotality(t *testing.T) {
	srcs := []string{
		`f <- function() { while (TRUE) { x <- x + 1 } }`,
		`f <- function() { repeat { next } }`,
		`f <- function(x) { if (x) return(1) else if (y) stop("a") else stop("b")
  dead() }`,
		`f <- function() { for (i in s) for (j in s) if (j > i) break }`,
	}
	for _, src := range srcs {
		g := Build(functionBody(t, src), Options{})
		infos := FindUnreachable(g)
		for _, info := range infos {
			if info.Reason == "" {
				t.Errorf("%q: span without a reason", src)
			}
		}
	}
}

func TestConstantCondition(t *testing.T) {
	tests := []struct {
		expr  string
		value bool
		known bool
	}{
		{"TRUE", true, true},
		{"FALSE", false, true},
		{"1", true, true},
		{"0", false, true},
		{"0L", false, true},
		{"2.5", true, true},
		{"Inf", true, true},
		{"NaN", false, false},
		{"(TRUE)", true, true},
		{"!TRUE", false, true},
		{"!x", false, false},
		{"TRUE || x", true, true},
		{"x || TRUE", true, true},
		{"FALSE && f()", false, true},
		{"FALSE | FALSE", false, true},
		{"TRUE & TRUE", true, true},
		{"x && y", false, false},
		{"x == 1", false, false},
	}
	for _, tt := range tests {
		tree, err := syntax.Parse(tt.expr)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.expr, err)
		}
		value, known := ConstantCondition(tree.TopLevel()[0])
		if known != tt.known || (known && value != tt.value) {
			t.Errorf("ConstantCondition(%q) = (%v, %v), want (%v, %v)",
				tt.expr, value, known, tt.value, tt.known)
		}
	}
}
