// Package rpkg analyzes R package layout across files. Its one job today is
// the duplicate top-level definition pre-pass: find function names assigned
// more than once within the same package, before the per-file lint pass runs.
package rpkg

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jarl-lint/jarl/pkg/lint"
	"github.com/jarl-lint/jarl/pkg/syntax"
)

// InPackage reports whether the file belongs to an R package: its direct
// parent directory is named R and that directory's parent holds a
// DESCRIPTION file.
func InPackage(path string) bool {
	parent := filepath.Dir(path)
	if filepath.Base(parent) != "R" {
		return false
	}
	info, err := os.Stat(filepath.Join(filepath.Dir(parent), "DESCRIPTION"))
	return err == nil && !info.IsDir()
}

// Assignment is one top-level function assignment found by ScanAssignments.
type Assignment struct {
	Name  string
	Range syntax.Range
	Line  int
	Col   int
}

// ScanAssignments finds top-level function assignments with a line-based
// scan, which is roughly an order of magnitude cheaper than a full parse.
// Each file is parsed once later, in the main lint pass.
//
// In packages every top-level definition starts at column 1, so indented
// lines are skipped: they are inside bodies or control flow blocks. The
// scan misses the rare split form where `function` sits on the line after
// the `<-`.
func ScanAssignments(content string) []Assignment {
	var out []Assignment
	offset := 0
	line := 1

	for len(content) > 0 {
		raw := content
		if i := strings.IndexByte(content, '\n'); i >= 0 {
			raw = content[:i+1]
			content = content[i+1:]
		} else {
			content = ""
		}
		text := strings.TrimRight(raw, "\r\n")

		if a, ok := scanLine(text, offset, line); ok {
			out = append(out, a)
		}

		offset += len(raw)
		line++
	}
	return out
}

func scanLine(text string, offset, line int) (Assignment, bool) {
	if text == "" || text[0] == ' ' || text[0] == '\t' || text[0] == '#' {
		return Assignment{}, false
	}

	nameEnd := 0
	for nameEnd < len(text) && isNameByte(text[nameEnd]) {
		nameEnd++
	}
	if nameEnd == 0 {
		return Assignment{}, false
	}
	name := text[:nameEnd]

	rest := strings.TrimLeft(text[nameEnd:], " \t")
	switch {
	case strings.HasPrefix(rest, "<-"):
		rest = rest[2:]
	case strings.HasPrefix(rest, "=") && !strings.HasPrefix(rest, "=="):
		rest = rest[1:]
	default:
		return Assignment{}, false
	}
	rest = strings.TrimLeft(rest, " \t")

	if !isFunctionStart(rest) {
		return Assignment{}, false
	}

	return Assignment{
		Name:  name,
		Range: syntax.Range{Start: offset, End: offset + nameEnd},
		Line:  line,
		Col:   1,
	}, true
}

func isNameByte(b byte) bool {
	return b == '.' || b == '_' ||
		b >= '0' && b <= '9' ||
		b >= 'a' && b <= 'z' ||
		b >= 'A' && b <= 'Z'
}

// isFunctionStart matches the `function` keyword (not identifiers that
// merely begin with it) or a `\(...)` lambda.
func isFunctionStart(rest string) bool {
	if strings.HasPrefix(rest, `\`) {
		return true
	}
	if !strings.HasPrefix(rest, "function") {
		return false
	}
	tail := rest[len("function"):]
	return tail == "" || !isNameByte(tail[0])
}

// Duplicates runs the pre-pass over a set of file paths and returns, per
// path, the definitions that should be flagged in that file. Files are
// grouped by package root and visited in sorted path order; the first
// occurrence of each name is never flagged, every later one is, with a
// pointer back to the first definition.
func Duplicates(paths []string) map[string][]lint.Duplicate {
	type fileAssignments struct {
		path        string
		assignments []Assignment
	}

	packages := make(map[string][]fileAssignments)
	for _, path := range paths {
		if !isRFile(path) || !InPackage(path) {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		root := filepath.Dir(filepath.Dir(path))
		packages[root] = append(packages[root], fileAssignments{
			path:        path,
			assignments: ScanAssignments(string(content)),
		})
	}

	result := make(map[string][]lint.Duplicate)
	for _, files := range packages {
		sort.Slice(files, func(i, j int) bool { return files[i].path < files[j].path })

		type firstSeen struct {
			path string
			line int
			col  int
		}
		seen := make(map[string]firstSeen)

		for _, f := range files {
			for _, a := range f.assignments {
				first, dup := seen[a.Name]
				if !dup {
					seen[a.Name] = firstSeen{path: f.path, line: a.Line, col: a.Col}
					continue
				}
				result[f.path] = append(result[f.path], lint.Duplicate{
					Name:  a.Name,
					Range: a.Range,
					Help:  fmt.Sprintf("other definition at %s:%d:%d", first.path, first.line, first.col),
				})
			}
		}
	}
	return result
}

func isRFile(path string) bool {
	switch filepath.Ext(path) {
	case ".R", ".r":
		return true
	}
	return false
}
