// Package output renders diagnostics for the terminal. Byte offsets are
// converted to 1-based line:column positions against the file content.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jarl-lint/jarl/pkg/diagnostic"
)

// Position is a 1-based line and column.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Locate converts a byte offset into a position. Offsets past the end of
// the content land just after the last byte.
func Locate(content []byte, offset int) Position {
	if offset > len(content) {
		offset = len(content)
	}
	line, col := 1, 1
	for _, b := range content[:offset] {
		if b == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return Position{Line: line, Column: col}
}

// FileDiagnostics pairs one file's diagnostics with the content needed to
// compute positions.
type FileDiagnostics struct {
	Path        string
	Content     []byte
	Diagnostics []diagnostic.Diagnostic
}

// Emitter renders diagnostics to a writer.
type Emitter struct {
	// Color enables ANSI colors in the text format.
	Color bool
}

// EmitText writes one line per diagnostic: path [line:col] rule message help.
func (e Emitter) EmitText(w io.Writer, files []FileDiagnostics) error {
	for _, file := range files {
		for _, d := range file.Diagnostics {
			pos := Locate(file.Content, d.Range.Start)
			line := fmt.Sprintf("%s [%d:%d] %s %s",
				e.paint(file.Path, "37"), pos.Line, pos.Column,
				e.paint(d.Rule, "31"), d.Message)
			if d.Help != "" {
				line += " " + d.Help
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

// jsonFinding is the JSON shape of one diagnostic.
type jsonFinding struct {
	File    string   `json:"file"`
	Rule    string   `json:"rule"`
	Message string   `json:"message"`
	Help    string   `json:"help,omitempty"`
	Start   Position `json:"start"`
	End     Position `json:"end"`
	Fixable bool     `json:"fixable"`
}

// EmitJSON writes all diagnostics as a single JSON array.
func (e Emitter) EmitJSON(w io.Writer, files []FileDiagnostics) error {
	findings := make([]jsonFinding, 0)
	for _, file := range files {
		for _, d := range file.Diagnostics {
			findings = append(findings, jsonFinding{
				File:    file.Path,
				Rule:    d.Rule,
				Message: d.Message,
				Help:    d.Help,
				Start:   Locate(file.Content, d.Range.Start),
				End:     Locate(file.Content, d.Range.End),
				Fixable: !d.Fix.Empty() && !d.Fix.SkipDueToComments,
			})
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(findings)
}

// EmitSummary writes the closing count lines.
func (e Emitter) EmitSummary(w io.Writer, total, fixable int) error {
	if total == 0 {
		_, err := fmt.Fprintln(w, "All checks passed!")
		return err
	}

	noun := "errors"
	if total == 1 {
		noun = "error"
	}
	if _, err := fmt.Fprintf(w, "Found %d %s.\n", total, noun); err != nil {
		return err
	}
	if fixable > 0 {
		if _, err := fmt.Fprintf(w, "%d fixable with the `--fix` option.\n", fixable); err != nil {
			return err
		}
	}
	return nil
}

func (e Emitter) paint(s, code string) string {
	if !e.Color {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}
