package diag

import (
	"fmt"
	"strings"

	"beamlint/internal/source"
)

// ignoreMarker opens an inline suppression comment.
const ignoreMarker = "% elp:ignore"

// ShouldBeIgnored reports whether the diagnostic is suppressed by a
// comment on the line immediately above its range start.
func ShouldBeIgnored(d *Diagnostic, li *source.LineIndex, content []byte) bool {
	line := li.LineCol(d.Range.Start).Line
	if line <= 1 {
		return false
	}
	comment := lineCommentText(li.LineText(content, line-1))
	if comment == "" {
		return false
	}
	return commentContainsIgnoreCode(comment, d.Code)
}

// lineCommentText extracts the comment portion of a line, if any.
func lineCommentText(line string) string {
	idx := strings.Index(line, "%")
	if idx < 0 {
		return ""
	}
	return line[idx:]
}

// commentContainsIgnoreCode checks the suppression marker followed by the
// code or the label, в любом месте списка через пробелы.
func commentContainsIgnoreCode(comment string, code Code) bool {
	start := strings.Index(comment, ignoreMarker)
	if start < 0 {
		return false
	}
	rest := comment[start+len(ignoreMarker):]
	for _, word := range strings.Fields(rest) {
		word = strings.Trim(word, "(),")
		parsed, ok := FromString(word)
		if !ok {
			continue
		}
		if parsed.SameCode(code) {
			return true
		}
	}
	return false
}

// SupportsIgnore reports whether a code admits comment suppression.
// Синтаксические ошибки подавлять нельзя.
func SupportsIgnore(code Code) bool {
	return !code.SameCode(SyntaxError)
}

// WithIgnoreFix appends the auto-generated "ignore" fix inserting a
// suppression comment above the diagnostic's range.
func WithIgnoreFix(d Diagnostic) Diagnostic {
	if !SupportsIgnore(d.Code) {
		return d
	}
	text := fmt.Sprintf("%s %s (%s)\n", ignoreMarker, d.Code.AsCode(), d.Code.AsLabel())
	d.Fixes = append(d.Fixes, Fix{
		ID:    "ignore_problem",
		Title: "Ignore problem",
		Kind:  FixKindQuickFix,
		Edits: []TextEdit{{
			Span:    d.Range.ZeroideToStart(),
			NewText: text,
		}},
	})
	return d
}
