package codemod

import (
	"github.com/pmezard/go-difflib/difflib"

	"beamlint/internal/db"
	"beamlint/internal/source"
)

// ChangeRange bounds a changed region in source lines, inclusive.
type ChangeRange struct {
	From uint32
	To   uint32
}

// Contains reports whether the 1-based line falls inside the range.
func (r ChangeRange) Contains(line uint32) bool {
	return line >= r.From && line <= r.To
}

// InAnyChangeRange reports whether the line passes the change-range
// constraint. Отсутствие ограничений означает «пропустить всё».
func InAnyChangeRange(changes []ChangeRange, line uint32) bool {
	if len(changes) == 0 {
		return true
	}
	for _, c := range changes {
		if c.Contains(line) {
			return true
		}
	}
	return false
}

// UnifiedDiff renders a unified diff between two contents.
func UnifiedDiff(path string, original, updated []byte) string {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(updated)),
		FromFile: path,
		ToFile:   path,
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return text
}

// changedLines returns the 1-based line numbers of the updated content
// that differ from the original.
func changedLines(original, updated []byte) []uint32 {
	a := difflib.SplitLines(string(original))
	b := difflib.SplitLines(string(updated))
	matcher := difflib.NewMatcher(a, b)

	var out []uint32
	for _, op := range matcher.GetOpCodes() {
		if op.Tag == 'e' {
			continue
		}
		// Диапазон J1..J2 в новой версии; для чистых удалений он пуст —
		// берём строку на месте удаления.
		from, to := op.J1, op.J2
		if from == to {
			to = from + 1
		}
		for line := from; line < to; line++ {
			out = append(out, uint32(line)+1)
		}
	}
	return out
}

// FormChangeRanges expands each diff hunk to the line range of its
// enclosing top-level form at the snapshot's current revision.
func FormChangeRanges(snap *db.Snapshot, file source.FileID, original, updated []byte) []ChangeRange {
	li := source.NewLineIndex(updated)
	var out []ChangeRange
	seen := make(map[ChangeRange]bool)

	for _, line := range changedLines(original, updated) {
		start, ok := li.LineStart(line)
		if !ok {
			continue
		}
		span, ok := snap.EnclosingFormRange(file, start)
		var cr ChangeRange
		if ok {
			cr = ChangeRange{
				From: li.LineCol(span.Start).Line,
				To:   li.LineCol(span.End).Line,
			}
		} else {
			cr = ChangeRange{From: line, To: line}
		}
		if !seen[cr] {
			seen[cr] = true
			out = append(out, cr)
		}
	}
	return out
}
