// Package fix applies the text edits carried by diagnostics.
package fix

import (
	"errors"
	"fmt"
	"sort"

	"beamlint/internal/diag"
)

// ErrNoFixes is returned when a diagnostic carries no applicable fix.
var ErrNoFixes = errors.New("fix: no applicable fixes found")

// ErrOverlap is returned when a fix's edits intersect each other.
var ErrOverlap = errors.New("fix: overlapping edits")

// ValidateEdits checks the TextEdit invariant: непересекающиеся и
// отсортированные по позиции удаления.
func ValidateEdits(edits []diag.TextEdit) error {
	for i := 1; i < len(edits); i++ {
		prev, cur := edits[i-1], edits[i]
		if cur.Span.Start < prev.Span.Start {
			return fmt.Errorf("%w: edits out of order at %s", ErrOverlap, cur.Span)
		}
		if cur.Span.Start < prev.Span.End {
			return fmt.Errorf("%w: %s intersects %s", ErrOverlap, prev.Span, cur.Span)
		}
	}
	return nil
}

// ApplyEdits applies edits to content and returns the new content.
// Правки применяются с конца, чтобы не пересчитывать смещения.
func ApplyEdits(content []byte, edits []diag.TextEdit) ([]byte, error) {
	if len(edits) == 0 {
		return content, nil
	}
	sorted := make([]diag.TextEdit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Span.Start < sorted[j].Span.Start
	})
	if err := ValidateEdits(sorted); err != nil {
		return nil, err
	}

	out := make([]byte, len(content))
	copy(out, content)
	for i := len(sorted) - 1; i >= 0; i-- {
		e := sorted[i]
		if int(e.Span.End) > len(out) || e.Span.Start > e.Span.End {
			return nil, fmt.Errorf("fix: edit %s out of bounds (len %d)", e.Span, len(out))
		}
		if e.OldText != "" {
			actual := string(out[e.Span.Start:e.Span.End])
			if actual != e.OldText {
				return nil, fmt.Errorf("fix: guard mismatch at %s: expected %q, found %q", e.Span, e.OldText, actual)
			}
		}
		var next []byte
		next = append(next, out[:e.Span.Start]...)
		next = append(next, e.NewText...)
		next = append(next, out[e.Span.End:]...)
		out = next
	}
	return out, nil
}

// ApplyFix applies one fix to content.
func ApplyFix(content []byte, f diag.Fix) ([]byte, error) {
	if len(f.Edits) == 0 {
		return nil, ErrNoFixes
	}
	return ApplyEdits(content, f.Edits)
}

// FirstFix returns the first fix of a diagnostic: первый и выигрывает,
// чтобы избежать конфликтующих правок за один проход.
func FirstFix(d *diag.Diagnostic) (diag.Fix, bool) {
	if len(d.Fixes) == 0 {
		return diag.Fix{}, false
	}
	return d.Fixes[0], true
}
