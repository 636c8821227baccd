// Package diagfmt renders diagnostics for humans and machines.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"beamlint/internal/diag"
	"beamlint/internal/source"
)

// PrettyOpts controls the human-readable renderer.
type PrettyOpts struct {
	Color    bool
	TabWidth int
}

// visualWidthUpTo вычисляет визуальную ширину подстроки до указанной
// колонки (1-based, в байтах). Учитывает табуляции и ширину Unicode
// символов: восточноазиатские занимают две колонки.
func visualWidthUpTo(s string, byteCol uint32, tabWidth int) int {
	if byteCol <= 1 {
		return 0
	}
	bytePos := 0
	visualPos := 0
	for _, r := range s {
		if bytePos >= int(byteCol-1) {
			break
		}
		if r == '\t' {
			visualPos = (visualPos + tabWidth) / tabWidth * tabWidth
		} else {
			visualPos += runewidth.RuneWidth(r)
		}
		bytePos += len(string(r))
	}
	return visualPos
}

// Pretty renders one diagnostic with its source excerpt and underline:
// <path>:<line>:<col>: SEVERITY CODE: message
//	<line no> | <source line>
//	          | ^~~~~
func Pretty(w io.Writer, d *diag.Diagnostic, path string, li *source.LineIndex, content []byte, opts PrettyOpts) {
	var (
		errorColor     = color.New(color.FgRed, color.Bold)
		warningColor   = color.New(color.FgYellow, color.Bold)
		weakColor      = color.New(color.FgCyan, color.Bold)
		pathColor      = color.New(color.FgWhite, color.Bold)
		codeColor      = color.New(color.FgMagenta)
		lineNumColor   = color.New(color.FgBlue)
		underlineColor = color.New(color.FgRed, color.Bold)
	)

	prev := color.NoColor
	defer func() { color.NoColor = prev }()
	color.NoColor = !opts.Color

	tabWidth := opts.TabWidth
	if tabWidth <= 0 {
		tabWidth = 8
	}

	start := li.LineCol(d.Range.Start)
	end := li.LineCol(d.Range.End)

	var sevColored string
	switch d.Severity {
	case diag.SevError:
		sevColored = errorColor.Sprint(d.Severity.String())
	case diag.SevWarning:
		sevColored = warningColor.Sprint(d.Severity.String())
	default:
		sevColored = weakColor.Sprint(d.Severity.String())
	}

	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		pathColor.Sprint(path),
		start.Line, start.Col,
		sevColored,
		codeColor.Sprint(d.Code.AsCode()),
		d.Message,
	)

	lineText := li.LineText(content, start.Line)
	if lineText == "" {
		return
	}
	prefix := fmt.Sprintf("%5d | ", start.Line)
	fmt.Fprintf(w, "%s%s\n", lineNumColor.Sprint(prefix), strings.ReplaceAll(lineText, "\t", strings.Repeat(" ", tabWidth)))

	underStart := visualWidthUpTo(lineText, start.Col, tabWidth)
	underEnd := visualWidthUpTo(lineText, end.Col, tabWidth)
	if end.Line != start.Line || underEnd <= underStart {
		underEnd = underStart + 1
	}
	marker := "^" + strings.Repeat("~", underEnd-underStart-1)
	fmt.Fprintf(w, "%s%s%s\n",
		strings.Repeat(" ", len(prefix)),
		strings.Repeat(" ", underStart),
		underlineColor.Sprint(marker),
	)

	for _, rel := range d.Related {
		relStart := li.LineCol(rel.Range.Start)
		fmt.Fprintf(w, "  note: %s (%s:%d:%d)\n", rel.Msg, path, relStart.Line, relStart.Col)
	}
}
