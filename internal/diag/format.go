package diag

import (
	"fmt"

	"beamlint/internal/source"
)

// Print renders one diagnostic in the compact lint-listing shape:
// <line>:<col>-<line>:<col>::[SEVERITY] [CODE] message
func Print(d *Diagnostic, li *source.LineIndex) string {
	start := li.LineCol(d.Range.Start)
	end := li.LineCol(d.Range.End)
	return fmt.Sprintf(
		"%d:%d-%d:%d::[%s] [%s] %s",
		start.Line, start.Col,
		end.Line, end.Col,
		d.Severity, d.Code.AsCode(), d.Message,
	)
}
