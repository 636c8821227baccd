package diagfmt

import (
	"encoding/json"
	"io"

	"beamlint/internal/diag"
	"beamlint/internal/source"
)

// DiagnosticJSON представляет диагностику в JSON формате.
type DiagnosticJSON struct {
	Path     string `json:"path"`
	Line     uint32 `json:"line"`
	Char     uint32 `json:"char"`
	EndLine  uint32 `json:"end_line"`
	EndChar  uint32 `json:"end_char"`
	Code     string `json:"code"`
	Label    string `json:"label"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	FixCount int    `json:"fix_count,omitempty"`
}

// ToJSON converts a diagnostic to its JSON shape.
func ToJSON(d *diag.Diagnostic, path string, li *source.LineIndex) DiagnosticJSON {
	start := li.LineCol(d.Range.Start)
	end := li.LineCol(d.Range.End)
	return DiagnosticJSON{
		Path:     path,
		Line:     start.Line,
		Char:     start.Col,
		EndLine:  end.Line,
		EndChar:  end.Col,
		Code:     d.Code.AsCode(),
		Label:    d.Code.AsLabel(),
		Severity: d.Severity.String(),
		Message:  d.Message,
		FixCount: len(d.Fixes),
	}
}

// WriteJSONLine emits one diagnostic as a single JSON line.
func WriteJSONLine(w io.Writer, d *diag.Diagnostic, path string, li *source.LineIndex) error {
	payload, err := json.Marshal(ToJSON(d, path, li))
	if err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return err
	}
	_, err = w.Write([]byte("\n"))
	return err
}
