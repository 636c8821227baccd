package extserv

import (
	"beamlint/internal/ast"
	"beamlint/internal/db"
	"beamlint/internal/diag"
	"beamlint/internal/hir"
	"beamlint/internal/source"
)

// narrowToName lists external codes whose report covers a whole
// definition and must be narrowed to the defining name's range.
var narrowToName = map[string]string{
	"L1230": "function",
	"L1309": "function",
	"L1260": "record",
}

// Diagnostics converts a sidecar response into per-file diagnostics.
// Сообщения, уже реализованные внутренними проходами, отбрасываются;
// ошибки из включённых файлов перенаправляются в сам include.
func Diagnostics(snap *db.Snapshot, file source.FileID, resp Response) map[source.FileID][]diag.Diagnostic {
	out := make(map[source.FileID][]diag.Diagnostic)

	add := func(pe ParseError, sev diag.Severity) {
		if implementedInternally(pe.Msg) {
			return
		}
		target, span, ok := resolveLocation(snap, file, pe)
		if !ok {
			return
		}
		d := diag.New(diag.ErlangService(pe.Code), span, pe.Msg).WithSeverity(sev)
		out[target] = append(out[target], d)
	}

	for _, pe := range resp.Errors {
		add(pe, diag.SevError)
	}
	for _, pe := range resp.Warnings {
		add(pe, diag.SevWarning)
	}

	if len(out) == 0 {
		// Пустой список против исходного файла очищает его диагностики.
		out[file] = nil
	}
	return out
}

// implementedInternally drops sidecar messages that duplicate internal
// passes.
func implementedInternally(msg string) bool {
	switch msg {
	case "head mismatch", "no module definition":
		return true
	default:
		return false
	}
}

func resolveLocation(snap *db.Snapshot, file source.FileID, pe ParseError) (source.FileID, source.Span, bool) {
	loc := pe.Location
	switch {
	case loc == nil:
		// Позиция неизвестна: нулевая ширина в нуле.
		return file, source.Span{File: file}, true

	case loc.Included != nil:
		directive := source.Span{
			File:  file,
			Start: loc.Included.DirectiveLocation.Start,
			End:   loc.Included.DirectiveLocation.End,
		}
		included, ok := includedFileAt(snap, file, directive)
		if !ok {
			return 0, source.Span{}, false
		}
		return included, source.Span{
			File:  included,
			Start: loc.Included.ErrorLocation.Start,
			End:   loc.Included.ErrorLocation.End,
		}, true

	case loc.Range != nil:
		span := source.Span{File: file, Start: loc.Range.Start, End: loc.Range.End}
		if kind, ok := narrowToName[pe.Code]; ok {
			if name, ok := definingNameRange(snap, file, span.Start, kind); ok {
				span = name
			}
		}
		return file, span, true

	case loc.Start != nil:
		li := snap.LineIndex(file)
		off, ok := li.LineStart(loc.Start.Line)
		if !ok {
			return file, source.Span{File: file}, true
		}
		off += loc.Start.Column
		return file, source.Span{File: file, Start: off, End: off}, true

	default:
		return file, source.Span{File: file}, true
	}
}

// includedFileAt finds the include attribute containing the directive
// location and resolves it.
func includedFileAt(snap *db.Snapshot, file source.FileID, directive source.Span) (source.FileID, bool) {
	fl := snap.FormList(file)
	var result source.FileID
	found := false
	fl.Includes(func(_ hir.FormID, inc *ast.IncludeAttr) {
		if found {
			return
		}
		if inc.Rng.Contains(directive.Start) || inc.Rng.Start == directive.Start {
			if id, ok := snap.ResolveInclude(file, inc); ok {
				result = id
				found = true
			}
		}
	})
	return result, found
}

// definingNameRange narrows a definition-wide range to the name token of
// the enclosing function or record declaration.
func definingNameRange(snap *db.Snapshot, file source.FileID, off uint32, kind string) (source.Span, bool) {
	fl := snap.FormList(file)
	form, formID := fl.EnclosingForm(off)
	if !formID.IsValid() {
		return source.Span{}, false
	}
	switch kind {
	case "function":
		if decl, ok := form.(*ast.FunDecl); ok && len(decl.Clauses) > 0 {
			return decl.Clauses[0].Name.Rng, true
		}
	case "record":
		if decl, ok := form.(*ast.RecordDecl); ok {
			return decl.Name.Rng, true
		}
	}
	return source.Span{}, false
}
