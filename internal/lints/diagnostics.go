package lints

import (
	"fmt"
	"strings"

	"beamlint/internal/db"
	"beamlint/internal/diag"
	"beamlint/internal/source"
)

// maxSyntaxErrors caps parser-reported diagnostics per file.
const maxSyntaxErrors = 128

// maxDiagnostics bounds the per-file bag.
const maxDiagnostics = 4096

// Diagnostics runs the full per-file pipeline and returns the ordered
// final list. Результат — чистая функция от входов на текущей ревизии.
func Diagnostics(snap *db.Snapshot, cfg *Config, file source.FileID, includeGenerated bool) []diag.Diagnostic {
	if cfg == nil {
		cfg = NewConfig()
	}
	ext := snap.FileExt(file)
	if ext != "erl" && ext != "hrl" {
		return nil
	}

	bag := diag.NewBag(maxDiagnostics)
	sema := NewSema(snap, file)
	parse := snap.Parse(file)

	if ext == "erl" {
		missingModuleDefinition(bag, sema)
		if includeGenerated || !snap.IsGenerated(file) {
			unusedIncludes(bag, sema)
		}
		if isTestSuite(snap, file) {
			unreachableTest(bag, sema)
		}
	}

	formMissingSeparators(bag, sema)

	semanticDiagnostics(bag, sema, ext, cfg.DisableExperimental)
	syntaxNodeDiagnostics(bag, sema)

	for _, pass := range cfg.AdHoc {
		pass(bag, sema, file, ext)
	}

	count := 0
	for _, pe := range parse.Errors {
		if count >= maxSyntaxErrors {
			break
		}
		bag.Add(diag.Error(diag.SyntaxError, pe.Range, fmt.Sprintf("Syntax Error: %s", pe.Msg)))
		count++
	}

	li := snap.LineIndex(file)
	content, _ := snap.FileText(file)
	bag.Filter(func(d *diag.Diagnostic) bool {
		if cfg.IsDisabled(d.Code) {
			return false
		}
		if cfg.DisableExperimental && d.Experimental {
			return false
		}
		return !diag.ShouldBeIgnored(d, li, content)
	})

	// Каждая подавляемая диагностика несёт автосгенерированный ignore-фикс.
	bag.Transform(diag.WithIgnoreFix)

	bag.Sort()
	return bag.Slice()
}

// semanticDiagnostics runs the standard HIR passes.
func semanticDiagnostics(bag *diag.Bag, sema *Sema, ext string, disableExperimental bool) {
	if !disableExperimental {
		unusedFunctionArgs(bag, sema)
		redundantAssignment(bag, sema)
		trivialMatch(bag, sema)
	}
	unusedMacro(bag, sema, ext)
	unusedRecordField(bag, sema, ext)
	mutableVariable(bag, sema)
	effectFreeStatement(bag, sema)
	applicationEnv(bag, sema)
	missingCompileWarnMissingSpec(bag, sema)
	crossNodeEval(bag, sema)
}

// syntaxNodeDiagnostics runs passes driven by the syntax tree rather
// than lowered bodies.
func syntaxNodeDiagnostics(bag *diag.Bag, sema *Sema) {
	misspelledAttribute(bag, sema)
	headMismatch(bag, sema)
	moduleMismatch(bag, sema)
}

// FilterByCode keeps only diagnostics with the given canonical code.
func FilterByCode(diags []diag.Diagnostic, code diag.Code) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if d.Code.SameCode(code) {
			out = append(out, d)
		}
	}
	return out
}

func isTestSuite(snap *db.Snapshot, file source.FileID) bool {
	p := snap.FilePath(file)
	base := p
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	return strings.HasSuffix(strings.TrimSuffix(base, ".erl"), "_SUITE")
}
