// Package lints hosts the diagnostic pipeline: синтаксические проверки
// форм, семантические проходы по HIR и пользовательские ad-hoc линты.
package lints

import (
	"beamlint/internal/db"
	"beamlint/internal/diag"
	"beamlint/internal/hir"
	"beamlint/internal/source"
)

// Sema bundles the snapshot-level context every pass works against.
type Sema struct {
	Snap *db.Snapshot
	File source.FileID
}

// NewSema creates the semantic facade for one file.
func NewSema(snap *db.Snapshot, file source.FileID) *Sema {
	return &Sema{Snap: snap, File: file}
}

// DefMap returns the definition map of the file.
func (s *Sema) DefMap() *hir.DefMap { return s.Snap.DefMap(s.File) }

// FormList returns the form list of the file.
func (s *Sema) FormList() *hir.FormList { return s.Snap.FormList(s.File) }

// Body returns the lowered body of one form.
func (s *Sema) Body(form hir.FormID) *hir.Body { return s.Snap.Body(s.File, form) }

// EachFunctionBody visits every function definition with its lowered body,
// in source order.
func (s *Sema) EachFunctionBody(fn func(*hir.FunctionDef, *hir.Body)) {
	s.DefMap().EachFunction(func(_ source.NameID, def *hir.FunctionDef) {
		fn(def, s.Body(def.Form))
	})
}

// Text returns the source text under a span.
func (s *Sema) Text(span source.Span) string {
	content, ok := s.Snap.FileText(s.File)
	if !ok {
		return ""
	}
	if span.Start > span.End || int(span.End) > len(content) {
		return ""
	}
	return string(content[span.Start:span.End])
}

// AtomText resolves an interned atom back to its spelling.
func (s *Sema) AtomText(id source.AtomID) string {
	return s.Snap.Atoms().MustLookup(id)
}

// VarOccurrences collects, per variable name, its pattern-position
// definitions and expression-position usages over one function body.
type VarOccurrences struct {
	Defs map[source.AtomID][]hir.PatID
	Uses map[source.AtomID][]hir.ExprID
}

// CollectVars performs the occurrence analysis for a function body.
// Позиция в образце считается определением, в выражении — использованием.
func CollectVars(body *hir.Body) *VarOccurrences {
	occ := &VarOccurrences{
		Defs: make(map[source.AtomID][]hir.PatID),
		Uses: make(map[source.AtomID][]hir.ExprID),
	}
	hir.FoldFunction(body, hir.TopDown, struct{}{},
		func(acc struct{}, ctx hir.ExprCtx) struct{} {
			if v, ok := ctx.Expr.Data.(hir.VarData); ok {
				occ.Uses[v.Name] = append(occ.Uses[v.Name], ctx.ID)
			}
			return acc
		},
		func(acc struct{}, ctx hir.PatCtx) struct{} {
			if v, ok := ctx.Pat.Data.(hir.PatVarData); ok {
				occ.Defs[v.Name] = append(occ.Defs[v.Name], ctx.ID)
			}
			return acc
		})
	return occ
}

// CollectClauseVars performs the occurrence analysis for one clause.
// Переменные в эрланге клаузо-локальны, поэтому большинство проходов
// анализирует клаузы независимо.
func CollectClauseVars(body *hir.Body, clauseID hir.ClauseID) *VarOccurrences {
	occ := &VarOccurrences{
		Defs: make(map[source.AtomID][]hir.PatID),
		Uses: make(map[source.AtomID][]hir.ExprID),
	}
	hir.FoldClause(body, hir.TopDown, clauseID, struct{}{},
		func(acc struct{}, ctx hir.ExprCtx) struct{} {
			if v, ok := ctx.Expr.Data.(hir.VarData); ok {
				occ.Uses[v.Name] = append(occ.Uses[v.Name], ctx.ID)
			}
			return acc
		},
		func(acc struct{}, ctx hir.PatCtx) struct{} {
			if v, ok := ctx.Pat.Data.(hir.PatVarData); ok {
				occ.Defs[v.Name] = append(occ.Defs[v.Name], ctx.ID)
			}
			return acc
		})
	return occ
}

// AdHocPass is a user-provided semantic pass. Passes must be pure and
// idempotent; они запускаются в порядке регистрации.
type AdHocPass func(bag *diag.Bag, sema *Sema, file source.FileID, ext string)
