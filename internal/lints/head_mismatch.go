package lints

import (
	"fmt"

	"beamlint/internal/ast"
	"beamlint/internal/diag"
)

// headMismatch reports clauses whose head disagrees with the first clause
// of the declaration, offering to rename to match.
func headMismatch(bag *diag.Bag, sema *Sema) {
	for _, entry := range sema.FormList().Forms {
		decl, ok := entry.Form.(*ast.FunDecl)
		if !ok || len(decl.Clauses) < 2 {
			continue
		}
		first := decl.Clauses[0]
		for _, clause := range decl.Clauses[1:] {
			if clause.Name.Text == first.Name.Text {
				continue
			}
			d := diag.Error(diag.HeadMismatch, clause.Name.Rng,
				fmt.Sprintf("head mismatch '%s' vs '%s'", clause.Name.Text, first.Name.Text)).
				WithFix("fix_head_mismatch", fmt.Sprintf("Rename clause head to '%s'", first.Name.Text), diag.TextEdit{
					Span:    clause.Name.Rng,
					NewText: first.Name.Text,
					OldText: clause.Name.Text,
				})
			bag.Add(d)
		}
	}
}
