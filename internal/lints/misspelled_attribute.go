package lints

import (
	"fmt"

	"beamlint/internal/ast"
	"beamlint/internal/diag"
)

// knownAttributes are the wild attributes worth offering corrections for.
var knownAttributes = []string{
	"behaviour",
	"behavior",
	"callback",
	"deprecated",
	"dialyzer",
	"export",
	"export_type",
	"feature",
	"import",
	"include",
	"include_lib",
	"module",
	"on_load",
	"optional_callbacks",
	"record",
	"spec",
	"type",
	"vsn",
}

// misspelledAttribute reports wild attributes within edit distance of a
// known one.
func misspelledAttribute(bag *diag.Bag, sema *Sema) {
	for _, entry := range sema.FormList().Forms {
		attr, ok := entry.Form.(*ast.WildAttr)
		if !ok {
			continue
		}
		got := attr.Name.Text
		best := ""
		bestDist := 3 // порог: исправляем не дальше двух правок
		for _, want := range knownAttributes {
			if want == got {
				best = ""
				break
			}
			if d := editDistance(got, want); d < bestDist {
				best = want
				bestDist = d
			}
		}
		if best == "" {
			continue
		}
		d := diag.Warning(diag.MisspelledAttribute, attr.Name.Rng,
			fmt.Sprintf("misspelled attribute, saw '%s' but expected '%s'", got, best)).
			WithFix("fix_misspelled_attribute", fmt.Sprintf("Change misspelled attribute to -%s", best), diag.TextEdit{
				Span:    attr.Name.Rng,
				NewText: best,
				OldText: got,
			})
		bag.Add(d)
	}
}

// editDistance is plain Levenshtein over bytes; имена атрибутов — ASCII.
func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
