package codemod

import (
	"fmt"
	"path/filepath"

	"beamlint/internal/db"
	"beamlint/internal/diag"
	"beamlint/internal/diagfmt"
)

// report prints the filtered diagnostics on the selected channel and
// records whether any error-severity diagnostic remained.
func (d *Driver) report(snap *db.Snapshot, filtered []FileDiags, result *Result) {
	if d.opts.FormatJSON {
		for _, fd := range filtered {
			li := snap.LineIndex(fd.File)
			rel := d.relativePath(snap.FilePath(fd.File))
			for i := range fd.Diags {
				dg := &fd.Diags[i]
				if dg.Severity >= diag.SevError {
					result.ErrorsFound = true
				}
				if d.opts.PrintDiags {
					_ = diagfmt.WriteJSONLine(d.out, dg, rel, li)
				}
			}
		}
		return
	}

	fmt.Fprintf(d.out, "Diagnostics reported in %d modules:\n", len(filtered))
	for _, fd := range filtered {
		fmt.Fprintf(d.out, "  %s: %d\n", fd.Name, len(fd.Diags))
		li := snap.LineIndex(fd.File)
		content, _ := snap.FileText(fd.File)
		rel := d.relativePath(snap.FilePath(fd.File))
		for i := range fd.Diags {
			dg := &fd.Diags[i]
			if dg.Severity >= diag.SevError {
				result.ErrorsFound = true
			}
			if !d.opts.PrintDiags {
				continue
			}
			if d.opts.Pretty {
				diagfmt.Pretty(d.out, dg, rel, li, content, diagfmt.PrettyOpts{Color: d.opts.Color})
			} else {
				fmt.Fprintf(d.out, "      %s\n", diag.Print(dg, li))
			}
		}
	}
}

// relativePath shortens absolute paths for output when possible.
func (d *Driver) relativePath(path string) string {
	wd, err := filepath.Abs(".")
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil {
		return path
	}
	return rel
}
