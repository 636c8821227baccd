package codemod

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"beamlint/internal/db"
	"beamlint/internal/diag"
	"beamlint/internal/extserv"
	"beamlint/internal/fix"
	"beamlint/internal/lints"
	"beamlint/internal/observ"
	"beamlint/internal/source"
	"beamlint/internal/vfs"
)

// recursionLimit bounds fix application iterations; исчерпание — ошибка.
const recursionLimit = 10

// ErrRecursionLimit reports a diverging fix loop.
var ErrRecursionLimit = fmt.Errorf("hit recursion limit (%d) while applying fixes", recursionLimit)

// Driver runs the lint/codemod pipeline: диагностика, фильтры, фиксы до
// неподвижной точки, запись результатов.
type Driver struct {
	database *db.Database
	files    *vfs.VFS
	cfg      *lints.Config
	opts     Options
	out      io.Writer
	external *extserv.Client

	// changedFiles accumulates every file touched across iterations.
	changedFiles map[source.FileID]string
}

// SetExternal attaches the sidecar analyzer; nil отключает её.
func (d *Driver) SetExternal(client *extserv.Client) {
	d.external = client
}

// NewDriver wires the driver to its database, VFS, and output channel.
func NewDriver(database *db.Database, files *vfs.VFS, cfg *lints.Config, opts Options, out io.Writer) *Driver {
	if cfg == nil {
		cfg = lints.NewConfig()
	}
	return &Driver{
		database:     database,
		files:        files,
		cfg:          cfg,
		opts:         opts,
		out:          out,
		changedFiles: make(map[source.FileID]string),
	}
}

// Result summarises one run.
type Result struct {
	// Reported holds the filtered diagnostics per module.
	Reported []FileDiags
	// ErrorsFound is set when any reported diagnostic has Error severity.
	ErrorsFound bool
	// Written lists the files produced by fix application.
	Written []string
}

// Run executes the driver once: собрать диагностики, отфильтровать,
// напечатать и (если попросили) применить фиксы.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	timer := observ.NewTimer()
	defer func() {
		if d.opts.Timings && d.opts.FormatNormal() {
			fmt.Fprint(d.out, timer.Summary())
		}
	}()

	phase := timer.Begin("diagnose")
	initial, err := d.collectInitial(ctx)
	timer.End(phase, "")
	if err != nil {
		return nil, err
	}

	snap := d.database.Snapshot()
	filtered := d.filterDiagnostics(snap, initial, true)

	result := &Result{Reported: filtered}
	if len(filtered) == 0 {
		if d.opts.FormatNormal() {
			fmt.Fprintln(d.out, "No diagnostics reported")
		}
		return result, nil
	}

	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Name < filtered[j].Name })
	d.report(snap, filtered, result)

	if d.opts.ApplyFix {
		phase = timer.Begin("apply-fixes")
		written, err := d.applyRelevantFixes(ctx, filtered)
		timer.End(phase, "")
		result.Written = written
		if err != nil {
			return result, err
		}
	}
	return result, nil
}

// collectInitial diagnoses the selected scope: один модуль, один файл
// или весь проект.
func (d *Driver) collectInitial(ctx context.Context) ([]FileDiags, error) {
	snap := d.database.Snapshot()

	switch {
	case d.opts.Module != "":
		if d.opts.FormatNormal() {
			fmt.Fprintf(d.out, "module specified: %s\n", d.opts.Module)
		}
		index := snap.ModuleIndex()
		file, ok := index[d.opts.Module]
		if !ok {
			return nil, fmt.Errorf("codemod: module not found: %s", d.opts.Module)
		}
		fd, err := d.parseOne(snap, file, d.opts.Module, nil)
		if err != nil {
			return nil, err
		}
		if fd == nil {
			return nil, nil
		}
		return []FileDiags{*fd}, nil

	case d.opts.File != "":
		if d.opts.FormatNormal() {
			fmt.Fprintf(d.out, "file specified: %s\n", d.opts.File)
		}
		abs, err := source.AbsolutePath(d.opts.File)
		if err != nil {
			return nil, err
		}
		file, ok := snap.FileForPath(abs)
		if !ok {
			return nil, fmt.Errorf("codemod: file not in project: %s", d.opts.File)
		}
		name, _ := snap.ModuleName(file)
		fd, err := d.parseOne(snap, file, name, nil)
		if err != nil {
			return nil, err
		}
		if fd == nil {
			return nil, nil
		}
		return []FileDiags{*fd}, nil

	default:
		return d.parseAll(ctx)
	}
}

// filterDiagnostics keeps diagnostics satisfying every supplied
// constraint: модуль, код, диапазон строк и change ranges предыдущей
// итерации. На повторных итерациях ограничения по модулю и строкам
// теряют смысл (строки сдвинулись), остаются код и change ranges.
func (d *Driver) filterDiagnostics(snap *db.Snapshot, all []FileDiags, initial bool) []FileDiags {
	var out []FileDiags
	for _, fd := range all {
		if initial && d.opts.Module != "" && fd.Name != d.opts.Module {
			continue
		}
		li := snap.LineIndex(fd.File)
		var kept []diag.Diagnostic
		for _, dg := range fd.Diags {
			line := li.LineCol(dg.Range.Start).Line
			if d.opts.HasFilter && !dg.Code.SameCode(d.opts.Filter) {
				continue
			}
			if initial && d.opts.LineFrom != nil && line < *d.opts.LineFrom {
				continue
			}
			if initial && d.opts.LineTo != nil && line > *d.opts.LineTo {
				continue
			}
			if !InAnyChangeRange(fd.Changes, line) {
				continue
			}
			kept = append(kept, dg)
		}
		if len(kept) > 0 {
			out = append(out, FileDiags{Name: fd.Name, File: fd.File, Diags: kept, Changes: fd.Changes})
		}
	}
	return out
}

// applyRelevantFixes iterates fix application until convergence or the
// recursion bound.
func (d *Driver) applyRelevantFixes(ctx context.Context, diags []FileDiags) ([]string, error) {
	iterations := 0
	current := diags

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		changes, err := d.applyDiagnosticsFixes(current)
		if err != nil {
			return nil, err
		}
		if len(changes) == 0 {
			break
		}
		if iterations == recursionLimit {
			// Одиннадцатая продуктивная итерация — жёсткая ошибка.
			return nil, ErrRecursionLimit
		}
		iterations++

		// Перечитать и перепроверить затронутые файлы, ограничив
		// следующую итерацию новыми change ranges.
		var next []FileDiags
		for _, ch := range changes {
			d.changedFiles[ch.file] = ch.name

			d.files.SetFileContents(d.files.FilePath(ch.file), []byte(ch.content))
			d.database.ApplyChange(db.Change{
				FilesChanged: map[source.FileID][]byte{ch.file: []byte(ch.content)},
			})

			snap := d.database.Snapshot()
			fd, err := d.parseOne(snap, ch.file, ch.name, ch.changes)
			if err != nil {
				return nil, err
			}
			if fd != nil {
				next = append(next, *fd)
			}
		}
		// Фильтр кода сохраняется между итерациями: рекурсивный проход
		// не должен подхватывать чужие диагностики в изменённой области.
		snap := d.database.Snapshot()
		current = d.filterDiagnostics(snap, next, false)

		if !d.opts.Recursive {
			break
		}
	}

	return d.writeFixResults()
}

// fixResult is one file rewritten during an iteration.
type fixResult struct {
	file    source.FileID
	name    string
	content string
	changes []ChangeRange
	diff    string
}

// applyDiagnosticsFixes применяет не больше одного фикса на файл за
// итерацию — всегда первый — чтобы избежать конфликтующих правок.
func (d *Driver) applyDiagnosticsFixes(diags []FileDiags) ([]fixResult, error) {
	var out []fixResult
	for _, fd := range diags {
		if len(fd.Diags) == 0 {
			continue
		}
		target := fd.Diags[0]
		chosen, ok := fix.FirstFix(&target)
		if !ok {
			return nil, fmt.Errorf("codemod: no fixes in diagnostic [%s] %s", target.Code, target.Message)
		}

		snap := d.database.Snapshot()
		original, okText := snap.FileText(fd.File)
		if !okText {
			return nil, fmt.Errorf("codemod: file text unavailable for %s", fd.Name)
		}
		updated, err := fix.ApplyFix(original, chosen)
		if err != nil {
			if errors.Is(err, fix.ErrOverlap) {
				// Невалидный фикс пропускаем с пометкой в лог.
				fmt.Fprintf(d.out, "skipping invalid fix %q: %v\n", chosen.Title, err)
				continue
			}
			return nil, err
		}

		diff := UnifiedDiff(snap.FilePath(fd.File), original, updated)
		changes := FormChangeRanges(snap, fd.File, original, updated)

		if d.opts.FormatNormal() {
			fmt.Fprintln(d.out, "---------------------------------------------")
			fmt.Fprintf(d.out, "Applying fix in module '%s' for\n", fd.Name)
			fmt.Fprintf(d.out, "      %s\n", diag.Print(&target, snap.LineIndex(fd.File)))
			if diff != "" {
				fmt.Fprintln(d.out, diff)
			}
		}

		out = append(out, fixResult{
			file:    fd.File,
			name:    fd.Name,
			content: string(updated),
			changes: changes,
			diff:    diff,
		})
	}
	return out, nil
}

// writeFixResults flushes the final contents of every touched file,
// either in place or into the output directory.
func (d *Driver) writeFixResults() ([]string, error) {
	var written []string
	for file, name := range d.changedFiles {
		content, ok := d.files.FileContents(file)
		if !ok {
			continue
		}
		var target string
		switch {
		case d.opts.InPlace:
			target = d.files.FilePath(file)
		case d.opts.To != "":
			target = filepath.Join(d.opts.To, name+".erl")
		default:
			continue
		}
		if err := os.WriteFile(target, content, 0o644); err != nil {
			return written, fmt.Errorf("codemod: write %s: %w", target, err)
		}
		written = append(written, target)
	}
	sort.Strings(written)
	return written, nil
}
