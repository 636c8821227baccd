package codemod

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"beamlint/internal/db"
	"beamlint/internal/diag"
	"beamlint/internal/extserv"
	"beamlint/internal/lints"
	"beamlint/internal/source"
)

// FileDiags couples a module with its current diagnostics and the change
// ranges that constrain the next iteration.
type FileDiags struct {
	Name    string
	File    source.FileID
	Diags   []diag.Diagnostic
	Changes []ChangeRange
}

// parseAll diagnoses every module of the project in parallel. Каждый
// воркер берёт собственный снимок базы; результаты сливаются в конце.
func (d *Driver) parseAll(ctx context.Context) ([]FileDiags, error) {
	snap := d.database.Snapshot()
	index := snap.ModuleIndex()

	type moduleEntry struct {
		name string
		file source.FileID
	}
	modules := make([]moduleEntry, 0, len(index))
	for name, file := range index {
		modules = append(modules, moduleEntry{name: name, file: file})
	}
	sort.Slice(modules, func(i, j int) bool { return modules[i].name < modules[j].name })

	ignored := make(map[string]bool, len(d.opts.IgnoreApps))
	for _, app := range d.opts.IgnoreApps {
		ignored[app] = true
	}

	jobs := d.opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	var bar *progressbar.ProgressBar
	if d.opts.WithProgress && d.opts.FormatNormal() {
		bar = progressbar.Default(int64(len(modules)), "Parsing modules (parallel)")
	}

	results := make([]*FileDiags, len(modules))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, max(len(modules), 1)))
	for i, m := range modules {
		i, m := i, m
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			defer func() {
				if bar != nil {
					mu.Lock()
					_ = bar.Add(1)
					mu.Unlock()
				}
			}()

			worker := d.database.Snapshot()
			if ignored[worker.AppName(m.file)] {
				return nil
			}
			fd, err := d.parseOne(worker, m.file, m.name, nil)
			if err != nil {
				return err
			}
			results[i] = fd
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]FileDiags, 0, len(results))
	for _, fd := range results {
		if fd != nil {
			out = append(out, *fd)
		}
	}
	return out, nil
}

// parseOne diagnoses a single module; nil результат означает отсутствие
// диагностик.
func (d *Driver) parseOne(snap *db.Snapshot, file source.FileID, name string, changes []ChangeRange) (*FileDiags, error) {
	var diags []diag.Diagnostic
	err := snap.Catch(func() error {
		diags = lints.Diagnostics(snap, d.cfg, file, d.opts.IncludeGenerated)
		diags = d.mergeExternal(snap, file, diags)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(diags) == 0 {
		return nil, nil
	}
	return &FileDiags{Name: name, File: file, Diags: diags, Changes: changes}, nil
}

// mergeExternal appends sidecar diagnostics that target the file itself.
// Диагностики, перенаправленные во включённые файлы, всплывают при
// анализе самих этих файлов.
func (d *Driver) mergeExternal(snap *db.Snapshot, file source.FileID, diags []diag.Diagnostic) []diag.Diagnostic {
	if d.external == nil {
		return diags
	}
	text, ok := snap.FileText(file)
	if !ok {
		return diags
	}
	resp := d.external.Analyze(file, snap.FilePath(file), text)
	perFile := extserv.Diagnostics(snap, file, resp)
	extra := perFile[file]
	if len(extra) == 0 {
		return diags
	}
	merged := diag.NewBag(len(diags) + len(extra))
	for _, dg := range diags {
		merged.Add(dg)
	}
	for _, dg := range extra {
		merged.Add(dg)
	}
	merged.Dedup()
	merged.Sort()
	return merged.Slice()
}
