package db

import (
	"path"
	"sort"
	"strings"

	"beamlint/internal/ast"
	"beamlint/internal/hir"
	"beamlint/internal/parser"
	"beamlint/internal/source"
)

// Parse returns the syntax tree of a file. Missing files produce an empty
// tree plus a syntactic error recorded on it.
func (s *Snapshot) Parse(id source.FileID) *ast.File {
	v := s.run(queryKey{query: "parse", file: id}, func() any {
		text, ok := s.FileText(id)
		if !ok {
			return &ast.File{
				FileID: id,
				Errors: []ast.ParseError{{
					Range: source.Span{File: id},
					Msg:   "file is not available",
				}},
			}
		}
		return parser.ParseFile(id, text)
	})
	return v.(*ast.File)
}

// LineIndex returns the newline index of a file's current text.
func (s *Snapshot) LineIndex(id source.FileID) *source.LineIndex {
	v := s.run(queryKey{query: "line_index", file: id}, func() any {
		text, _ := s.FileText(id)
		return source.NewLineIndex(text)
	})
	return v.(*source.LineIndex)
}

// FormList returns the per-file list of forms with stable FormIDs.
func (s *Snapshot) FormList(id source.FileID) *hir.FormList {
	v := s.run(queryKey{query: "form_list", file: id}, func() any {
		return hir.NewFormList(s.Parse(id))
	})
	return v.(*hir.FormList)
}

// DefMap returns the per-file map from names to definitions.
func (s *Snapshot) DefMap(id source.FileID) *hir.DefMap {
	v := s.run(queryKey{query: "def_map", file: id}, func() any {
		return hir.BuildDefMap(s.FormList(id), s.db.atoms, s.db.names)
	})
	return v.(*hir.DefMap)
}

// Body lowers one function form into its HIR body. Memoized by
// (FileId, FormId); других форм с телами нет.
func (s *Snapshot) Body(id source.FileID, form hir.FormID) *hir.Body {
	v := s.run(queryKey{query: "body", file: id, form: form}, func() any {
		fl := s.FormList(id)
		decl, ok := fl.Get(form).(*ast.FunDecl)
		if !ok {
			return hir.NewBody()
		}
		lw := hir.NewLowerer(s.db.atoms, s.DefMap(id))
		return lw.LowerFunction(decl)
	})
	return v.(*hir.Body)
}

// ModuleName returns the declared module name of a file, if any.
func (s *Snapshot) ModuleName(id source.FileID) (string, bool) {
	dm := s.DefMap(id)
	return dm.Module, dm.ModuleSet
}

// ModuleIndex maps module names to files across the project,
// deterministically preferring the smallest file id on conflicts.
func (s *Snapshot) ModuleIndex() map[string]source.FileID {
	v := s.run(queryKey{query: "module_index"}, func() any {
		index := make(map[string]source.FileID)
		files := s.AllFiles()
		sort.Slice(files, func(i, j int) bool { return files[i] < files[j] })
		for _, id := range files {
			if s.FileExt(id) != "erl" {
				continue
			}
			name, ok := s.ModuleName(id)
			if !ok {
				// модуль без атрибута индексируется по имени файла
				name = strings.TrimSuffix(path.Base(s.FilePath(id)), ".erl")
			}
			if _, dup := index[name]; !dup {
				index[name] = id
			}
		}
		return index
	})
	return v.(map[string]source.FileID)
}

// FileExt returns the lower-case extension of a file path, without the dot.
func (s *Snapshot) FileExt(id source.FileID) string {
	p := s.FilePath(id)
	ext := path.Ext(p)
	return strings.TrimPrefix(strings.ToLower(ext), ".")
}

// IsGenerated reports whether the file carries the conventional
// @generated marker in its leading comment block.
func (s *Snapshot) IsGenerated(id source.FileID) bool {
	v := s.run(queryKey{query: "is_generated", file: id}, func() any {
		text, ok := s.FileText(id)
		if !ok {
			return false
		}
		head := text
		if len(head) > 2048 {
			head = head[:2048]
		}
		return strings.Contains(string(head), "@"+"generated")
	})
	return v.(bool)
}

// ResolveInclude resolves an include attribute of a file to the included
// file id, by path suffix against the project files.
func (s *Snapshot) ResolveInclude(id source.FileID, inc *ast.IncludeAttr) (source.FileID, bool) {
	base := path.Base(inc.Path)
	dir := path.Dir(source.NormalizePath(s.FilePath(id)))

	// Сначала пробуем путь относительно включающего файла.
	if cand, ok := s.FileForPath(path.Join(dir, inc.Path)); ok {
		return cand, true
	}

	var best source.FileID
	found := false
	for _, other := range s.AllFiles() {
		p := source.NormalizePath(s.FilePath(other))
		if path.Base(p) != base {
			continue
		}
		if strings.HasSuffix(p, source.NormalizePath(inc.Path)) {
			return other, true
		}
		if !found || other < best {
			best = other
			found = true
		}
	}
	return best, found
}

// EnclosingFormRange returns the range of the top-level form containing
// the offset.
func (s *Snapshot) EnclosingFormRange(id source.FileID, off uint32) (source.Span, bool) {
	fl := s.FormList(id)
	form, formID := fl.EnclosingForm(off)
	if !formID.IsValid() {
		return source.Span{}, false
	}
	return form.Span(), true
}
