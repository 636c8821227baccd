package db

import (
	"errors"
	"fmt"
	"sync/atomic"

	"beamlint/internal/source"
)

// ErrCancelled is returned at the API boundary when a writer cancelled the
// snapshot. Никогда не смешивается с "данных нет".
var ErrCancelled = errors.New("db: query cancelled")

// cancelledSignal is the sentinel raised at cancellation check points and
// caught once by Catch.
type cancelledSignal struct{}

// Snapshot is an immutable read view over the database at one revision.
type Snapshot struct {
	db        *Database
	revision  Revision
	cancelled *atomic.Bool

	// active is the in-flight query stack used for cycle detection.
	active []queryKey
	// reads accumulates the input keys touched by the current query.
	reads []map[inputKey]struct{}
}

// Revision returns the revision the snapshot is pinned to.
func (s *Snapshot) Revision() Revision { return s.revision }

// CheckCancelled unwinds with the cancellation signal if a writer
// requested cancellation. Вызывается на входе каждого запроса и на
// каждом рекурсивном вызове.
func (s *Snapshot) CheckCancelled() {
	if s.cancelled.Load() {
		panic(cancelledSignal{})
	}
}

// Catch runs fn, converting the cancellation signal into ErrCancelled.
// Это единственное место, где сигнал перехватывается.
func (s *Snapshot) Catch(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(cancelledSignal); ok {
				err = ErrCancelled
				return
			}
			panic(r)
		}
	}()
	return fn()
}

// recordInput notes that the current query read an input.
func (s *Snapshot) recordInput(key inputKey) {
	if n := len(s.reads); n > 0 {
		s.reads[n-1][key] = struct{}{}
	}
}

// recordInputs merges a cached child's dependency set into the current query.
func (s *Snapshot) recordInputs(deps map[inputKey]struct{}) {
	if n := len(s.reads); n > 0 {
		for key := range deps {
			s.reads[n-1][key] = struct{}{}
		}
	}
}

// run executes a derived query with memoization and dependency tracking.
// Повторный вызов на той же ревизии возвращает закешированное значение;
// пересчёт происходит только если изменился прочитанный вход.
func (s *Snapshot) run(key queryKey, compute func() any) any {
	s.CheckCancelled()

	for _, k := range s.active {
		if k == key {
			panic(fmt.Sprintf("db: query cycle detected: %s", key))
		}
	}

	if e, ok := s.db.memo.get(key); ok {
		if s.memoValid(e) {
			s.recordInputs(e.deps)
			return e.value
		}
	}

	s.active = append(s.active, key)
	s.reads = append(s.reads, make(map[inputKey]struct{}))
	value := compute()
	deps := s.reads[len(s.reads)-1]
	s.reads = s.reads[:len(s.reads)-1]
	s.active = s.active[:len(s.active)-1]

	s.recordInputs(deps)
	s.db.memo.put(key, &memoEntry{
		value:   value,
		builtAt: s.revision,
		deps:    deps,
	})
	return value
}

func (s *Snapshot) memoValid(e *memoEntry) bool {
	if e.builtAt > s.revision {
		// запись из будущего снимка; наш снимок её не видит
		return false
	}
	for dep := range e.deps {
		changed := s.db.inputChangedAt(dep)
		if changed > e.builtAt && changed <= s.revision {
			return false
		}
		if changed > s.revision {
			// вход изменился после нашей ревизии; запись могла быть
			// построена на новых данных
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------
// Inputs

// FileText returns the text of a file, or ok=false for deleted or
// unknown files.
func (s *Snapshot) FileText(id source.FileID) ([]byte, bool) {
	s.CheckCancelled()
	s.recordInput(inputKey{kind: inputFileText, file: id})
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	in := s.db.files[id]
	if in == nil || !in.exists {
		return nil, false
	}
	return in.content, true
}

// FilePath returns the absolute path registered for a file.
func (s *Snapshot) FilePath(id source.FileID) string {
	s.CheckCancelled()
	s.recordInput(inputKey{kind: inputProjectData})
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return s.db.paths[id]
}

// FileForPath resolves a registered path back to its file id.
func (s *Snapshot) FileForPath(path string) (source.FileID, bool) {
	s.CheckCancelled()
	s.recordInput(inputKey{kind: inputProjectData})
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	id, ok := s.db.byPath[path]
	return id, ok
}

// SourceRoot returns the source root a file belongs to.
func (s *Snapshot) SourceRoot(id source.FileID) source.SourceRootID {
	s.CheckCancelled()
	s.recordInput(inputKey{kind: inputFileRoot, file: id})
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return s.db.roots[id]
}

// AppName returns the application name of the file's source root.
func (s *Snapshot) AppName(id source.FileID) string {
	root := s.SourceRoot(id)
	s.recordInput(inputKey{kind: inputProjectData})
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	return s.db.appNames[root]
}

// AllFiles returns the ids of all live files, in unspecified order.
func (s *Snapshot) AllFiles() []source.FileID {
	s.CheckCancelled()
	s.recordInput(inputKey{kind: inputProjectData})
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	out := make([]source.FileID, 0, len(s.db.files))
	for id, in := range s.db.files {
		if in.exists {
			out = append(out, id)
		}
	}
	return out
}

// Atoms returns the process-wide interner.
func (s *Snapshot) Atoms() *source.Interner { return s.db.atoms }

// Names returns the process-wide name/arity table.
func (s *Snapshot) Names() *source.NameTable { return s.db.names }
