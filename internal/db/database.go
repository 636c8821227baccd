// Package db implements the demand-driven query database: inputs keyed by
// file, memoized derived queries with dependency tracking, reader
// snapshots, and cooperative cancellation.
package db

import (
	"sync"
	"sync/atomic"

	"beamlint/internal/source"
)

// Revision is a monotonically increasing counter bumped on any input change.
type Revision uint64

// inputKind enumerates the input categories tracked by the database.
type inputKind uint8

const (
	inputFileText inputKind = iota
	inputFileRoot
	inputRootContents
	inputProjectData
)

// inputKey addresses one input cell.
type inputKey struct {
	kind inputKind
	file source.FileID
	root source.SourceRootID
}

// fileInput is the text of one file. Nil content means the file was deleted.
type fileInput struct {
	content []byte
	exists  bool
}

// Change is the unit of writer work: набор обновлений входов,
// применяемый атомарно.
type Change struct {
	// FilesChanged maps file ids to new contents; nil removes the file.
	FilesChanged map[source.FileID][]byte
	// RootAssignments maps files to their source roots.
	RootAssignments map[source.FileID]source.SourceRootID
	// Paths updates the absolute path registered for a file.
	Paths map[source.FileID]string
	// AppNames updates the application a source root belongs to.
	AppNames map[source.SourceRootID]string
}

// Database owns the inputs and the memo tables. There is exactly one
// writer; any number of reader snapshots may run concurrently.
type Database struct {
	mu sync.RWMutex

	atoms *source.Interner
	names *source.NameTable

	revision  Revision
	changedAt map[inputKey]Revision

	files    map[source.FileID]*fileInput
	paths    map[source.FileID]string
	byPath   map[string]source.FileID
	roots    map[source.FileID]source.SourceRootID
	appNames map[source.SourceRootID]string

	memo *memoTable

	// cancel is the flag handed to outstanding snapshots; заменяется на
	// новый после каждого запроса на отмену.
	cancel atomic.Pointer[atomic.Bool]
}

// New creates an empty database around a process-wide interner.
func New(atoms *source.Interner, names *source.NameTable) *Database {
	db := &Database{
		atoms:     atoms,
		names:     names,
		changedAt: make(map[inputKey]Revision),
		files:     make(map[source.FileID]*fileInput),
		paths:     make(map[source.FileID]string),
		byPath:    make(map[string]source.FileID),
		roots:     make(map[source.FileID]source.SourceRootID),
		appNames:  make(map[source.SourceRootID]string),
		memo:      newMemoTable(),
	}
	db.cancel.Store(new(atomic.Bool))
	return db
}

// Atoms returns the process-wide atom interner.
func (db *Database) Atoms() *source.Interner { return db.atoms }

// Names returns the process-wide name/arity table.
func (db *Database) Names() *source.NameTable { return db.names }

// RequestCancellation flags all outstanding snapshots as cancelled.
// Читатели обязаны развернуться на ближайшей точке проверки.
func (db *Database) RequestCancellation() {
	old := db.cancel.Swap(new(atomic.Bool))
	old.Store(true)
}

// ApplyChange cancels outstanding readers and applies the change,
// bumping the revision of every touched input.
func (db *Database) ApplyChange(change Change) {
	db.RequestCancellation()

	db.mu.Lock()
	db.revision++
	rev := db.revision

	for id, content := range change.FilesChanged {
		in := db.files[id]
		if in == nil {
			in = &fileInput{}
			db.files[id] = in
		}
		if content == nil {
			in.content = nil
			in.exists = false
		} else {
			in.content = content
			in.exists = true
		}
		db.changedAt[inputKey{kind: inputFileText, file: id}] = rev
	}
	for id, root := range change.RootAssignments {
		db.roots[id] = root
		db.changedAt[inputKey{kind: inputFileRoot, file: id}] = rev
		db.changedAt[inputKey{kind: inputRootContents, root: root}] = rev
	}
	for id, path := range change.Paths {
		if old, ok := db.paths[id]; ok {
			delete(db.byPath, old)
		}
		db.paths[id] = path
		db.byPath[path] = id
		db.changedAt[inputKey{kind: inputProjectData}] = rev
	}
	for root, app := range change.AppNames {
		db.appNames[root] = app
		db.changedAt[inputKey{kind: inputProjectData}] = rev
	}
	db.mu.Unlock()

	// Ленивое вытеснение: устаревшие записи мемо-таблицы всё равно не
	// пройдут валидацию, но освобождать их лучше сразу.
	db.memo.evictStale(db)
}

// Snapshot returns an immutable read view pinned to the current revision.
// Снимок, взятый на ревизии R, никогда не видит R+1.
func (db *Database) Snapshot() *Snapshot {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return &Snapshot{
		db:        db,
		revision:  db.revision,
		cancelled: db.cancel.Load(),
	}
}

// Revision returns the current global revision.
func (db *Database) Revision() Revision {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.revision
}

func (db *Database) inputChangedAt(key inputKey) Revision {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.changedAt[key]
}
