package db

import (
	"fmt"
	"sync"

	"beamlint/internal/hir"
	"beamlint/internal/source"
)

// queryKey addresses one memoized query execution.
type queryKey struct {
	query string
	file  source.FileID
	form  hir.FormID
}

func (k queryKey) String() string {
	return fmt.Sprintf("%s(%d,%d)", k.query, k.file, k.form)
}

// memoEntry stores a computed value together with the inputs it read.
// Запись валидна, пока ни один из прочитанных входов не менялся после
// builtAt: инвалидация покрывает ровно транзитивное замыкание читателей.
type memoEntry struct {
	value   any
	builtAt Revision
	deps    map[inputKey]struct{}
}

type memoTable struct {
	mu      sync.Mutex
	entries map[queryKey]*memoEntry
}

func newMemoTable() *memoTable {
	return &memoTable{entries: make(map[queryKey]*memoEntry)}
}

func (t *memoTable) get(key queryKey) (*memoEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[key]
	return e, ok
}

func (t *memoTable) put(key queryKey, e *memoEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[key] = e
}

// evictStale drops entries whose inputs changed since they were built.
// Вызывается лениво; корректность обеспечивает валидация при чтении.
func (t *memoTable) evictStale(db *Database) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, e := range t.entries {
		for dep := range e.deps {
			if db.inputChangedAt(dep) > e.builtAt {
				delete(t.entries, key)
				break
			}
		}
	}
}
