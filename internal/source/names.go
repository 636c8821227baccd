package source

import (
	"fmt"
	"sync"
)

// NameID is a stable handle for an interned name/arity pair.
type NameID uint32

// NoNameID indicates the absence of a name/arity pair.
const NoNameID NameID = 0

// IsValid reports whether the NameID is valid (non-zero).
func (id NameID) IsValid() bool { return id != NoNameID }

// NameArity is a function or type name together with its arity.
type NameArity struct {
	Name  AtomID
	Arity uint32
}

// NameTable interns name/arity pairs on top of an atom Interner.
// Как и Interner — append-only, ID стабильны на всё время процесса.
type NameTable struct {
	mu    sync.RWMutex
	byID  []NameArity
	index map[NameArity]NameID
	atoms *Interner
}

// NewNameTable creates an empty table backed by the given atom interner.
func NewNameTable(atoms *Interner) *NameTable {
	return &NameTable{
		byID:  []NameArity{{}},
		index: map[NameArity]NameID{{}: 0},
		atoms: atoms,
	}
}

// Intern interns the pair (name, arity) and returns its handle.
func (t *NameTable) Intern(name string, arity uint32) NameID {
	na := NameArity{Name: t.atoms.Intern(name), Arity: arity}

	t.mu.RLock()
	if id, ok := t.index[na]; ok {
		t.mu.RUnlock()
		return id
	}
	t.mu.RUnlock()

	t.mu.Lock()
	if id, ok := t.index[na]; ok {
		t.mu.Unlock()
		return id
	}
	id := NameID(len(t.byID))
	t.byID = append(t.byID, na)
	t.index[na] = id
	t.mu.Unlock()
	return id
}

// Lookup returns the pair for an ID, or (zero, false) for invalid IDs.
func (t *NameTable) Lookup(id NameID) (NameArity, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(id) >= len(t.byID) {
		return NameArity{}, false
	}
	return t.byID[id], true
}

// Display renders the pair as "name/arity".
func (t *NameTable) Display(id NameID) string {
	na, ok := t.Lookup(id)
	if !ok {
		return "?/?"
	}
	return fmt.Sprintf("%s/%d", t.atoms.MustLookup(na.Name), na.Arity)
}

// Atoms returns the backing atom interner.
func (t *NameTable) Atoms() *Interner {
	return t.atoms
}
