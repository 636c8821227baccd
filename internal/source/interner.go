package source

import (
	"strings"
	"sync"
)

// AtomID is a stable handle for an interned atom or variable name.
type AtomID uint32

// NoAtomID maps to the empty string.
const NoAtomID AtomID = 0

// IsValid reports whether the AtomID is valid (non-zero).
func (id AtomID) IsValid() bool { return id != NoAtomID }

// commonAtoms появляются в шапке практически любого модуля. Они
// интернируются при создании, чтобы горячие проверки линтов получали их
// ID по быстрому пути под блокировкой чтения, без захвата блокировки записи.
var commonAtoms = []string{
	"ok", "error", "undefined", "true", "false",
	"module", "export", "export_type", "import", "record", "define",
	"include", "include_lib", "spec", "type", "compile", "behaviour",
}

// Interner stores every atom and variable name the analyzer has seen.
// Handles are dense uint32s, cheap to compare and to embed in arenas.
//
// Atom и имя переменной различаются только регистром первого символа,
// поэтому словарь общий. Таблица только растёт; ID живут до конца
// процесса, снос — вместе с ним.
type Interner struct {
	mu   sync.RWMutex
	strs []string          // AtomID -> spelling; strs[0] == ""
	ids  map[string]AtomID // spelling -> AtomID
}

// NewInterner creates an interner with the zero handle reserved for the
// empty string and the common atoms pre-seeded.
func NewInterner() *Interner {
	in := &Interner{
		strs: make([]string, 1, 1+len(commonAtoms)),
		ids:  make(map[string]AtomID, 1+len(commonAtoms)),
	}
	in.ids[""] = NoAtomID
	for _, atom := range commonAtoms {
		in.grow(atom)
	}
	return in
}

// grow appends a spelling known to be absent. Caller владеет словарём.
func (in *Interner) grow(s string) AtomID {
	id := AtomID(len(in.strs))
	in.strs = append(in.strs, s)
	in.ids[s] = id
	return id
}

// find is the read-locked fast path shared by Intern and Has.
func (in *Interner) find(s string) (AtomID, bool) {
	in.mu.RLock()
	id, ok := in.ids[s]
	in.mu.RUnlock()
	return id, ok
}

// Intern returns the stable handle for a spelling, allocating one on
// first use. Потокобезопасно.
func (in *Interner) Intern(s string) AtomID {
	if id, ok := in.find(s); ok {
		return id
	}
	// Копия отвязывает словарь от байтового буфера исходника,
	// который VFS перезапишет при следующей правке.
	owned := strings.Clone(s)

	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.ids[owned]; ok {
		// Другой воркер успел первым между RUnlock и Lock.
		return id
	}
	return in.grow(owned)
}

// InternBytes interns a raw source slice, e.g. прямо из лексемы.
func (in *Interner) InternBytes(b []byte) AtomID {
	return in.Intern(string(b))
}

// Lookup returns the spelling for a handle, or ("", false) for handles
// this interner never issued.
func (in *Interner) Lookup(id AtomID) (string, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(id) >= len(in.strs) {
		return "", false
	}
	return in.strs[id], true
}

// MustLookup returns the spelling for a handle and panics on handles
// this interner never issued.
func (in *Interner) MustLookup(id AtomID) string {
	s, ok := in.Lookup(id)
	if !ok {
		panic("source: invalid atom ID")
	}
	return s
}

// Has reports whether the handle was issued by this interner.
func (in *Interner) Has(id AtomID) bool {
	_, ok := in.Lookup(id)
	return ok
}

// Len returns the number of interned spellings, the reserved empty one
// and the pre-seeded atoms included.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.strs)
}

// Snapshot returns a copy of every interned spelling in handle order.
func (in *Interner) Snapshot() []string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	out := make([]string, len(in.strs))
	copy(out, in.strs)
	return out
}
