// Package vfs is the virtual file system: the single owner of file text.
// Пишет только writer; читатели получают неизменяемые снимки через БД.
package vfs

import (
	"fmt"
	"os"
	"sync"

	"fortio.org/safecast"

	"beamlint/internal/source"
)

// ChangeKind classifies change events.
type ChangeKind uint8

const (
	// ChangeCreated is the first appearance of a path.
	ChangeCreated ChangeKind = iota
	// ChangeModified is a content update.
	ChangeModified
	// ChangeDeleted nullifies the contents.
	ChangeDeleted
)

// ChangeEvent describes one mutation since the last TakeChanges call.
type ChangeEvent struct {
	File source.FileID
	Kind ChangeKind
}

type fileEntry struct {
	path    string
	content []byte
	exists  bool
	flags   source.FileFlags
}

// VFS maps absolute paths to file ids and owns their contents.
type VFS struct {
	mu      sync.RWMutex
	files   []fileEntry // индекс = FileID-1
	index   map[string]source.FileID
	changes []ChangeEvent
}

// New creates an empty VFS.
func New() *VFS {
	return &VFS{index: make(map[string]source.FileID)}
}

// SetFileContents stores new contents for a path, creating the file id on
// first use. Nil contents deletes the file. Returns the file id.
func (v *VFS) SetFileContents(path string, contents []byte) source.FileID {
	norm := source.NormalizePath(path)

	v.mu.Lock()
	defer v.mu.Unlock()

	id, ok := v.index[norm]
	if !ok {
		lenFiles, err := safecast.Conv[uint32](len(v.files))
		if err != nil {
			panic(fmt.Errorf("vfs file count overflow: %w", err))
		}
		id = source.FileID(lenFiles + 1)
		v.files = append(v.files, fileEntry{path: norm})
		v.index[norm] = id
	}

	entry := &v.files[id-1]
	kind := ChangeModified
	switch {
	case contents == nil:
		entry.content = nil
		entry.exists = false
		kind = ChangeDeleted
	case !ok:
		kind = ChangeCreated
		fallthrough
	default:
		normalized, hadBOM := source.RemoveBOM(contents)
		normalized, hadCRLF := source.NormalizeCRLF(normalized)
		entry.content = normalized
		entry.exists = true
		entry.flags = 0
		if hadBOM {
			entry.flags |= source.FileHadBOM
		}
		if hadCRLF {
			entry.flags |= source.FileNormalizedCRLF
		}
	}
	v.changes = append(v.changes, ChangeEvent{File: id, Kind: kind})
	return id
}

// LoadFile reads a file from disk into the VFS.
func (v *VFS) LoadFile(path string) (source.FileID, error) {
	// #nosec G304 -- путь приходит от вызывающей стороны
	contents, err := os.ReadFile(path)
	if err != nil {
		return source.NoFileID, err
	}
	return v.SetFileContents(path, contents), nil
}

// FileContents returns the current contents of a file.
// ok=false для удалённых и неизвестных файлов.
func (v *VFS) FileContents(id source.FileID) ([]byte, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if !v.valid(id) {
		return nil, false
	}
	e := v.files[id-1]
	if !e.exists {
		return nil, false
	}
	return e.content, true
}

// FilePath returns the absolute path of a file id.
func (v *VFS) FilePath(id source.FileID) string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if !v.valid(id) {
		return ""
	}
	return v.files[id-1].path
}

// FileID returns the id registered for a path.
func (v *VFS) FileID(path string) (source.FileID, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	id, ok := v.index[source.NormalizePath(path)]
	return id, ok
}

// TakeChanges drains and returns the accumulated change events.
func (v *VFS) TakeChanges() []ChangeEvent {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := v.changes
	v.changes = nil
	return out
}

// Len returns the number of known file ids, deleted files included.
func (v *VFS) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.files)
}

func (v *VFS) valid(id source.FileID) bool {
	return id.IsValid() && int(id) <= len(v.files)
}
