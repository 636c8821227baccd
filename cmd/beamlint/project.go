package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"beamlint/internal/db"
	"beamlint/internal/diag"
	"beamlint/internal/lints"
	"beamlint/internal/source"
	"beamlint/internal/vfs"
)

// manifestName is the optional per-project configuration file.
const manifestName = ".beamlint.toml"

// Manifest is the on-disk lint configuration.
type Manifest struct {
	// DisabledCodes lists canonical codes or labels to silence.
	DisabledCodes []string `toml:"disabled_codes"`
	// DisableExperimental turns off passes still under validation.
	DisableExperimental bool `toml:"disable_experimental"`
	// IgnoreApps lists application names excluded from project-wide runs.
	IgnoreApps []string `toml:"ignore_apps"`
}

// loadManifest reads .beamlint.toml from the project root, if present.
func loadManifest(root string) (*Manifest, error) {
	path := filepath.Join(root, manifestName)
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		if os.IsNotExist(err) {
			return &m, nil
		}
		return nil, fmt.Errorf("load %s: %w", manifestName, err)
	}
	return &m, nil
}

// configFromManifest translates the manifest into a lint config.
func configFromManifest(m *Manifest) (*lints.Config, error) {
	cfg := lints.NewConfig()
	cfg.DisableExperimental = m.DisableExperimental
	for _, s := range m.DisabledCodes {
		code, ok := diag.FromString(s)
		if !ok {
			return nil, fmt.Errorf("unknown diagnostic code in %s: %q", manifestName, s)
		}
		cfg.Disable(code)
	}
	return cfg, nil
}

// Project couples the VFS and database loaded from one directory tree.
type Project struct {
	Root     string
	VFS      *vfs.VFS
	Database *db.Database
}

// loadProject walks the project tree, loading every .erl and .hrl file
// into the VFS and seeding the database inputs. Source roots map onto
// application directories; единственный проект получает ProjectId 0.
func loadProject(root string) (*Project, error) {
	absRoot, err := source.AbsolutePath(root)
	if err != nil {
		return nil, err
	}

	files := vfs.New()
	atoms := source.NewInterner()
	names := source.NewNameTable(atoms)
	database := db.New(atoms, names)

	change := db.Change{
		FilesChanged:    make(map[source.FileID][]byte),
		RootAssignments: make(map[source.FileID]source.SourceRootID),
		Paths:           make(map[source.FileID]string),
		AppNames:        make(map[source.SourceRootID]string),
	}
	rootIDs := make(map[string]source.SourceRootID)

	walkErr := filepath.WalkDir(absRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			name := entry.Name()
			if name == "_build" || name == ".git" || strings.HasPrefix(name, ".") && path != absRoot {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".erl" && ext != ".hrl" {
			return nil
		}
		id, err := files.LoadFile(path)
		if err != nil {
			return err
		}
		content, _ := files.FileContents(id)

		appDir, appName := appOf(absRoot, path)
		rootID, ok := rootIDs[appDir]
		if !ok {
			rootID = source.SourceRootID(len(rootIDs) + 1)
			rootIDs[appDir] = rootID
			change.AppNames[rootID] = appName
		}

		change.FilesChanged[id] = content
		change.RootAssignments[id] = rootID
		change.Paths[id] = files.FilePath(id)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	database.ApplyChange(change)
	// События загрузки интересны только вотчеру; в батч-режиме просто
	// очищаем очередь.
	files.TakeChanges()

	return &Project{Root: absRoot, VFS: files, Database: database}, nil
}

// appOf derives the owning application directory and name for a file.
// Файл app/src/foo.erl принадлежит приложению app; файлы вне src/ —
// приложению своей директории.
func appOf(root, path string) (string, string) {
	dir := filepath.Dir(path)
	base := filepath.Base(dir)
	switch base {
	case "src", "include", "test":
		parent := filepath.Dir(dir)
		return parent, filepath.Base(parent)
	default:
		if dir == root {
			return dir, filepath.Base(root)
		}
		return dir, base
	}
}
