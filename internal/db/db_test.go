package db

import (
	"errors"
	"testing"

	"beamlint/internal/ast"
	"beamlint/internal/hir"
	"beamlint/internal/source"
)

func newTestDB() *Database {
	atoms := source.NewInterner()
	return New(atoms, source.NewNameTable(atoms))
}

func seedFile(t *testing.T, database *Database, id source.FileID, path, text string) {
	t.Helper()
	database.ApplyChange(Change{
		FilesChanged: map[source.FileID][]byte{id: []byte(text)},
		Paths:        map[source.FileID]string{id: path},
	})
}

func TestQueryMemoization(t *testing.T) {
	database := newTestDB()
	seedFile(t, database, 1, "/proj/src/main.erl", "-module(main).\nf() -> ok.\n")

	snap := database.Snapshot()
	first := snap.Parse(1)
	second := snap.Parse(1)
	if first != second {
		t.Error("parse recomputed at the same revision")
	}

	// Новый снимок на той же ревизии переиспользует значение.
	other := database.Snapshot()
	if other.Parse(1) != first {
		t.Error("parse recomputed for a sibling snapshot")
	}
}

func TestQueryInvalidation(t *testing.T) {
	database := newTestDB()
	seedFile(t, database, 1, "/proj/src/main.erl", "-module(main).\nf() -> ok.\n")
	seedFile(t, database, 2, "/proj/src/other.erl", "-module(other).\n")

	snap := database.Snapshot()
	mainParse := snap.Parse(1)
	otherParse := snap.Parse(2)

	// Изменение второго файла не трогает дерево первого.
	seedFile(t, database, 2, "/proj/src/other.erl", "-module(other).\ng() -> ok.\n")
	fresh := database.Snapshot()
	if fresh.Parse(1) != mainParse {
		t.Error("untouched file was recomputed")
	}
	if fresh.Parse(2) == otherParse {
		t.Error("changed file was not recomputed")
	}
}

func TestSnapshotCancellation(t *testing.T) {
	database := newTestDB()
	seedFile(t, database, 1, "/proj/src/main.erl", "-module(main).\n")

	snap := database.Snapshot()
	err := snap.Catch(func() error {
		_ = snap.Parse(1)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error before cancellation: %v", err)
	}

	// Писатель отменяет читателей перед изменением.
	seedFile(t, database, 1, "/proj/src/main.erl", "-module(main).\nf() -> ok.\n")

	err = snap.Catch(func() error {
		_, _ = snap.FileText(1)
		return nil
	})
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}

	// Свежий снимок работает.
	fresh := database.Snapshot()
	if err := fresh.Catch(func() error {
		_ = fresh.Parse(1)
		return nil
	}); err != nil {
		t.Fatalf("fresh snapshot failed: %v", err)
	}
}

func TestMissingFileInput(t *testing.T) {
	database := newTestDB()
	seedFile(t, database, 1, "/proj/src/main.erl", "-module(main).\n")
	// Удаление зануляет текст.
	database.ApplyChange(Change{
		FilesChanged: map[source.FileID][]byte{1: nil},
	})

	snap := database.Snapshot()
	if _, ok := snap.FileText(1); ok {
		t.Error("deleted file still has text")
	}
	parsed := snap.Parse(1)
	if len(parsed.Errors) == 0 {
		t.Error("missing file should produce a syntactic error")
	}
}

func TestDefMapAndBodyQueries(t *testing.T) {
	database := newTestDB()
	seedFile(t, database, 1, "/proj/src/main.erl", "-module(main).\nf(X) -> X.\n")

	snap := database.Snapshot()
	dm := snap.DefMap(1)
	if !dm.ModuleSet || dm.Module != "main" {
		t.Fatalf("def map = %+v", dm)
	}
	fID := snap.Names().Intern("f", 1)
	def := dm.Functions[fID]
	if def == nil {
		t.Fatal("f/1 not found")
	}
	body := snap.Body(1, def.Form)
	if len(body.TopClauses) != 1 {
		t.Errorf("body clauses = %d", len(body.TopClauses))
	}
	// Memoized по (FileId, FormId).
	if snap.Body(1, def.Form) != body {
		t.Error("body recomputed at the same revision")
	}
}

func TestModuleIndex(t *testing.T) {
	database := newTestDB()
	seedFile(t, database, 1, "/proj/src/alpha.erl", "-module(alpha).\n")
	seedFile(t, database, 2, "/proj/src/beta.erl", "-module(beta).\n")
	seedFile(t, database, 3, "/proj/include/defs.hrl", "-define(X, 1).\n")

	snap := database.Snapshot()
	index := snap.ModuleIndex()
	if len(index) != 2 {
		t.Fatalf("index = %v", index)
	}
	if index["alpha"] != 1 || index["beta"] != 2 {
		t.Errorf("index = %v", index)
	}
}

func TestResolveInclude(t *testing.T) {
	database := newTestDB()
	seedFile(t, database, 1, "/proj/include/defs.hrl", "-define(X, 1).\n")
	seedFile(t, database, 2, "/proj/src/main.erl", "-module(main).\n-include(\"defs.hrl\").\nf() -> ?X.\n")

	snap := database.Snapshot()
	var resolved source.FileID
	found := false
	snap.FormList(2).Includes(func(_ hir.FormID, inc *ast.IncludeAttr) {
		if id, ok := snap.ResolveInclude(2, inc); ok {
			resolved = id
			found = true
		}
	})
	if !found || resolved != 1 {
		t.Errorf("resolved = %d, %v", resolved, found)
	}
}
