package vfs

import (
	"testing"

	"beamlint/internal/source"
)

func TestSetFileContents(t *testing.T) {
	v := New()

	id := v.SetFileContents("/proj/src/a.erl", []byte("-module(a).\n"))
	if !id.IsValid() {
		t.Fatal("invalid id")
	}
	content, ok := v.FileContents(id)
	if !ok || string(content) != "-module(a).\n" {
		t.Errorf("contents = %q, %v", content, ok)
	}
	if v.FilePath(id) != "/proj/src/a.erl" {
		t.Errorf("path = %q", v.FilePath(id))
	}

	// Повторная запись сохраняет идентификатор.
	again := v.SetFileContents("/proj/src/a.erl", []byte("-module(a).\nf() -> ok.\n"))
	if again != id {
		t.Errorf("id changed: %d vs %d", again, id)
	}

	// Удаление зануляет содержимое.
	v.SetFileContents("/proj/src/a.erl", nil)
	if _, ok := v.FileContents(id); ok {
		t.Error("deleted file still has contents")
	}
}

func TestTakeChanges(t *testing.T) {
	v := New()
	a := v.SetFileContents("/p/a.erl", []byte("x"))
	v.SetFileContents("/p/a.erl", []byte("y"))
	v.SetFileContents("/p/a.erl", nil)

	events := v.TakeChanges()
	if len(events) != 3 {
		t.Fatalf("events = %d", len(events))
	}
	kinds := []ChangeKind{ChangeCreated, ChangeModified, ChangeDeleted}
	for i, want := range kinds {
		if events[i].File != a || events[i].Kind != want {
			t.Errorf("event %d = %+v", i, events[i])
		}
	}
	if len(v.TakeChanges()) != 0 {
		t.Error("changes were not drained")
	}
}

func TestNormalization(t *testing.T) {
	v := New()
	id := v.SetFileContents("/p/b.erl", []byte("\xEF\xBB\xBF-module(b).\r\nf() -> ok.\r\n"))
	content, _ := v.FileContents(id)
	if string(content) != "-module(b).\nf() -> ok.\n" {
		t.Errorf("content = %q", content)
	}
}

func TestUnknownFile(t *testing.T) {
	v := New()
	if _, ok := v.FileContents(source.FileID(42)); ok {
		t.Error("unknown file should have no contents")
	}
	if _, ok := v.FileID("/nope"); ok {
		t.Error("unknown path should not resolve")
	}
}
