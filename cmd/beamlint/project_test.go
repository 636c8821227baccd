package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAppOf(t *testing.T) {
	root := "/proj"
	cases := []struct {
		path string
		app  string
	}{
		{"/proj/myapp/src/foo.erl", "myapp"},
		{"/proj/myapp/include/foo.hrl", "myapp"},
		{"/proj/myapp/test/foo_SUITE.erl", "myapp"},
		{"/proj/foo.erl", "proj"},
		{"/proj/scripts/foo.erl", "scripts"},
	}
	for _, tc := range cases {
		_, app := appOf(root, tc.path)
		if app != tc.app {
			t.Errorf("appOf(%q) app = %q, want %q", tc.path, app, tc.app)
		}
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := `disabled_codes = ["W0012", "unused_macro"]
disable_experimental = true
ignore_apps = ["vendored"]
`
	if err := os.WriteFile(filepath.Join(dir, manifestName), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := loadManifest(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.DisabledCodes) != 2 || !m.DisableExperimental || len(m.IgnoreApps) != 1 {
		t.Errorf("manifest = %+v", m)
	}
	cfg, err := configFromManifest(m)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Disabled["W0012"] || !cfg.Disabled["W0002"] {
		t.Errorf("config disabled = %+v", cfg.Disabled)
	}
}

func TestLoadManifestMissing(t *testing.T) {
	m, err := loadManifest(t.TempDir())
	if err != nil || m == nil {
		t.Fatalf("missing manifest should yield defaults, got %v, %v", m, err)
	}
}

func TestLoadProject(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "myapp", "src")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "foo.erl"), []byte("-module(foo).\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "notes.txt"), []byte("skip me"), 0o644); err != nil {
		t.Fatal(err)
	}

	project, err := loadProject(dir)
	if err != nil {
		t.Fatal(err)
	}
	if project.VFS.Len() != 1 {
		t.Errorf("loaded files = %d", project.VFS.Len())
	}
	snap := project.Database.Snapshot()
	index := snap.ModuleIndex()
	if _, ok := index["foo"]; !ok {
		t.Errorf("module index = %v", index)
	}
	if app := snap.AppName(index["foo"]); app != "myapp" {
		t.Errorf("app = %q", app)
	}
}
