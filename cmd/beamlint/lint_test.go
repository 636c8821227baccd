package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestModule(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.erl")
	if err := os.WriteFile(path, []byte("-module(main).\nf() -> ok.\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func setLintFlag(t *testing.T, name, value string) {
	t.Helper()
	if err := lintCmd.Flags().Set(name, value); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = lintCmd.Flags().Set(name, "")
	})
}

func TestLintRequiresDiagnosticFilter(t *testing.T) {
	dir := writeTestModule(t)

	// Фильтр обязателен для любого запуска, не только для --apply-fix.
	err := runLint(lintCmd, []string{dir})
	if err == nil || !strings.Contains(err.Error(), "--diagnostic-filter") {
		t.Fatalf("err = %v, want the missing --diagnostic-filter error", err)
	}
}

func TestLintRejectsUnknownFilter(t *testing.T) {
	dir := writeTestModule(t)
	setLintFlag(t, "diagnostic-filter", "W9999x")

	err := runLint(lintCmd, []string{dir})
	if err == nil || !strings.Contains(err.Error(), "unknown diagnostic code") {
		t.Fatalf("err = %v, want the unknown-code error", err)
	}
}

func TestLintDiagnoseOnlyWithFilter(t *testing.T) {
	dir := writeTestModule(t)
	setLintFlag(t, "diagnostic-filter", "W0003")

	var out bytes.Buffer
	lintCmd.SetOut(&out)
	defer lintCmd.SetOut(nil)

	if err := runLint(lintCmd, []string{dir}); err != nil {
		t.Fatalf("diagnose-only run failed: %v", err)
	}
	if !strings.Contains(out.String(), "No diagnostics reported") {
		t.Errorf("output = %q", out.String())
	}
}
