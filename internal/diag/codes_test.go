package diag

import (
	"testing"
)

func TestCodeRoundTrip(t *testing.T) {
	codes := []Code{
		MissingModule, UnusedInclude, HeadMismatch, SyntaxError,
		BoundVarInPattern, ModuleMismatch, UnusedMacro, UnusedRecordField,
		MissingSeparator(""), MutableVarBug, StatementHasNoEffect,
		TrivialMatch, UnreachableTest, RedundantAssignment,
		UnusedFunctionArg, ApplicationGetEnv, MissingCompileWarnMissingSpec,
		MisspelledAttribute, CrossNodeEval,
	}
	for _, c := range codes {
		byCode, ok := FromString(c.AsCode())
		if !ok || byCode != c {
			t.Errorf("FromString(%q) = %v, %v", c.AsCode(), byCode, ok)
		}
		byLabel, ok := FromString(c.AsLabel())
		if !ok || byLabel != c {
			t.Errorf("FromString(%q) = %v, %v", c.AsLabel(), byLabel, ok)
		}
	}
}

func TestCodeCanonicalForms(t *testing.T) {
	cases := []struct {
		code  Code
		short string
		label string
	}{
		{MissingModule, "L1201", "missing_module"},
		{TrivialMatch, "W0007", "trivial_match"},
		{RedundantAssignment, "W0009", "redundant_assignment"},
		{UnusedRecordField, "W0003", "unused_record_field"},
		{MissingSeparator("missing_semi"), "W0004", "missing_comma_or_parenthesis"},
		{SyntaxError, "P1711", "syntax_error"},
		{HeadMismatch, "P1700", "head_mismatch"},
	}
	for _, tc := range cases {
		if got := tc.code.AsCode(); got != tc.short {
			t.Errorf("AsCode = %q, want %q", got, tc.short)
		}
		if got := tc.code.AsLabel(); got != tc.label {
			t.Errorf("AsLabel = %q, want %q", got, tc.label)
		}
	}
}

func TestCodeOpenNamespaces(t *testing.T) {
	// Внешние коды: заглавные буквы плюс четыре цифры.
	c, ok := FromString("L1213")
	if !ok || !c.IsErlangService() || c.ServiceCode() != "L1213" {
		t.Errorf("L1213 = %v, %v", c, ok)
	}
	c, ok = FromString("C1000")
	if !ok || !c.IsErlangService() {
		t.Errorf("C1000 = %v, %v", c, ok)
	}

	// Ad-hoc коды имеют префикс.
	c, ok = FromString("ad-hoc: my-lint-1")
	if !ok || !c.IsAdHoc() {
		t.Errorf("ad-hoc = %v, %v", c, ok)
	}
	if got := AdHoc("my-lint-1").AsCode(); got != "ad-hoc: my-lint-1" {
		t.Errorf("AdHoc AsCode = %q", got)
	}
	if back, ok := FromString(AdHoc("x").AsLabel()); !ok || back != AdHoc("x") {
		t.Errorf("ad-hoc round trip = %v, %v", back, ok)
	}

	if _, ok := FromString("lower1234"); ok {
		t.Error("lowercase service code must not parse")
	}
	if _, ok := FromString("X123"); ok {
		t.Error("three-digit code must not parse")
	}
}

func TestMissingSeparatorCollapses(t *testing.T) {
	// Подкод не влияет на каноническую форму.
	a := MissingSeparator("missing_semi")
	b := MissingSeparator("missing_comma")
	if !a.SameCode(b) {
		t.Error("W0004 family must compare equal by code")
	}
	if a == b {
		t.Error("distinct sub-codes must stay distinguishable as values")
	}
}
