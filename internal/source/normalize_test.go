package source

import (
	"testing"
)

func TestNormalizeCRLF(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		changed bool
	}{
		{"", "", false},
		{"f() -> ok.\n", "f() -> ok.\n", false},
		{"f() -> ok.\r\n", "f() -> ok.\n", true},
		{"a\r\nb\r\nc", "a\nb\nc", true},
		{"lone\rcarriage", "lone\rcarriage", false},
		{"mixed\r\nand\rlone\r\n", "mixed\nand\rlone\n", true},
		{"\r\n\r\n", "\n\n", true},
	}
	for _, tc := range cases {
		got, changed := NormalizeCRLF([]byte(tc.in))
		if string(got) != tc.want || changed != tc.changed {
			t.Errorf("NormalizeCRLF(%q) = %q, %v; want %q, %v", tc.in, got, changed, tc.want, tc.changed)
		}
	}
}

func TestRemoveBOM(t *testing.T) {
	got, changed := RemoveBOM([]byte("\xEF\xBB\xBF-module(a)."))
	if string(got) != "-module(a)." || !changed {
		t.Errorf("RemoveBOM = %q, %v", got, changed)
	}
	got, changed = RemoveBOM([]byte("-module(a)."))
	if string(got) != "-module(a)." || changed {
		t.Errorf("RemoveBOM without BOM = %q, %v", got, changed)
	}
	// БОМ не в начале файла — обычные байты.
	got, changed = RemoveBOM([]byte("x\xEF\xBB\xBF"))
	if string(got) != "x\xEF\xBB\xBF" || changed {
		t.Errorf("RemoveBOM mid-file = %q, %v", got, changed)
	}
}

func TestNormalizePath(t *testing.T) {
	if got := NormalizePath("/proj//src/../src/main.erl"); got != "/proj/src/main.erl" {
		t.Errorf("NormalizePath = %q", got)
	}
}
