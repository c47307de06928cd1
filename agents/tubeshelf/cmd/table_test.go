package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"ID", "Count"}, [][]string{{"a", "1"}, {"b"}}, []columnAlignment{alignLeft, alignRight})
	for _, want := range []string{"ID", "COUNT", "a", "1", "b"} {
		if !strings.Contains(strings.ToUpper(out), strings.ToUpper(want)) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if renderTable(nil, nil, nil) != "" {
		t.Error("no headers should render nothing")
	}
}

func TestWriteRowsPlainForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	writeRows(&buf, []string{"ID", "Name"}, [][]string{{"1", "one"}, {"2", "two"}}, nil)
	if got, want := buf.String(), "1\tone\n2\ttwo\n"; got != want {
		t.Errorf("writeRows() = %q, want %q", got, want)
	}
}

func TestMaskSecret(t *testing.T) {
	tests := map[string]string{
		"":             "",
		"abc":          "abc",
		"AIzaSyXXXXXX": "AIza…",
	}
	for in, want := range tests {
		if got := maskSecret(in); got != want {
			t.Errorf("maskSecret(%q) = %q, want %q", in, got, want)
		}
	}
}
