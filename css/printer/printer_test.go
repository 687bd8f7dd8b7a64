package printer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dhamidi/cssbox/css"
)

func mustParse(t *testing.T, src string) *css.Rule {
	t.Helper()
	rule, err := css.ParseCSS(nil, []byte(src), "test.css")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return rule
}

func TestSprintRoundTrips(t *testing.T) {
	rule := mustParse(t, "p.cls { color: red; font-size: 10px }")
	out := Sprint(rule)
	if !strings.Contains(out, "p.cls") {
		t.Errorf("missing selector in output: %q", out)
	}
	if !strings.Contains(out, "color: red") {
		t.Errorf("missing declaration in output: %q", out)
	}

	reparsed, err := css.ParseCSS(nil, []byte(out), "roundtrip.css")
	if err != nil {
		t.Fatalf("re-parsing printed output failed: %v\noutput was: %s", err, out)
	}
	if reparsed.Declaration.Name != "color" {
		t.Errorf("round-tripped declaration: got %q", reparsed.Declaration.Name)
	}
}

func TestSprintColorCanonicalForm(t *testing.T) {
	rule := mustParse(t, "p { color: #abc }")
	out := Sprint(rule)
	if !strings.Contains(out, "#a0b0c0") {
		t.Errorf("expected canonical color form, got %q", out)
	}
}

func TestDumpProducesTree(t *testing.T) {
	rule := mustParse(t, "a > b { x: 1 }")
	var buf bytes.Buffer
	if err := Dump(&buf, rule); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"rule", "selector combine", "property name=\"x\""} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q in:\n%s", want, out)
		}
	}
}
