package css

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) *Rule {
	t.Helper()
	rule, err := ParseCSS(nil, []byte(src), "test.css")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return rule
}

func countRules(r *Rule) int {
	n := 0
	for ; r != nil; r = r.Next {
		n++
	}
	return n
}

func TestParseSimpleRule(t *testing.T) {
	rule := mustParse(t, "p { color: red; }")
	if countRules(rule) != 1 {
		t.Fatalf("expected 1 rule, got %d", countRules(rule))
	}
	if !rule.Selector.HasName || rule.Selector.Name != "p" {
		t.Fatalf("selector: got %+v", rule.Selector)
	}
	if rule.Declaration == nil || rule.Declaration.Name != "color" {
		t.Fatalf("declaration: got %+v", rule.Declaration)
	}
	if rule.Declaration.Value == nil || rule.Declaration.Value.Data != "red" {
		t.Fatalf("value: got %+v", rule.Declaration.Value)
	}
}

func TestParseTrailingSemicolonOptional(t *testing.T) {
	a := mustParse(t, "p { color: red }")
	b := mustParse(t, "p { color: red; }")
	if a.Declaration.Name != b.Declaration.Name || a.Declaration.Value.Data != b.Declaration.Value.Data {
		t.Fatalf("trailing ';' before '}' should not change the result")
	}
}

func TestParseMultipleDeclarations(t *testing.T) {
	rule := mustParse(t, "p { color: red; font-size: 10px }")
	if rule.Declaration == nil || rule.Declaration.Next == nil {
		t.Fatalf("expected two chained declarations, got %+v", rule.Declaration)
	}
	if rule.Declaration.Next.Name != "font-size" {
		t.Fatalf("second declaration: got %q", rule.Declaration.Next.Name)
	}
}

func TestParseImportantDiscarded(t *testing.T) {
	rule := mustParse(t, "p { color: red !important; }")
	if rule.Declaration.Value.Data != "red" {
		t.Fatalf("value: got %+v", rule.Declaration.Value)
	}
	if rule.Declaration.Next != nil {
		t.Fatalf("!important must not produce a second declaration")
	}
}

func TestParseSelectorCombinators(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		combine byte
	}{
		{"descendant", "a b { x: 1 }", ' '},
		{"child", "a>b { x: 1 }", '>'},
		{"adjacent", "a+b { x: 1 }", '+'},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rule := mustParse(t, tc.src)
			sel := rule.Selector
			if sel.Combine != tc.combine {
				t.Fatalf("combine: got %q want %q", sel.Combine, tc.combine)
			}
			if sel.Left == nil || sel.Right == nil {
				t.Fatalf("expected both operands, got %+v", sel)
			}
			if !sel.Left.HasName || sel.Left.Name != "a" {
				t.Errorf("left: got %+v", sel.Left)
			}
			if !sel.Right.HasName || sel.Right.Name != "b" {
				t.Errorf("right: got %+v", sel.Right)
			}
		})
	}
}

func TestParseDescendantRightAssociative(t *testing.T) {
	rule := mustParse(t, "a b c { x: 1 }")
	sel := rule.Selector
	if sel.Combine != ' ' || !sel.Left.HasName || sel.Left.Name != "a" {
		t.Fatalf("outer left: got %+v", sel)
	}
	inner := sel.Right
	if inner == nil || inner.Combine != ' ' {
		t.Fatalf("expected nested descendant selector, got %+v", inner)
	}
	if !inner.Left.HasName || inner.Left.Name != "b" || !inner.Right.HasName || inner.Right.Name != "c" {
		t.Fatalf("inner operands: got %+v", inner)
	}
}

func TestParseSelectorGroup(t *testing.T) {
	rule := mustParse(t, "a, b { x: 1 }")
	if rule.Selector == nil || rule.Selector.Next == nil {
		t.Fatalf("expected two selectors in the group, got %+v", rule.Selector)
	}
}

func TestParseConditions(t *testing.T) {
	rule := mustParse(t, "a.cls#id:hover[attr=\"v\"] { x: 1 }")
	sel := rule.Selector
	if !sel.HasName || sel.Name != "a" {
		t.Fatalf("selector name: got %+v", sel)
	}
	var kinds []byte
	for c := sel.Cond; c != nil; c = c.Next {
		kinds = append(kinds, c.Type)
	}
	want := []byte{'.', '#', ':', '='}
	if len(kinds) != len(want) {
		t.Fatalf("condition kinds: got %q want %q", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("condition %d: got %q want %q", i, kinds[i], want[i])
		}
	}
}

func TestParseAttributeOperators(t *testing.T) {
	cases := []struct {
		src  string
		typ  byte
		val  string
	}{
		{`a[href] { x: 1 }`, '[', ""},
		{`a[href="x"] { x: 1 }`, '=', "x"},
		{`a[href|="x"] { x: 1 }`, '|', "x"},
		{`a[href~="x"] { x: 1 }`, '~', "x"},
	}
	for _, tc := range cases {
		t.Run(string(tc.typ), func(t *testing.T) {
			rule := mustParse(t, tc.src)
			cond := rule.Selector.Cond
			if cond == nil || cond.Type != tc.typ {
				t.Fatalf("condition: got %+v want type %q", cond, tc.typ)
			}
			if cond.Key != "href" {
				t.Errorf("key: got %q", cond.Key)
			}
			if tc.typ != '[' && (!cond.HasVal || cond.Val != tc.val) {
				t.Errorf("val: got %+v want %q", cond, tc.val)
			}
		})
	}
}

// A lexer error while scanning the value that follows an attribute
// operator (=, |=, ~=) must surface as-is, not get swallowed and
// replaced by a misleading "unexpected token" from the enclosing
// parseCondition.
func TestParseAttributeValueLexErrorPropagates(t *testing.T) {
	cases := []string{
		`a[href="unterminated`,
		`a[href|="unterminated`,
		`a[href~="unterminated`,
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			_, err := ParseCSS(nil, []byte(src), "attr.css")
			if err == nil {
				t.Fatalf("expected a syntax error")
			}
			synErr, ok := err.(*SyntaxError)
			if !ok {
				t.Fatalf("error is not *SyntaxError: %T: %v", err, err)
			}
			if !strings.Contains(synErr.Message, "unterminated string") {
				t.Errorf("expected the lexer's unterminated-string message, got %q", synErr.Message)
			}
		})
	}
}

func TestParseFunctionalValue(t *testing.T) {
	rule := mustParse(t, "p { color: rgb(1,2,3) }")
	v := rule.Declaration.Value
	if v.Type != TokenKind('(') || v.Data != "rgb" {
		t.Fatalf("value: got %+v", v)
	}
	args := v.Args
	if args == nil || args.Data != "1" {
		t.Fatalf("args: got %+v", args)
	}
	if args.Next == nil || args.Next.Data != "," {
		t.Fatalf("expected comma separator in args, got %+v", args.Next)
	}
}

func TestParseUniversalSelector(t *testing.T) {
	rule := mustParse(t, "* { x: 1 }")
	if rule.Selector.HasName {
		t.Fatalf("universal selector should not have a name, got %+v", rule.Selector)
	}
}

func TestParseAtRuleSkipped(t *testing.T) {
	rule := mustParse(t, "@media screen { p { color: red } } a { x: 1 }")
	if countRules(rule) != 1 {
		t.Fatalf("at-rule block should be fully skipped, got %d rules", countRules(rule))
	}
	if !rule.Selector.HasName || rule.Selector.Name != "a" {
		t.Fatalf("remaining rule: got %+v", rule.Selector)
	}
}

func TestParseAtRuleWithSemicolon(t *testing.T) {
	rule := mustParse(t, "@import \"x.css\"; a { x: 1 }")
	if countRules(rule) != 1 {
		t.Fatalf("expected only the rule after the at-rule, got %d", countRules(rule))
	}
}

func TestParseChainAppend(t *testing.T) {
	first, err := ParseCSS(nil, []byte("a { x: 1 }"), "first.css")
	if err != nil {
		t.Fatalf("first parse: %v", err)
	}
	second, err := ParseCSS(first, []byte("b { y: 2 }"), "second.css")
	if err != nil {
		t.Fatalf("second parse: %v", err)
	}
	if countRules(second) != 2 {
		t.Fatalf("expected chain of 2 rules, got %d", countRules(second))
	}
	if second != first {
		t.Fatalf("appending should preserve the original chain head")
	}
	if second.Next.Selector.Name != "b" {
		t.Fatalf("second rule: got %+v", second.Next.Selector)
	}
}

func TestParseDeclarationsInline(t *testing.T) {
	prop, err := ParseDeclarations([]byte("color: red; font-size: 10px"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prop == nil || prop.Name != "color" || prop.Next == nil || prop.Next.Name != "font-size" {
		t.Fatalf("got %+v", prop)
	}
}

func TestParseEmptyInput(t *testing.T) {
	rule, err := ParseCSS(nil, []byte(""), "empty.css")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rule != nil {
		t.Fatalf("expected nil chain for empty input, got %+v", rule)
	}
}

func TestParseErrorAbortsWholeParse(t *testing.T) {
	_, err := ParseCSS(nil, []byte("a { color: red } b { color: "), "bad.css")
	if err == nil {
		t.Fatalf("expected a syntax error")
	}
	if !strings.Contains(err.Error(), "css syntax error") {
		t.Errorf("error message: got %q", err.Error())
	}
	var synErr *SyntaxError
	if se, ok := err.(*SyntaxError); ok {
		synErr = se
	} else {
		t.Fatalf("error is not *SyntaxError: %T", err)
	}
	if synErr.File != "bad.css" {
		t.Errorf("file: got %q", synErr.File)
	}
}
