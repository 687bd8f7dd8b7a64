package css

import (
	"strings"
	"testing"
)

func lexAll(t *testing.T, src string) []string {
	t.Helper()
	l := NewLexer([]byte(src), "test.css")
	var out []string
	for {
		k, err := l.NextToken()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		if k == tokenEOF {
			break
		}
		out = append(out, l.Text())
	}
	return out
}

func TestLexerKeywordsAndPunctuation(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []string
	}{
		{"bare selector rule", "p { color : red }", []string{"p", "", "color", "", "red", ""}},
		{"class and id", ".foo#bar", []string{"foo", "bar"}},
		{"combinators", "a>b+c d", []string{"a", "", "b", "", "c", "d"}},
		{"number", "123", []string{"123"}},
		{"decimal", "1.5", []string{"1.5"}},
		{"leading-dot decimal", ".5", []string{".5"}},
		{"length", "10px", []string{"10px"}},
		{"percent", "50%", []string{"50%"}},
		{"negative number keeps sign", "-5px", []string{"-5px"}},
		{"plus number drops sign", "+5px", []string{"5px"}},
		{"negative keyword keeps sign", "-moz-foo", []string{"-moz-foo"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := lexAll(t, tc.src)
			if len(got) != len(tc.want) {
				t.Fatalf("token count: got %v want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("token %d: got %q want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestLexerCommentsAndCDOCDC(t *testing.T) {
	got := lexAll(t, "a /* comment */ b <!-- c --> d")
	want := []string{"a", "b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestLexerUnterminatedComment(t *testing.T) {
	l := NewLexer([]byte("a /* never closes"), "test.css")
	if _, err := l.NextToken(); err != nil {
		t.Fatalf("first token: %v", err)
	}
	if _, err := l.NextToken(); err == nil {
		t.Fatalf("expected unterminated comment error")
	}
}

func TestLexerStrings(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"simple", `"hello"`, "hello"},
		{"single quote", `'hello'`, "hello"},
		{"escaped newline literal", `"a\nb"`, "a\nb"},
		{"line continuation LF elided", "\"a\\\nb\"", "ab"},
		{"line continuation CRLF elided", "\"a\\\r\nb\"", "ab"},
		{"escaped quote", `"a\"b"`, `a"b`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLexer([]byte(tc.src), "test.css")
			k, err := l.NextToken()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if k != CSSString {
				t.Fatalf("kind: got %v want CSSString", k)
			}
			if l.Text() != tc.want {
				t.Errorf("text: got %q want %q", l.Text(), tc.want)
			}
		})
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	l := NewLexer([]byte(`"abc`), "test.css")
	if _, err := l.NextToken(); err == nil {
		t.Fatalf("expected unterminated string error")
	} else if !strings.Contains(err.Error(), "unterminated string") {
		t.Errorf("error: got %q", err.Error())
	}
}

func TestLexerColor(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"#abc", "a0b0c0"}, // idiosyncratic non-doubled nibble placement
		{"#aabbcc", "aabbcc"},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			l := NewLexer([]byte(tc.src), "test.css")
			k, err := l.NextToken()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if k != CSSColor {
				t.Fatalf("kind: got %v want CSSColor", k)
			}
			if l.Text() != tc.want {
				t.Errorf("text: got %q want %q", l.Text(), tc.want)
			}
		})
	}
}

func TestLexerColorInvalid(t *testing.T) {
	l := NewLexer([]byte("#ab"), "test.css")
	if _, err := l.NextToken(); err == nil {
		t.Fatalf("expected invalid color error")
	}
}

func TestLexerURL(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind TokenKind
	}{
		{"empty", "url()", CSSURI},
		{"with content", "url(foo.png)", CSSURI},
		{"not url, falls back to keyword", "urlx", CSSKeyword},
		{"partial ur falls back to keyword", "ur", CSSKeyword},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLexer([]byte(tc.src), "test.css")
			k, err := l.NextToken()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if k != tc.kind {
				t.Errorf("kind: got %v want %v", k, tc.kind)
			}
		})
	}
}

func TestLexerTokenTooLong(t *testing.T) {
	ok := strings.Repeat("a", maxTokenLen-1)
	l := NewLexer([]byte(ok), "test.css")
	if _, err := l.NextToken(); err != nil {
		t.Fatalf("1023-byte keyword should be accepted: %v", err)
	}

	tooLong := strings.Repeat("a", maxTokenLen)
	l2 := NewLexer([]byte(tooLong), "test.css")
	if _, err := l2.NextToken(); err == nil {
		t.Fatalf("1024-byte keyword should be rejected as too long")
	}
}

func TestLexerEmptyInput(t *testing.T) {
	l := NewLexer([]byte(""), "test.css")
	k, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if k != tokenEOF {
		t.Fatalf("kind: got %v want EOF", k)
	}
}
