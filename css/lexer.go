package css

import "fmt"

// maxTokenLen is the size of the lexer's scratch buffer (spec: 1024
// bytes including a terminator the C source keeps and this
// implementation doesn't need). A token body may accumulate at most
// maxTokenLen-1 bytes before the lexer fails with "token too long".
const maxTokenLen = 1024

// Lexer turns a byte stream into a sequence of CSS tokens. It owns a
// cursor over the source, the current byte, a 1-based line counter,
// and a scratch buffer holding the textual payload of the most
// recently produced token.
type Lexer struct {
	source []byte
	file   string
	pos    int
	line   int
	c      byte
	scratch []byte
}

// NewLexer creates a lexer over source, positioned before the first
// token. source is treated as ending at its length or at the first
// NUL byte, whichever comes first, matching the NUL-terminated
// contract callers are expected to uphold.
func NewLexer(source []byte, file string) *Lexer {
	l := &Lexer{source: source, file: file, line: 1}
	l.advance()
	return l
}

func (l *Lexer) Line() int { return l.line }
func (l *Lexer) File() string { return l.file }

// Text returns the payload of the most recently produced token.
func (l *Lexer) Text() string { return string(l.scratch) }

func (l *Lexer) advance() {
	if l.pos >= len(l.source) {
		l.c = 0
		return
	}
	l.c = l.source[l.pos]
	l.pos++
	if l.c == '\n' {
		l.line++
	}
}

func (l *Lexer) accept(c byte) bool {
	if l.c == c {
		l.advance()
		return true
	}
	return false
}

func (l *Lexer) expectByte(c byte) error {
	if l.accept(c) {
		return nil
	}
	return l.errorf("unexpected character")
}

func (l *Lexer) errorf(format string, args ...any) error {
	return newSyntaxError(l.file, l.line, fmt.Sprintf(format, args...))
}

func (l *Lexer) push(c byte) error {
	if len(l.scratch) >= maxTokenLen-1 {
		return l.errorf("token too long")
	}
	l.scratch = append(l.scratch, c)
	return nil
}

func isWhite(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f'
}

func isNmstart(c byte) bool {
	return c == '\\' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 128
}

func isNmchar(c byte) bool {
	return isNmstart(c) || isDigit(c) || c == '-'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func hexValue(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 0xA, true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 0xA, true
	}
	return 0, false
}

// NextToken advances past the next token and returns its kind. The
// token's text is retrieved separately via Text. EOF is reported as
// tokenEOF, never as an error.
func (l *Lexer) NextToken() (TokenKind, error) {
	for {
		l.scratch = l.scratch[:0]
		for isWhite(l.c) {
			l.advance()
		}
		if l.c == 0 {
			return tokenEOF, nil
		}
		kind, retry, err := l.lexOnce()
		if err != nil {
			return 0, err
		}
		if retry {
			continue
		}
		return kind, nil
	}
}

// lexOnce dispatches on the current character. retry is true when the
// dispatch consumed something that produces no token of its own
// (a comment, CDO, or CDC) and the caller should restart token
// scanning from whitespace-skipping.
func (l *Lexer) lexOnce() (kind TokenKind, retry bool, err error) {
	c := l.c

	switch {
	case c == '/':
		l.advance()
		if l.accept('*') {
			for l.c != 0 {
				if l.accept('*') {
					for l.c == '*' {
						l.advance()
					}
					if l.accept('/') {
						return 0, true, nil
					}
				}
				l.advance()
			}
			return 0, false, l.errorf("unterminated comment")
		}
		return TokenKind('/'), false, nil

	case c == '<':
		l.advance()
		if l.accept('!') {
			if err := l.expectByte('-'); err != nil {
				return 0, false, err
			}
			if err := l.expectByte('-'); err != nil {
				return 0, false, err
			}
			return 0, true, nil
		}
		return TokenKind('<'), false, nil

	case c == '-':
		l.advance()
		if l.accept('-') {
			if err := l.expectByte('>'); err != nil {
				return 0, false, err
			}
			return 0, true, nil
		}
		if isDigit(l.c) {
			if err := l.push('-'); err != nil {
				return 0, false, err
			}
			k, err := l.lexNumber()
			return k, false, err
		}
		if isNmstart(l.c) {
			if err := l.push('-'); err != nil {
				return 0, false, err
			}
			if err := l.push(l.c); err != nil {
				return 0, false, err
			}
			l.advance()
			k, err := l.lexKeyword()
			return k, false, err
		}
		return TokenKind('-'), false, nil

	case c == '+':
		l.advance()
		if isDigit(l.c) {
			k, err := l.lexNumber()
			return k, false, err
		}
		return TokenKind('+'), false, nil

	case c == '.':
		l.advance()
		if isDigit(l.c) {
			if err := l.push('.'); err != nil {
				return 0, false, err
			}
			k, err := l.lexNumber()
			return k, false, err
		}
		return TokenKind('.'), false, nil

	case c == '#':
		k, err := l.lexColor()
		return k, false, err

	case c == '"':
		l.advance()
		k, err := l.lexString('"')
		return k, false, err

	case c == '\'':
		l.advance()
		k, err := l.lexString('\'')
		return k, false, err

	case isDigit(c):
		k, err := l.lexNumber()
		return k, false, err

	case c == 'u':
		k, err := l.lexU()
		return k, false, err

	case isNmstart(c):
		if err := l.push(c); err != nil {
			return 0, false, err
		}
		l.advance()
		k, err := l.lexKeyword()
		return k, false, err

	default:
		l.advance()
		return TokenKind(c), false, nil
	}
}

func (l *Lexer) lexNumber() (TokenKind, error) {
	for isDigit(l.c) {
		if err := l.push(l.c); err != nil {
			return 0, err
		}
		l.advance()
	}

	if l.accept('.') {
		if err := l.push('.'); err != nil {
			return 0, err
		}
		for isDigit(l.c) {
			if err := l.push(l.c); err != nil {
				return 0, err
			}
			l.advance()
		}
	}

	if l.accept('%') {
		if err := l.push('%'); err != nil {
			return 0, err
		}
		return CSSPercent, nil
	}

	if isNmstart(l.c) {
		if err := l.push(l.c); err != nil {
			return 0, err
		}
		l.advance()
		for isNmchar(l.c) {
			if err := l.push(l.c); err != nil {
				return 0, err
			}
			l.advance()
		}
		return CSSLength, nil
	}

	return CSSNumber, nil
}

func (l *Lexer) lexKeyword() (TokenKind, error) {
	for isNmchar(l.c) {
		if err := l.push(l.c); err != nil {
			return 0, err
		}
		l.advance()
	}
	return CSSKeyword, nil
}

func (l *Lexer) lexString(quote byte) (TokenKind, error) {
	for l.c != 0 && l.c != quote {
		if l.accept('\\') {
			switch {
			case l.accept('n'):
				if err := l.push('\n'); err != nil {
					return 0, err
				}
			case l.accept('r'):
				if err := l.push('\r'); err != nil {
					return 0, err
				}
			case l.accept('f'):
				if err := l.push('\f'); err != nil {
					return 0, err
				}
			case l.accept('\f'):
				// line continuation, produces nothing
			case l.accept('\n'):
				// line continuation, produces nothing
			case l.accept('\r'):
				l.accept('\n') // CRLF line continuation
			default:
				if err := l.push(l.c); err != nil {
					return 0, err
				}
				l.advance()
			}
			continue
		}
		if err := l.push(l.c); err != nil {
			return 0, err
		}
		l.advance()
	}
	if l.c != quote {
		return 0, l.errorf("unterminated string")
	}
	l.advance()
	return CSSString, nil
}

// lexColor lexes a "#rgb" or "#rrggbb" color, preserving the source's
// idiosyncratic nibble placement verbatim: the three-digit form packs
// (a<<20)|(b<<12)|(c<<4), not the conventional doubled-nibble
// expansion. See DESIGN.md.
func (l *Lexer) lexColor() (TokenKind, error) {
	l.advance() // consume '#'

	a, ok := l.hexDigit()
	if !ok {
		return 0, l.errorf("invalid color")
	}
	b, ok := l.hexDigit()
	if !ok {
		return 0, l.errorf("invalid color")
	}
	c, ok := l.hexDigit()
	if !ok {
		return 0, l.errorf("invalid color")
	}

	var color int
	if d, ok := l.hexDigit(); ok {
		e, ok := l.hexDigit()
		if !ok {
			return 0, l.errorf("invalid color")
		}
		f, ok := l.hexDigit()
		if !ok {
			return 0, l.errorf("invalid color")
		}
		color = (a << 20) | (b << 16) | (c << 12) | (d << 8) | (e << 4) | f
	} else {
		color = (a << 20) | (b << 12) | (c << 4)
	}

	l.scratch = l.scratch[:0]
	l.scratch = append(l.scratch, []byte(fmt.Sprintf("%06x", color))...)
	return CSSColor, nil
}

func (l *Lexer) hexDigit() (int, bool) {
	v, ok := hexValue(l.c)
	if !ok {
		return 0, false
	}
	l.advance()
	return v, true
}

// lexU speculatively matches "url(", discards its content up to and
// including the first ')', and falls back to a plain keyword (with
// whatever prefix was already matched pushed back) the moment any
// expected character is missing.
func (l *Lexer) lexU() (TokenKind, error) {
	l.advance() // consume 'u'

	if !l.accept('r') {
		if err := l.push('u'); err != nil {
			return 0, err
		}
		return l.lexKeyword()
	}
	if !l.accept('l') {
		if err := l.pushAll('u', 'r'); err != nil {
			return 0, err
		}
		return l.lexKeyword()
	}
	if !l.accept('(') {
		if err := l.pushAll('u', 'r', 'l'); err != nil {
			return 0, err
		}
		return l.lexKeyword()
	}

	for l.c != ')' && l.c != 0 {
		l.advance()
	}
	if err := l.expectByte(')'); err != nil {
		return 0, err
	}
	return CSSURI, nil
}

func (l *Lexer) pushAll(cs ...byte) error {
	for _, c := range cs {
		if err := l.push(c); err != nil {
			return err
		}
	}
	return nil
}
