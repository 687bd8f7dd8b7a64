package css

// stream wraps a Lexer with a single token of lookahead, matching
// spec section 4.2: next/accept/expect are the only primitives the
// parser needs.
type stream struct {
	lex  *Lexer
	look TokenKind
	text string
}

func newStream(source []byte, file string) (*stream, error) {
	s := &stream{lex: NewLexer(source, file)}
	if err := s.next(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *stream) next() error {
	k, err := s.lex.NextToken()
	if err != nil {
		return err
	}
	s.look = k
	s.text = s.lex.Text()
	return nil
}

func (s *stream) accept(k TokenKind) (bool, error) {
	if s.look != k {
		return false, nil
	}
	if err := s.next(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *stream) expect(k TokenKind) error {
	ok, err := s.accept(k)
	if err != nil {
		return err
	}
	if !ok {
		return s.errorf("unexpected token")
	}
	return nil
}

func (s *stream) errorf(msg string) error {
	return newSyntaxError(s.lex.File(), s.lex.Line(), msg)
}
