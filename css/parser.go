package css

// parser is a recursive-descent builder over a one-token-lookahead
// stream. It never looks more than one token ahead; grammar decisions
// are made entirely from s.look.
type parser struct {
	s *stream
}

func isCond(t TokenKind) bool {
	return t == TokenKind(':') || t == TokenKind('.') || t == TokenKind('#') || t == TokenKind('[')
}

// ParseCSS parses a full stylesheet and appends the resulting rules to
// the tail of chain (returning chain's head), or returns a fresh chain
// if chain is nil. This supports loading several stylesheets (e.g.
// user-agent, document, inline) into a single ordered chain.
func ParseCSS(chain *Rule, source []byte, file string) (*Rule, error) {
	s, err := newStream(source, file)
	if err != nil {
		return nil, err
	}
	p := &parser{s: s}
	return p.parseStylesheet(chain)
}

// ParseDeclarations parses a bare declaration list with no surrounding
// braces, for inline "style" attributes.
func ParseDeclarations(source []byte) (*Property, error) {
	s, err := newStream(source, "<inline>")
	if err != nil {
		return nil, err
	}
	p := &parser{s: s}
	return p.parseDeclarationList()
}

func (p *parser) parseStylesheet(chain *Rule) (*Rule, error) {
	s := p.s

	var tail *Rule
	if chain != nil {
		tail = chain
		for tail.Next != nil {
			tail = tail.Next
		}
	}
	origTail := tail
	fail := func(err error) (*Rule, error) {
		if origTail != nil {
			origTail.Next = nil // unlink rules this parse already appended
		}
		return nil, err
	}

	for s.look != tokenEOF {
		ok, err := s.accept(TokenKind('@'))
		if err != nil {
			return fail(err)
		}
		if ok {
			if err := p.parseAtRule(); err != nil {
				return fail(err)
			}
			continue
		}

		rule, err := p.parseRule()
		if err != nil {
			return fail(err)
		}
		if tail == nil {
			chain = rule
			tail = rule
		} else {
			tail.Next = rule
			tail = rule
		}
	}

	return chain, nil
}

// parseAtRule skips an unrecognized at-rule wholesale: its prelude up
// to the first top-level ';' or '{'...'}' block (brace-depth tracked).
// EOF during the block silently ends the skip.
func (p *parser) parseAtRule() error {
	s := p.s

	if err := s.expect(CSSKeyword); err != nil {
		return err
	}

	for s.look != tokenEOF {
		ok, err := s.accept(TokenKind(';'))
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		ok, err = s.accept(TokenKind('{'))
		if err != nil {
			return err
		}
		if ok {
			depth := 1
			for s.look != tokenEOF && depth > 0 {
				if ok, err := s.accept(TokenKind('{')); err != nil {
					return err
				} else if ok {
					depth++
					continue
				}
				if ok, err := s.accept(TokenKind('}')); err != nil {
					return err
				} else if ok {
					depth--
					continue
				}
				if err := s.next(); err != nil {
					return err
				}
			}
			return nil
		}

		if err := s.next(); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) parseRule() (*Rule, error) {
	s := p.s

	sel, err := p.parseSelectorList()
	if err != nil {
		return nil, err
	}
	if err := s.expect(TokenKind('{')); err != nil {
		return nil, err
	}
	decl, err := p.parseDeclarationList()
	if err != nil {
		return nil, err
	}
	if err := s.expect(TokenKind('}')); err != nil {
		return nil, err
	}
	return &Rule{Selector: sel, Declaration: decl}, nil
}

func (p *parser) parseSelectorList() (*Selector, error) {
	s := p.s

	head, err := p.parseDescendantSelector()
	if err != nil {
		return nil, err
	}
	tail := head
	for {
		ok, err := s.accept(TokenKind(','))
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		next, err := p.parseDescendantSelector()
		if err != nil {
			return nil, err
		}
		tail.Next = next
		tail = next
	}
	return head, nil
}

// parseDescendantSelector implements the implicit whitespace
// combinator: it keeps recursing into its own right operand as long
// as the lookahead isn't one of the selector-list/rule terminators, no
// token is consumed for the combinator itself (the lexer already ate
// the whitespace). The recursion on the right operand makes the
// resulting chain right-associative: "a b c" becomes "a (b c)".
func (p *parser) parseDescendantSelector() (*Selector, error) {
	s := p.s

	left, err := p.parseChildSelector()
	if err != nil {
		return nil, err
	}
	if s.look != TokenKind(',') && s.look != TokenKind('{') && s.look != tokenEOF {
		right, err := p.parseDescendantSelector()
		if err != nil {
			return nil, err
		}
		return &Selector{Combine: ' ', Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) parseChildSelector() (*Selector, error) {
	s := p.s

	left, err := p.parseAdjacentSelector()
	if err != nil {
		return nil, err
	}
	ok, err := s.accept(TokenKind('>'))
	if err != nil {
		return nil, err
	}
	if ok {
		right, err := p.parseChildSelector()
		if err != nil {
			return nil, err
		}
		return &Selector{Combine: '>', Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) parseAdjacentSelector() (*Selector, error) {
	s := p.s

	left, err := p.parseSimpleSelector()
	if err != nil {
		return nil, err
	}
	ok, err := s.accept(TokenKind('+'))
	if err != nil {
		return nil, err
	}
	if ok {
		right, err := p.parseAdjacentSelector()
		if err != nil {
			return nil, err
		}
		return &Selector{Combine: '+', Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) parseSimpleSelector() (*Selector, error) {
	s := p.s

	ok, err := s.accept(TokenKind('*'))
	if err != nil {
		return nil, err
	}
	if ok {
		sel := &Selector{}
		if isCond(s.look) {
			cond, err := p.parseConditionList()
			if err != nil {
				return nil, err
			}
			sel.Cond = cond
		}
		return sel, nil
	}

	if s.look == CSSKeyword {
		sel := &Selector{Name: s.text, HasName: true}
		if err := s.next(); err != nil {
			return nil, err
		}
		if isCond(s.look) {
			cond, err := p.parseConditionList()
			if err != nil {
				return nil, err
			}
			sel.Cond = cond
		}
		return sel, nil
	}

	if isCond(s.look) {
		sel := &Selector{}
		cond, err := p.parseConditionList()
		if err != nil {
			return nil, err
		}
		sel.Cond = cond
		return sel, nil
	}

	return nil, s.errorf("expected selector")
}

func (p *parser) parseConditionList() (*Condition, error) {
	s := p.s

	head, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	tail := head
	for isCond(s.look) {
		next, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		tail.Next = next
		tail = next
	}
	return head, nil
}

func (p *parser) parseCondition() (*Condition, error) {
	s := p.s

	if ok, err := s.accept(TokenKind(':')); err != nil {
		return nil, err
	} else if ok {
		if s.look != CSSKeyword {
			return nil, s.errorf("expected keyword after ':'")
		}
		c := &Condition{Type: ':', Key: "pseudo", Val: s.text, HasVal: true}
		if err := s.next(); err != nil {
			return nil, err
		}
		return c, nil
	}

	if ok, err := s.accept(TokenKind('.')); err != nil {
		return nil, err
	} else if ok {
		if s.look != CSSKeyword {
			return nil, s.errorf("expected keyword after '.'")
		}
		c := &Condition{Type: '.', Key: "class", Val: s.text, HasVal: true}
		if err := s.next(); err != nil {
			return nil, err
		}
		return c, nil
	}

	if ok, err := s.accept(TokenKind('#')); err != nil {
		return nil, err
	} else if ok {
		if s.look != CSSKeyword {
			return nil, s.errorf("expected keyword after '#'")
		}
		c := &Condition{Type: '#', Key: "id", Val: s.text, HasVal: true}
		if err := s.next(); err != nil {
			return nil, err
		}
		return c, nil
	}

	if ok, err := s.accept(TokenKind('[')); err != nil {
		return nil, err
	} else if ok {
		if s.look != CSSKeyword {
			return nil, s.errorf("expected keyword after '['")
		}
		c := &Condition{Type: '[', Key: s.text}
		if err := s.next(); err != nil {
			return nil, err
		}

		if eq, err := s.accept(TokenKind('=')); err != nil {
			return nil, err
		} else if eq {
			c.Type = '='
			val, err := p.parseAttribValue()
			if err != nil {
				return nil, err
			}
			c.Val, c.HasVal = val, true
		} else if pipe, err := s.accept(TokenKind('|')); err != nil {
			return nil, err
		} else if pipe {
			if err := s.expect(TokenKind('=')); err != nil {
				return nil, err
			}
			c.Type = '|'
			val, err := p.parseAttribValue()
			if err != nil {
				return nil, err
			}
			c.Val, c.HasVal = val, true
		} else if tilde, err := s.accept(TokenKind('~')); err != nil {
			return nil, err
		} else if tilde {
			if err := s.expect(TokenKind('=')); err != nil {
				return nil, err
			}
			c.Type = '~'
			val, err := p.parseAttribValue()
			if err != nil {
				return nil, err
			}
			c.Val, c.HasVal = val, true
		}

		if err := s.expect(TokenKind(']')); err != nil {
			return nil, err
		}
		return c, nil
	}

	return nil, s.errorf("expected condition")
}

func (p *parser) parseAttribValue() (string, error) {
	s := p.s
	if s.look == CSSKeyword || s.look == CSSString {
		v := s.text
		if err := s.next(); err != nil {
			return "", err
		}
		return v, nil
	}
	return "", s.errorf("expected attribute value")
}

func (p *parser) parseDeclarationList() (*Property, error) {
	s := p.s

	if s.look == TokenKind('}') || s.look == tokenEOF {
		return nil, nil
	}

	head, err := p.parseDeclaration()
	if err != nil {
		return nil, err
	}
	tail := head

	for {
		ok, err := s.accept(TokenKind(';'))
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if s.look != TokenKind('}') && s.look != TokenKind(';') && s.look != tokenEOF {
			next, err := p.parseDeclaration()
			if err != nil {
				return nil, err
			}
			tail.Next = next
			tail = next
		}
	}

	return head, nil
}

func (p *parser) parseDeclaration() (*Property, error) {
	s := p.s

	if s.look != CSSKeyword {
		return nil, s.errorf("expected keyword in property")
	}
	prop := &Property{Name: s.text}
	if err := s.next(); err != nil {
		return nil, err
	}

	if err := s.expect(TokenKind(':')); err != nil {
		return nil, err
	}

	val, err := p.parseValueList()
	if err != nil {
		return nil, err
	}
	prop.Value = val

	// !important: the marker is accepted and discarded. See DESIGN.md
	// for why no flag is recorded.
	if ok, err := s.accept(TokenKind('!')); err != nil {
		return nil, err
	} else if ok {
		if err := s.expect(CSSKeyword); err != nil {
			return nil, err
		}
	}

	return prop, nil
}

func (p *parser) parseValueList() (*Value, error) {
	s := p.s

	var head, tail *Value
	for s.look != TokenKind('}') && s.look != TokenKind(';') && s.look != TokenKind('!') &&
		s.look != TokenKind(')') && s.look != tokenEOF {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if head == nil {
			head, tail = v, v
		} else {
			tail.Next = v
			tail = v
		}
	}
	return head, nil
}

func (p *parser) parseValue() (*Value, error) {
	s := p.s

	if s.look == CSSKeyword {
		v := &Value{Type: CSSKeyword, Data: s.text}
		if err := s.next(); err != nil {
			return nil, err
		}
		ok, err := s.accept(TokenKind('('))
		if err != nil {
			return nil, err
		}
		if ok {
			v.Type = '('
			args, err := p.parseValueList()
			if err != nil {
				return nil, err
			}
			v.Args = args
			if err := s.expect(TokenKind(')')); err != nil {
				return nil, err
			}
		}
		return v, nil
	}

	switch s.look {
	case CSSNumber, CSSLength, CSSPercent, CSSString, CSSColor, CSSURI:
		v := &Value{Type: s.look, Data: s.text}
		if err := s.next(); err != nil {
			return nil, err
		}
		return v, nil
	}

	if ok, err := s.accept(TokenKind(',')); err != nil {
		return nil, err
	} else if ok {
		return &Value{Type: TokenKind(','), Data: ","}, nil
	}
	if ok, err := s.accept(TokenKind('/')); err != nil {
		return nil, err
	} else if ok {
		return &Value{Type: TokenKind('/'), Data: "/"}, nil
	}

	return nil, s.errorf("expected value")
}
