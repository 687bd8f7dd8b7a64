// Package printer re-serializes a parsed css.Rule chain back into CSS
// text (Fprint), and renders it as an indented debug tree (Dump) for
// inspecting what the parser actually built.
package printer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dhamidi/cssbox/css"
)

// Printer writes a css.Rule chain as CSS source. The zero value is
// ready to use.
type Printer struct{}

// Fprint writes rule (and every rule chained after it) to w as CSS
// text, one rule per line.
func Fprint(w io.Writer, rule *css.Rule) error {
	var p Printer
	return p.Print(w, rule)
}

// Sprint is Fprint into a string, for tests and quick inspection.
func Sprint(rule *css.Rule) string {
	var buf bytes.Buffer
	_ = Fprint(&buf, rule)
	return buf.String()
}

func (p *Printer) Print(w io.Writer, rule *css.Rule) error {
	for r := rule; r != nil; r = r.Next {
		if err := p.printRule(w, r); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printRule(w io.Writer, r *css.Rule) error {
	if err := p.printSelectorGroup(w, r.Selector); err != nil {
		return err
	}
	if _, err := io.WriteString(w, " { "); err != nil {
		return err
	}
	if err := p.printDeclarationList(w, r.Declaration); err != nil {
		return err
	}
	_, err := io.WriteString(w, "}")
	return err
}

func (p *Printer) printSelectorGroup(w io.Writer, sel *css.Selector) error {
	for s := sel; s != nil; s = s.Next {
		if s != sel {
			if _, err := io.WriteString(w, ", "); err != nil {
				return err
			}
		}
		if err := p.printSelector(w, s); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printSelector(w io.Writer, s *css.Selector) error {
	if s.Combine != 0 {
		if err := p.printSelector(w, s.Left); err != nil {
			return err
		}
		sep := string(s.Combine)
		if s.Combine == ' ' {
			sep = " "
		} else {
			sep = " " + sep + " "
		}
		if _, err := io.WriteString(w, sep); err != nil {
			return err
		}
		return p.printSelector(w, s.Right)
	}

	if s.HasName {
		if _, err := io.WriteString(w, s.Name); err != nil {
			return err
		}
	} else if s.Cond == nil {
		if _, err := io.WriteString(w, "*"); err != nil {
			return err
		}
	}
	return p.printConditionList(w, s.Cond)
}

func (p *Printer) printConditionList(w io.Writer, cond *css.Condition) error {
	for c := cond; c != nil; c = c.Next {
		if err := p.printCondition(w, c); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printCondition(w io.Writer, c *css.Condition) error {
	switch c.Type {
	case ':':
		_, err := fmt.Fprintf(w, ":%s", c.Val)
		return err
	case '.':
		_, err := fmt.Fprintf(w, ".%s", c.Val)
		return err
	case '#':
		_, err := fmt.Fprintf(w, "#%s", c.Val)
		return err
	case '[':
		_, err := fmt.Fprintf(w, "[%s]", c.Key)
		return err
	case '=', '|', '~':
		op := string(c.Type) + "="
		_, err := fmt.Fprintf(w, "[%s%s%q]", c.Key, op, c.Val)
		return err
	}
	return nil
}

func (p *Printer) printDeclarationList(w io.Writer, prop *css.Property) error {
	for d := prop; d != nil; d = d.Next {
		if d != prop {
			if _, err := io.WriteString(w, "; "); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s: ", d.Name); err != nil {
			return err
		}
		if err := p.printValueList(w, d.Value); err != nil {
			return err
		}
	}
	if prop != nil {
		_, err := io.WriteString(w, "; ")
		return err
	}
	return nil
}

func (p *Printer) printValueList(w io.Writer, val *css.Value) error {
	for v := val; v != nil; v = v.Next {
		if v != val && v.Type != ',' {
			if _, err := io.WriteString(w, " "); err != nil {
				return err
			}
		}
		if err := p.printValue(w, v); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printValue(w io.Writer, v *css.Value) error {
	switch v.Type {
	case css.CSSColor:
		_, err := fmt.Fprintf(w, "#%s", v.Data)
		return err
	case css.CSSString:
		_, err := fmt.Fprintf(w, "%q", v.Data)
		return err
	case css.CSSURI:
		_, err := io.WriteString(w, "url(...)")
		return err
	case css.TokenKind('('):
		if _, err := fmt.Fprintf(w, "%s(", v.Data); err != nil {
			return err
		}
		if err := p.printValueList(w, v.Args); err != nil {
			return err
		}
		_, err := io.WriteString(w, ")")
		return err
	default:
		_, err := io.WriteString(w, v.Data)
		return err
	}
}
