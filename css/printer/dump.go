package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/cssbox/css"
)

// Dump writes an indented tree view of rule for debugging, one node
// per line. Unlike Print, the output is not valid CSS.
func Dump(w io.Writer, rule *css.Rule) error {
	for r := rule; r != nil; r = r.Next {
		if err := dumpRule(w, r, 0); err != nil {
			return err
		}
	}
	return nil
}

func indent(w io.Writer, depth int) error {
	_, err := io.WriteString(w, strings.Repeat("  ", depth))
	return err
}

func dumpRule(w io.Writer, r *css.Rule, depth int) error {
	if err := indent(w, depth); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "rule\n"); err != nil {
		return err
	}
	for s := r.Selector; s != nil; s = s.Next {
		if err := dumpSelector(w, s, depth+1); err != nil {
			return err
		}
	}
	for d := r.Declaration; d != nil; d = d.Next {
		if err := dumpProperty(w, d, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func dumpSelector(w io.Writer, s *css.Selector, depth int) error {
	if err := indent(w, depth); err != nil {
		return err
	}
	switch {
	case s.Combine != 0:
		if _, err := fmt.Fprintf(w, "selector combine=%q\n", s.Combine); err != nil {
			return err
		}
		if err := dumpSelector(w, s.Left, depth+1); err != nil {
			return err
		}
		return dumpSelector(w, s.Right, depth+1)
	case s.HasName:
		if _, err := fmt.Fprintf(w, "selector name=%q\n", s.Name); err != nil {
			return err
		}
	default:
		if _, err := io.WriteString(w, "selector *\n"); err != nil {
			return err
		}
	}
	for c := s.Cond; c != nil; c = c.Next {
		if err := dumpCondition(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func dumpCondition(w io.Writer, c *css.Condition, depth int) error {
	if err := indent(w, depth); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "condition type=%q key=%q val=%q\n", c.Type, c.Key, c.Val)
	return err
}

func dumpProperty(w io.Writer, p *css.Property, depth int) error {
	if err := indent(w, depth); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "property name=%q\n", p.Name); err != nil {
		return err
	}
	for v := p.Value; v != nil; v = v.Next {
		if err := dumpValue(w, v, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func dumpValue(w io.Writer, v *css.Value, depth int) error {
	if err := indent(w, depth); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "value type=%v data=%q\n", v.Type, v.Data); err != nil {
		return err
	}
	for a := v.Args; a != nil; a = a.Next {
		if err := dumpValue(w, a, depth+1); err != nil {
			return err
		}
	}
	return nil
}
