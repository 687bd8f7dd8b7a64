package css

import "fmt"

// SyntaxError is the single fatal diagnostic a parse can produce. There
// is no recovery: the first SyntaxError aborts the whole parse and the
// partially built tree is discarded.
type SyntaxError struct {
	File    string
	Line    int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("css syntax error: %s (%s:%d)", e.Message, e.File, e.Line)
}

func newSyntaxError(file string, line int, message string) *SyntaxError {
	return &SyntaxError{File: file, Line: line, Message: message}
}
