// Package css implements a hand-written lexer and recursive-descent
// parser for a CSS2-ish subset used to style a document layout engine.
//
// The pipeline is a straight line: bytes go into NewLexer, tokens come
// out of (*Lexer).NextToken, a stream wraps the lexer with one token
// of lookahead, and a parser consumes the stream to build a Rule
// chain. ParseCSS and ParseDeclarations are the two entry points most
// callers need; everything else in the package exists to serve them.
//
// There is no error recovery. The first malformed construct anywhere
// in the source aborts the parse and returns a *SyntaxError; there is
// no partial tree and no secondary diagnostics. This matches a
// rendering engine that would rather refuse a broken stylesheet than
// guess at the author's intent.
//
// Rule, Selector, Condition, Property, and Value form singly linked
// node chains rather than slices, which keeps them cheap to splice
// (ParseCSS appends a new stylesheet onto an existing chain's tail)
// and keeps the shape close to what other tools in this module expect
// to walk.
package css
