package pattern

import "fmt"

// ParseError reports that the expression parser rejected source text
// outright (a syntax error in the expression grammar).
type ParseError struct {
	Source string // the offending source text
	Pos    int    // byte offset of the failure
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d in %q: %s", e.Pos, e.Source, e.Msg)
}

// InvalidCodeError reports source text that is lexically plausible but
// contains pattern meta-syntax (wildcards, captures) the expression parser
// cannot accept. It is surfaced distinctly from ParseError so callers can
// detect "you meant to use a builder, not a source string".
type InvalidCodeError struct {
	Source string // the offending source text
	Token  string // the meta token that triggered the failure
}

func (e *InvalidCodeError) Error() string {
	return fmt.Sprintf("invalid code %q: meta token %q is not valid source; use a builder to embed pattern syntax", e.Source, e.Token)
}

// ConfigurationError reports a DSL call that received an invalid
// combination of arguments.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Msg
}

// CompileError reports a builder-tree value that the pattern grammar
// cannot express, naming the offending subtree.
type CompileError struct {
	Subtree any
	Msg     string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("cannot compile %v: %s", e.Subtree, e.Msg)
}

// UnresolvedPlaceholderError reports an attempt to read a builder tree as
// a plain AST while it still contains placeholder leaves.
type UnresolvedPlaceholderError struct {
	Placeholder any
}

func (e *UnresolvedPlaceholderError) Error() string {
	return fmt.Sprintf("tree still contains placeholder %v and is not a plain AST", e.Placeholder)
}
