// Package treepat builds executable tree patterns from programmatic
// s-expression fragments. A Builder owns one builder tree (real nodes
// plus placeholder leaves for wildcards, captures, and predicate hooks)
// and compiles it on demand into pattern text and a matcher.
//
//	b, _ := treepat.Build(func(d *pattern.DSL) any {
//		return d.S("casgn", d.Expand("A::B"), node.Sym("C"), d.Capture(d.Literal("...")))
//	})
//	got, _ := b.Match("A::B::C = 1") // int64(1)
package treepat

import (
	"github.com/treepat/treepat/matcher"
	"github.com/treepat/treepat/parser"
	"github.com/treepat/treepat/pattern"
)

// Builder owns a builder tree and its compiled form. The compiled
// matcher is cached for the Builder's lifetime; construction and
// compilation never mutate the tree. Builders share no state with each
// other and are not safe for concurrent use.
type Builder struct {
	root   any
	parser pattern.Parser

	// compile cache
	text     string
	compiled *matcher.Matcher
}

// Build runs a construction procedure in a DSL context wired to the
// default expression parser and wraps the resulting builder tree. Any
// error a DSL call recorded (parse failure in Expand, bad predicate
// arguments) aborts the build.
func Build(fn func(d *pattern.DSL) any) (*Builder, error) {
	return BuildUsing(parser.New(), fn)
}

// BuildUsing is Build with an explicit expression parser.
func BuildUsing(p pattern.Parser, fn func(d *pattern.DSL) any) (*Builder, error) {
	d := pattern.NewDSL(p)
	root := fn(d)
	if err := d.Err(); err != nil {
		return nil, err
	}
	return &Builder{root: root, parser: p}, nil
}

// BuildSource parses source text and wraps the resulting tree as a
// Builder with no placeholders. Source containing pattern meta-syntax
// fails with *pattern.InvalidCodeError; a plain syntax error fails with
// *pattern.ParseError.
func BuildSource(src string) (*Builder, error) {
	return BuildSourceUsing(parser.New(), src)
}

// BuildSourceUsing is BuildSource with an explicit expression parser.
func BuildSourceUsing(p pattern.Parser, src string) (*Builder, error) {
	v, err := p.Parse(src)
	if err != nil {
		return nil, err
	}
	return &Builder{root: v, parser: p}, nil
}

// AST returns the builder tree as a plain value tree. It fails with
// *pattern.UnresolvedPlaceholderError if any placeholder leaf survives:
// a tree holding Literal, Capture, or PredicateCapture placeholders is a
// pattern under construction, not a matchable AST.
func (b *Builder) AST() (any, error) {
	if err := pattern.Validate(b.root); err != nil {
		return nil, err
	}
	return b.root, nil
}

// Pattern returns the compiled pattern text.
func (b *Builder) Pattern() (string, error) {
	if err := b.compile(); err != nil {
		return "", err
	}
	return b.text, nil
}

// Matcher returns the compiled matcher. Compilation happens once;
// repeated calls return the cached matcher and never re-invoke the
// expression parser or the pattern compiler.
func (b *Builder) Matcher() (*matcher.Matcher, error) {
	if err := b.compile(); err != nil {
		return nil, err
	}
	return b.compiled, nil
}

func (b *Builder) compile() error {
	if b.compiled != nil {
		return nil
	}
	text, preds, err := pattern.Compile(b.root)
	if err != nil {
		return err
	}
	m, err := matcher.CompileWithPredicates(text, preds)
	if err != nil {
		return err
	}
	b.text = text
	b.compiled = m
	return nil
}

// Match runs the pattern against a tree value, or against source text
// which is parsed first (with BuildSource's failure modes). The result
// is normalized: no match returns (nil, nil), a negative outcome rather
// than an error; a structural match with no captures returns the matched
// value; exactly one capture returns that value bare; several captures
// return the ordered []any sequence.
func (b *Builder) Match(input any) (any, error) {
	m, err := b.Matcher()
	if err != nil {
		return nil, err
	}
	v := input
	if src, ok := input.(string); ok {
		v, err = b.parser.Parse(src)
		if err != nil {
			return nil, err
		}
	}
	res := m.Match(v)
	if !res.Matched {
		return nil, nil
	}
	switch len(res.Captures) {
	case 0:
		return v, nil
	case 1:
		return res.Captures[0], nil
	default:
		return res.Captures, nil
	}
}
