// Package pattern provides the builder-tree vocabulary: placeholder
// leaves, the construction DSL, and the compiler that turns a builder
// tree into pattern text plus a predicate registry.
package pattern

import (
	"fmt"

	"github.com/treepat/treepat/node"
)

// Parser is the external-parser contract: source text in, tree value out.
// Implementations return *ParseError for plain syntax errors and
// *InvalidCodeError when the source embeds pattern meta-syntax.
type Parser interface {
	Parse(src string) (any, error)
}

// Literal is a placeholder leaf spliced verbatim into the compiled
// pattern text. It is the escape hatch for raw matcher meta-syntax
// (wildcards, ellipses) that cannot be built as a Node.
type Literal struct {
	Text string
}

func (l Literal) String() string { return l.Text }

// Capture marks its inner value as a capture group boundary: whatever
// matches the inner pattern at this position is recorded in the result.
type Capture struct {
	Inner any
}

func (c Capture) String() string { return fmt.Sprintf("$%v", c.Inner) }

// PredicateCapture matches any single value and accepts the match only
// if its predicate accepts the candidate. The matched value is captured.
type PredicateCapture struct {
	Pred Predicate
}

func (p PredicateCapture) String() string { return "$#pred" }

// DSL is the construction surface handed to a caller-supplied builder
// procedure. It carries the expression parser used by Expand and records
// the first error raised by any DSL call; a poisoned DSL aborts the
// enclosing build. DSL calls have no side effects beyond the immediate
// parser invocation inside Expand.
type DSL struct {
	parser Parser
	err    error
}

// NewDSL returns a DSL context wired to the given parser.
func NewDSL(p Parser) *DSL {
	return &DSL{parser: p}
}

// Err returns the first error recorded by a DSL call, if any.
func (d *DSL) Err() error { return d.err }

func (d *DSL) fail(err error) any {
	if d.err == nil {
		d.err = err
	}
	return nil
}

// S constructs a Node with the given type tag and children. Children may
// be Nodes, placeholders, or scalars; no shape validation happens here,
// illegality surfaces at compile or parse time.
func (d *DSL) S(typ string, children ...any) any {
	return node.New(node.Type(typ), children...)
}

// Expand parses source text immediately and returns the resulting value
// for direct inclusion in a sibling S call. Parser failures poison the
// build and propagate unchanged. The result is terminal: it is never
// re-scanned for further placeholders.
func (d *DSL) Expand(src string) any {
	v, err := d.parser.Parse(src)
	if err != nil {
		return d.fail(err)
	}
	return v
}

// Literal returns a verbatim-splice placeholder. The text is not
// validated here; the matcher's pattern parser judges it at compile time.
func (d *DSL) Literal(text string) any {
	return Literal{Text: text}
}

// Capture wraps a value as a capture group.
func (d *DSL) Capture(v any) any {
	return Capture{Inner: v}
}

// CaptureChildren captures the full remaining child sequence at this
// position. Shorthand for Capture(Literal("...")).
func (d *DSL) CaptureChildren() any {
	return Capture{Inner: Literal{Text: "..."}}
}

// CaptureMatching returns a predicate capture. Exactly one predicate
// argument must be supplied: func(any) bool, a Predicate, a
// *regexp.Regexp, a node.Type, or a plain value to compare against.
// Zero or multiple arguments poison the build with a ConfigurationError.
func (d *DSL) CaptureMatching(preds ...any) any {
	if len(preds) != 1 {
		return d.fail(&ConfigurationError{
			Msg: fmt.Sprintf("CaptureMatching wants exactly one predicate, got %d", len(preds)),
		})
	}
	p, err := predicateFor(preds[0])
	if err != nil {
		return d.fail(err)
	}
	return PredicateCapture{Pred: p}
}

// Matching is an alias for CaptureMatching, for call sites where the
// candidate itself is tested in place.
func (d *DSL) Matching(preds ...any) any {
	return d.CaptureMatching(preds...)
}

// Validate walks a builder tree and reports the first surviving
// placeholder leaf. A tree that passes is a plain, matchable AST.
func Validate(root any) error {
	switch v := root.(type) {
	case Literal, Capture, PredicateCapture:
		return &UnresolvedPlaceholderError{Placeholder: v}
	case *node.Node:
		for i := 0; i < v.ChildCount(); i++ {
			if err := Validate(v.Child(i)); err != nil {
				return err
			}
		}
	}
	return nil
}
