// Package matcher compiles pattern text into an executable tree matcher.
//
// The grammar is the s-expression shape emitted by the pattern compiler:
// (type child ...) sequences, scalar literals, "nil?" for a nil child,
// "_" for any single value, "..." for any remaining children, "$" to
// capture the following element, and "#name" to call a registered
// predicate on the candidate value.
package matcher

import (
	"fmt"
	"strconv"

	"github.com/treepat/treepat/node"
)

// PatternSyntaxError reports pattern text the grammar rejects, or a
// predicate reference with no registered predicate.
type PatternSyntaxError struct {
	Pattern string
	Pos     int
	Msg     string
}

func (e *PatternSyntaxError) Error() string {
	return fmt.Sprintf("bad pattern at %d in %q: %s", e.Pos, e.Pattern, e.Msg)
}

// Matcher is the compiled, executable form of pattern text. It is not
// mutated after creation and keeps its predicate table reachable for its
// own lifetime.
type Matcher struct {
	root  expr
	ncaps int
	preds map[string]func(any) bool
}

// Result is the outcome of one match: either no match, or an ordered
// sequence of captured values, one per capture in the pattern's
// left-to-right depth-first order.
type Result struct {
	Matched  bool
	Captures []any
}

// Compile compiles pattern text with no predicate references.
func Compile(text string) (*Matcher, error) {
	return CompileWithPredicates(text, nil)
}

// CompileWithPredicates compiles pattern text, resolving "#name"
// references against the given table. An unresolved reference is a
// PatternSyntaxError: the pattern names a hook the caller never supplied.
func CompileWithPredicates(text string, preds map[string]func(any) bool) (*Matcher, error) {
	tokens, err := newLexer(text).tokenize()
	if err != nil {
		return nil, err
	}
	p := newParser(text, tokens)
	root, err := p.parse()
	if err != nil {
		return nil, err
	}
	for _, name := range p.preds {
		if _, ok := preds[name]; !ok {
			return nil, &PatternSyntaxError{Pattern: text, Msg: "no predicate registered for #" + name}
		}
	}
	return &Matcher{root: root, ncaps: p.ncaps, preds: preds}, nil
}

// Match runs the matcher against a tree value. Structural non-match is a
// normal negative result, never an error. Predicates run synchronously
// during the walk; a panicking predicate propagates unchanged.
func (m *Matcher) Match(v any) Result {
	caps := make([]any, m.ncaps)
	if !m.match(m.root, v, caps) {
		return Result{}
	}
	return Result{Matched: true, Captures: caps}
}

func (m *Matcher) match(e expr, v any, caps []any) bool {
	switch x := e.(type) {
	case wildcardExpr, ellipsisExpr:
		return true

	case nilExpr:
		return v == nil

	case literalExpr:
		return node.Equal(x.val, v)

	case seqExpr:
		n, ok := v.(*node.Node)
		if !ok || n == nil || n.Type() != x.typ {
			return false
		}
		return m.matchSeq(x.children, 0, n.Children(), 0, caps)

	case captureExpr:
		if !m.match(x.inner, v, caps) {
			return false
		}
		caps[x.idx] = node.Unwrap(v)
		return true

	case predExpr:
		return m.preds[x.name](node.Unwrap(v))
	}
	return false
}

// matchSeq matches child patterns against a child slice with recursive
// backtracking over ellipses, the same scheme the pattern-rewrite engine
// uses for metavariables over text.
func (m *Matcher) matchSeq(pats []expr, pi int, kids []any, ki int, caps []any) bool {
	if pi == len(pats) {
		return ki == len(kids)
	}

	switch e := pats[pi].(type) {
	case ellipsisExpr:
		// try every possible run length, shortest first
		for k := ki; k <= len(kids); k++ {
			if m.matchSeq(pats, pi+1, kids, k, caps) {
				return true
			}
		}
		return false

	case captureExpr:
		if _, ok := e.inner.(ellipsisExpr); ok {
			// a captured ellipsis takes the longest run whose remainder
			// still matches, and records the consumed children
			for k := len(kids); k >= ki; k-- {
				if m.matchSeq(pats, pi+1, kids, k, caps) {
					seg := make([]any, 0, k-ki)
					for _, c := range kids[ki:k] {
						seg = append(seg, node.Unwrap(c))
					}
					// a run of exactly one child captures the value
					// itself rather than a one-element sequence
					if len(seg) == 1 {
						caps[e.idx] = seg[0]
					} else {
						caps[e.idx] = seg
					}
					return true
				}
			}
			return false
		}
	}

	if ki >= len(kids) {
		return false
	}
	if !m.match(pats[pi], kids[ki], caps) {
		return false
	}
	return m.matchSeq(pats, pi+1, kids, ki+1, caps)
}

func parseInt(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}
