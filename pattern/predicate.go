package pattern

import (
	"reflect"
	"regexp"

	"github.com/treepat/treepat/node"
)

// Predicate is the single capability the compiler and matcher invoke for
// predicate captures: does this predicate accept the candidate value?
// Concrete shapes (callable, regexp, type tag, plain value) are adapted
// onto it once, at DSL time; nothing downstream branches on the shape.
type Predicate interface {
	Accepts(v any) bool
}

// PredicateFunc adapts a plain function to the Predicate capability.
type PredicateFunc func(any) bool

func (f PredicateFunc) Accepts(v any) bool { return f(v) }

// containmentPredicate adapts non-callable predicate values: a regexp
// tests string candidates, a node.Type tests the candidate node's tag,
// and anything else is a structural equality test.
type containmentPredicate struct {
	want any
}

func (p containmentPredicate) Accepts(v any) bool {
	switch w := p.want.(type) {
	case *regexp.Regexp:
		switch s := v.(type) {
		case string:
			return w.MatchString(s)
		case node.Sym:
			return w.MatchString(string(s))
		}
		return false
	case node.Type:
		n, ok := v.(*node.Node)
		return ok && n.Type() == w
	default:
		return node.Equal(p.want, v)
	}
}

// predicateFor adapts a DSL argument to a Predicate. Accepted shapes:
// an existing Predicate, func(any) bool, *regexp.Regexp, node.Type, or a
// plain comparable value. Any other callable shape is a configuration
// mistake, not a containment test.
func predicateFor(arg any) (Predicate, error) {
	switch p := arg.(type) {
	case nil:
		return nil, &ConfigurationError{Msg: "predicate must not be nil"}
	case Predicate:
		return p, nil
	case func(any) bool:
		return PredicateFunc(p), nil
	}
	if reflect.ValueOf(arg).Kind() == reflect.Func {
		return nil, &ConfigurationError{Msg: "predicate functions must have signature func(any) bool"}
	}
	return containmentPredicate{want: arg}, nil
}
