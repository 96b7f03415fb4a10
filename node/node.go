// Package node defines the immutable tree values shared by the builder,
// the pattern compiler, and the matcher.
package node

import (
	"fmt"
	"strconv"
	"strings"
)

// Type is the symbolic tag naming a node's structural kind,
// e.g. "casgn", "const", "int", "str".
type Type string

// Sym is a symbolic atom child value, rendered as :name.
type Sym string

// Node is a tree value: a type tag plus an ordered child sequence.
// Children are *Node, int64, float64, string, Sym, bool, or nil.
// Builder trees may additionally hold placeholder leaves as children;
// those never survive into a matchable AST.
//
// A Node is structurally immutable once constructed. Child order is
// positional and semantically significant.
type Node struct {
	typ      Type
	children []any
}

// New constructs a Node with the given type and children. The child slice
// is copied, and small integer kinds are normalized to int64 so that
// equality and capture values are uniform across construction paths.
func New(typ Type, children ...any) *Node {
	kids := make([]any, len(children))
	for i, c := range children {
		kids[i] = normalize(c)
	}
	return &Node{typ: typ, children: kids}
}

func normalize(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float32:
		return float64(n)
	}
	return v
}

// Type returns the node's symbolic tag.
func (n *Node) Type() Type { return n.typ }

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th child, or nil if i is out of range.
func (n *Node) Child(i int) any {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children returns a copy of the child sequence.
func (n *Node) Children() []any {
	out := make([]any, len(n.children))
	copy(out, n.children)
	return out
}

// String renders the node as an s-expression, e.g.
// (casgn (const (const nil :A) :B) :C (int 1)).
// A nil child is spelled "nil" here; the pattern grammar uses a different
// spelling for "value is nil", which is the compiler's concern, not ours.
func (n *Node) String() string {
	var sb strings.Builder
	writeValue(&sb, n)
	return sb.String()
}

func writeValue(sb *strings.Builder, v any) {
	switch x := v.(type) {
	case nil:
		sb.WriteString("nil")
	case *Node:
		sb.WriteByte('(')
		sb.WriteString(string(x.typ))
		for _, c := range x.children {
			sb.WriteByte(' ')
			writeValue(sb, c)
		}
		sb.WriteByte(')')
	case Sym:
		sb.WriteByte(':')
		sb.WriteString(string(x))
	case string:
		sb.WriteString(strconv.Quote(x))
	case int64:
		sb.WriteString(strconv.FormatInt(x, 10))
	case float64:
		sb.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
	case bool:
		sb.WriteString(strconv.FormatBool(x))
	default:
		// Placeholders and anything else fall back to their own String.
		fmt.Fprintf(sb, "%v", x)
	}
}

// Equal reports deep structural equality of two child values.
func Equal(a, b any) bool {
	an, aok := a.(*Node)
	bn, bok := b.(*Node)
	if aok != bok {
		return false
	}
	if aok {
		if an.typ != bn.typ || len(an.children) != len(bn.children) {
			return false
		}
		for i := range an.children {
			if !Equal(an.children[i], bn.children[i]) {
				return false
			}
		}
		return true
	}
	return normalize(a) == normalize(b)
}

// literalTypes are the node kinds that wrap a single scalar payload.
var literalTypes = map[Type]bool{
	"int":   true,
	"float": true,
	"str":   true,
	"sym":   true,
}

// Unwrap reduces a literal scalar node to its payload: (int 1) becomes
// int64(1), (str "x") becomes "x", (sym a) becomes Sym("a"), and the
// zero-child (true), (false), (nil) nodes become their scalar. Any other
// value is returned unchanged. Captured values and predicate candidates
// go through Unwrap so callers deal in plain scalars where possible.
func Unwrap(v any) any {
	n, ok := v.(*Node)
	if !ok {
		return v
	}
	if literalTypes[n.typ] && len(n.children) == 1 {
		if _, nested := n.children[0].(*Node); !nested {
			return n.children[0]
		}
		return v
	}
	if len(n.children) == 0 {
		switch n.typ {
		case "true":
			return true
		case "false":
			return false
		case "nil":
			return nil
		}
	}
	return v
}
