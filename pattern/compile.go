package pattern

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/treepat/treepat/node"
)

// Compile serializes a builder tree to pattern text and collects the
// predicate registry for the matcher's extension point. Compilation is a
// pure read of the tree: compiling the same tree twice yields identical
// text, because predicate identifiers are numbered pre-order by a
// compiler-local counter, not shared state.
//
// Serialization rules, depth-first pre-order:
//   - scalars render in the pattern grammar's literal syntax; a nil child
//     renders as "nil?", the grammar's spelling for "this value is nil"
//     (distinct from the node-text spelling "nil")
//   - a Node renders as (type child1 child2 ...)
//   - Literal text is spliced verbatim, no escaping
//   - Capture prefixes the serialized inner value with "$"
//   - PredicateCapture registers its predicate under a fresh "predN"
//     identifier and renders as "$#predN"
func Compile(root any) (string, map[string]func(any) bool, error) {
	c := &compiler{preds: make(map[string]func(any) bool)}
	c.write(root)
	if c.err != nil {
		return "", nil, c.err
	}
	return c.sb.String(), c.preds, nil
}

type compiler struct {
	sb    strings.Builder
	preds map[string]func(any) bool
	next  int
	err   error
}

func (c *compiler) fail(subtree any, msg string) {
	if c.err == nil {
		c.err = &CompileError{Subtree: subtree, Msg: msg}
	}
}

func (c *compiler) write(v any) {
	if c.err != nil {
		return
	}
	switch x := v.(type) {
	case nil:
		c.sb.WriteString("nil?")
	case *node.Node:
		c.sb.WriteByte('(')
		c.sb.WriteString(string(x.Type()))
		for i := 0; i < x.ChildCount(); i++ {
			c.sb.WriteByte(' ')
			c.write(x.Child(i))
		}
		c.sb.WriteByte(')')
	case Literal:
		c.sb.WriteString(x.Text)
	case Capture:
		if x.Inner == nil {
			c.fail(x, "capture has no inner pattern")
			return
		}
		c.sb.WriteByte('$')
		c.write(x.Inner)
	case PredicateCapture:
		if x.Pred == nil {
			c.fail(x, "predicate capture has no predicate")
			return
		}
		c.next++
		id := fmt.Sprintf("pred%d", c.next)
		c.preds[id] = x.Pred.Accepts
		c.sb.WriteString("$#")
		c.sb.WriteString(id)
	case node.Sym:
		c.sb.WriteByte(':')
		c.sb.WriteString(string(x))
	case string:
		c.sb.WriteString(strconv.Quote(x))
	case int64:
		c.sb.WriteString(strconv.FormatInt(x, 10))
	case int:
		c.sb.WriteString(strconv.Itoa(x))
	case float64:
		c.sb.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
	case bool:
		c.sb.WriteString(strconv.FormatBool(x))
	default:
		c.fail(v, fmt.Sprintf("value of type %T is not expressible in the pattern grammar", v))
	}
}
