package matcher

import (
	"github.com/treepat/treepat/node"
)

// expr is a compiled pattern element.
type expr interface{}

type (
	// seqExpr matches a node with the given type tag whose child
	// sequence matches the child patterns in order.
	seqExpr struct {
		typ      node.Type
		children []expr
	}

	// wildcardExpr matches any single value.
	wildcardExpr struct{}

	// ellipsisExpr matches any run of zero or more remaining children.
	ellipsisExpr struct{}

	// nilExpr matches a nil child value ("nil?" in the grammar).
	nilExpr struct{}

	// literalExpr matches a child value structurally equal to val.
	literalExpr struct {
		val any
	}

	// captureExpr records whatever matched inner at capture slot idx.
	captureExpr struct {
		idx   int
		inner expr
	}

	// predExpr accepts a value only if the named registered predicate
	// accepts it.
	predExpr struct {
		name string
	}
)

// parser builds an expr tree from tokens. Capture slots are numbered at
// parse time in source order, which is the pattern's left-to-right
// depth-first order, so result sequences are deterministic.
type parser struct {
	text    string
	tokens  []Token
	current int
	ncaps   int
	preds   []string // predicate names referenced, in order
}

func newParser(text string, tokens []Token) *parser {
	return &parser{text: text, tokens: tokens}
}

func (p *parser) peek() Token {
	return p.tokens[p.current]
}

func (p *parser) next() Token {
	t := p.tokens[p.current]
	if t.Type != TokenEOF {
		p.current++
	}
	return t
}

func (p *parser) errorf(pos int, msg string) error {
	return &PatternSyntaxError{Pattern: p.text, Pos: pos, Msg: msg}
}

// parse consumes the whole token stream as a single expression.
func (p *parser) parse() (expr, error) {
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Type != TokenEOF {
		return nil, p.errorf(tok.Position, "trailing input after pattern")
	}
	return e, nil
}

func (p *parser) parseExpr() (expr, error) {
	tok := p.next()
	switch tok.Type {
	case TokenDollar:
		idx := p.ncaps
		p.ncaps++
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return captureExpr{idx: idx, inner: inner}, nil

	case TokenLParen:
		return p.parseSeq(tok)

	case TokenIdent:
		switch tok.Value {
		case "_":
			return wildcardExpr{}, nil
		case "nil?", "nil":
			return nilExpr{}, nil
		case "true":
			return literalExpr{val: true}, nil
		case "false":
			return literalExpr{val: false}, nil
		}
		return nil, p.errorf(tok.Position, "bare identifier "+tok.Value+" outside a node head")

	case TokenEllipsis:
		return ellipsisExpr{}, nil

	case TokenSym:
		return literalExpr{val: node.Sym(tok.Value)}, nil

	case TokenInt:
		n, err := parseInt(tok.Value)
		if err != nil {
			return nil, p.errorf(tok.Position, "bad integer literal "+tok.Value)
		}
		return literalExpr{val: n}, nil

	case TokenFloat:
		f, err := parseFloat(tok.Value)
		if err != nil {
			return nil, p.errorf(tok.Position, "bad float literal "+tok.Value)
		}
		return literalExpr{val: f}, nil

	case TokenStr:
		return literalExpr{val: tok.Value}, nil

	case TokenPred:
		p.preds = append(p.preds, tok.Value)
		return predExpr{name: tok.Value}, nil

	case TokenRParen:
		return nil, p.errorf(tok.Position, "unexpected ')'")

	default:
		return nil, p.errorf(tok.Position, "unexpected end of pattern")
	}
}

// parseSeq parses "(type child ...)" after the opening paren.
func (p *parser) parseSeq(open Token) (expr, error) {
	head := p.next()
	if head.Type != TokenIdent {
		return nil, p.errorf(head.Position, "expected a node type after '('")
	}
	seq := seqExpr{typ: node.Type(head.Value)}
	for {
		switch p.peek().Type {
		case TokenRParen:
			p.next()
			return seq, nil
		case TokenEOF:
			return nil, p.errorf(open.Position, "missing ')'")
		}
		child, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		seq.children = append(seq.children, child)
	}
}
