// Package parser implements the restricted expression grammar backing
// the builder: constant paths, constant and local assignment, and
// literals. It is the default implementation of the pattern.Parser seam.
//
// Shapes follow the usual whole-tree conventions:
//
//	A::B::C = 1   =>  (casgn (const (const nil :A) :B) :C (int 1))
//	A::B          =>  (const (const nil :A) :B)
//	x = "hi"      =>  (lvasgn :x (str "hi"))
//	[1, :a]       =>  (array (int 1) (sym :a))
//	foo           =>  (send nil :foo)
package parser

import (
	"strconv"

	"github.com/treepat/treepat/node"
	"github.com/treepat/treepat/pattern"
)

// Parser parses expression source into node trees.
type Parser struct{}

var _ pattern.Parser = (*Parser)(nil)

// New returns a Parser.
func New() *Parser {
	return &Parser{}
}

// Parse parses one expression. Failures are *pattern.ParseError for
// syntax errors and *pattern.InvalidCodeError when the source embeds
// pattern meta-syntax the expression grammar has no reading for.
func (p *Parser) Parse(src string) (any, error) {
	tokens, err := (&lexer{src: src}).run()
	if err != nil {
		return nil, err
	}
	s := &state{src: src, tokens: tokens}
	v, err := s.parseExpr()
	if err != nil {
		return nil, err
	}
	if tok := s.peek(); tok.typ != tokenEOF {
		if tok.typ == tokenMeta {
			return nil, &pattern.InvalidCodeError{Source: src, Token: tok.val}
		}
		return nil, s.errorf(tok.pos, "trailing input after expression")
	}
	return v, nil
}

type state struct {
	src     string
	tokens  []token
	current int
}

func (s *state) peek() token {
	return s.tokens[s.current]
}

func (s *state) next() token {
	t := s.tokens[s.current]
	if t.typ != tokenEOF {
		s.current++
	}
	return t
}

func (s *state) errorf(pos int, msg string) error {
	return &pattern.ParseError{Source: s.src, Pos: pos, Msg: msg}
}

func (s *state) parseExpr() (any, error) {
	tok := s.next()
	switch tok.typ {
	case tokenMeta:
		return nil, &pattern.InvalidCodeError{Source: s.src, Token: tok.val}

	case tokenConst:
		path := constNode(nil, tok.val)
		for s.peek().typ == tokenScope {
			s.next()
			seg := s.next()
			if seg.typ != tokenConst {
				return nil, s.errorf(seg.pos, "expected a constant name after '::'")
			}
			path = constNode(path, seg.val)
		}
		if s.peek().typ == tokenAssign {
			s.next()
			rhs, err := s.parseExpr()
			if err != nil {
				return nil, err
			}
			// the path splits into scope and final name for assignment
			return node.New("casgn", path.Child(0), path.Child(1), rhs), nil
		}
		return path, nil

	case tokenIdent:
		switch tok.val {
		case "true", "false", "nil":
			return node.New(node.Type(tok.val)), nil
		}
		if s.peek().typ == tokenAssign {
			s.next()
			rhs, err := s.parseExpr()
			if err != nil {
				return nil, err
			}
			return node.New("lvasgn", node.Sym(tok.val), rhs), nil
		}
		return node.New("send", nil, node.Sym(tok.val)), nil

	case tokenInt:
		n, err := strconv.ParseInt(tok.val, 10, 64)
		if err != nil {
			return nil, s.errorf(tok.pos, "bad integer literal "+tok.val)
		}
		return node.New("int", n), nil

	case tokenFloat:
		f, err := strconv.ParseFloat(tok.val, 64)
		if err != nil {
			return nil, s.errorf(tok.pos, "bad float literal "+tok.val)
		}
		return node.New("float", f), nil

	case tokenStr:
		return node.New("str", tok.val), nil

	case tokenSym:
		return node.New("sym", node.Sym(tok.val)), nil

	case tokenLBracket:
		return s.parseArray(tok)

	default:
		return nil, s.errorf(tok.pos, "unexpected token "+strconv.Quote(tok.val))
	}
}

func (s *state) parseArray(open token) (any, error) {
	var elems []any
	for {
		if s.peek().typ == tokenRBracket {
			s.next()
			return node.New("array", elems...), nil
		}
		if s.peek().typ == tokenEOF {
			return nil, s.errorf(open.pos, "missing ']'")
		}
		elem, err := s.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
		switch s.peek().typ {
		case tokenComma:
			s.next()
		case tokenRBracket:
		default:
			return nil, s.errorf(s.peek().pos, "expected ',' or ']' in array")
		}
	}
}

func constNode(scope any, name string) *node.Node {
	return node.New("const", scope, node.Sym(name))
}
