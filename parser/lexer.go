package parser

import (
	"strconv"

	"github.com/treepat/treepat/pattern"
)

type tokenType int

const (
	tokenConst tokenType = iota // Uppercase-leading identifier
	tokenIdent                  // lowercase-leading identifier or keyword
	tokenInt
	tokenFloat
	tokenStr
	tokenSym      // :name
	tokenScope    // ::
	tokenAssign   // =
	tokenLBracket // [
	tokenRBracket // ]
	tokenComma    // ,
	tokenMeta     // pattern meta-syntax the source grammar rejects
	tokenEOF
)

type token struct {
	typ tokenType
	val string
	pos int
}

type lexer struct {
	src    string
	pos    int
	tokens []token
}

func (l *lexer) errorf(pos int, msg string) error {
	return &pattern.ParseError{Source: l.src, Pos: pos, Msg: msg}
}

// run scans the whole source. Pattern meta-syntax ("...", "_", "$",
// "#name") lexes cleanly into tokenMeta; the parser turns it into an
// InvalidCodeError so the failure mode is distinguishable from a plain
// syntax error.
func (l *lexer) run() ([]token, error) {
	for l.pos < len(l.src) {
		pos := l.pos
		switch c := l.src[l.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.pos++

		case c == ':':
			if l.pos+1 < len(l.src) && l.src[l.pos+1] == ':' {
				l.add(tokenScope, "::", pos)
				l.pos += 2
				break
			}
			if l.pos+1 < len(l.src) && isIdentByte(l.src[l.pos+1]) {
				l.pos++
				l.add(tokenSym, l.scanIdent(), pos)
				break
			}
			return nil, l.errorf(pos, "expected a name after ':'")

		case c == '=':
			l.add(tokenAssign, "=", pos)
			l.pos++

		case c == '[':
			l.add(tokenLBracket, "[", pos)
			l.pos++

		case c == ']':
			l.add(tokenRBracket, "]", pos)
			l.pos++

		case c == ',':
			l.add(tokenComma, ",", pos)
			l.pos++

		case c == '.':
			if l.pos+2 < len(l.src) && l.src[l.pos:l.pos+3] == "..." {
				l.add(tokenMeta, "...", pos)
				l.pos += 3
				break
			}
			return nil, l.errorf(pos, "unexpected '.'")

		case c == '$':
			l.add(tokenMeta, "$", pos)
			l.pos++

		case c == '#':
			l.pos++
			l.add(tokenMeta, "#"+l.scanIdent(), pos)

		case c == '"':
			s, err := l.scanString(pos)
			if err != nil {
				return nil, err
			}
			l.add(tokenStr, s, pos)

		case isDigit(c) || (c == '-' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1])):
			l.scanNumber(pos)

		case isIdentByte(c):
			name := l.scanIdent()
			switch {
			case name == "_":
				l.add(tokenMeta, "_", pos)
			case name[0] >= 'A' && name[0] <= 'Z':
				l.add(tokenConst, name, pos)
			default:
				l.add(tokenIdent, name, pos)
			}

		default:
			return nil, l.errorf(pos, "unexpected character "+strconv.QuoteRune(rune(c)))
		}
	}
	l.add(tokenEOF, "", l.pos)
	return l.tokens, nil
}

func (l *lexer) scanIdent() string {
	start := l.pos
	for l.pos < len(l.src) && isIdentByte(l.src[l.pos]) {
		l.pos++
	}
	return l.src[start:l.pos]
}

func (l *lexer) scanNumber(pos int) {
	start := l.pos
	if l.src[l.pos] == '-' {
		l.pos++
	}
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	isFloat := false
	if l.pos+1 < len(l.src) && l.src[l.pos] == '.' && isDigit(l.src[l.pos+1]) {
		isFloat = true
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	typ := tokenInt
	if isFloat {
		typ = tokenFloat
	}
	l.add(typ, l.src[start:l.pos], pos)
}

func (l *lexer) scanString(pos int) (string, error) {
	i := l.pos + 1
	for i < len(l.src) {
		if l.src[i] == '\\' {
			i += 2
			continue
		}
		if l.src[i] == '"' {
			s, err := strconv.Unquote(l.src[l.pos : i+1])
			if err != nil {
				return "", l.errorf(pos, "bad string literal")
			}
			l.pos = i + 1
			return s, nil
		}
		i++
	}
	return "", l.errorf(pos, "unterminated string literal")
}

func (l *lexer) add(typ tokenType, val string, pos int) {
	l.tokens = append(l.tokens, token{typ: typ, val: val, pos: pos})
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || isDigit(c)
}
