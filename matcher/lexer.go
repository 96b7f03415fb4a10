package matcher

import (
	"strconv"
	"unicode"
)

// TokenType defines the token kinds of the pattern grammar.
type TokenType int

const (
	TokenLParen   TokenType = iota // '('
	TokenRParen                    // ')'
	TokenDollar                    // '$' capture marker
	TokenIdent                     // type tags, nil?, _, true, false
	TokenSym                       // :name
	TokenInt                       // 42, -7
	TokenFloat                     // 3.14
	TokenStr                       // "text"
	TokenEllipsis                  // ...
	TokenPred                      // #name predicate reference
	TokenEOF
)

// Token is a single lexical token with its value and starting position.
type Token struct {
	Type     TokenType
	Value    string
	Position int
}

// lexer scans pattern text into tokens.
type lexer struct {
	input    string
	position int
	tokens   []Token
}

func newLexer(input string) *lexer {
	return &lexer{input: input, tokens: make([]Token, 0)}
}

// tokenize processes the entire input and produces the token list.
func (l *lexer) tokenize() ([]Token, error) {
	for l.position < len(l.input) {
		pos := l.position
		switch c := l.input[l.position]; {
		case isSpace(c):
			l.position++

		case c == '(':
			l.add(TokenLParen, "(", pos)
			l.position++

		case c == ')':
			l.add(TokenRParen, ")", pos)
			l.position++

		case c == '$':
			l.add(TokenDollar, "$", pos)
			l.position++

		case c == '.':
			if !l.matchEllipsis() {
				return nil, &PatternSyntaxError{Pattern: l.input, Pos: pos, Msg: "expected '...'"}
			}

		case c == '#':
			if !l.lexPred(pos) {
				return nil, &PatternSyntaxError{Pattern: l.input, Pos: pos, Msg: "expected predicate name after '#'"}
			}

		case c == ':':
			if !l.lexSym(pos) {
				return nil, &PatternSyntaxError{Pattern: l.input, Pos: pos, Msg: "expected symbol name after ':'"}
			}

		case c == '"':
			if err := l.lexString(pos); err != nil {
				return nil, err
			}

		case isDigit(c) || (c == '-' && l.position+1 < len(l.input) && isDigit(l.input[l.position+1])):
			l.lexNumber(pos)

		case isIdentStart(c):
			l.lexIdent(pos)

		default:
			return nil, &PatternSyntaxError{Pattern: l.input, Pos: pos, Msg: "unexpected character " + strconv.QuoteRune(rune(c))}
		}
	}
	l.add(TokenEOF, "", l.position)
	return l.tokens, nil
}

// matchEllipsis consumes "..." and produces a TokenEllipsis.
func (l *lexer) matchEllipsis() bool {
	if l.position+2 < len(l.input) && l.input[l.position:l.position+3] == "..." {
		l.add(TokenEllipsis, "...", l.position)
		l.position += 3
		return true
	}
	return false
}

// lexPred scans "#name" and stores only the name as the token value.
func (l *lexer) lexPred(startPos int) bool {
	start := l.position + 1
	end := start
	for end < len(l.input) && isIdentChar(l.input[end]) {
		end++
	}
	if end == start {
		return false
	}
	l.add(TokenPred, l.input[start:end], startPos)
	l.position = end
	return true
}

// lexSym scans ":name" and stores only the name as the token value.
func (l *lexer) lexSym(startPos int) bool {
	start := l.position + 1
	end := start
	for end < len(l.input) && isIdentChar(l.input[end]) {
		end++
	}
	if end == start {
		return false
	}
	l.add(TokenSym, l.input[start:end], startPos)
	l.position = end
	return true
}

// lexString scans a double-quoted string literal, honoring escapes. The
// token value is the unquoted content.
func (l *lexer) lexString(startPos int) error {
	i := l.position + 1
	for i < len(l.input) {
		if l.input[i] == '\\' {
			i += 2
			continue
		}
		if l.input[i] == '"' {
			raw := l.input[l.position : i+1]
			s, err := strconv.Unquote(raw)
			if err != nil {
				return &PatternSyntaxError{Pattern: l.input, Pos: startPos, Msg: "bad string literal " + raw}
			}
			l.add(TokenStr, s, startPos)
			l.position = i + 1
			return nil
		}
		i++
	}
	return &PatternSyntaxError{Pattern: l.input, Pos: startPos, Msg: "unterminated string literal"}
}

// lexNumber scans an integer or float. A '.' is part of the number only
// when followed by a digit, so "1..." lexes as 1 then an ellipsis.
func (l *lexer) lexNumber(startPos int) {
	end := l.position
	if l.input[end] == '-' {
		end++
	}
	for end < len(l.input) && isDigit(l.input[end]) {
		end++
	}
	isFloat := false
	if end+1 < len(l.input) && l.input[end] == '.' && isDigit(l.input[end+1]) {
		isFloat = true
		end++
		for end < len(l.input) && isDigit(l.input[end]) {
			end++
		}
	}
	typ := TokenInt
	if isFloat {
		typ = TokenFloat
	}
	l.add(typ, l.input[l.position:end], startPos)
	l.position = end
}

// lexIdent scans a type tag or keyword. A single trailing '?' or '!' is
// part of the identifier, so "nil?" is one token.
func (l *lexer) lexIdent(startPos int) {
	end := l.position
	for end < len(l.input) && isIdentChar(l.input[end]) {
		end++
	}
	if end < len(l.input) && (l.input[end] == '?' || l.input[end] == '!') {
		end++
	}
	l.add(TokenIdent, l.input[l.position:end], startPos)
	l.position = end
}

func (l *lexer) add(typ TokenType, value string, pos int) {
	l.tokens = append(l.tokens, Token{Type: typ, Value: value, Position: pos})
}

func isSpace(c byte) bool {
	return unicode.IsSpace(rune(c))
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
