package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treepat/treepat/node"
	"github.com/treepat/treepat/pattern"
)

func TestParseShapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string // s-expression rendering of the parse
	}{
		{"integer", "1", "(int 1)"},
		{"negative integer", "-7", "(int -7)"},
		{"float", "2.5", "(float 2.5)"},
		{"string", `"hi"`, `(str "hi")`},
		{"symbol", ":foo", "(sym :foo)"},
		{"true", "true", "(true)"},
		{"false", "false", "(false)"},
		{"nil", "nil", "(nil)"},
		{"single constant", "A", "(const nil :A)"},
		{"constant path", "A::B", "(const (const nil :A) :B)"},
		{"deep constant path", "A::B::C", "(const (const (const nil :A) :B) :C)"},
		{"constant assignment", "A = 1", "(casgn nil :A (int 1))"},
		{"scoped constant assignment", "A::B::C = 1", "(casgn (const (const nil :A) :B) :C (int 1))"},
		{"local assignment", `x = "hi"`, `(lvasgn :x (str "hi"))`},
		{"chained value", "A::B = C", "(casgn (const nil :A) :B (const nil :C))"},
		{"bare name is a send", "foo", "(send nil :foo)"},
		{"array", "[1, :a, A]", "(array (int 1) (sym :a) (const nil :A))"},
		{"empty array", "[]", "(array)"},
		{"nested array", "[[1], 2]", "(array (array (int 1)) (int 2))"},
		{"array assignment", "A = [1, 2]", "(casgn nil :A (array (int 1) (int 2)))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := New().Parse(tt.src)
			require.NoError(t, err)
			n, ok := v.(*node.Node)
			require.True(t, ok, "parse result should be a node, got %T", v)
			assert.Equal(t, tt.want, n.String())
		})
	}
}

func TestParseRejectsMetaSyntax(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantToken string
	}{
		{"ellipsis value", "A::B::C = ...", "..."},
		{"bare ellipsis", "...", "..."},
		{"wildcard", "_", "_"},
		{"capture marker", "$x", "$"},
		{"predicate reference", "#foo", "#foo"},
		{"trailing meta", "A::B ...", "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Parse(tt.src)
			var invalid *pattern.InvalidCodeError
			require.ErrorAs(t, err, &invalid, "source %q must fail as invalid code", tt.src)
			assert.Equal(t, tt.src, invalid.Source)
			assert.Equal(t, tt.wantToken, invalid.Token)
		})
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"dangling scope", "A::"},
		{"scope into lowercase", "A::b"},
		{"assignment without value", "A ="},
		{"lone colon", ": x"},
		{"method call syntax", "a.b"},
		{"unterminated string", `"abc`},
		{"unterminated array", "[1, 2"},
		{"stray character", "a @ b"},
		{"trailing input", "1 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Parse(tt.src)
			var perr *pattern.ParseError
			require.ErrorAs(t, err, &perr, "source %q must fail as a parse error", tt.src)
			assert.Equal(t, tt.src, perr.Source)

			var invalid *pattern.InvalidCodeError
			assert.False(t, errors.As(err, &invalid), "must not be InvalidCodeError")
		})
	}
}
