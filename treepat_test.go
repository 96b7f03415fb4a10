package treepat

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treepat/treepat/node"
	"github.com/treepat/treepat/parser"
	"github.com/treepat/treepat/pattern"
)

// countingParser wraps the real parser to observe how often the facade
// reaches for it.
type countingParser struct {
	inner pattern.Parser
	calls int
}

func (c *countingParser) Parse(src string) (any, error) {
	c.calls++
	return c.inner.Parse(src)
}

func TestASTRoundTrip(t *testing.T) {
	want := node.New("casgn",
		node.New("const", node.New("const", nil, node.Sym("A")), node.Sym("B")),
		node.Sym("C"),
		node.New("int", 1),
	)

	b, err := Build(func(d *pattern.DSL) any {
		return d.S("casgn", d.Expand("A::B"), node.Sym("C"), d.S("int", 1))
	})
	require.NoError(t, err)

	got, err := b.AST()
	require.NoError(t, err)
	assert.True(t, node.Equal(want, got), "AST() = %v, want %v", got, want)
}

func TestASTRejectsPlaceholders(t *testing.T) {
	b, err := Build(func(d *pattern.DSL) any {
		return d.S("casgn", d.Expand("A::B"), node.Sym("C"), d.Literal("..."))
	})
	require.NoError(t, err)

	_, err = b.AST()
	var uerr *pattern.UnresolvedPlaceholderError
	require.ErrorAs(t, err, &uerr)
}

func TestSelfMatchWithoutPlaceholders(t *testing.T) {
	sources := []string{
		"A::B::C = 1",
		`x = "hi"`,
		"[1, :a, A::B]",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			b, err := BuildSource(src)
			require.NoError(t, err)

			tree, err := b.AST()
			require.NoError(t, err)

			got, err := b.Match(tree)
			require.NoError(t, err)
			assert.True(t, node.Equal(tree, got), "self-match returns the matched tree")
		})
	}
}

func TestLiteralSplicesVerbatim(t *testing.T) {
	b, err := Build(func(d *pattern.DSL) any {
		return d.S("casgn", d.Expand("A::B"), node.Sym("C"), d.Literal("..."))
	})
	require.NoError(t, err)

	text, err := b.Pattern()
	require.NoError(t, err)
	assert.Equal(t, "(casgn (const (const nil? :A) :B) :C ...)", text)
}

func TestCaptureOverLiteral(t *testing.T) {
	b, err := Build(func(d *pattern.DSL) any {
		return d.S("casgn", d.Expand("A::B"), node.Sym("C"), d.Capture(d.Literal("...")))
	})
	require.NoError(t, err)

	text, err := b.Pattern()
	require.NoError(t, err)
	assert.Equal(t, "(casgn (const (const nil? :A) :B) :C $...)", text)

	got, err := b.Match("A::B::C = 1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestCaptureChildren(t *testing.T) {
	b, err := Build(func(d *pattern.DSL) any {
		return d.S("array", d.CaptureChildren())
	})
	require.NoError(t, err)

	got, err := b.Match("[1, 2]")
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2)}, got)
}

func TestCaptureMatchingWithFunc(t *testing.T) {
	b, err := Build(func(d *pattern.DSL) any {
		return d.CaptureMatching(func(v any) bool {
			s, ok := v.(string)
			return ok && len(s) > 3
		})
	})
	require.NoError(t, err)

	got, err := b.Match(`"abc123"`)
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)

	got, err = b.Match(`"abc"`)
	require.NoError(t, err)
	assert.Nil(t, got, "a failed predicate is a negative result, not an error")
}

func TestCaptureMatchingWithRegexp(t *testing.T) {
	b, err := Build(func(d *pattern.DSL) any {
		return d.CaptureMatching(regexp.MustCompile("^abc"))
	})
	require.NoError(t, err)

	got, err := b.Match(`"abc123"`)
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)

	got, err = b.Match(`"xyz"`)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPredicateInsidePattern(t *testing.T) {
	b, err := Build(func(d *pattern.DSL) any {
		return d.S("casgn", d.Expand("A::B"), node.Sym("C"), d.Matching(func(v any) bool {
			n, ok := v.(int64)
			return ok && n > 0
		}))
	})
	require.NoError(t, err)

	got, err := b.Match("A::B::C = 5")
	require.NoError(t, err)
	assert.Equal(t, int64(5), got)

	got, err = b.Match("A::B::C = -5")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPredicatePanicPropagates(t *testing.T) {
	b, err := Build(func(d *pattern.DSL) any {
		return d.CaptureMatching(func(any) bool { panic("predicate exploded") })
	})
	require.NoError(t, err)

	assert.PanicsWithValue(t, "predicate exploded", func() {
		_, _ = b.Match("1")
	})
}

func TestMultipleCapturesKeepOrder(t *testing.T) {
	b, err := Build(func(d *pattern.DSL) any {
		return d.S("casgn",
			d.Capture(d.Literal("_")),
			d.Capture(d.Literal("_")),
			d.Capture(d.Literal("_")),
		)
	})
	require.NoError(t, err)

	got, err := b.Match("A::B::C = 1")
	require.NoError(t, err)
	seq, ok := got.([]any)
	require.True(t, ok, "several captures return the ordered sequence, got %T", got)
	require.Len(t, seq, 3)
	assert.True(t, node.Equal(node.New("const", node.New("const", nil, node.Sym("A")), node.Sym("B")), seq[0]))
	assert.Equal(t, node.Sym("C"), seq[1])
	assert.Equal(t, int64(1), seq[2])
}

func TestMatcherIsCached(t *testing.T) {
	cp := &countingParser{inner: parser.New()}
	b, err := BuildUsing(cp, func(d *pattern.DSL) any {
		return d.S("casgn", d.Expand("A::B"), node.Sym("C"), d.Capture(d.Literal("...")))
	})
	require.NoError(t, err)
	require.Equal(t, 1, cp.calls, "one Expand, one parse")

	m1, err := b.Matcher()
	require.NoError(t, err)
	m2, err := b.Matcher()
	require.NoError(t, err)

	assert.Same(t, m1, m2)
	assert.Equal(t, 1, cp.calls, "compiling must not re-invoke the parser")
}

func TestBuildSourceRejectsMetaSyntax(t *testing.T) {
	_, err := BuildSource("A::B::C = ...")
	var invalid *pattern.InvalidCodeError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "A::B::C = ...", invalid.Source)
}

func TestBuildSourceSyntaxError(t *testing.T) {
	_, err := BuildSource("A::")
	var perr *pattern.ParseError
	require.ErrorAs(t, err, &perr)
}

func TestConfigurationErrorBeforeCompile(t *testing.T) {
	_, err := Build(func(d *pattern.DSL) any {
		return d.CaptureMatching(func(any) bool { return true }, regexp.MustCompile("x"))
	})
	var cerr *pattern.ConfigurationError
	require.ErrorAs(t, err, &cerr)
}

func TestMatchParsesStringInput(t *testing.T) {
	b, err := BuildSource("A::B = 1")
	require.NoError(t, err)

	got, err := b.Match("A::B = 1")
	require.NoError(t, err)
	require.NotNil(t, got)

	got, err = b.Match("A::B = 2")
	require.NoError(t, err)
	assert.Nil(t, got, "structural non-match is a nil result")

	_, err = b.Match("A::B = ...")
	var invalid *pattern.InvalidCodeError
	require.ErrorAs(t, err, &invalid, "malformed input still raises")
}

func TestExpandFailurePropagates(t *testing.T) {
	_, err := Build(func(d *pattern.DSL) any {
		return d.S("casgn", d.Expand("A::"), node.Sym("C"))
	})
	var perr *pattern.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "A::", perr.Source)
}
