package babel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPattern(t *testing.T) {
	t.Run("regexp is anchored at the cursor", func(t *testing.T) {
		c := NewCursor("x42", true)
		_, ok := c.Consume(Re(`\d+`))
		assert.False(t, ok)
	})

	t.Run("regexp groups become token groups", func(t *testing.T) {
		c := NewCursor("IX+5", true)
		tok, ok := c.Consume(Re(`(I)?(X)`))
		require.True(t, ok)
		assert.Equal(t, "IX", tok.Text)
		assert.Equal(t, []string{"I", "X"}, tok.Groups)
		assert.Equal(t, NewRange(0, 2), tok.Range)
		assert.Equal(t, "+5", c.Remaining())
	})

	t.Run("groups that did not participate are empty", func(t *testing.T) {
		c := NewCursor("X", true)
		tok, ok := c.Consume(Re(`(I)?(X)`))
		require.True(t, ok)
		assert.Equal(t, []string{"", "X"}, tok.Groups)
		assert.Equal(t, "", tok.Group(0))
		assert.Equal(t, "", tok.Group(7))
	})

	t.Run("alternation inside the expression stays anchored", func(t *testing.T) {
		c := NewCursor("ba", true)
		_, ok := c.Consume(Re(`a|b`))
		require.True(t, ok)
		assert.Equal(t, "a", c.Remaining())
	})

	t.Run("invalid expressions panic", func(t *testing.T) {
		assert.Panics(t, func() { Re(`(`) })
	})

	t.Run("string representation", func(t *testing.T) {
		assert.Equal(t, `"L "`, Lit("L ").String())
		assert.Equal(t, `/\d+/`, Re(`\d+`).String())
		assert.Equal(t, `"a"!raw`, Lit("a").Raw().String())
	})

	t.Run("map transforms the token", func(t *testing.T) {
		c := NewCursor("-4.5", true)
		vals, ok, err := Re(`([+-]?\d+(?:\.\d*)?)`).Map(GroupFloat(0)).Match(c)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, Values{-4.5}, vals)
	})

	t.Run("transform errors are reported", func(t *testing.T) {
		c := NewCursor("x", true)
		_, _, err := Re(`(x)`).Map(GroupFloat(0)).Match(c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `malformed number "x"`)
	})
}

func TestSwitch(t *testing.T) {
	t.Run("cases are tried in declaration order", func(t *testing.T) {
		short := NewSwitch().
			Case(Lit("L"), Return("line")).
			Case(Lit("LP"), Return("polar"))

		c := NewCursor("LP ", true)
		vals, ok, err := short.Match(c)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, Values{"line"}, vals)
		assert.Equal(t, "P ", c.Remaining())

		long := NewSwitch().
			Case(Lit("LP"), Return("polar")).
			Case(Lit("L"), Return("line"))

		c = NewCursor("LP ", true)
		vals, ok, err = long.Match(c)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, Values{"polar"}, vals)
		assert.Equal(t, " ", c.Remaining())
	})

	t.Run("redeclared case keeps its position", func(t *testing.T) {
		s := NewSwitch().
			Case(Lit("a"), Return(1)).
			Case(Lit("b"), Return(2)).
			Case(Lit("a"), Return(3))
		assert.Equal(t, 2, s.Len())
		assert.Equal(t, `Switch("a" | "b")`, s.String())

		vals, ok, err := s.Match(NewCursor("a", true))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, Values{3}, vals)
	})

	t.Run("no match is not an error", func(t *testing.T) {
		s := NewSwitch().Case(Lit("R0"), nil)
		c := NewCursor("RL", true)
		vals, ok, err := s.Match(c)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, vals)
		assert.Equal(t, 0, c.Pos())
	})

	t.Run("nil transform returns the token", func(t *testing.T) {
		s := NewSwitch().Case(Re(`M(\d+)`), nil)
		vals, ok, err := s.Match(NewCursor("M30", true))
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, vals.Tokens(), 1)
		assert.Equal(t, "30", vals.Tokens()[0].Group(0))
	})

	t.Run("stock transforms", func(t *testing.T) {
		tok := NewToken("Q12", []string{"12"}, NewRange(0, 3))

		vals, err := Return()(tok)
		require.NoError(t, err)
		assert.Nil(t, vals)

		vals, err = MatchText()(tok)
		require.NoError(t, err)
		assert.Equal(t, Values{"Q12"}, vals)

		vals, err = Group(0)(tok)
		require.NoError(t, err)
		assert.Equal(t, Values{"12"}, vals)

		vals, err = GroupInt(0)(tok)
		require.NoError(t, err)
		assert.Equal(t, Values{12}, vals)

		_, err = GroupInt(1)(tok)
		assert.Error(t, err)
	})
}
