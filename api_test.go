package babel

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrammarParse(t *testing.T) {
	t.Run("leftover input is fine by default", func(t *testing.T) {
		res, err := Parse(Literal("a"), "a b")
		require.NoError(t, err)
		assert.Equal(t, " b", res.Cursor.Remaining())
	})

	t.Run("parse all rejects leftover input", func(t *testing.T) {
		g := MustGrammar(Literal("a"))
		_, err := g.ParseAll("a b")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTrailingInput))
		assert.Equal(t, `unexpected trailing input @ 1:3: near "b"`, err.Error())

		var perr *ParsingError
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, Location{Line: 1, Column: 3, Cursor: 2}, perr.Location)
	})

	t.Run("trailing spaces are not leftover input", func(t *testing.T) {
		g := MustGrammar(Literal("a"))
		_, err := g.ParseAll("a \n ")
		require.NoError(t, err)
	})

	t.Run("no match points at the furthest failure", func(t *testing.T) {
		_, err := Parse(Seq(Literal("a"), Literal("b")), "a c")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoMatch))
		assert.Equal(t, `no match @ 1:3: near "c"`, err.Error())
	})

	t.Run("no match at the end of the input", func(t *testing.T) {
		_, err := Parse(Seq(Literal("a"), Literal("b")), "a")
		require.Error(t, err)
		assert.Equal(t, `no match @ 1:2: at end of input`, err.Error())
	})

	t.Run("long remaining text is truncated", func(t *testing.T) {
		_, err := Parse(Literal("x"), "abcdefghijklmnopqrstuvwxyz")
		require.Error(t, err)
		assert.Equal(t, `no match @ 1:1: near "abcdefghijklmnopqrstuvwx..."`, err.Error())
	})

	t.Run("truncation never splits a character", func(t *testing.T) {
		_, err := Parse(Literal("x"), "a"+strings.Repeat("а", 30))
		require.Error(t, err)
		// "а" takes two bytes, so only 11 of them fit after the "a"
		assert.Equal(t, `no match @ 1:1: near "a`+strings.Repeat("а", 11)+`..."`, err.Error())
	})

	t.Run("require eof from the configuration", func(t *testing.T) {
		cfg := NewConfig()
		cfg.SetBool("parser.require_eof", true)
		g, err := NewGrammar(Literal("a"), WithConfig(cfg))
		require.NoError(t, err)

		_, err = g.Parse("a a")
		assert.True(t, errors.Is(err, ErrTrailingInput))

		// changing the config afterwards doesn't affect the grammar
		cfg.SetBool("parser.require_eof", false)
		_, err = g.Parse("a a")
		assert.Error(t, err)
	})

	t.Run("spaces are significant when skipping is off", func(t *testing.T) {
		cfg := NewConfig()
		cfg.SetBool("cursor.skip_spaces", false)
		g := MustGrammar(Seq(Literal("a"), Literal(" "), Literal("b")), WithConfig(cfg))

		_, err := g.ParseAll("a b")
		require.NoError(t, err)

		_, err = g.ParseAll(" a b")
		assert.True(t, errors.Is(err, ErrNoMatch))
	})

	t.Run("tracing doesn't change the outcome", func(t *testing.T) {
		cfg := NewConfig()
		cfg.SetBool("parser.trace", true)
		g := MustGrammar(Seq(Push(Literal("a")), Maybe(Literal("b"))), WithConfig(cfg))

		res, err := g.ParseAll("a b")
		require.NoError(t, err)
		assert.Len(t, res.Stack, 1)
		assert.Len(t, res.Values, 1)
	})

	t.Run("depth limit from the configuration", func(t *testing.T) {
		left := NewRef("left")
		left.Set(Alt(Seq(left, Literal("a")), Literal("a")))

		cfg := NewConfig()
		cfg.SetInt("parser.max_depth", 100)
		_, err := MustGrammar(left, WithConfig(cfg)).Parse("aaa")
		assert.True(t, errors.Is(err, ErrMaxDepth))
	})

	t.Run("handler errors are returned as they come", func(t *testing.T) {
		r := Handle(Literal("a"), "reject", func(Values) (Values, error) {
			return nil, errors.New("nope")
		})
		_, err := Parse(r, "a")

		var herr *HandlerError
		require.True(t, errors.As(err, &herr))
		assert.Equal(t, "reject", herr.Rule)
	})

	t.Run("unresolved references are caught when building", func(t *testing.T) {
		_, err := NewGrammar(Seq(NewRef("a"), Maybe(NewRef("b"))))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnresolvedRef))
		assert.Contains(t, err.Error(), "`a`, `b`")

		assert.Panics(t, func() { MustGrammar(NewRef("c")) })
	})

	t.Run("default handler", func(t *testing.T) {
		upper := func(v Values) (Values, error) {
			out := make(Values, len(v))
			for i, item := range v {
				if tok, ok := item.(Token); ok {
					out[i] = tok.Text + "!"
					continue
				}
				out[i] = item
			}
			return out, nil
		}
		g := MustGrammar(Seq(Literal("a"), Literal("b")), WithDefaultHandler(upper))
		res, err := g.Parse("ab")
		require.NoError(t, err)
		assert.Equal(t, Values{"a!", "b!"}, res.Values)
	})
}

func TestResult(t *testing.T) {
	t.Run("table holds the latest value of each name", func(t *testing.T) {
		r := Seq(Cut(Literal("a"), "x"), Copy(Literal("b"), "y"), Cut(Literal("c"), "x"))
		res, err := Parse(r, "a b c")
		require.NoError(t, err)

		table := res.Table()
		require.Len(t, table, 2)
		assert.Equal(t, []string{"c"}, texts(table["x"]))
		assert.Equal(t, []string{"b"}, texts(table["y"]))

		v, ok := res.Lookup("y")
		require.True(t, ok)
		assert.Equal(t, []string{"b"}, texts(v))

		_, ok = res.Lookup("z")
		assert.False(t, ok)
	})

	t.Run("parsing twice gives the same result", func(t *testing.T) {
		g := MustGrammar(OneOrMore(Alt(
			Seq(Push(number()), Literal(";")),
			Push(Seq(number(), Literal(","))),
		)))
		first, err := g.Parse("1; 2, 3;")
		require.NoError(t, err)
		second, err := g.Parse("1; 2, 3;")
		require.NoError(t, err)

		assert.Equal(t, first.Stack.String(), second.Stack.String())
		assert.Equal(t, first.Cursor.Pos(), second.Cursor.Pos())
	})

	t.Run("grammars are safe for concurrent use", func(t *testing.T) {
		g := MustGrammar(ZeroOrMore(Push(number())))

		var wg sync.WaitGroup
		results := make([]Values, 16)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				res, err := g.ParseAll(fmt.Sprintf("%d %d %d", i, i+1, i+2))
				if err == nil {
					results[i] = res.Stack
				}
			}(i)
		}
		wg.Wait()

		for i, stack := range results {
			assert.Equal(t, Values{float64(i), float64(i + 1), float64(i + 2)}, stack)
		}
	})
}
