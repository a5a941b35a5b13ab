package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babel-cnc/babel"
)

func TestRunLines(t *testing.T) {
	t.Run("expressions share variables", func(t *testing.T) {
		r, err := newRunner("expr", babel.NewConfig(), false)
		require.NoError(t, err)

		var out bytes.Buffer
		require.NoError(t, runLines(r, strings.NewReader("Q1 = 2\n\nQ1 * 3\n"), &out))
		assert.Equal(t, "2\n6\n", out.String())
	})

	t.Run("cnc blocks print their snapshot", func(t *testing.T) {
		r, err := newRunner("cnc", babel.NewConfig(), true)
		require.NoError(t, err)

		var out bytes.Buffer
		require.NoError(t, runLines(r, strings.NewReader("L X+1 R0\n"), &out))
		assert.Equal(t,
			"[LINEAR, MOTIONMODE, SET, 1, X, SET, NONE, COMPENSATION, SET, INVARIANT]\n"+
				"COMPENSATION=NONE MOTIONMODE=LINEAR X=1\n",
			out.String())
	})

	t.Run("errors carry the line number", func(t *testing.T) {
		r, err := newRunner("expr", babel.NewConfig(), false)
		require.NoError(t, err)

		err = runLines(r, strings.NewReader("1 + 1\nQ4\n"), &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
		assert.Contains(t, err.Error(), "Q4")
	})

	t.Run("unknown language", func(t *testing.T) {
		_, err := newRunner("cobol", babel.NewConfig(), false)
		assert.EqualError(t, err, "language `cobol` not supported")
	})
}
