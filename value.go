package babel

import (
	"fmt"
	"strings"
)

// Token is what a terminal pattern recognizes: the matched text plus
// the text captured by each group of the pattern.  Groups that didn't
// participate in the match are empty strings.
type Token struct {
	Text   string
	Groups []string
	Range  Range
}

func NewToken(text string, groups []string, rg Range) Token {
	return Token{Text: text, Groups: groups, Range: rg}
}

// Group returns the text captured by the i-th group, or an empty
// string if there's no such group
func (t Token) Group(i int) string {
	if i < 0 || i >= len(t.Groups) {
		return ""
	}
	return t.Groups[i]
}

func (t Token) String() string { return fmt.Sprintf(`"%s" @ %s`, t.Text, t.Range) }

// Values is the result of applying a rule, and also the type of the
// output stack.  A nil Values is the empty result.
type Values []any

// Of is a shortcut for building Values out of loose items
func Of(items ...any) Values { return Values(items) }

func (v Values) String() string {
	var s strings.Builder
	s.WriteString("[")
	for i, item := range v {
		fmt.Fprintf(&s, "%v", item)
		if i < len(v)-1 {
			s.WriteString(", ")
		}
	}
	s.WriteString("]")
	return s.String()
}

// Tokens returns the tokens found among the values, in order.
func (v Values) Tokens() []Token {
	var out []Token
	for _, item := range v {
		if t, ok := item.(Token); ok {
			out = append(out, t)
		}
	}
	return out
}
