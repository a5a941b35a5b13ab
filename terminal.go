package babel

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/pkg/errors"
)

// Matcher is what a Terminal rule delegates to for consuming input.
// A miss is reported with `ok == false` and is never an error; errors
// are reserved for transforms that reject a token that did match.
type Matcher interface {
	Match(c *Cursor) (vals Values, ok bool, err error)
	String() string
}

// TokenFn transforms a recognized token into the values a terminal
// returns
type TokenFn func(Token) (Values, error)

// Pattern is either a literal string or a regular expression that
// must match exactly at the cursor position.
type Pattern struct {
	source string
	re     *regexp.Regexp
	raw    bool
}

// Lit creates a pattern that matches the literal text `s`
func Lit(s string) *Pattern {
	return &Pattern{source: s}
}

// Re creates a pattern out of a regular expression.  The expression
// is anchored at the cursor, it never searches ahead.  Capture groups
// become the groups of the produced token.  It panics if `expr` is
// not a valid expression, as patterns are built along with the
// grammar, way before any input shows up.
func Re(expr string) *Pattern {
	return &Pattern{source: expr, re: regexp.MustCompile(`\A(?:` + expr + `)`)}
}

// Raw returns a copy of the pattern that doesn't skip whitespace
// before matching
func (p *Pattern) Raw() *Pattern {
	cp := *p
	cp.raw = true
	return &cp
}

func (p *Pattern) String() string {
	var s strings.Builder
	if p.re != nil {
		s.WriteString("/" + p.source + "/")
	} else {
		s.WriteString(strconv.Quote(p.source))
	}
	if p.raw {
		s.WriteString("!raw")
	}
	return s.String()
}

func (p *Pattern) match(input string, at int) (Token, bool) {
	rest := input[at:]
	if p.re == nil {
		if !strings.HasPrefix(rest, p.source) {
			return Token{}, false
		}
		end := at + len(p.source)
		return NewToken(p.source, nil, NewRange(at, end)), true
	}
	loc := p.re.FindStringSubmatchIndex(rest)
	if loc == nil {
		return Token{}, false
	}
	var groups []string
	for i := 2; i < len(loc); i += 2 {
		if loc[i] < 0 {
			groups = append(groups, "")
			continue
		}
		groups = append(groups, rest[loc[i]:loc[i+1]])
	}
	return NewToken(rest[:loc[1]], groups, NewRange(at, at+loc[1])), true
}

// Match consumes the pattern and returns the token as a single value
func (p *Pattern) Match(c *Cursor) (Values, bool, error) {
	tok, ok := c.Consume(p)
	if !ok {
		return nil, false, nil
	}
	return Values{tok}, true, nil
}

// Map attaches a transform to the pattern
func (p *Pattern) Map(fn TokenFn) Matcher {
	return &mapped{pattern: p, fn: fn}
}

type mapped struct {
	pattern *Pattern
	fn      TokenFn
}

func (m *mapped) String() string { return m.pattern.String() }

func (m *mapped) Match(c *Cursor) (Values, bool, error) {
	tok, ok := c.Consume(m.pattern)
	if !ok {
		return nil, false, nil
	}
	vals, err := m.fn(tok)
	if err != nil {
		return nil, false, err
	}
	return vals, true, nil
}

// Switch is an ordered table of patterns, each one with its own
// transform.  Cases are tried in the order they were declared and
// the first one to match wins, so when two patterns share a prefix
// the more specific one has to be declared first.
type Switch struct {
	cases *linkedhashmap.Map
}

type switchCase struct {
	pattern *Pattern
	fn      TokenFn
}

func NewSwitch() *Switch {
	return &Switch{cases: linkedhashmap.New()}
}

// Case appends a new case to the table.  Declaring the same pattern
// twice replaces the transform but keeps the original position.  A
// nil `fn` returns the token itself.
func (s *Switch) Case(p *Pattern, fn TokenFn) *Switch {
	s.cases.Put(p.String(), switchCase{pattern: p, fn: fn})
	return s
}

// Len returns how many cases the table has
func (s *Switch) Len() int { return s.cases.Size() }

func (s *Switch) String() string {
	var items []string
	s.cases.Each(func(key, _ interface{}) {
		items = append(items, key.(string))
	})
	return "Switch(" + strings.Join(items, " | ") + ")"
}

func (s *Switch) Match(c *Cursor) (Values, bool, error) {
	it := s.cases.Iterator()
	for it.Next() {
		sc := it.Value().(switchCase)
		tok, ok := c.Consume(sc.pattern)
		if !ok {
			continue
		}
		if sc.fn == nil {
			return Values{tok}, true, nil
		}
		vals, err := sc.fn(tok)
		if err != nil {
			return nil, false, err
		}
		return vals, true, nil
	}
	return nil, false, nil
}

// Return is a transform that ignores the token and returns `values`
func Return(values ...any) TokenFn {
	return func(Token) (Values, error) {
		if len(values) == 0 {
			return nil, nil
		}
		out := make(Values, len(values))
		copy(out, values)
		return out, nil
	}
}

// MatchText is a transform that returns the matched text
func MatchText() TokenFn {
	return func(t Token) (Values, error) { return Values{t.Text}, nil }
}

// Group is a transform that returns the text captured by group `i`
func Group(i int) TokenFn {
	return func(t Token) (Values, error) { return Values{t.Group(i)}, nil }
}

// GroupFloat parses the text captured by group `i` as a float64
func GroupFloat(i int) TokenFn {
	return func(t Token) (Values, error) {
		f, err := strconv.ParseFloat(t.Group(i), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "malformed number %q", t.Text)
		}
		return Values{f}, nil
	}
}

// GroupInt parses the text captured by group `i` as an int
func GroupInt(i int) TokenFn {
	return func(t Token) (Values, error) {
		n, err := strconv.Atoi(t.Group(i))
		if err != nil {
			return nil, errors.Wrapf(err, "malformed integer %q", t.Text)
		}
		return Values{n}, nil
	}
}
