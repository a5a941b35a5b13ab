package babel

import (
	"github.com/plan-systems/klog"
)

// Grammar is a validated rule tree plus the settings used to parse
// with it.  A Grammar is immutable and can be used by any number of
// goroutines at the same time.
type Grammar struct {
	root           Rule
	defaultHandler Handler

	skipSpaces bool
	requireEOF bool
	maxDepth   int
	trace      bool
	traceLevel klog.Level
}

// Option customizes a Grammar created with NewGrammar
type Option func(*grammarOptions)

type grammarOptions struct {
	cfg            *Config
	defaultHandler Handler
}

// WithConfig replaces the default configuration
func WithConfig(cfg *Config) Option {
	return func(o *grammarOptions) { o.cfg = cfg }
}

// WithDefaultHandler sets the handler used by rules that don't have
// one attached
func WithDefaultHandler(h Handler) Option {
	return func(o *grammarOptions) { o.defaultHandler = h }
}

// NewGrammar validates the rule tree rooted at `root` and returns a
// grammar ready for parsing.  The configuration is read once, here;
// changing it afterwards doesn't affect the grammar.
func NewGrammar(root Rule, opts ...Option) (*Grammar, error) {
	o := grammarOptions{cfg: NewConfig(), defaultHandler: Identity}
	for _, opt := range opts {
		opt(&o)
	}
	if err := Validate(root); err != nil {
		return nil, err
	}
	return &Grammar{
		root:           root,
		defaultHandler: o.defaultHandler,
		skipSpaces:     o.cfg.GetBool("cursor.skip_spaces"),
		requireEOF:     o.cfg.GetBool("parser.require_eof"),
		maxDepth:       o.cfg.GetInt("parser.max_depth"),
		trace:          o.cfg.GetBool("parser.trace"),
		traceLevel:     klog.Level(o.cfg.GetInt("parser.trace_level")),
	}, nil
}

// MustGrammar is like NewGrammar but panics on error.  It's meant for
// grammars declared as package variables.
func MustGrammar(root Rule, opts ...Option) *Grammar {
	g, err := NewGrammar(root, opts...)
	if err != nil {
		panic(err)
	}
	return g
}

// Root returns the rule the grammar starts parsing from
func (g *Grammar) Root() Rule { return g.root }

// Result is the outcome of a successful parse
type Result struct {
	// Values is what the root rule returned
	Values Values

	// Stack holds everything pushed by Push rules, in order
	Stack Values

	// Cursor is the state of the input after the parse
	Cursor *Cursor

	table *binding
}

// Lookup returns the value stored under `key` by Copy or Cut
func (r *Result) Lookup(key string) (Values, bool) {
	return r.table.lookup(key)
}

// Table returns the latest value stored under each name
func (r *Result) Table() map[string]Values {
	return r.table.toMap()
}

// Parse applies the grammar to `input`.  Input left over after the
// root rule succeeds is only an error when `parser.require_eof` is
// set.  A failed parse returns a *ParsingError; HandlerError and
// reference errors are returned as they come.
func (g *Grammar) Parse(input string) (*Result, error) {
	return g.parse(input, g.requireEOF)
}

// ParseAll is like Parse but always requires the whole input to be
// consumed
func (g *Grammar) ParseAll(input string) (*Result, error) {
	return g.parse(input, true)
}

func (g *Grammar) parse(input string, requireEOF bool) (*Result, error) {
	in := &interpreter{
		defaultHandler: g.defaultHandler,
		maxDepth:       g.maxDepth,
		trace:          g.trace,
		traceLevel:     g.traceLevel,
	}
	s := &state{cursor: NewCursor(input, g.skipSpaces)}

	vals, ok, err := in.visit(g.root, s)
	if err != nil {
		return nil, err
	}
	if !ok {
		pos := in.furthest
		if pos < s.cursor.Pos() {
			pos = s.cursor.Pos()
		}
		return nil, newParsingError(ErrNoMatch, s.cursor, pos)
	}
	if requireEOF && !s.cursor.AtEnd() {
		pos := s.cursor.next()
		if in.furthest > pos {
			pos = in.furthest
		}
		return nil, newParsingError(ErrTrailingInput, s.cursor, pos)
	}
	return &Result{
		Values: vals,
		Stack:  s.stack,
		Cursor: s.cursor,
		table:  s.table,
	}, nil
}

// Parse is a shortcut for parsing `input` with a grammar made out of
// `root` with the default configuration
func Parse(root Rule, input string) (*Result, error) {
	g, err := NewGrammar(root)
	if err != nil {
		return nil, err
	}
	return g.Parse(input)
}
