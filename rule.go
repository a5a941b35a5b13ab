package babel

import (
	"fmt"
	"strings"
)

// Rule is a node of a rule tree.  The set of rules is closed: the
// interpreter knows how to apply each one of the node types declared
// in this file and nothing else.
//
// Rule trees are built once and then shared by any number of parses.
// Nothing in the interpreter writes to them, so they're safe for
// concurrent use as long as they're not modified after the first
// parse.
type Rule interface {
	// Name returns the name given to the rule with `Named`, or
	// the empty string
	Name() string

	// String returns the textual representation of the rule
	String() string

	base() *ruleBase
}

type ruleBase struct {
	name    string
	handler Handler
}

func (b *ruleBase) Name() string    { return b.name }
func (b *ruleBase) base() *ruleBase { return b }

// Named gives `r` a name, used in traces and error messages
func Named[R Rule](name string, r R) R {
	r.base().name = name
	return r
}

// WithHandler attaches `h` to `r`.  It must be called while the rule
// tree is being built.
func WithHandler[R Rule](r R, h Handler) R {
	r.base().handler = h
	return r
}

// label is how rules show up in traces and errors
func label(r Rule) string {
	if n := r.Name(); n != "" {
		return n
	}
	return r.String()
}

// Node Type: Terminal

type TerminalNode struct {
	ruleBase
	Matcher Matcher
}

// Term creates a rule that consumes one token recognized by `m`
func Term(m Matcher) *TerminalNode { return &TerminalNode{Matcher: m} }

// Literal is a shortcut for Term(Lit(s))
func Literal(s string) *TerminalNode { return Term(Lit(s)) }

// Regexp is a shortcut for Term(Re(expr))
func Regexp(expr string) *TerminalNode { return Term(Re(expr)) }

func (n *TerminalNode) String() string { return n.Matcher.String() }

// Node Type: Sequence

type SequenceNode struct {
	ruleBase
	Items []Rule
}

// Seq creates a rule that matches all `items` in order
func Seq(items ...Rule) *SequenceNode { return &SequenceNode{Items: items} }

func (n *SequenceNode) String() string { return "(" + rulesText(n.Items, " ") + ")" }

// Node Type: Alternative

type AlternativeNode struct {
	ruleBase
	Items []Rule
}

// Alt creates a rule that matches the first of `items` that
// succeeds.  Declaration order decides between options that would
// both match.
func Alt(items ...Rule) *AlternativeNode { return &AlternativeNode{Items: items} }

func (n *AlternativeNode) String() string { return "(" + rulesText(n.Items, " / ") + ")" }

// Node Type: Repeat

type RepeatNode struct {
	ruleBase
	Expr Rule
}

// ZeroOrMore creates a rule that applies `expr` until it fails.  It
// never fails itself.
func ZeroOrMore(expr Rule) *RepeatNode { return &RepeatNode{Expr: expr} }

// OneOrMore is a sequence of `expr` followed by ZeroOrMore(expr)
func OneOrMore(expr Rule) *SequenceNode { return Seq(expr, ZeroOrMore(expr)) }

func (n *RepeatNode) String() string { return n.Expr.String() + "*" }

// Node Type: Optional

type OptionalNode struct {
	ruleBase
	Expr Rule
}

// Maybe creates a rule that always succeeds, returning the result of
// `expr` when it matches
func Maybe(expr Rule) *OptionalNode { return &OptionalNode{Expr: expr} }

func (n *OptionalNode) String() string { return n.Expr.String() + "?" }

// Node Type: Not

type NotNode struct {
	ruleBase
	Expr Rule
}

// Not creates a rule that succeeds only if `expr` fails.  It never
// consumes input.
func Not(expr Rule) *NotNode { return &NotNode{Expr: expr} }

func (n *NotNode) String() string { return "!" + n.Expr.String() }

// Node Type: Always

type AlwaysNode struct{ ruleBase }

func Always() *AlwaysNode { return &AlwaysNode{} }

// Constant matches without consuming input and returns `values`.
// Wrapped in Push, it emits fixed commands into the output stack.
func Constant(values ...any) *AlwaysNode {
	return WithHandler(Always(), Const(values...))
}

func (n *AlwaysNode) String() string { return "Always" }

// Node Type: Never

type NeverNode struct{ ruleBase }

func Never() *NeverNode { return &NeverNode{} }

func (n *NeverNode) String() string { return "Never" }

// Node Type: Ignore

type IgnoreNode struct {
	ruleBase
	Expr Rule
}

// Ignore creates a rule that matches `expr` and drops its result
func Ignore(expr Rule) *IgnoreNode { return &IgnoreNode{Expr: expr} }

// IgnoreAs matches `expr` and returns `values` in place of its result
func IgnoreAs(expr Rule, values ...any) *IgnoreNode {
	return WithHandler(Ignore(expr), Const(values...))
}

func (n *IgnoreNode) String() string { return "Ignore(" + n.Expr.String() + ")" }

// Node Type: Push

type PushNode struct {
	ruleBase
	Expr Rule
}

// Push creates a rule that appends the result of `expr` to the output
// stack instead of returning it
func Push(expr Rule) *PushNode { return &PushNode{Expr: expr} }

func (n *PushNode) String() string { return "Push(" + n.Expr.String() + ")" }

// Node Type: Handle

type HandleNode struct {
	ruleBase
	Expr Rule
}

// Handle creates a rule that returns the result of `expr` transformed
// by `fn`
func Handle(expr Rule, name string, fn Handler) *HandleNode {
	n := &HandleNode{Expr: expr}
	n.name = name
	n.handler = fn
	return n
}

func (n *HandleNode) String() string {
	return fmt.Sprintf("Handle<%s>(%s)", n.name, n.Expr)
}

// Node Type: Copy

type CopyNode struct {
	ruleBase
	Expr Rule
	Key  string
}

// Copy creates a rule that stores the result of `expr` under `key`
// and also returns it
func Copy(expr Rule, key string) *CopyNode { return &CopyNode{Expr: expr, Key: key} }

func (n *CopyNode) String() string { return fmt.Sprintf("Copy<%s>(%s)", n.Key, n.Expr) }

// Node Type: Cut

type CutNode struct {
	ruleBase
	Expr Rule
	Key  string
}

// Cut creates a rule that stores the result of `expr` under `key`
// and returns nothing
func Cut(expr Rule, key string) *CutNode { return &CutNode{Expr: expr, Key: key} }

func (n *CutNode) String() string { return fmt.Sprintf("Cut<%s>(%s)", n.Key, n.Expr) }

// Node Type: Paste

type PasteNode struct {
	ruleBase
	Key string
}

// Paste creates a rule that returns the value last stored under `key`
// by Copy or Cut, and fails if there isn't one
func Paste(key string) *PasteNode { return &PasteNode{Key: key} }

func (n *PasteNode) String() string { return fmt.Sprintf("Paste<%s>", n.Key) }

// Node Type: Ref

// RefNode stands for a rule that's only known after the rules using
// it were built, which is what makes recursive grammars possible.
type RefNode struct {
	ruleBase
	target Rule
}

// NewRef creates an unresolved reference.  `Set` must be called
// exactly once before the reference is parsed.
func NewRef(name string) *RefNode {
	r := &RefNode{}
	r.name = name
	return r
}

// Set resolves the reference.  Setting it twice is a programming
// error and panics.
func (n *RefNode) Set(target Rule) {
	if target == nil {
		panic(fmt.Sprintf("rule `%s` can't be set to nil", n.name))
	}
	if n.target != nil {
		panic(fmt.Sprintf("rule `%s` was already set", n.name))
	}
	n.target = target
}

// Target returns the rule the reference resolves to, or nil
func (n *RefNode) Target() Rule { return n.target }

func (n *RefNode) String() string { return n.name }

func rulesText(items []Rule, sep string) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return strings.Join(parts, sep)
}
