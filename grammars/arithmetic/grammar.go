// Package arithmetic is a grammar for arithmetic expressions over
// numbers and Q variables.  Parsing emits a program in reverse polish
// notation into the output stack, and Evaluator runs it.
//
//	statement  = assignment / expression
//	assignment = Q<n> '=' expression
//	expression = term (('+' / '-') term)*
//	term       = pow (('*' / '/') pow)*
//	pow        = primary ('^' pow)?
//	primary    = number / '(' expression ')' / Q<n> !'='
package arithmetic

import (
	"github.com/babel-cnc/babel"
)

var (
	// Number matches a signed decimal number and returns it as a
	// float64.  It doesn't push anything.
	Number = babel.Named("number", babel.Term(
		babel.Re(`([+-]?(?:\d+[.]\d*|[.]\d+|\d+))`).Map(babel.GroupFloat(0))))

	// Expression pushes the code that leaves the value of an
	// expression on the machine stack
	Expression = babel.NewRef("expression")

	pow = babel.NewRef("pow")

	variable = babel.Named("variable", babel.Term(
		babel.Re(`Q(\d+)`).Map(babel.GroupInt(0))))

	addOp = babel.Term(babel.NewSwitch().
		Case(babel.Lit("+"), babel.Return(Command_Add)).
		Case(babel.Lit("-"), babel.Return(Command_Sub)))

	mulOp = babel.Term(babel.NewSwitch().
		Case(babel.Lit("*"), babel.Return(Command_Mul)).
		Case(babel.Lit("/"), babel.Return(Command_Div)))

	powOp = babel.IgnoreAs(babel.Literal("^"), Command_Pow)

	// Primary pushes a number, a parenthesized expression or the
	// value of a variable
	Primary = babel.Named("primary", babel.Alt(
		babel.Push(Number),
		babel.Seq(babel.Ignore(babel.Literal("(")), Expression, babel.Ignore(babel.Literal(")"))),
		babel.Push(babel.Seq(variable, babel.Not(babel.Literal("=")), babel.Constant(Command_GetQ))),
	))

	term = babel.Named("term", babel.Seq(pow, babel.ZeroOrMore(babel.Push(babel.Seq(mulOp, pow)))))

	// Assignment stores the value of an expression in a Q variable.
	// The variable comes first in the text but last in the code, so
	// it's cut out and pasted after the expression.
	Assignment = babel.Named("assignment", babel.Seq(
		babel.Cut(variable, "q"),
		babel.Ignore(babel.Literal("=")),
		Expression,
		babel.Push(babel.Paste("q")),
		babel.Push(babel.Constant(Command_Let)),
	))

	// Statement is either an assignment or an expression
	Statement = babel.Named("statement", babel.Alt(Assignment, Expression))
)

var grammar *babel.Grammar

func init() {
	Expression.Set(babel.Seq(term, babel.ZeroOrMore(babel.Push(babel.Seq(addOp, term)))))
	pow.Set(babel.Seq(Primary, babel.Maybe(babel.Push(babel.Seq(powOp, pow)))))
	grammar = babel.MustGrammar(Statement)
}

// Grammar returns the compiled statement grammar
func Grammar() *babel.Grammar { return grammar }

// Parse compiles a single statement into machine code.  The whole
// input must be consumed.
func Parse(input string) (babel.Values, error) {
	res, err := grammar.ParseAll(input)
	if err != nil {
		return nil, err
	}
	return res.Stack, nil
}
