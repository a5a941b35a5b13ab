// Package heidenhain parses Heidenhain conversational CNC programs
// into code for a register machine.  Each block of the program sets
// registers and then records the state of the machine with an
// INVARIANT command.  Register values are arithmetic primaries, so
// the arithmetic grammar provides them.
package heidenhain

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/babel-cnc/babel"
	"github.com/babel-cnc/babel/grammars/arithmetic"
)

// ErrUnknownAuxiliary is returned for M functions the machine
// doesn't know about
var ErrUnknownAuxiliary = errors.New("unknown auxiliary function")

var auxiliaryFunctions = map[int]babel.Values{
	0:  babel.Of(Command_Stop),
	1:  babel.Of(Command_OptStop),
	2:  babel.Of(Command_End),
	3:  babel.Of(Spindle_CW, Register_SpinDir, Command_Set),
	4:  babel.Of(Spindle_CCW, Register_SpinDir, Command_Set),
	5:  babel.Of(Spindle_Off, Register_SpinDir, Command_Set),
	6:  babel.Of(Command_ToolChange),
	8:  babel.Of(Coolant_Flood, Register_Coolant, Command_Set),
	9:  babel.Of(Coolant_Off, Register_Coolant, Command_Set),
	30: babel.Of(Command_End),
	// machine coordinates for the current block only
	91: babel.Of(Register_WCS, Command_Temporary, 0, Register_WCS, Command_Set),
}

func auxiliary(t babel.Token) (babel.Values, error) {
	n, err := strconv.Atoi(t.Group(0))
	if err != nil {
		return nil, errors.Wrapf(err, "malformed auxiliary function %q", t.Text)
	}
	code, ok := auxiliaryFunctions[n]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownAuxiliary, "M%d", n)
	}
	return append(babel.Values(nil), code...), nil
}

func setAxis(axes map[string]Register) babel.TokenFn {
	return func(t babel.Token) (babel.Values, error) {
		r := axes[t.Group(1)]
		if t.Group(0) == "I" {
			r = r.Incremental()
		}
		return babel.Of(r, Command_Set), nil
	}
}

// axisSwitch matches one of `names`, optionally prefixed with I for
// incremental values, and returns the code for setting the axis
// register apart from its value
func axisSwitch(axes map[string]Register, names ...string) *babel.Switch {
	s := babel.NewSwitch()
	for _, name := range names {
		s.Case(babel.Re(`(I)?(`+name+`)`), setAxis(axes))
	}
	return s
}

func lineNumber(t babel.Token) (babel.Values, error) {
	n, err := babel.GroupInt(0)(t)
	if err != nil {
		return nil, err
	}
	return append(n, Register_LineNo, Command_Set), nil
}

func programUnits(t babel.Token) (babel.Values, error) {
	units := Units_MM
	if t.Group(1) == "INCH" {
		units = Units_Inch
	}
	return babel.Of(units, Register_Units, Command_Set), nil
}

// setRegister matches the name of a register with `name`, and its
// value as an arithmetic primary with an optional plus sign.  The
// name comes first but the machine needs the value on the stack
// before the register, so the name is cut out and pasted after the
// value.
func setRegister(name babel.Rule) *babel.SequenceNode {
	return babel.Seq(
		babel.Cut(name, "register"),
		babel.Maybe(babel.Ignore(babel.Literal("+"))),
		arithmetic.Primary,
		babel.Push(babel.Paste("register")),
	)
}

var (
	cartesianAxes = map[string]Register{
		"X": Register_X, "Y": Register_Y, "Z": Register_Z,
		"A": Register_A, "B": Register_B, "C": Register_C,
		"PA": Register_Angle, "PR": Register_Radius,
	}
	centerAxes = map[string]Register{
		"X": Register_CenterX, "Y": Register_CenterY, "Z": Register_CenterZ,
	}

	cartesianAxis = babel.Named("cartesian axis", babel.Term(axisSwitch(cartesianAxes, "X", "Y", "Z", "A", "B", "C")))
	polarAxis     = babel.Named("polar axis", babel.Term(axisSwitch(cartesianAxes, "PA", "PR")))
	centerAxis    = babel.Named("center axis", babel.Term(axisSwitch(centerAxes, "X", "Y", "Z")))

	cartesianCoord = setRegister(cartesianAxis)
	polarCoord     = setRegister(polarAxis)
	centerCoord    = setRegister(centerAxis)

	// L and C must be whole words, or they'd match the beginning of
	// LP, CC, LBL and CYCL
	cartesianMotion = babel.NewSwitch().
		Case(babel.Re(`L\b`), babel.Return(Motion_Linear, Register_MotionMode, Command_Set)).
		Case(babel.Re(`C\b`), babel.Return(Motion_Circular, Register_MotionMode, Command_Set))
	polarMotion = babel.NewSwitch().
		Case(babel.Lit("LP"), babel.Return(Motion_Linear, Register_MotionMode, Command_Set)).
		Case(babel.Lit("CP"), babel.Return(Motion_Circular, Register_MotionMode, Command_Set))

	compensation = babel.Named("compensation", babel.Push(babel.Term(babel.NewSwitch().
		Case(babel.Lit("R0"), babel.Return(Compensation_None, Register_Compensation, Command_Set)).
		Case(babel.Lit("RL"), babel.Return(Compensation_Left, Register_Compensation, Command_Set)).
		Case(babel.Lit("RR"), babel.Return(Compensation_Right, Register_Compensation, Command_Set)))))

	direction = babel.Named("direction", babel.Push(babel.Term(babel.NewSwitch().
		Case(babel.Lit("DR-"), babel.Return(Direction_CW, Register_Direction, Command_Set)).
		Case(babel.Lit("DR+"), babel.Return(Direction_CCW, Register_Direction, Command_Set)))))

	feed = babel.Named("feed", babel.Seq(
		babel.Cut(babel.IgnoreAs(babel.Literal("F"), Register_Feed, Command_Set), "register"),
		babel.Alt(babel.Push(babel.IgnoreAs(babel.Literal("MAX"), -1.0)), arithmetic.Primary),
		babel.Push(babel.Paste("register")),
	))

	aux = babel.Push(babel.Named("auxiliary", babel.Term(
		babel.NewSwitch().Case(babel.Re(`M(\d+)`), auxiliary))))

	// M functions that act on the block they're written in.  They're
	// matched along with the coordinates, so their code runs before
	// the block's INVARIANT.
	blockAux = babel.Push(babel.Named("auxiliary", babel.Term(
		babel.NewSwitch().Case(babel.Re(`M(91)\b`), auxiliary))))

	invariant = babel.Push(babel.Constant(Command_Invariant))

	cartesianMove = babel.Named("cartesian move", babel.Seq(
		babel.Push(babel.Term(cartesianMotion)),
		babel.ZeroOrMore(babel.Alt(cartesianCoord, compensation, direction, feed, blockAux)),
		invariant,
		babel.ZeroOrMore(aux),
	))

	polarMove = babel.Named("polar move", babel.Seq(
		babel.Push(babel.Term(polarMotion)),
		babel.ZeroOrMore(babel.Alt(polarCoord, cartesianCoord, compensation, direction, feed, blockAux)),
		invariant,
		babel.ZeroOrMore(aux),
	))

	circleCenter = babel.Named("circle center", babel.Seq(
		babel.Ignore(babel.Literal("CC")),
		babel.OneOrMore(centerCoord),
		invariant,
	))

	toolOption = setRegister(babel.Term(babel.NewSwitch().
		Case(babel.Re(`DR\s*=?`), babel.Return(Register_ToolDR, Command_Set)).
		Case(babel.Re(`DL\s*=?`), babel.Return(Register_ToolDL, Command_Set)).
		Case(babel.Lit("S"), babel.Return(Register_SpinSpeed, Command_Set))))

	toolCall = babel.Named("tool call", babel.Seq(
		babel.Ignore(babel.Literal("TOOL CALL")),
		babel.Push(babel.Seq(arithmetic.Number, babel.Constant(Register_ToolNo, Command_Set))),
		babel.Maybe(babel.Ignore(babel.Regexp(`[XYZ]\b`))),
		babel.ZeroOrMore(toolOption),
		babel.Push(babel.Constant(Command_Invariant, Command_ToolChange)),
	))

	beginProgram = babel.Named("begin pgm", babel.Push(babel.Term(
		babel.Re(`BEGIN PGM (\S+) (MM|INCH)`).Map(programUnits))))

	endProgram = babel.Named("end pgm", babel.Ignore(
		babel.Regexp(`END PGM \S+(?: (?:MM|INCH))?`)))

	// the blank form is only used for simulation, so its values
	// are evaluated and then dropped
	blockForm = babel.Named("blk form", babel.Seq(
		babel.Ignore(babel.Regexp(`BLK FORM 0\.(?:1 [XYZ]|2)`)),
		babel.ZeroOrMore(babel.Ignore(babel.Seq(cartesianAxis, arithmetic.Primary))),
		babel.Push(babel.Constant(Command_Discard)),
	))

	// LET leaves the assigned value on the stack
	function = babel.Named("fn", babel.Seq(
		babel.Ignore(babel.Regexp(`FN\s*0\s*:`)),
		arithmetic.Assignment,
		babel.Push(babel.Constant(Command_Discard)),
	))

	comment = babel.Ignore(babel.Regexp(`;.*`))

	lineNo = babel.Named("line number", babel.Push(babel.Term(
		babel.Re(`(\d+)`).Map(lineNumber))))

	statement = babel.Alt(
		beginProgram,
		endProgram,
		blockForm,
		toolCall,
		function,
		circleCenter,
		polarMove,
		cartesianMove,
		babel.OneOrMore(aux),
	)

	// Block is a single line of a program
	Block = babel.Named("block", babel.Seq(
		babel.Maybe(lineNo),
		babel.Maybe(statement),
		babel.Maybe(comment),
	))
)

var grammar = babel.MustGrammar(Block)

// Grammar returns the compiled block grammar
func Grammar() *babel.Grammar { return grammar }

// Parse compiles a single block into machine code
func Parse(line string) (babel.Values, error) {
	res, err := grammar.ParseAll(line)
	if err != nil {
		return nil, err
	}
	return res.Stack, nil
}

// ParseProgram compiles every block of `text`, one per line.  Blank
// lines are skipped.  Errors name the line that failed.
func ParseProgram(text string) (babel.Values, error) {
	var program babel.Values
	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		code, err := Parse(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", i+1)
		}
		program = append(program, code...)
	}
	return program, nil
}
