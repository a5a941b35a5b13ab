package arithmetic

import (
	"math"

	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/babel-cnc/babel"
)

var (
	ErrUnknownVariable = errors.New("unknown variable")
	ErrStackUnderflow  = errors.New("stack underflow")
	ErrDivisionByZero  = errors.New("division by zero")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrBadOperand      = errors.New("bad operand")
)

// Evaluator runs the code emitted by the arithmetic grammar.  Q
// variables survive between runs, the operand stack doesn't have to.
type Evaluator struct {
	stack *arraystack.Stack
	q     map[int]float64
}

func NewEvaluator() *Evaluator {
	return &Evaluator{stack: arraystack.New(), q: map[int]float64{}}
}

// Run executes every item of `program` in order
func (e *Evaluator) Run(program babel.Values) error {
	for _, item := range program {
		if err := e.Step(item); err != nil {
			return err
		}
	}
	return nil
}

// Step executes `item` if it's a command, otherwise it pushes it as
// an operand
func (e *Evaluator) Step(item any) error {
	cmd, ok := item.(Command)
	if !ok {
		e.stack.Push(item)
		return nil
	}
	klog.V(5).Infof("arithmetic: %s", cmd)

	switch cmd {
	case Command_Let:
		n, err := e.PopInt()
		if err != nil {
			return err
		}
		v, err := e.PopFloat()
		if err != nil {
			return err
		}
		e.q[n] = v
		e.stack.Push(v)
		return nil

	case Command_GetQ:
		n, err := e.PopInt()
		if err != nil {
			return err
		}
		v, ok := e.q[n]
		if !ok {
			return errors.Wrapf(ErrUnknownVariable, "Q%d", n)
		}
		e.stack.Push(v)
		return nil
	}

	b, err := e.PopFloat()
	if err != nil {
		return err
	}
	a, err := e.PopFloat()
	if err != nil {
		return err
	}
	switch cmd {
	case Command_Add:
		e.stack.Push(a + b)
	case Command_Sub:
		e.stack.Push(a - b)
	case Command_Mul:
		e.stack.Push(a * b)
	case Command_Div:
		if b == 0 {
			return errors.Wrapf(ErrDivisionByZero, "%g / %g", a, b)
		}
		e.stack.Push(a / b)
	case Command_Pow:
		e.stack.Push(math.Pow(a, b))
	default:
		return errors.Wrapf(ErrUnknownCommand, "%s", cmd)
	}
	return nil
}

// Push puts an operand on top of the stack
func (e *Evaluator) Push(v any) { e.stack.Push(v) }

// Pop removes the operand on top of the stack
func (e *Evaluator) Pop() (any, error) {
	v, ok := e.stack.Pop()
	if !ok {
		return nil, ErrStackUnderflow
	}
	return v, nil
}

// PopFloat pops a number
func (e *Evaluator) PopFloat() (float64, error) {
	v, err := e.Pop()
	if err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	}
	return 0, errors.Wrapf(ErrBadOperand, "expected a number, got %v (%T)", v, v)
}

// PopInt pops a variable index
func (e *Evaluator) PopInt() (int, error) {
	v, err := e.Pop()
	if err != nil {
		return 0, err
	}
	if n, ok := v.(int); ok {
		return n, nil
	}
	return 0, errors.Wrapf(ErrBadOperand, "expected an index, got %v (%T)", v, v)
}

// Len returns how many operands are on the stack
func (e *Evaluator) Len() int { return e.stack.Size() }

// Clear drops every operand
func (e *Evaluator) Clear() { e.stack.Clear() }

// Stack returns the operands from the bottom to the top of the stack
func (e *Evaluator) Stack() babel.Values {
	top := e.stack.Values()
	out := make(babel.Values, len(top))
	for i, v := range top {
		out[len(top)-1-i] = v
	}
	return out
}

// Q returns the value of variable Qn
func (e *Evaluator) Q(n int) (float64, bool) {
	v, ok := e.q[n]
	return v, ok
}

// Eval parses and runs a single statement, returning its value.  The
// operand stack is left empty.
func (e *Evaluator) Eval(input string) (float64, error) {
	program, err := Parse(input)
	if err != nil {
		return 0, err
	}
	defer e.Clear()
	if err := e.Run(program); err != nil {
		return 0, err
	}
	return e.PopFloat()
}

// Eval evaluates `input` with a fresh evaluator
func Eval(input string) (float64, error) {
	return NewEvaluator().Eval(input)
}
