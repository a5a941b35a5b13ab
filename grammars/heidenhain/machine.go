package heidenhain

import (
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/babel-cnc/babel"
	"github.com/babel-cnc/babel/grammars/arithmetic"
)

// ErrProgramEnded is returned when a block runs after END
var ErrProgramEnded = errors.New("program already ended")

// Snapshot is the value of every register that was set when an
// INVARIANT command ran
type Snapshot map[Register]any

// Machine executes the code emitted by the grammar.  Operands and
// arithmetic commands go to an arithmetic evaluator, so Q variables
// assigned with FN 0 are available to the following blocks.
type Machine struct {
	eval      *arithmetic.Evaluator
	registers map[Register]any
	snapshots []Snapshot
	events    []Command
	ended     bool

	// values to restore after the next INVARIANT
	temporary map[Register]saved
}

type saved struct {
	value any
	set   bool
}

func NewMachine() *Machine {
	return &Machine{
		eval:      arithmetic.NewEvaluator(),
		registers: map[Register]any{},
		temporary: map[Register]saved{},
	}
}

// Run executes every item of `program` in order
func (m *Machine) Run(program babel.Values) error {
	for _, item := range program {
		if err := m.Step(item); err != nil {
			return err
		}
	}
	return nil
}

// Step executes a single item
func (m *Machine) Step(item any) error {
	cmd, ok := item.(Command)
	if !ok {
		return m.eval.Step(item)
	}
	// registers can still be written after END, as the line number
	// of END PGM is, but nothing else can happen
	if m.ended && cmd != Command_Set && cmd != Command_Discard {
		return errors.Wrapf(ErrProgramEnded, "can't run %s", cmd)
	}
	switch cmd {
	case Command_Set:
		top, err := m.eval.Pop()
		if err != nil {
			return err
		}
		r, ok := top.(Register)
		if !ok {
			return errors.Wrapf(arithmetic.ErrBadOperand, "expected a register, got %v (%T)", top, top)
		}
		v, err := m.eval.Pop()
		if err != nil {
			return err
		}
		m.registers[r] = v

	case Command_Invariant:
		s := make(Snapshot, len(m.registers))
		for r, v := range m.registers {
			s[r] = v
		}
		m.snapshots = append(m.snapshots, s)
		klog.V(4).Infof("block %d: %v", len(m.snapshots), s)

		for r, old := range m.temporary {
			if old.set {
				m.registers[r] = old.value
			} else {
				delete(m.registers, r)
			}
			delete(m.temporary, r)
		}

	case Command_Temporary:
		top, err := m.eval.Pop()
		if err != nil {
			return err
		}
		r, ok := top.(Register)
		if !ok {
			return errors.Wrapf(arithmetic.ErrBadOperand, "expected a register, got %v (%T)", top, top)
		}
		// the first value saved within a block is the one restored
		if _, ok := m.temporary[r]; !ok {
			v, set := m.registers[r]
			m.temporary[r] = saved{value: v, set: set}
		}

	case Command_Discard:
		m.eval.Clear()

	case Command_Stop, Command_OptStop, Command_ToolChange:
		m.events = append(m.events, cmd)

	case Command_End:
		m.events = append(m.events, cmd)
		m.ended = true

	default:
		return errors.Wrapf(arithmetic.ErrUnknownCommand, "%s", cmd)
	}
	return nil
}

// Register returns the current value of `r`
func (m *Machine) Register(r Register) (any, bool) {
	v, ok := m.registers[r]
	return v, ok
}

// Q returns the value of variable Qn
func (m *Machine) Q(n int) (float64, bool) { return m.eval.Q(n) }

// Snapshots returns the state recorded by each INVARIANT, in order
func (m *Machine) Snapshots() []Snapshot { return m.snapshots }

// Events returns the STOP, OPTSTOP, TOOLCHANGE and END commands
// executed so far
func (m *Machine) Events() []Command { return m.events }

// Ended tells if END was executed
func (m *Machine) Ended() bool { return m.ended }

// Operands returns what's left on the operand stack
func (m *Machine) Operands() babel.Values { return m.eval.Stack() }

// Run compiles `text` and executes it on a new machine
func Run(text string) (*Machine, error) {
	program, err := ParseProgram(text)
	if err != nil {
		return nil, err
	}
	m := NewMachine()
	if err := m.Run(program); err != nil {
		return m, err
	}
	return m, nil
}
