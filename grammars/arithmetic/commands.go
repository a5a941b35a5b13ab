package arithmetic

import "fmt"

// Command is an instruction of the stack machine the arithmetic
// grammar emits code for.  Operands are pushed before the command
// that consumes them.
type Command int

const (
	// A B ADD -> A+B
	Command_Add Command = iota
	// A B SUB -> A-B
	Command_Sub
	// A B MUL -> A*B
	Command_Mul
	// A B DIV -> A/B
	Command_Div
	// A B POW -> A^B
	Command_Pow
	// A n LET -> A, and Qn = A
	Command_Let
	// n GETQ -> Qn
	Command_GetQ
)

var commandNames = map[Command]string{
	Command_Add:  "ADD",
	Command_Sub:  "SUB",
	Command_Mul:  "MUL",
	Command_Div:  "DIV",
	Command_Pow:  "POW",
	Command_Let:  "LET",
	Command_GetQ: "GETQ",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(%d)", int(c))
}
