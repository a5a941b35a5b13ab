package heidenhain

import "fmt"

// Command is an instruction of the register machine.  Arithmetic
// commands are carried by the arithmetic package.
type Command int

const (
	// value register SET -> register = value
	Command_Set Command = iota
	// records the state of every register as one block
	Command_Invariant
	// drops every operand left on the stack
	Command_Discard
	Command_Stop
	Command_OptStop
	Command_ToolChange
	Command_End
	// register TEMPORARY -> the register gets its current value
	// back after the next INVARIANT
	Command_Temporary
)

var commandNames = map[Command]string{
	Command_Set:        "SET",
	Command_Invariant:  "INVARIANT",
	Command_Discard:    "DISCARD",
	Command_Stop:       "STOP",
	Command_OptStop:    "OPTSTOP",
	Command_ToolChange: "TOOLCHANGE",
	Command_End:        "END",
	Command_Temporary:  "TEMPORARY",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// Register names a piece of machine state that SET can write to.
// Axes are registers too, each with an incremental twin.
type Register int

const (
	Register_Compensation Register = iota
	Register_Direction
	Register_LineNo
	Register_Units
	Register_Feed
	Register_SpinSpeed
	Register_SpinDir
	Register_MotionMode
	Register_ToolNo
	Register_ToolDL
	Register_ToolDR
	Register_Coolant
	Register_WCS

	// cartesian
	Register_X
	Register_Y
	Register_Z
	Register_XInc
	Register_YInc
	Register_ZInc

	// polar
	Register_Angle
	Register_Radius
	Register_AngleInc
	Register_RadiusInc

	// angular
	Register_A
	Register_B
	Register_C
	Register_AInc
	Register_BInc
	Register_CInc

	// circle center
	Register_CenterX
	Register_CenterY
	Register_CenterZ
	Register_CenterXInc
	Register_CenterYInc
	Register_CenterZInc
)

var registerNames = map[Register]string{
	Register_Compensation: "COMPENSATION",
	Register_Direction:    "DIRECTION",
	Register_LineNo:       "LINENO",
	Register_Units:        "UNITS",
	Register_Feed:         "FEED",
	Register_SpinSpeed:    "SPINSPEED",
	Register_SpinDir:      "SPINDIR",
	Register_MotionMode:   "MOTIONMODE",
	Register_ToolNo:       "TOOLNO",
	Register_ToolDL:       "TOOLDL",
	Register_ToolDR:       "TOOLDR",
	Register_Coolant:      "COOLANT",
	Register_WCS:          "WCS",
	Register_X:            "X",
	Register_Y:            "Y",
	Register_Z:            "Z",
	Register_XInc:         "XINC",
	Register_YInc:         "YINC",
	Register_ZInc:         "ZINC",
	Register_Angle:        "ANG",
	Register_Radius:       "RAD",
	Register_AngleInc:     "ANGINC",
	Register_RadiusInc:    "RADINC",
	Register_A:            "A",
	Register_B:            "B",
	Register_C:            "C",
	Register_AInc:         "AINC",
	Register_BInc:         "BINC",
	Register_CInc:         "CINC",
	Register_CenterX:      "CCX",
	Register_CenterY:      "CCY",
	Register_CenterZ:      "CCZ",
	Register_CenterXInc:   "CCXINC",
	Register_CenterYInc:   "CCYINC",
	Register_CenterZInc:   "CCZINC",
}

func (r Register) String() string {
	if name, ok := registerNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Register(%d)", int(r))
}

var incremental = map[Register]Register{
	Register_X:       Register_XInc,
	Register_Y:       Register_YInc,
	Register_Z:       Register_ZInc,
	Register_Angle:   Register_AngleInc,
	Register_Radius:  Register_RadiusInc,
	Register_A:       Register_AInc,
	Register_B:       Register_BInc,
	Register_C:       Register_CInc,
	Register_CenterX: Register_CenterXInc,
	Register_CenterY: Register_CenterYInc,
	Register_CenterZ: Register_CenterZInc,
}

// Incremental returns the register holding relative moves along the
// same axis.  Registers that aren't absolute axes are returned as is.
func (r Register) Incremental() Register {
	if inc, ok := incremental[r]; ok {
		return inc
	}
	return r
}

type Units int

const (
	Units_MM Units = iota
	Units_Inch
)

func (u Units) String() string { return [...]string{"MM", "INCH"}[u] }

type Compensation int

const (
	Compensation_None Compensation = iota
	Compensation_Left
	Compensation_Right
)

func (c Compensation) String() string { return [...]string{"NONE", "LEFT", "RIGHT"}[c] }

type Direction int

const (
	Direction_CW Direction = iota
	Direction_CCW
)

func (d Direction) String() string { return [...]string{"CW", "CCW"}[d] }

type Motion int

const (
	Motion_Linear Motion = iota
	Motion_Circular
)

func (m Motion) String() string { return [...]string{"LINEAR", "CIRCULAR"}[m] }

type Coolant int

const (
	Coolant_Off Coolant = iota
	Coolant_Flood
	Coolant_Mist
	Coolant_Air
)

func (c Coolant) String() string { return [...]string{"OFF", "FLOOD", "MIST", "AIR"}[c] }

type Spindle int

const (
	Spindle_Off Spindle = iota
	Spindle_CW
	Spindle_CCW
)

func (s Spindle) String() string { return [...]string{"OFF", "CW", "CCW"}[s] }
