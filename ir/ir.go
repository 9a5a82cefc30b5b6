// Package ir defines the bytecode instruction set that a Brainfuck program
// is lowered into, and the columnar Program container that the optimizer
// and execution layers operate on.
package ir

// Op identifies a single bytecode opcode.
type Op uint8

const (
	// Halt terminates execution successfully.
	Halt Op = iota
	// Breakpoint yields control to the host with status Breakpoint.
	Breakpoint
	// Set assigns tape[mp+offset] = value.
	Set
	// Add adds value to tape[mp+offset], wrapping.
	Add
	// AddMul adds value*tape[mp+offset+extra] to tape[mp+offset], wrapping.
	AddMul
	// Move adds extra to mp, wrapping.
	Move
	// Seek advances mp by offset, then steps by extra until tape[mp] == value.
	Seek
	// In reads one byte into tape[mp+offset].
	In
	// Out emits tape[mp+offset].
	Out
	// OutValue emits the immediate byte in Value.
	OutValue
	// LoopStart jumps past the matching LoopEnd if tape[mp] == 0.
	LoopStart
	// LoopEnd jumps back to just after the matching LoopStart if tape[mp] != 0.
	LoopEnd
)

// String renders the opcode's bytecode-text mnemonic.
func (o Op) String() string {
	switch o {
	case Halt:
		return "halt"
	case Breakpoint:
		return "breakpoint"
	case Set:
		return "set"
	case Add:
		return "add"
	case AddMul:
		return "add_mul"
	case Move:
		return "move"
	case Seek:
		return "seek"
	case In:
		return "in"
	case Out:
		return "out"
	case OutValue:
		return "out_value"
	case LoopStart:
		return "loop_start"
	case LoopEnd:
		return "loop_end"
	default:
		return "unknown"
	}
}

// OpByName resolves a bytecode-text mnemonic back to its Op, for bctext.Parse.
func OpByName(name string) (Op, bool) {
	for _, o := range []Op{Halt, Breakpoint, Set, Add, AddMul, Move, Seek, In, Out, OutValue, LoopStart, LoopEnd} {
		if o.String() == name {
			return o, true
		}
	}
	return 0, false
}

// Instruction is a single bytecode record: an opcode plus its three
// immediate/displacement fields. Unused fields per opcode are unspecified;
// callers must not rely on reading them back.
type Instruction struct {
	Op     Op
	Value  uint8
	Offset uint32
	Extra  uint32
}
