package bctext

import "github.com/bfkit/bf/ir"

// fieldSpec describes which of an instruction's three numeric fields are
// semantically meaningful for a given opcode, and therefore which ones the
// writer prints and the reader accepts. loop_start/loop_end carry their
// link distance in Extra, but that value is recomputed by bracket-linking
// on parse, so it is internal-only — printed only as a comment, never
// accepted as input.
type fieldSpec struct {
	value, offset, extra bool
}

func fields(op ir.Op) fieldSpec {
	switch op {
	case ir.Set, ir.Add:
		return fieldSpec{value: true, offset: true}
	case ir.AddMul:
		return fieldSpec{value: true, offset: true, extra: true}
	case ir.Move:
		return fieldSpec{extra: true}
	case ir.Seek:
		return fieldSpec{value: true, offset: true, extra: true}
	case ir.In, ir.Out:
		return fieldSpec{offset: true}
	case ir.OutValue:
		return fieldSpec{value: true}
	default: // Halt, Breakpoint, LoopStart, LoopEnd
		return fieldSpec{}
	}
}
