//go:build amd64 && (linux || darwin || freebsd)

package jit

import (
	"io"

	"github.com/ebitengine/purego"
)

// Reader and Writer mirror interp.Reader/Writer exactly, so a single
// bytes.Reader/bufio.Writer pair (or any other implementation) can drive
// either the interpreter or the JIT and produce identical output for
// identical input.
type Reader interface {
	ReadByte() (byte, error)
}

type Writer interface {
	WriteByte(b byte) error
}

// NewIOCallbacks wraps in/out as the C-ABI function pointer/context pairs
// Code.Run's input and output parameters expect, using purego.NewCallback
// to turn the two Go closures below into addresses the generated code's
// `call r10`/`call rcx` can invoke directly.
//
// The generated code calls these with ctx unused (both closures capture
// in/out directly rather than round-tripping through the opaque context
// argument the ABI reserves for it), so inCtx and outCtx are always 0.
//
// EOF is reported as eofByte: the callback ABI's only channel back to the
// generated code is its i32 return value, which is unconditionally stored
// into the tape cell, so there is no way for a C-ABI `in` callback to
// express "leave the cell unchanged" the way interp.EOFLeaveUnchanged
// does. Callers wanting that policy must use the interp package instead.
func NewIOCallbacks(in Reader, out Writer, eofByte byte) (input, inCtx, output, outCtx uintptr) {
	inputCB := func(ctx uintptr) int32 {
		b, err := in.ReadByte()
		if err != nil {
			if err == io.EOF {
				return int32(eofByte)
			}
			return -1
		}
		return int32(b)
	}
	outputCB := func(ctx uintptr, b uintptr) int32 {
		if err := out.WriteByte(byte(b)); err != nil {
			return -1
		}
		return 0
	}
	return purego.NewCallback(inputCB), 0, purego.NewCallback(outputCB), 0
}
