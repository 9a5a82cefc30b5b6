// Package interp implements the columnar bytecode interpreter: a
// straight-dispatch loop over an ir.Program's parallel field slices, driving
// a tape.Tape through caller-supplied I/O.
package interp

import (
	"errors"
	"fmt"
	"io"

	"github.com/bfkit/bf/bferr"
	"github.com/bfkit/bf/ir"
	"github.com/bfkit/bf/tape"
)

// EOFPolicy governs what In does when the reader reports end-of-stream.
type EOFPolicy int

const (
	// EOFLeaveUnchanged leaves the target cell untouched on EOF.
	EOFLeaveUnchanged EOFPolicy = iota
	// EOFSubstitute stores a fixed byte in the target cell on EOF.
	EOFSubstitute
)

// Reader supplies input bytes one at a time. ReadByte returning io.EOF (or
// an error wrapping it) invokes the configured EOFPolicy rather than
// aborting execution; any other error aborts execution and is returned to
// the caller wrapped as bferr.ErrIO.
type Reader interface {
	ReadByte() (byte, error)
}

// Writer accepts output bytes one at a time. An error aborts execution and
// is returned to the caller wrapped as bferr.ErrIO.
type Writer interface {
	WriteByte(b byte) error
}

// Interp holds the state of one running program: its columnar instruction
// stream, program counter, tape, I/O, and EOF policy.
type Interp struct {
	prog *ir.Program
	pc   uint32

	tape *tape.Tape
	in   Reader
	out  Writer

	eofPolicy EOFPolicy
	eofByte   byte
}

// New constructs an interpreter for prog, ready to Step from pc 0.
func New(prog *ir.Program, t *tape.Tape, in Reader, out Writer, eofPolicy EOFPolicy, eofByte byte) *Interp {
	return &Interp{
		prog:      prog,
		tape:      t,
		in:        in,
		out:       out,
		eofPolicy: eofPolicy,
		eofByte:   eofByte,
	}
}

// PC returns the current program counter.
func (p *Interp) PC() uint32 { return p.pc }

// Run steps the interpreter until it halts, hits a breakpoint, or an I/O
// error occurs.
func (p *Interp) Run() (Status, error) {
	for {
		status, err := p.Step()
		if err != nil || status != Running {
			return status, err
		}
	}
}

// Step executes a single instruction and reports the resulting status.
// Errors from the reader or writer are returned wrapped as bferr.ErrIO
// (the original error's text kept in the message); execution aborts at the
// failing instruction and nothing is retried.
func (p *Interp) Step() (Status, error) {
	i := p.pc
	op := p.prog.Tag[i]

	switch op {
	case ir.Halt:
		return Halted, nil

	case ir.Breakpoint:
		p.pc++
		return Breakpoint, nil

	case ir.Set:
		p.tape.Set(p.prog.Offset[i], p.prog.Value[i])

	case ir.Add:
		p.tape.Add(p.prog.Offset[i], p.prog.Value[i])

	case ir.AddMul:
		src := p.tape.Get(p.prog.Offset[i] + p.prog.Extra[i])
		p.tape.Add(p.prog.Offset[i], p.prog.Value[i]*src)

	case ir.Move:
		p.tape.Move(p.prog.Extra[i])

	case ir.Seek:
		p.tape.Seek(p.prog.Offset[i], p.prog.Value[i], p.prog.Extra[i])

	case ir.In:
		if err := p.doIn(p.prog.Offset[i]); err != nil {
			return Running, err
		}

	case ir.Out:
		b := p.tape.Get(p.prog.Offset[i])
		if err := p.out.WriteByte(b); err != nil {
			return Running, fmt.Errorf("%w: %v", bferr.ErrIO, err)
		}

	case ir.OutValue:
		if err := p.out.WriteByte(p.prog.Value[i]); err != nil {
			return Running, fmt.Errorf("%w: %v", bferr.ErrIO, err)
		}

	case ir.LoopStart:
		if p.tape.Get(0) == 0 {
			p.pc = i + p.prog.Extra[i] + 1
			return Running, nil
		}

	case ir.LoopEnd:
		// Combine the back-edge test with the loop-start condition: if
		// the head cell is 0 we simply fall through, skipping the
		// redundant re-check loop_start would otherwise perform.
		if p.tape.Get(0) != 0 {
			// Extra is this arm's own two's-complement negative
			// distance back to its loop_start (adding 1 lands just
			// after it); uint32 wraparound addition does the
			// subtraction directly.
			p.pc = i + p.prog.Extra[i] + 1
			return Running, nil
		}

	default:
		return Running, fmt.Errorf("interp: unknown opcode %d at pc %d", op, i)
	}

	p.pc++
	return Running, nil
}

// doIn reads one byte via the reader, applying the EOF policy when the
// reader reports end-of-stream. Any other reader error is returned wrapped
// as bferr.ErrIO.
func (p *Interp) doIn(offset uint32) error {
	b, err := p.in.ReadByte()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: %v", bferr.ErrIO, err)
		}
		switch p.eofPolicy {
		case EOFSubstitute:
			p.tape.Set(offset, p.eofByte)
		case EOFLeaveUnchanged:
			// no-op
		}
		return nil
	}
	p.tape.Set(offset, b)
	return nil
}
