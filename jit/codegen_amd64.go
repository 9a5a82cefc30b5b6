//go:build amd64 && (linux || darwin || freebsd)

package jit

import (
	"encoding/binary"
	"fmt"

	"github.com/bfkit/bf/bferr"
	"github.com/bfkit/bf/ir"
)

// generator turns an ir.Program into a flat buffer of x86-64 machine code
// implementing fn(memory, input, in_ctx, output, out_ctx) -> i32. Register
// discipline: rdi is the tape base, eax holds mp plus whatever offset is
// currently folded into it (the lazy-offset technique below), r10/r11 are
// scratch. The four incoming callback registers (rsi/rdx = input fn/ctx,
// rcx/r8 = output fn/ctx) are spilled to the stack once in the prologue and
// reloaded before each call, since they're caller-saved and the first call
// through any of them is free to clobber the rest.
type generator struct {
	prog *ir.Program
	code []byte

	// currentOffset is the offset already folded into eax, mirroring the
	// lazy-offset bookkeeping the condense pass's pendingMove performs at
	// the IR level.
	currentOffset uint32

	// loopFixups stacks the code offset of each open loop_start's
	// forward jz rel32 field, to be patched once the matching loop_end's
	// position is known.
	loopFixups []int

	// exitFixups collects jmp/jl rel32 fields that target the unified
	// epilogue, patched once its address is known.
	exitFixups []int
}

func compile(prog *ir.Program) (Code, error) {
	g := &generator{prog: prog, code: make([]byte, 0, 256)}
	if err := g.generate(); err != nil {
		return nil, err
	}
	return newMappedCode(g.code)
}

func (g *generator) emit(b []byte) {
	g.code = append(g.code, b...)
}

// alignTo folds the delta between the wanted offset and currentOffset into
// eax, per the lazy-offset technique: the fold is skipped when the offset
// hasn't moved.
func (g *generator) alignTo(offset uint32) {
	if offset == g.currentOffset {
		return
	}
	g.emit(addEaxImm32(offset - g.currentOffset))
	g.currentOffset = offset
}

// flushOffset resets the lazy offset to 0, required before either loop arm
// since control can reach a loop boundary from multiple predecessors.
func (g *generator) flushOffset() {
	g.alignTo(0)
}

func (g *generator) patchRel32(fieldOffset int, target int) {
	rel := int32(target - (fieldOffset + 4))
	binary.LittleEndian.PutUint32(g.code[fieldOffset:], uint32(rel))
}

func (g *generator) generate() error {
	g.emit(pushRbp())
	g.emit(movRbpRsp())
	g.emit(subRsp32())
	g.emit(spillRsi())
	g.emit(spillRdx())
	g.emit(spillRcx())
	g.emit(spillR8())
	g.emit(xorEaxEax())

	for i := 0; i < g.prog.Len(); i++ {
		in := g.prog.At(i)
		if err := g.emitOp(in); err != nil {
			return err
		}
	}

	epilogue := len(g.code)
	g.emit(movRspRbp())
	g.emit(popRbp())
	g.emit(ret())
	for _, off := range g.exitFixups {
		g.patchRel32(off, epilogue)
	}
	if len(g.loopFixups) != 0 {
		return fmt.Errorf("%w: jit: unbalanced loop in IR", bferr.ErrParse)
	}
	return nil
}

func (g *generator) emitOp(in ir.Instruction) error {
	switch in.Op {
	case ir.Halt:
		g.emit(xorEaxEax())
		g.emit(jmpRel32())
		g.exitFixups = append(g.exitFixups, len(g.code)-4)

	case ir.Set:
		g.alignTo(in.Offset)
		g.emit(movImm8Mem(in.Value))

	case ir.Add:
		g.alignTo(in.Offset)
		g.emit(addImm8Mem(in.Value))

	case ir.AddMul:
		g.alignTo(in.Offset)
		g.emit(addEaxImm32(in.Extra))
		g.emit(loadR10bMem())
		g.emit(addEaxImm32(0 - in.Extra))
		g.emit(imul16R10Imm(uint16(in.Value)))
		g.emit(addMemR10b())

	case ir.Move:
		g.emit(addEaxImm32(in.Extra - g.currentOffset))
		g.currentOffset = 0

	case ir.Seek:
		g.alignTo(in.Offset)
		g.emit(leaR10RdiRax())
		loopTop := len(g.code)
		g.emit(cmpR10MemImm8(in.Value))
		g.emit(jzRel32())
		doneFixup := len(g.code) - 4
		g.emit(addR10Imm32(in.Extra))
		g.emit(jmpRel32())
		g.patchRel32(len(g.code)-4, loopTop)
		g.patchRel32(doneFixup, len(g.code))
		g.emit(subR10Rdi())
		g.emit(movEaxR10d())
		g.currentOffset = 0

	case ir.In:
		// rdi (tape base) and rax (cursor) are both caller-saved, so the
		// callback is free to clobber either; push both before the call
		// and pop them back after, rather than reloading a compile-time
		// offset constant (which would discard the runtime head position
		// mp whenever the head has moved off cell 0).
		g.alignTo(in.Offset)
		g.emit(reloadR10InputFn())
		g.emit(pushRdi())
		g.emit(pushRax())
		g.emit(reloadRdiInCtx()) // in_ctx is the callback's sole argument
		g.emit(callR10())
		g.emit(testEaxEax())
		g.emit(jlRel32())
		g.exitFixups = append(g.exitFixups, len(g.code)-4)
		g.emit(movR10bAl()) // stash the returned byte before rax is restored
		g.emit(popRax())
		g.emit(popRdi())
		g.emit(movMemR10b())

	case ir.Out:
		g.alignTo(in.Offset)
		g.emit(loadR10bMem()) // the byte to write, read before rdi/rax move
		g.emit(reloadRcxOutputFn())
		g.emit(pushRdi())
		g.emit(pushRax())
		g.emit(reloadRdiOutCtx()) // out_ctx is the callback's first argument
		g.emit(xorEsiEsi())
		g.emit(movSilR10b()) // the byte is its second argument, zero-extended
		g.emit(callRcx())
		g.emit(testEaxEax())
		g.emit(jlRel32())
		g.exitFixups = append(g.exitFixups, len(g.code)-4)
		g.emit(popRax())
		g.emit(popRdi())

	case ir.OutValue:
		g.emit(movR10bImm8(in.Value))
		g.emit(reloadRcxOutputFn())
		g.emit(pushRdi())
		g.emit(pushRax())
		g.emit(reloadRdiOutCtx())
		g.emit(xorEsiEsi())
		g.emit(movSilR10b())
		g.emit(callRcx())
		g.emit(testEaxEax())
		g.emit(jlRel32())
		g.exitFixups = append(g.exitFixups, len(g.code)-4)
		g.emit(popRax())
		g.emit(popRdi())

	case ir.LoopStart:
		g.flushOffset()
		g.emit(cmpMemImm8(0))
		g.emit(jzRel32())
		g.loopFixups = append(g.loopFixups, len(g.code)-4)

	case ir.LoopEnd:
		g.flushOffset()
		if len(g.loopFixups) == 0 {
			return fmt.Errorf("%w: jit: loop_end without matching loop_start", bferr.ErrParse)
		}
		startFixup := g.loopFixups[len(g.loopFixups)-1]
		g.loopFixups = g.loopFixups[:len(g.loopFixups)-1]
		backTarget := startFixup + 4 // just after loop_start's jz field
		g.emit(cmpMemImm8(0))
		g.emit(jnzRel32())
		g.patchRel32(len(g.code)-4, backTarget)
		g.patchRel32(startFixup, len(g.code))

	default:
		return fmt.Errorf("jit: unsupported opcode %s", in.Op)
	}
	return nil
}
