// Package optimize implements the two-pass optimization cascade (condense,
// then loop recognition) and the fixed-point driver that iterates them.
package optimize

import "github.com/bfkit/bf/ir"

// condenser holds the mutable data-flow state the condense pass threads
// through a single walk of the program.
type condenser struct {
	out         *ir.Program
	pendingMove uint32
	ops         *orderedOps

	// trackingStart is a nullable "start_clobbers" flag: while
	// true, an offset absent from both ops and clobbered is known to
	// still hold its initial value of 0. It latches permanently false
	// the first time any flush reaches the output stream, since a flush
	// is exactly the event that makes the pre-flush symbolic state
	// observable (and therefore potentially non-local).
	trackingStart bool
	clobbered     map[uint32]bool

	loopStack []int // indices in out of open loop_start instructions
}

// Condense runs the condense pass once over p and returns a fresh program.
func Condense(p *ir.Program) *ir.Program {
	c := &condenser{
		out:           ir.New(p.Len()),
		ops:           newOrderedOps(),
		trackingStart: true,
		clobbered:     make(map[uint32]bool),
	}
	for i := 0; i < p.Len(); i++ {
		in := p.At(i)
		if in.Op == ir.LoopStart {
			if headKnown, ok := c.knownValueAt(c.pendingMove); ok && headKnown == 0 {
				// The loop can never run: drop it wholesale. p's own
				// extra already gives the forward distance to the
				// matching loop_end, since p is a well-formed input IR.
				i += int(in.Extra)
				continue
			}
		}
		c.step(in)
	}
	return c.out
}

// knownValueAt reports the statically-known value of tape[mp+eff], if any.
func (c *condenser) knownValueAt(eff uint32) (uint8, bool) {
	if s, ok := c.ops.get(eff); ok {
		switch s.kind {
		case opKnown, opSet:
			return s.value, true
		default: // opAdd: depends on an unknown prior value
			return 0, false
		}
	}
	if c.trackingStart && !c.clobbered[eff] {
		return 0, true
	}
	return 0, false
}

// emitFlushed emits the concrete instruction a flushed op entry produces,
// and latches tracking off.
func (c *condenser) emitFlushed(off uint32, s opState) {
	switch s.kind {
	case opSet:
		c.out.Append(ir.Instruction{Op: ir.Set, Value: s.value, Offset: off})
	case opAdd:
		if s.value != 0 {
			c.out.Append(ir.Instruction{Op: ir.Add, Value: s.value, Offset: off})
		}
	case opKnown:
		// emits nothing
	}
	c.trackingStart = false
}

// flushOps flushes every pending op, in canonical order.
func (c *condenser) flushOps() {
	c.ops.flushAll(c.emitFlushed)
}

// flushMove materializes the pending displacement as a move instruction.
func (c *condenser) flushMove() {
	if c.pendingMove != 0 {
		c.out.Append(ir.Instruction{Op: ir.Move, Extra: c.pendingMove})
		c.pendingMove = 0
		c.trackingStart = false
	}
}

// flushAllState flushes pending ops and then the pending move, the
// sequence breakpoints and loop edges require (seek instead flushes only
// the ops and folds the pending move into its own offset). Reaching a
// boundary is itself a non-local event, so tracking latches off even when
// there was nothing queued to flush.
func (c *condenser) flushAllState() {
	c.flushOps()
	c.flushMove()
	c.trackingStart = false
}

func (c *condenser) step(in ir.Instruction) {
	switch in.Op {
	case ir.Halt:
		c.out.Append(ir.Instruction{Op: ir.Halt})

	case ir.Breakpoint:
		c.flushAllState()
		c.out.Append(ir.Instruction{Op: ir.Breakpoint})

	case ir.Set:
		eff := c.pendingMove + in.Offset
		if v, ok := c.knownValueAt(eff); ok && v == in.Value {
			return
		}
		c.ops.set(eff, opState{kind: opSet, value: in.Value})

	case ir.Add:
		c.applyAdd(c.pendingMove+in.Offset, in.Value)

	case ir.AddMul:
		eff := c.pendingMove + in.Offset
		src := eff + in.Extra
		if k, ok := c.knownValueAt(src); ok {
			c.applyAdd(eff, in.Value*k)
			return
		}
		c.ops.flushOne(eff, c.emitFlushed)
		c.ops.flushOne(src, c.emitFlushed)
		c.trackingStart = false
		c.out.Append(ir.Instruction{Op: ir.AddMul, Value: in.Value, Offset: eff, Extra: in.Extra})

	case ir.Move:
		c.pendingMove += in.Extra

	case ir.Seek:
		eff := c.pendingMove + in.Offset
		if v, ok := c.knownValueAt(eff); ok && v == in.Value {
			c.pendingMove = 0
			return
		}
		c.flushOps()
		c.out.Append(ir.Instruction{Op: ir.Seek, Value: in.Value, Offset: eff, Extra: in.Extra})
		c.pendingMove = 0
		c.trackingStart = false

	case ir.In:
		eff := c.pendingMove + in.Offset
		c.ops.drop(eff)
		if c.trackingStart {
			c.clobbered[eff] = true
		}
		c.out.Append(ir.Instruction{Op: ir.In, Offset: eff})

	case ir.Out:
		eff := c.pendingMove + in.Offset
		if k, ok := c.knownValueAt(eff); ok {
			c.out.Append(ir.Instruction{Op: ir.OutValue, Value: k})
			return
		}
		var prior opState
		had := false
		c.ops.flushOne(eff, func(off uint32, s opState) {
			prior = s
			had = true
			c.emitFlushed(off, s)
		})
		c.trackingStart = false
		if had && (prior.kind == opSet || prior.kind == opKnown) {
			c.ops.set(eff, opState{kind: opKnown, value: prior.value})
		}
		c.out.Append(ir.Instruction{Op: ir.Out, Offset: eff})

	case ir.OutValue:
		c.out.Append(in)

	case ir.LoopStart:
		// The drop-dead-loop case is handled by Condense's driving loop,
		// which never calls step for a loop_start it has decided to skip.
		c.flushAllState()
		c.loopStack = append(c.loopStack, c.out.Len())
		c.out.Append(ir.Instruction{Op: ir.LoopStart})

	case ir.LoopEnd:
		c.flushAllState()
		start := c.loopStack[len(c.loopStack)-1]
		c.loopStack = c.loopStack[:len(c.loopStack)-1]
		end := c.out.Len()
		dist := uint32(end - start)
		c.out.Append(ir.Instruction{Op: ir.LoopEnd, Extra: -dist})
		c.out.Extra[start] = dist
		// Loops exit only when the head cell is 0.
		c.ops.set(0, opState{kind: opKnown, value: 0})
	}
}

// applyAdd implements the shared add-folding rule used by both `add` and
// the known-multiplier case of `add_mul`.
func (c *condenser) applyAdd(eff uint32, v uint8) {
	if s, ok := c.ops.get(eff); ok {
		switch s.kind {
		case opSet:
			c.ops.set(eff, opState{kind: opSet, value: s.value + v})
		case opAdd:
			c.ops.set(eff, opState{kind: opAdd, value: s.value + v})
		case opKnown:
			c.ops.set(eff, opState{kind: opSet, value: s.value + v})
		}
		return
	}
	if c.trackingStart && !c.clobbered[eff] {
		c.ops.set(eff, opState{kind: opSet, value: v})
		return
	}
	c.ops.set(eff, opState{kind: opAdd, value: v})
}
