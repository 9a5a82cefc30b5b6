package optimize

import "github.com/bfkit/bf/ir"

// RecognizeLoops walks p once, rewriting each loop body that matches a
// multiplication or seek pattern into one or more flat instructions. Loops
// that don't match are copied through with their body recursively processed
// (a non-matching outer loop may still contain a matching inner one).
// bodyEnd in each helper below refers to the index of the loop's matching
// loop_end.
func RecognizeLoops(p *ir.Program) *ir.Program {
	out := ir.New(p.Len())
	i := 0
	for i < p.Len() {
		in := p.At(i)
		if in.Op != ir.LoopStart {
			out.Append(in)
			i++
			continue
		}
		bodyStart := i + 1
		bodyEnd := i + int(in.Extra)
		if !emitMultiplication(out, p, bodyStart, bodyEnd) && !emitSeek(out, p, bodyStart, bodyEnd) {
			copyLoop(out, p, i, bodyEnd)
		}
		i = bodyEnd + 1
	}
	return out
}

// copyLoop emits loop_start, the recursively-recognized body, and loop_end,
// patching both arms' Extra fields to the copy's own positions.
func copyLoop(out *ir.Program, p *ir.Program, start, end int) {
	startIdx := out.Len()
	out.Append(ir.Instruction{Op: ir.LoopStart})

	body := &ir.Program{
		Tag:    p.Tag[start+1 : end],
		Value:  p.Value[start+1 : end],
		Offset: p.Offset[start+1 : end],
		Extra:  p.Extra[start+1 : end],
	}
	inner := RecognizeLoops(body)
	for j := 0; j < inner.Len(); j++ {
		out.Append(inner.At(j))
	}

	endIdx := out.Len()
	dist := uint32(endIdx - startIdx)
	out.Append(ir.Instruction{Op: ir.LoopEnd, Extra: -dist})
	out.Extra[startIdx] = dist
}

// emitMultiplication matches a body of only `add` instructions and, when it
// fits one of the two deterministic-termination shapes, emits the
// replacement sequence directly to out. Returns false (emitting nothing)
// when the body isn't a pure-add loop or doesn't terminate deterministically.
func emitMultiplication(out *ir.Program, p *ir.Program, start, end int) bool {
	var order []uint32
	sums := make(map[uint32]uint8)
	for i := start; i < end; i++ {
		in := p.At(i)
		if in.Op != ir.Add {
			return false
		}
		if _, ok := sums[in.Offset]; !ok {
			order = append(order, in.Offset)
		}
		sums[in.Offset] += in.Value
	}

	b := sums[0]
	switch {
	case b == 1 || b == 255:
		neg := -b // two's-complement negation mod 256
		for _, o := range order {
			if o == 0 {
				continue
			}
			out.Append(ir.Instruction{
				Op:     ir.AddMul,
				Value:  neg * sums[o],
				Offset: o,
				Extra:  -o,
			})
		}
		out.Append(ir.Instruction{Op: ir.Set, Value: 0, Offset: 0})
		return true

	case b%2 == 1 && onlyOffsetZero(order):
		out.Append(ir.Instruction{Op: ir.Set, Value: 0, Offset: 0})
		return true

	default:
		return false
	}
}

func onlyOffsetZero(order []uint32) bool {
	for _, o := range order {
		if o != 0 {
			return false
		}
	}
	return true
}

// emitSeek matches a body of only `move` instructions, emitting a single
// seek instruction equivalent to repeatedly stepping by the summed
// displacement until the head cell reads 0.
func emitSeek(out *ir.Program, p *ir.Program, start, end int) bool {
	if start == end {
		return false
	}
	var step uint32
	for i := start; i < end; i++ {
		in := p.At(i)
		if in.Op != ir.Move {
			return false
		}
		step += in.Extra
	}
	out.Append(ir.Instruction{Op: ir.Seek, Value: 0, Offset: 0, Extra: step})
	return true
}
