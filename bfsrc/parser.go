// Package bfsrc lowers Brainfuck source text into the ir bytecode, applying
// the run-length fusion of +/- and </> unconditionally, independent of
// whatever the optimizer does afterward.
package bfsrc

import (
	"fmt"

	"github.com/bfkit/bf/bferr"
	"github.com/bfkit/bf/ir"
)

// SplitPolicy controls whether '!' splits the source into program text and
// a static input stream.
type SplitPolicy int

const (
	// NoSplit treats '!' as insignificant commentary.
	NoSplit SplitPolicy = iota
	// SplitOnBang splits at the first '!': everything before is program
	// text, everything after is a static input stream the host may feed
	// to the interpreter's reader.
	SplitOnBang
)

// pendingKind tracks the parser's single pending fusible operation.
type pendingKind int

const (
	pendingNone pendingKind = iota
	pendingAdd
	pendingMove
)

// Parse lowers Brainfuck source into a well-formed IR ending in halt.
// With policy == SplitOnBang, the first '!' splits src into (code, input);
// the returned input is the static input stream the host requested.
func Parse(src []byte, policy SplitPolicy) (prog *ir.Program, input []byte, err error) {
	code := src
	if policy == SplitOnBang {
		for i, b := range src {
			if b == '!' {
				code = src[:i]
				input = src[i+1:]
				break
			}
		}
	}

	p := ir.New(len(code) + 1)
	var loopStack []int
	kind := pendingNone
	var pendingAddVal uint8
	var pendingMoveVal uint32

	flush := func() {
		switch kind {
		case pendingAdd:
			if pendingAddVal != 0 {
				p.Append(ir.Instruction{Op: ir.Add, Value: pendingAddVal})
			}
		case pendingMove:
			if pendingMoveVal != 0 {
				p.Append(ir.Instruction{Op: ir.Move, Extra: pendingMoveVal})
			}
		}
		kind = pendingNone
		pendingAddVal = 0
		pendingMoveVal = 0
	}

	for _, b := range code {
		switch b {
		case '+', '-':
			if kind != pendingAdd {
				flush()
				kind = pendingAdd
			}
			if b == '+' {
				pendingAddVal++
			} else {
				pendingAddVal--
			}
		case '<', '>':
			if kind != pendingMove {
				flush()
				kind = pendingMove
			}
			if b == '>' {
				pendingMoveVal++
			} else {
				pendingMoveVal--
			}
		case ',':
			flush()
			p.Append(ir.Instruction{Op: ir.In})
		case '.':
			flush()
			p.Append(ir.Instruction{Op: ir.Out})
		case '#':
			flush()
			p.Append(ir.Instruction{Op: ir.Breakpoint})
		case '[':
			flush()
			loopStack = append(loopStack, p.Len())
			p.Append(ir.Instruction{Op: ir.LoopStart})
		case ']':
			flush()
			if len(loopStack) == 0 {
				return nil, nil, fmt.Errorf("%w: unmatched ']' in brainfuck source", bferr.ErrParse)
			}
			start := loopStack[len(loopStack)-1]
			loopStack = loopStack[:len(loopStack)-1]
			end := p.Len()
			dist := uint32(end - start)
			p.Append(ir.Instruction{Op: ir.LoopEnd, Extra: -dist})
			p.Extra[start] = dist
		default:
			// commentary; ignored
		}
	}

	flush()
	if len(loopStack) != 0 {
		return nil, nil, fmt.Errorf("%w: unmatched '[' in brainfuck source", bferr.ErrParse)
	}
	p.Append(ir.Instruction{Op: ir.Halt})
	return p, input, nil
}
