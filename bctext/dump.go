// Package bctext implements the bytecode-text peer IR format: a one-
// instruction-per-line textual rendering of an ir.Program, and a reader
// that parses it back. The format exists for diagnostics and round-trip
// testing; it is a peer of the Brainfuck source format, not a replacement
// for it.
package bctext

import (
	"fmt"
	"strings"

	"github.com/bfkit/bf/ir"
)

// DumpOptions configures the writer.
type DumpOptions struct {
	// Indent is repeated once per loop-nesting level. Defaults to "  "
	// (actually two spaces applied per call to Dump with a zero value).
	Indent string
	// ShowInternal includes loop_start/loop_end link distances as
	// trailing comments, for diagnostic round-tripping. Parse always
	// ignores them and recomputes links from bracket nesting.
	ShowInternal bool
}

// Dump renders a program as bytecode text.
func Dump(p *ir.Program, opts DumpOptions) string {
	indent := opts.Indent
	if indent == "" {
		indent = "  "
	}

	var b strings.Builder
	depth := 0
	for i := 0; i < p.Len(); i++ {
		in := p.At(i)
		if in.Op == ir.LoopEnd && depth > 0 {
			depth--
		}
		b.WriteString(strings.Repeat(indent, depth))
		writeLine(&b, in, opts.ShowInternal)
		b.WriteByte('\n')
		if in.Op == ir.LoopStart {
			depth++
		}
	}
	return b.String()
}

func writeLine(b *strings.Builder, in ir.Instruction, showInternal bool) {
	spec := fields(in.Op)
	b.WriteString(in.Op.String())

	if spec.value {
		fmt.Fprintf(b, " %d", in.Value)
	}
	if spec.extra {
		fmt.Fprintf(b, " , %d", int32(in.Extra))
	}
	if spec.offset {
		fmt.Fprintf(b, " @ %d", int32(in.Offset))
	}

	if showInternal && (in.Op == ir.LoopStart || in.Op == ir.LoopEnd) {
		fmt.Fprintf(b, "  # extra=%d", int32(in.Extra))
	}
}
