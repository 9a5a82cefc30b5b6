package bctext

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bfkit/bf/bferr"
	"github.com/bfkit/bf/ir"
)

// Parse reads bytecode text back into a Program. Loop link distances are
// never read from the text (see fields.go); they are recomputed from a
// bracket-linking stack over the loop_start/loop_end opcodes in the order
// they appear, exactly as bfsrc.Parse links '[' and ']'.
func Parse(text string) (*ir.Program, error) {
	lines := strings.Split(text, "\n")
	p := ir.New(len(lines))
	var loopStack []int

	for lineNo, raw := range lines {
		line := raw
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		in, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", bferr.ErrParse, lineNo+1, err)
		}

		switch in.Op {
		case ir.LoopStart:
			loopStack = append(loopStack, p.Len())
		case ir.LoopEnd:
			if len(loopStack) == 0 {
				return nil, fmt.Errorf("%w: line %d: loop_end without matching loop_start", bferr.ErrParse, lineNo+1)
			}
			start := loopStack[len(loopStack)-1]
			loopStack = loopStack[:len(loopStack)-1]
			dist := uint32(p.Len() - start)
			in.Extra = -dist
			p.Append(in)
			p.Extra[start] = dist
			continue
		}
		p.Append(in)
	}

	if len(loopStack) != 0 {
		return nil, fmt.Errorf("%w: unclosed loop_start", bferr.ErrParse)
	}
	return p, nil
}

// parseLine parses a single non-blank, comment-stripped, trimmed line of
// the form "<name> [value] [, extra] [@ offset]".
func parseLine(line string) (ir.Instruction, error) {
	mainPart, offsetPart, hasOffset := cutByte(line, '@')

	namePart, extraPart, hasExtra := cutByte(mainPart, ',')
	namePart = strings.TrimSpace(namePart)

	fieldsTok := strings.Fields(namePart)
	if len(fieldsTok) == 0 {
		return ir.Instruction{}, fmt.Errorf("missing instruction name")
	}
	name := fieldsTok[0]
	op, ok := ir.OpByName(name)
	if !ok {
		return ir.Instruction{}, fmt.Errorf("unknown opcode %q", name)
	}

	spec := fields(op)
	in := ir.Instruction{Op: op}
	if len(fieldsTok) > 1 {
		if !spec.value {
			return ir.Instruction{}, fmt.Errorf("%s takes no value", name)
		}
		v, err := parseInt(fieldsTok[1])
		if err != nil {
			return ir.Instruction{}, fmt.Errorf("bad value: %w", err)
		}
		in.Value = uint8(v)
	}
	if len(fieldsTok) > 2 {
		return ir.Instruction{}, fmt.Errorf("unexpected token %q", fieldsTok[2])
	}

	if hasExtra {
		if !spec.extra {
			return ir.Instruction{}, fmt.Errorf("%s takes no extra", name)
		}
		extraPart = strings.TrimSpace(extraPart)
		if extraPart == "" {
			return ir.Instruction{}, fmt.Errorf("missing extra after ','")
		}
		v, err := parseInt(extraPart)
		if err != nil {
			return ir.Instruction{}, fmt.Errorf("bad extra: %w", err)
		}
		in.Extra = uint32(v)
	}

	if hasOffset {
		if !spec.offset {
			return ir.Instruction{}, fmt.Errorf("%s takes no offset", name)
		}
		offsetPart = strings.TrimSpace(offsetPart)
		if offsetPart == "" {
			return ir.Instruction{}, fmt.Errorf("missing offset after '@'")
		}
		v, err := parseInt(offsetPart)
		if err != nil {
			return ir.Instruction{}, fmt.Errorf("bad offset: %w", err)
		}
		in.Offset = uint32(v)
	}

	return in, nil
}

// cutByte splits s at the first occurrence of sep, like strings.Cut.
func cutByte(s string, sep byte) (before, after string, found bool) {
	if i := strings.IndexByte(s, sep); i >= 0 {
		return s[:i], s[i+1:], true
	}
	return s, "", false
}

func parseInt(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed integer %q", s)
	}
	return v, nil
}
