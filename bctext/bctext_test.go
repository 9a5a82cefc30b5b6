package bctext_test

import (
	"testing"

	"github.com/bfkit/bf/bctext"
	"github.com/bfkit/bf/bfsrc"
	"github.com/bfkit/bf/ir"
)

func TestDumpParse_RoundTrip(t *testing.T) {
	prog, _, err := bfsrc.Parse([]byte("+++[->+<]>."), bfsrc.NoSplit)
	if err != nil {
		t.Fatalf("parsing brainfuck source: %v", err)
	}

	text := bctext.Dump(prog, bctext.DumpOptions{})
	back, err := bctext.Parse(text)
	if err != nil {
		t.Fatalf("parsing dumped bytecode text: %v\n%s", err, text)
	}

	if back.Len() != prog.Len() {
		t.Fatalf("round-trip changed instruction count: %d vs %d\n%s", back.Len(), prog.Len(), text)
	}
	for i := 0; i < prog.Len(); i++ {
		want, got := prog.At(i), back.At(i)
		if want.Op != got.Op || want.Value != got.Value || want.Offset != got.Offset || want.Extra != got.Extra {
			t.Errorf("instruction %d: got %+v, want %+v", i, got, want)
		}
	}
}

func TestDumpParse_ShowInternalIsCommentOnly(t *testing.T) {
	prog, _, err := bfsrc.Parse([]byte("[-]"), bfsrc.NoSplit)
	if err != nil {
		t.Fatalf("parsing brainfuck source: %v", err)
	}

	text := bctext.Dump(prog, bctext.DumpOptions{ShowInternal: true})
	back, err := bctext.Parse(text)
	if err != nil {
		t.Fatalf("parsing bytecode text with internal comments: %v\n%s", err, text)
	}
	if err := back.CheckLoops(); err != nil {
		t.Fatalf("internal comments should be ignored, not trusted: %v", err)
	}
}

func TestParse_RejectsUnknownOpcode(t *testing.T) {
	if _, err := bctext.Parse("frobnicate 1\n"); err == nil {
		t.Fatal("expected a parse error for an unknown mnemonic")
	}
}

func TestParse_RejectsStrayValue(t *testing.T) {
	if _, err := bctext.Parse("halt 5\n"); err == nil {
		t.Fatal("expected a parse error for a value on an opcode that takes none")
	}
}

func TestParse_UnbalancedLoop(t *testing.T) {
	if _, err := bctext.Parse("loop_start\n"); err == nil {
		t.Fatal("expected a parse error for an unclosed loop_start")
	}
	if _, err := bctext.Parse("loop_end\n"); err == nil {
		t.Fatal("expected a parse error for a loop_end with no matching loop_start")
	}
}

func TestDump_IndentsByLoopNesting(t *testing.T) {
	p := ir.New(4)
	p.Append(ir.Instruction{Op: ir.LoopStart, Extra: 2})
	p.Append(ir.Instruction{Op: ir.Add, Value: 1})
	p.Append(ir.Instruction{Op: ir.LoopEnd, Extra: ^uint32(1)}) // -2
	p.Append(ir.Instruction{Op: ir.Halt})

	text := bctext.Dump(p, bctext.DumpOptions{Indent: "  "})
	want := "loop_start\n  add 1 @ 0\nloop_end\nhalt\n"
	if text != want {
		t.Errorf("got:\n%q\nwant:\n%q", text, want)
	}
}
