package ir_test

import (
	"testing"

	"github.com/bfkit/bf/ir"
)

func buildLoop(t *testing.T) *ir.Program {
	t.Helper()
	p := ir.New(4)
	p.Append(ir.Instruction{Op: ir.Add, Value: 1})
	p.Append(ir.Instruction{Op: ir.LoopStart}) // patched below
	p.Append(ir.Instruction{Op: ir.Add, Value: 255})
	p.Append(ir.Instruction{Op: ir.LoopEnd})
	p.Offset[1] = 0
	p.Extra[1] = 2 // loop_start -> loop_end is 2 instructions away
	p.Extra[3] = ^uint32(1)
	return p
}

func TestCheckLoops_WellFormed(t *testing.T) {
	p := buildLoop(t)
	if err := p.CheckLoops(); err != nil {
		t.Fatalf("expected well-formed loop, got: %v", err)
	}
}

func TestCheckLoops_BadDistance(t *testing.T) {
	p := buildLoop(t)
	p.Extra[1] = 99
	if err := p.CheckLoops(); err == nil {
		t.Fatal("expected an error for a mismatched loop_start distance")
	}
}

func TestCheckLoops_NotTwosComplement(t *testing.T) {
	p := buildLoop(t)
	p.Extra[3] = 2 // should be -2, not 2
	if err := p.CheckLoops(); err == nil {
		t.Fatal("expected an error for arms that aren't two's-complement negations")
	}
}

func TestCheckLoops_Unbalanced(t *testing.T) {
	p := ir.New(1)
	p.Append(ir.Instruction{Op: ir.LoopStart, Extra: 0})
	if err := p.CheckLoops(); err == nil {
		t.Fatal("expected an error for an unclosed loop_start")
	}

	p2 := ir.New(1)
	p2.Append(ir.Instruction{Op: ir.LoopEnd})
	if err := p2.CheckLoops(); err == nil {
		t.Fatal("expected an error for a loop_end with no matching loop_start")
	}
}

func TestContentHash_StableAndSensitive(t *testing.T) {
	a := ir.New(2)
	a.Append(ir.Instruction{Op: ir.Add, Value: 5, Offset: 1})
	a.Append(ir.Instruction{Op: ir.Halt})

	b := a.Clone()
	if ir.ContentHash(a) != ir.ContentHash(b) {
		t.Fatal("identical programs should hash equal")
	}

	b.Value[0] = 6
	if ir.ContentHash(a) == ir.ContentHash(b) {
		t.Fatal("changing a single field should change the hash")
	}
}

func TestOpByName_RoundTrip(t *testing.T) {
	for _, op := range []ir.Op{ir.Halt, ir.Breakpoint, ir.Set, ir.Add, ir.AddMul, ir.Move, ir.Seek, ir.In, ir.Out, ir.OutValue, ir.LoopStart, ir.LoopEnd} {
		got, ok := ir.OpByName(op.String())
		if !ok || got != op {
			t.Errorf("OpByName(%q) = %v, %v; want %v, true", op.String(), got, ok, op)
		}
	}
	if _, ok := ir.OpByName("nonsense"); ok {
		t.Error("OpByName should reject an unknown mnemonic")
	}
}
