//go:build amd64 && (linux || darwin || freebsd)

package jit

import (
	"bytes"
	"testing"
)

// These check the hand-encoded byte sequences against their textbook x86-64
// encodings. Nothing here executes the emitted machine code; it only
// verifies the encoder produces the bytes an assembler would.

func TestAddEaxImm32(t *testing.T) {
	got := addEaxImm32(0x11223344)
	want := []byte{0x05, 0x44, 0x33, 0x22, 0x11}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}

func TestMovImm8Mem(t *testing.T) {
	got := movImm8Mem(0x42)
	want := []byte{0xC6, 0x04, 0x07, 0x42}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}

func TestAddImm8Mem(t *testing.T) {
	got := addImm8Mem(0x07)
	want := []byte{0x80, 0x04, 0x07, 0x07}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}

func TestLoadR10bMem(t *testing.T) {
	got := loadR10bMem()
	want := []byte{0x44, 0x0F, 0xB6, 0x14, 0x07}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}

func TestAddMemR10b(t *testing.T) {
	got := addMemR10b()
	want := []byte{0x44, 0x00, 0x14, 0x07}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}

func TestCmpMemImm8(t *testing.T) {
	got := cmpMemImm8(0x00)
	want := []byte{0x80, 0x3C, 0x07, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}

func TestJzJnzJmpRel32PlaceholdersAreZero(t *testing.T) {
	for name, enc := range map[string][]byte{
		"jz":  jzRel32(),
		"jnz": jnzRel32(),
		"jmp": jmpRel32(),
	} {
		for i, b := range enc[len(enc)-4:] {
			if b != 0 {
				t.Errorf("%s: placeholder byte %d = %#x, want 0", name, i, b)
			}
		}
	}
	if len(jzRel32()) != 6 || jzRel32()[0] != 0x0F || jzRel32()[1] != 0x84 {
		t.Errorf("jz opcode bytes wrong: % x", jzRel32())
	}
	if len(jnzRel32()) != 6 || jnzRel32()[1] != 0x85 {
		t.Errorf("jnz opcode bytes wrong: % x", jnzRel32())
	}
	if len(jmpRel32()) != 5 || jmpRel32()[0] != 0xE9 {
		t.Errorf("jmp opcode bytes wrong: % x", jmpRel32())
	}
}

func TestPrologueEpilogueFixedBytes(t *testing.T) {
	cases := []struct {
		name string
		got  []byte
		want []byte
	}{
		{"push rbp", pushRbp(), []byte{0x55}},
		{"mov rbp,rsp", movRbpRsp(), []byte{0x48, 0x89, 0xE5}},
		{"mov rsp,rbp", movRspRbp(), []byte{0x48, 0x89, 0xEC}},
		{"pop rbp", popRbp(), []byte{0x5D}},
		{"ret", ret(), []byte{0xC3}},
		{"xor eax,eax", xorEaxEax(), []byte{0x31, 0xC0}},
	}
	for _, c := range cases {
		if !bytes.Equal(c.got, c.want) {
			t.Errorf("%s: got % x, want % x", c.name, c.got, c.want)
		}
	}
}

func TestPushPopRaxRdi(t *testing.T) {
	cases := []struct {
		name string
		got  []byte
		want []byte
	}{
		{"push rax", pushRax(), []byte{0x50}},
		{"pop rax", popRax(), []byte{0x58}},
		{"push rdi", pushRdi(), []byte{0x57}},
		{"pop rdi", popRdi(), []byte{0x5F}},
	}
	for _, c := range cases {
		if !bytes.Equal(c.got, c.want) {
			t.Errorf("%s: got % x, want % x", c.name, c.got, c.want)
		}
	}
}

func TestCallbackSpillAndReloadEncodings(t *testing.T) {
	cases := []struct {
		name string
		got  []byte
		want []byte
	}{
		{"sub rsp,32", subRsp32(), []byte{0x48, 0x83, 0xEC, 0x20}},
		{"spill rsi", spillRsi(), []byte{0x48, 0x89, 0x75, 0xF8}},
		{"spill rdx", spillRdx(), []byte{0x48, 0x89, 0x55, 0xF0}},
		{"spill rcx", spillRcx(), []byte{0x48, 0x89, 0x4D, 0xE8}},
		{"spill r8", spillR8(), []byte{0x4C, 0x89, 0x45, 0xE0}},
		{"reload r10 input fn", reloadR10InputFn(), []byte{0x4C, 0x8B, 0x55, 0xF8}},
		{"reload rdi in_ctx", reloadRdiInCtx(), []byte{0x48, 0x8B, 0x7D, 0xF0}},
		{"reload rcx output fn", reloadRcxOutputFn(), []byte{0x48, 0x8B, 0x4D, 0xE8}},
		{"reload rdi out_ctx", reloadRdiOutCtx(), []byte{0x48, 0x8B, 0x7D, 0xE0}},
		{"call r10", callR10(), []byte{0x41, 0xFF, 0xD2}},
		{"call rcx", callRcx(), []byte{0xFF, 0xD1}},
		{"mov r10b,al", movR10bAl(), []byte{0x44, 0x8A, 0xD0}},
		{"mov [rdi+rax],r10b", movMemR10b(), []byte{0x44, 0x88, 0x14, 0x07}},
		{"mov sil,r10b", movSilR10b(), []byte{0x44, 0x88, 0xD6}},
		{"xor esi,esi", xorEsiEsi(), []byte{0x31, 0xF6}},
	}
	for _, c := range cases {
		if !bytes.Equal(c.got, c.want) {
			t.Errorf("%s: got % x, want % x", c.name, c.got, c.want)
		}
	}
}

func TestMovR10bImm8(t *testing.T) {
	got := movR10bImm8(0x42)
	want := []byte{0x41, 0xB2, 0x42}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}

func TestImul16R10ImmIsSixBytesWithOperandSizeOverride(t *testing.T) {
	got := imul16R10Imm(0x1234)
	if len(got) != 6 {
		t.Fatalf("imul16R10Imm length = %d, want 6", len(got))
	}
	if got[0] != 0x66 {
		t.Errorf("missing 16-bit operand-size override prefix, got % x", got)
	}
	want := []byte{0x66, 0x45, 0x69, 0xD2, 0x34, 0x12}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}
