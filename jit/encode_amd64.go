//go:build amd64 && (linux || darwin || freebsd)

package jit

import "encoding/binary"

// Raw x86-64 instruction encoders. Each returns the exact byte sequence for
// one instruction, addressed the way the generator's register discipline
// requires: the tape base lives in rdi, the cursor (mp + lazy_offset) in
// eax (zero-extended to rax on every write), scratch in r10/r11.
//
// Addressing [rdi+rax] needs a SIB byte because the operand has both a base
// and an index register, which ModRM alone cannot express — so every memory
// operand here is ModRM.rm=100 (0x04) plus a SIB byte of (scale=00,
// index=rax=000, base=rdi=111) = 0x07.

const sibRdiRax = 0x07

func modrmSIB(regField byte) byte {
	return 0x04 | (regField << 3)
}

// addEaxImm32 encodes: add eax, imm32
func addEaxImm32(delta uint32) []byte {
	b := make([]byte, 5)
	b[0] = 0x05
	binary.LittleEndian.PutUint32(b[1:], delta)
	return b
}

// movImm8Mem encodes: mov byte [rdi+rax], imm8
func movImm8Mem(v uint8) []byte {
	return []byte{0xC6, modrmSIB(0), sibRdiRax, v}
}

// addImm8Mem encodes: add byte [rdi+rax], imm8
func addImm8Mem(v uint8) []byte {
	return []byte{0x80, modrmSIB(0), sibRdiRax, v}
}

// loadR10bMem encodes: movzx r10d, byte [rdi+rax] (zero-extending load, so
// r10's upper bits are always clean for the later imul).
func loadR10bMem() []byte {
	// REX.R (0x44) selects r10 as the destination reg field; 0F B6 /r is
	// MOVZX r32, r/m8.
	return []byte{0x44, 0x0F, 0xB6, modrmSIB(2), sibRdiRax}
}

// imul16R10Imm encodes: imul r10w, r10w, imm16 (signed 16-bit multiply,
// enough since both operands are single bytes zero/sign-extended).
func imul16R10Imm(imm uint16) []byte {
	b := make([]byte, 7)
	b[0] = 0x66 // operand-size override: 16-bit
	b[1] = 0x45 // REX.R|REX.B selecting r10 in both reg and rm fields
	b[2] = 0x69
	b[3] = 0xC0 | (2 << 3) | 2 // ModRM: mod=11, reg=r10, rm=r10
	binary.LittleEndian.PutUint16(b[4:6], imm)
	b[6] = 0 // imul r/m16,imm16 encodes a full word immediate; pad unused byte
	return b[:6]
}

// addMemR10b encodes: add byte [rdi+rax], r10b
func addMemR10b() []byte {
	return []byte{0x44, 0x00, modrmSIB(2), sibRdiRax}
}

// cmpMemImm8 encodes: cmp byte [rdi+rax], imm8
func cmpMemImm8(v uint8) []byte {
	return []byte{0x80, modrmSIB(7), sibRdiRax, v}
}

// jzRel32 / jnzRel32 encode a near conditional jump with a placeholder
// rel32, to be patched once the target address is known.
func jzRel32() []byte  { return []byte{0x0F, 0x84, 0, 0, 0, 0} }
func jnzRel32() []byte { return []byte{0x0F, 0x85, 0, 0, 0, 0} }
func jmpRel32() []byte { return []byte{0xE9, 0, 0, 0, 0} }

// leaR10RdiRax encodes: lea r10, [rdi+rax] (materializing an absolute
// pointer for the seek loop's compare/advance scan).
func leaR10RdiRax() []byte {
	return []byte{0x4C, 0x8D, modrmSIB(2), sibRdiRax}
}

// cmpR10MemImm8 encodes: cmp byte [r10], imm8
func cmpR10MemImm8(v uint8) []byte {
	// ModRM: mod=00, reg=/7, rm=010(r10, no SIB needed: r10 isn't rsp/rbp)
	// but r10 is an extended register, so REX.B is required.
	return []byte{0x41, 0x80, 0x3A, v}
}

// addR10Imm32 encodes: add r10, imm32 (sign-extended to 64 bits).
func addR10Imm32(delta uint32) []byte {
	b := make([]byte, 7)
	b[0] = 0x49 // REX.W|REX.B
	b[1] = 0x81
	b[2] = 0xC2 // ModRM: mod=11, reg=/0, rm=r10(010)
	binary.LittleEndian.PutUint32(b[3:], delta)
	return b
}

// subR10Rdi encodes: sub r10, rdi, leaving the new cursor in r10.
func subR10Rdi() []byte {
	return []byte{0x4C, 0x2B, 0xD7} // REX.W|REX.R; 2B /r; ModRM mod=11 reg=r10 rm=rdi
}

// movEaxR10d encodes: mov eax, r10d
func movEaxR10d() []byte {
	return []byte{0x44, 0x89, 0xD0} // REX.R; ModRM mod=11 reg=r10 rm=rax
}

// pushRbp, movRbpRsp, movRspRbp, popRbp, ret, xorEaxEax are the
// prologue/epilogue's remaining fixed instructions. movRbpRsp establishes
// the frame pointer; movRspRbp (its mirror, not just a repeat of it) tears
// the frame back down by resetting rsp, discarding the prologue's spill
// slots and any push/pop imbalance left by an error exit mid-instruction.
func pushRbp() []byte   { return []byte{0x55} }
func movRbpRsp() []byte { return []byte{0x48, 0x89, 0xE5} }
func movRspRbp() []byte { return []byte{0x48, 0x89, 0xEC} }
func popRbp() []byte    { return []byte{0x5D} }
func ret() []byte       { return []byte{0xC3} }
func xorEaxEax() []byte { return []byte{0x31, 0xC0} }

// testEaxEax / jlRel32 detect and branch on a negative callback return (the
// I/O error ABI: a negative eax means a fatal host error to propagate).
func testEaxEax() []byte { return []byte{0x85, 0xC0} }
func jlRel32() []byte    { return []byte{0x0F, 0x8C, 0, 0, 0, 0} }

// pushRax / popRax / pushRdi / popRdi save and restore the cursor and tape
// base around a callback call: both rax and rdi are caller-saved under the
// System V ABI, so an arbitrary callee is free to clobber them.
func pushRax() []byte { return []byte{0x50} }
func popRax() []byte  { return []byte{0x58} }
func pushRdi() []byte { return []byte{0x57} }
func popRdi() []byte  { return []byte{0x5F} }

// The compiled function receives five incoming arguments (memory, input,
// in_ctx, output, out_ctx) in rdi/rsi/rdx/rcx/r8. Only memory (rdi) is
// needed continuously; the four callback/context values are spilled to a
// prologue-reserved stack frame once, since the first call clobbers
// whichever of rsi/rdx/rcx/r8 it doesn't happen to preserve, and reloaded
// from there immediately before every later in/out/out_value.
//
// Frame layout relative to rbp: -8 input fn, -16 in_ctx, -24 output fn,
// -32 out_ctx.

// subRsp32 encodes: sub rsp, 32 (opens the four spill slots).
func subRsp32() []byte { return []byte{0x48, 0x83, 0xEC, 0x20} }

// spillRsi/spillRdx/spillRcx/spillR8 store the four incoming callback
// registers into their stack slots during the prologue.
func spillRsi() []byte { return []byte{0x48, 0x89, 0x75, 0xF8} } // mov [rbp-8], rsi
func spillRdx() []byte { return []byte{0x48, 0x89, 0x55, 0xF0} } // mov [rbp-16], rdx
func spillRcx() []byte { return []byte{0x48, 0x89, 0x4D, 0xE8} } // mov [rbp-24], rcx
func spillR8() []byte  { return []byte{0x4C, 0x89, 0x45, 0xE0} } // mov [rbp-32], r8

// reloadR10InputFn / reloadRdiInCtx fetch the input callback's fn pointer
// and context back out of the prologue's spill slots, placing them where
// `in`'s call sequence needs them: r10 as the call target (so rdi is free
// for the callback's own first argument), rdi as that first argument.
func reloadR10InputFn() []byte { return []byte{0x4C, 0x8B, 0x55, 0xF8} } // mov r10, [rbp-8]
func reloadRdiInCtx() []byte   { return []byte{0x48, 0x8B, 0x7D, 0xF0} } // mov rdi, [rbp-16]

// reloadRcxOutputFn / reloadRdiOutCtx do the same for `out`/`out_value`.
func reloadRcxOutputFn() []byte { return []byte{0x48, 0x8B, 0x4D, 0xE8} } // mov rcx, [rbp-24]
func reloadRdiOutCtx() []byte   { return []byte{0x48, 0x8B, 0x7D, 0xE0} } // mov rdi, [rbp-32]

// callR10 / callRcx invoke a reloaded callback pointer.
func callR10() []byte { return []byte{0x41, 0xFF, 0xD2} }
func callRcx() []byte { return []byte{0xFF, 0xD1} }

// movR10bAl encodes: mov r10b, al (stashes the input callback's returned
// byte before the cursor/tape-base restore below overwrites rax).
func movR10bAl() []byte { return []byte{0x44, 0x8A, 0xD0} }

// movMemR10b encodes: mov byte [rdi+rax], r10b (stores the byte `in` read,
// once rdi/rax have been restored to the real tape base and cursor).
func movMemR10b() []byte { return []byte{0x44, 0x88, modrmSIB(2), sibRdiRax} }

// movR10bImm8 encodes: mov r10b, imm8 (the out_value literal byte).
func movR10bImm8(v uint8) []byte { return []byte{0x41, 0xB2, v} }

// movSilR10b encodes: mov sil, r10b (places the byte to write into the
// output callback's second argument register). Preceded by xorEsiEsi so
// the unused upper 56 bits of rsi are clean rather than carrying stale
// bytes from whatever last touched it.
func movSilR10b() []byte { return []byte{0x44, 0x88, 0xD6} }

// xorEsiEsi encodes: xor esi, esi
func xorEsiEsi() []byte { return []byte{0x31, 0xF6} }
