// Package jit compiles an ir.Program to native x86-64 machine code and
// executes it directly. It is only available when the target is amd64 on a
// host that exposes the System V AMD64 ABI and the mmap/mprotect primitives
// the executable mapping needs; elsewhere Supported reports false and
// Compile always fails — disabled, not degraded.
//
// The generated function's in/out instructions call back into host-supplied
// C-ABI function pointers rather than touching any fixed file descriptor,
// so the same Reader/Writer that drives the interp package can drive the
// JIT: NewIOCallbacks adapts one into the function-pointer/context pairs
// Run expects.
package jit

import "github.com/bfkit/bf/ir"

// Code is a compiled, page-mapped, directly-executable program implementing
//
//	fn(memory *u8, input fn(*void) i32, in_ctx *void,
//	   output fn(*void, u8) i32, out_ctx *void) i32
//
// under the System V AMD64 ABI.
type Code interface {
	// Run invokes the compiled function against memory, which must be at
	// least 2^32 bytes. input/inCtx and output/outCtx are the raw C-ABI
	// function pointer and context argument pairs the generated code
	// calls for `in` and `out`/`out_value`; see NewIOCallbacks. Returns 0
	// on success, or the negative error code either callback returned.
	Run(memory []byte, input, inCtx, output, outCtx uintptr) int32
	// Close releases the executable mapping.
	Close() error
}

// Compile produces executable Code for prog. Callers must check Supported
// first; on an unsupported platform Compile always returns an error.
func Compile(prog *ir.Program) (Code, error) {
	return compile(prog)
}

// Supported reports whether this build can JIT-compile and execute
// programs on the current platform.
func Supported() bool {
	return supported()
}
