//go:build amd64 && (linux || darwin || freebsd)

package jit

// callNative invokes the compiled function at codePtr, loading memPtr,
// input, inCtx, output, outCtx into rdi/rsi/rdx/rcx/r8 (the System V AMD64
// ABI's first five integer argument registers) and returning its eax
// result. Implemented in callnative_amd64.s: raw machine code produced by
// this package's own encoder can't be called as a Go func value, only as a
// bare address.
//
//go:noescape
func callNative(codePtr, memPtr, input, inCtx, output, outCtx uintptr) int32
