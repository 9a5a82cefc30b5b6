//go:build amd64 && (linux || darwin || freebsd)

package jit

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/bfkit/bf/bferr"
)

func supported() bool { return true }

// mappedCode is the RW->RX->RW executable-page lifecycle a JIT needs:
// the buffer is written while RW, switched to RX before any call, and
// on Close switched back to RW and then unmapped.
type mappedCode struct {
	mem []byte
}

func newMappedCode(code []byte) (*mappedCode, error) {
	mem, err := unix.Mmap(-1, 0, len(code), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("%w: jit: mmap code page: %v", bferr.ErrOutOfMemory, err)
	}
	copy(mem, code)
	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		_ = unix.Munmap(mem)
		return nil, fmt.Errorf("%w: jit: mprotect code page: %v", bferr.ErrOutOfMemory, err)
	}
	return &mappedCode{mem: mem}, nil
}

// Run invokes the compiled function, passing memory's address as the tape
// base pointer and input/inCtx/output/outCtx as the four callback
// arguments, per the System V AMD64 ABI's first five integer arguments
// (rdi, rsi, rdx, rcx, r8). Returns its eax result widened to int32.
func (c *mappedCode) Run(memory []byte, input, inCtx, output, outCtx uintptr) int32 {
	codePtr := uintptr(unsafe.Pointer(&c.mem[0]))
	memPtr := uintptr(unsafe.Pointer(&memory[0]))
	return callNative(codePtr, memPtr, input, inCtx, output, outCtx)
}

func (c *mappedCode) Close() error {
	if c.mem == nil {
		return nil
	}
	err := unix.Mprotect(c.mem, unix.PROT_READ|unix.PROT_WRITE)
	if uerr := unix.Munmap(c.mem); err == nil {
		err = uerr
	}
	c.mem = nil
	return err
}
