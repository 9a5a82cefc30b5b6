//go:build linux && (amd64 || arm64)

package tape

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/bfkit/bf/bferr"
)

// MappedSupported reports whether NewMapped can be used on this host: a
// 64-bit Linux target, where MAP_NORESERVE lets us reserve the full 2^32
// address range without committing physical pages up front.
func MappedSupported() bool {
	return true
}

// Mapped is the tape backend that relies on a single anonymous, private,
// non-reserving mapping of the full 2^32-byte address space, letting the
// kernel demand-page it instead of the interpreter managing pages itself.
type Mapped struct {
	mem []byte
}

// NewMapped reserves the full tape address space.
func NewMapped() (*Mapped, error) {
	mem, err := unix.Mmap(-1, 0, int(Size),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON|unix.MAP_NORESERVE)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap tape: %v", bferr.ErrOutOfMemory, err)
	}
	return &Mapped{mem: mem}, nil
}

func (m *Mapped) Get(addr uint32) uint8 {
	return m.mem[addr]
}

func (m *Mapped) Set(addr uint32, v uint8) {
	m.mem[addr] = v
}

// Close unmaps the tape's backing memory.
func (m *Mapped) Close() error {
	if m.mem == nil {
		return nil
	}
	err := unix.Munmap(m.mem)
	m.mem = nil
	return err
}
