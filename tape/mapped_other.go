//go:build !(linux && (amd64 || arm64))

package tape

import (
	"fmt"

	"github.com/bfkit/bf/bferr"
)

// MappedSupported reports false: this host doesn't expose the
// non-reserving mmap flag this backend depends on (or isn't 64-bit).
func MappedSupported() bool {
	return false
}

// Mapped is unavailable on this platform; NewMapped always fails. Callers
// should check MappedSupported and fall back to Paged, the same way the
// JIT must be disabled rather than degraded when unsupported.
type Mapped struct{}

// NewMapped always returns an error on unsupported platforms.
func NewMapped() (*Mapped, error) {
	return nil, fmt.Errorf("%w: mapped tape backend unsupported on this platform", bferr.ErrOutOfMemory)
}

func (m *Mapped) Get(addr uint32) uint8 { return 0 }
func (m *Mapped) Set(addr uint32, v uint8) {}
func (m *Mapped) Close() error { return nil }
