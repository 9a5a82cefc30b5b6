// Package tape implements the Brainfuck program's 2^32-byte logical tape,
// behind two interchangeable backends: a lazily-allocated paged backend
// (portable) and an anonymous non-reserving memory mapping (Linux/amd64,
// arm64 only).
package tape

// Size is the number of addressable bytes on the logical tape: 2^32.
const Size uint64 = 1 << 32

// PageSize is the granularity at which the paged backend allocates
// physical storage: 1 MiB.
const PageSize = 1 << 20

// Backend is a byte-addressable store over the full 2^32 address space.
// Implementations must treat every uint32 address as valid; they must
// never panic on an unallocated or unmapped address.
type Backend interface {
	Get(addr uint32) uint8
	Set(addr uint32, v uint8)
	// Close releases any resources (page maps, mappings) the backend holds.
	Close() error
}

// Tape is the persistent head position plus a Backend, exposing the
// head-relative operations the IR's instruction semantics are defined in
// terms of: get/set/add/move/seek, all relative to mp.
type Tape struct {
	backend Backend
	mp      uint32
}

// New wraps a backend with a zero-valued head position.
func New(backend Backend) *Tape {
	return &Tape{backend: backend}
}

// MP returns the current head position.
func (t *Tape) MP() uint32 {
	return t.mp
}

// SetMP forcibly repositions the head, e.g. to resume after a breakpoint.
func (t *Tape) SetMP(mp uint32) {
	t.mp = mp
}

// Get reads tape[mp+offset].
func (t *Tape) Get(offset uint32) uint8 {
	return t.backend.Get(t.mp + offset)
}

// Set assigns tape[mp+offset] = v.
func (t *Tape) Set(offset uint32, v uint8) {
	t.backend.Set(t.mp+offset, v)
}

// Add adds v to tape[mp+offset], wrapping mod 256.
func (t *Tape) Add(offset uint32, v uint8) {
	addr := t.mp + offset
	t.backend.Set(addr, t.backend.Get(addr)+v)
}

// Move shifts the head by delta, wrapping mod 2^32.
func (t *Tape) Move(delta uint32) {
	t.mp += delta
}

// Seek advances the head by offset, then steps by step until the cell at
// the head equals target. The post-displacement cell is checked before any
// step is taken, so a seek whose target cell already holds target is a
// zero-step no-op.
func (t *Tape) Seek(offset uint32, target uint8, step uint32) {
	t.mp += offset
	for t.backend.Get(t.mp) != target {
		t.mp += step
	}
}

// Close releases the backend's resources.
func (t *Tape) Close() error {
	return t.backend.Close()
}
