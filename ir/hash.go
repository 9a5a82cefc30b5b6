package ir

import (
	"crypto/sha256"
	"encoding/binary"
)

// Hash is a content hash over a program's instruction stream, byte-for-byte
// over all four fields of every instruction, including loop_start/loop_end
// Extra even though that field is recomputable from layout. Two programs
// with equal tag/value/offset/extra sequences hash equal; the optimizer
// driver's fixed point is "hash unchanged across a full
// condense+recognize_loops cycle".
type Hash [32]byte

// ContentHash computes the Hash of a program.
func ContentHash(p *Program) Hash {
	h := sha256.New()
	var buf [10]byte
	for i := 0; i < p.Len(); i++ {
		buf[0] = byte(p.Tag[i])
		buf[1] = p.Value[i]
		binary.LittleEndian.PutUint32(buf[2:6], p.Offset[i])
		binary.LittleEndian.PutUint32(buf[6:10], p.Extra[i])
		h.Write(buf[:])
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}
