// Package bferr holds the small, flat error taxonomy shared by every
// component: parse errors, allocator/mmap failures, and host I/O errors.
// All three are fatal to the current run — none is retried.
package bferr

import "errors"

// ErrParse marks unbalanced brackets, an unrecognized opcode name, a
// malformed integer, or a stray value where none is permitted. Wrap it
// with fmt.Errorf("%w: ...", ErrParse) to add detail.
var ErrParse = errors.New("bf: parse error")

// ErrOutOfMemory marks an allocator or mmap failure.
var ErrOutOfMemory = errors.New("bf: out of memory")

// ErrIO marks a propagated failure from the host reader/writer, or a
// negative return from a JIT I/O callback.
var ErrIO = errors.New("bf: i/o error")
