//go:build !(amd64 && (linux || darwin || freebsd))

package jit

import (
	"fmt"

	"github.com/bfkit/bf/bferr"
	"github.com/bfkit/bf/ir"
)

func supported() bool { return false }

func compile(prog *ir.Program) (Code, error) {
	return nil, fmt.Errorf("%w: jit unsupported on this platform", bferr.ErrOutOfMemory)
}
