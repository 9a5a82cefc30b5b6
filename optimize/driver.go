package optimize

import "github.com/bfkit/bf/ir"

// Level selects how aggressively Run optimizes a program.
type Level int

const (
	// LevelNone runs no passes; Run returns p unchanged.
	LevelNone Level = iota
	// LevelNormal iterates condense and recognize_loops to a fixed point.
	LevelNormal
)

// DefaultMaxIterations bounds the fixed-point loop in Run when the caller
// doesn't supply its own cap, guarding against a pathological program that
// never converges.
const DefaultMaxIterations = 32

// Run applies the optimization cascade to p at the given level, returning a
// freshly-built program. At LevelNone, p is returned as-is. At LevelNormal,
// condense and recognize_loops are applied in sequence, repeating the pair
// until a full cycle leaves the program's content hash unchanged or
// maxIterations cycles have run, whichever comes first.
func Run(p *ir.Program, level Level, maxIterations int) *ir.Program {
	if level == LevelNone {
		return p
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	cur := p
	prevHash := ir.ContentHash(cur)
	for i := 0; i < maxIterations; i++ {
		cur = RecognizeLoops(Condense(cur))
		hash := ir.ContentHash(cur)
		if hash == prevHash {
			break
		}
		prevHash = hash
	}
	return cur
}
