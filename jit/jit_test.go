package jit_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bfkit/bf/bferr"
	"github.com/bfkit/bf/bfsrc"
	"github.com/bfkit/bf/interp"
	"github.com/bfkit/bf/jit"
	"github.com/bfkit/bf/tape"
)

func TestCompile_UnsupportedPlatformReturnsWrappedError(t *testing.T) {
	if jit.Supported() {
		t.Skip("jit is supported on this platform; nothing to check here")
	}
	prog, _, err := bfsrc.Parse([]byte("+."), bfsrc.NoSplit)
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	code, err := jit.Compile(prog)
	if code != nil {
		t.Fatalf("expected a nil Code on an unsupported platform, got %v", code)
	}
	if !errors.Is(err, bferr.ErrOutOfMemory) {
		t.Fatalf("expected a wrapped bferr.ErrOutOfMemory, got %v", err)
	}
}

func TestCompile_SupportedPlatformProducesRunnableCode(t *testing.T) {
	if !jit.Supported() {
		t.Skip("jit unsupported on this platform")
	}
	prog, _, err := bfsrc.Parse([]byte("+."), bfsrc.NoSplit)
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	code, err := jit.Compile(prog)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if code == nil {
		t.Fatal("expected non-nil Code on a supported platform")
	}
	if err := code.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

// runJIT compiles and executes src against in, using NewIOCallbacks to bind
// the same in-memory Reader/Writer shape the interpreter uses, and returns
// the bytes written plus the run's status code.
func runJIT(t *testing.T, src string, in []byte) (string, int32) {
	t.Helper()
	prog, _, err := bfsrc.Parse([]byte(src), bfsrc.NoSplit)
	if err != nil {
		t.Fatalf("parsing %q: %v", src, err)
	}
	code, err := jit.Compile(prog)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	defer code.Close()

	r := bytes.NewReader(in)
	var w bytes.Buffer
	input, inCtx, output, outCtx := jit.NewIOCallbacks(r, &w, 0)

	memory := make([]byte, tape.Size)
	rc := code.Run(memory, input, inCtx, output, outCtx)
	return w.String(), rc
}

func runInterp(t *testing.T, src string, in []byte) string {
	t.Helper()
	prog, _, err := bfsrc.Parse([]byte(src), bfsrc.NoSplit)
	if err != nil {
		t.Fatalf("parsing %q: %v", src, err)
	}
	tp := tape.New(tape.NewPaged())
	defer tp.Close()

	r := bytes.NewReader(in)
	var w bytes.Buffer
	p := interp.New(prog, tp, r, &w, interp.EOFSubstitute, 0)
	if _, err := p.Run(); err != nil {
		t.Fatalf("interp running %q: %v", src, err)
	}
	return w.String()
}

// TestCompile_RunMatchesInterpOutput drives the JIT through the exact same
// in-memory Reader/Writer the interpreter uses, via NewIOCallbacks, and
// checks the two produce identical output for the same input.
func TestCompile_RunMatchesInterpOutput(t *testing.T) {
	if !jit.Supported() {
		t.Skip("jit unsupported on this platform")
	}
	cases := []struct {
		name string
		src  string
		in   []byte
	}{
		{"echo", ",.", []byte("A")},
		{"two byte echo with eof substitute", ",.,.", []byte{0x03}},
		// the head moves to cell 1 before the output runs: regresses the
		// cursor-corruption bug where `.`/`,` restored a compile-time
		// offset constant instead of the live head position.
		{"output after a move", ">+.", nil},
		{"input then move then output", ",>+.<.", []byte{5}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			jitOut, rc := runJIT(t, c.src, c.in)
			if rc != 0 {
				t.Fatalf("jit run returned %d", rc)
			}
			interpOut := runInterp(t, c.src, c.in)
			if jitOut != interpOut {
				t.Fatalf("jit output %q != interp output %q", jitOut, interpOut)
			}
		})
	}
}
