// Command bfrun parses a Brainfuck (or bytecode-text) program, optimizes
// it, and executes it against stdin/stdout — via the JIT when enabled and
// available, falling back to the interpreter otherwise.
package main

import (
	"bufio"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"

	"github.com/bfkit/bf/bctext"
	"github.com/bfkit/bf/bfconfig"
	"github.com/bfkit/bf/bfsrc"
	"github.com/bfkit/bf/interp"
	"github.com/bfkit/bf/ir"
	"github.com/bfkit/bf/jit"
	"github.com/bfkit/bf/optimize"
	"github.com/bfkit/bf/tape"
)

var (
	configPath = flag.String("config", "", "Optional YAML run configuration file.")
	useJIT     = flag.Bool("jit", false, "Use the x86-64 JIT instead of the interpreter, if available.")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	if flag.NArg() != 1 {
		glog.Fatalf("Usage: bfrun [options] <file.bf|file.bc>")
	}
	filename := flag.Arg(0)

	cfg := bfconfig.Default()
	if *configPath != "" {
		var err error
		cfg, err = bfconfig.Load(*configPath)
		if err != nil {
			glog.Fatalf("loading config: %v", err)
		}
	}
	if *useJIT {
		cfg.JIT = true
	}

	prog, err := load(filename, cfg)
	if err != nil {
		glog.Fatalf("loading %s: %v", filename, err)
	}

	prog = optimize.Run(prog, cfg.Level(), cfg.MaxIterations)
	glog.V(1).Infof("optimized to %d instructions", prog.Len())

	if cfg.JIT && jit.Supported() {
		if cfg.EOF() == interp.EOFLeaveUnchanged {
			glog.V(1).Infof("jit's callback ABI can't express eof_policy: leave_unchanged; treating EOF as substitute(%d) instead", cfg.EOFByte)
		}
		runJIT(prog, cfg)
		return
	}
	if cfg.JIT {
		glog.Infof("jit requested but unavailable on this platform; falling back to the interpreter")
	}
	runInterp(prog, cfg)
}

func load(filename string, cfg bfconfig.Config) (*ir.Program, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	policy := bfsrc.NoSplit
	if cfg.SplitOnBang {
		policy = bfsrc.SplitOnBang
	}

	if strings.ToLower(filepath.Ext(filename)) == ".bc" {
		return bctext.Parse(string(src))
	}
	prog, _, err := bfsrc.Parse(src, policy)
	return prog, err
}

func runInterp(prog *ir.Program, cfg bfconfig.Config) {
	backend, err := newBackend(cfg.TapeBackend)
	if err != nil {
		glog.Fatalf("allocating tape: %v", err)
	}
	defer backend.Close()

	t := tape.New(backend)
	in := bufio.NewReader(os.Stdin)
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	machine := interp.New(prog, t, in, out, cfg.EOF(), cfg.EOFByte)
	status, err := machine.Run()
	if err != nil {
		glog.Fatalf("execution failed at pc %d: %v", machine.PC(), err)
	}
	glog.V(1).Infof("finished with status %s at pc %d", status, machine.PC())
}

func runJIT(prog *ir.Program, cfg bfconfig.Config) {
	code, err := jit.Compile(prog)
	if err != nil {
		glog.Fatalf("jit compile: %v", err)
	}
	defer code.Close()

	in := bufio.NewReader(os.Stdin)
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	input, inCtx, output, outCtx := jit.NewIOCallbacks(in, out, cfg.EOFByte)

	memory := make([]byte, tape.Size)
	rc := code.Run(memory, input, inCtx, output, outCtx)
	if rc != 0 {
		glog.Fatalf("jit execution returned error code %d", rc)
	}
}

func newBackend(kind bfconfig.TapeBackend) (tape.Backend, error) {
	if kind == bfconfig.TapeMapped && tape.MappedSupported() {
		return tape.NewMapped()
	}
	return tape.NewPaged(), nil
}
