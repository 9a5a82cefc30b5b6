// Package bfconfig defines the typed, YAML-backed run configuration shared
// by the cmd/ entrypoints: optimizer level, EOF policy, tape backend
// choice, and JIT enable/disable. Argument parsing itself stays out of
// scope; a host fills in a Config however it likes (flags, a config file, a
// test harness) and passes it in.
package bfconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bfkit/bf/interp"
	"github.com/bfkit/bf/optimize"
)

// TapeBackend selects which tape.Backend implementation a run should use.
type TapeBackend string

const (
	TapePaged  TapeBackend = "paged"
	TapeMapped TapeBackend = "mapped"
)

// Config is the full set of knobs a run of this engine exposes.
type Config struct {
	// OptimizerLevel is "none" or "normal"; see optimize.Level.
	OptimizerLevel string `yaml:"optimizer_level"`
	// MaxIterations caps the optimizer driver's fixed-point loop.
	MaxIterations int `yaml:"max_iterations"`
	// EOFPolicy is "leave_unchanged" or "substitute".
	EOFPolicy string `yaml:"eof_policy"`
	// EOFByte is the substitute byte when EOFPolicy is "substitute".
	EOFByte byte `yaml:"eof_byte"`
	// TapeBackend is "paged" or "mapped".
	TapeBackend TapeBackend `yaml:"tape_backend"`
	// JIT enables the x86-64 code generator when the platform supports it.
	JIT bool `yaml:"jit"`
	// SplitOnBang enables the `!` source/input splitter in bfsrc.Parse.
	SplitOnBang bool `yaml:"split_on_bang"`
}

// Default returns the engine's out-of-the-box configuration: normal
// optimization, EOF left unchanged, the portable paged tape backend, JIT
// off (opt-in, since it isn't available on every platform).
func Default() Config {
	return Config{
		OptimizerLevel: "normal",
		MaxIterations:  optimize.DefaultMaxIterations,
		EOFPolicy:      "leave_unchanged",
		TapeBackend:    TapePaged,
		JIT:            false,
	}
}

// Load reads a YAML config file at path, overlaying it onto Default(). A
// missing file is not an error: the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("bfconfig: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("bfconfig: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Level resolves the configured optimizer level string to optimize.Level,
// defaulting to LevelNormal for any unrecognized value.
func (c Config) Level() optimize.Level {
	if c.OptimizerLevel == "none" {
		return optimize.LevelNone
	}
	return optimize.LevelNormal
}

// EOF resolves the configured EOF policy string to interp.EOFPolicy,
// defaulting to EOFLeaveUnchanged for any unrecognized value.
func (c Config) EOF() interp.EOFPolicy {
	if c.EOFPolicy == "substitute" {
		return interp.EOFSubstitute
	}
	return interp.EOFLeaveUnchanged
}
