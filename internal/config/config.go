// Package config loads an optional TOML file of operational knobs for
// the VM: thread-pool capacity, heap pre-reservation, and trace/poll
// settings. None of it changes instruction semantics — it exists purely
// to tune the run.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the decoded form of an optional lican.toml-style file.
type Config struct {
	Pool PoolConfig `toml:"pool"`
	Heap HeapConfig `toml:"heap"`
	Run  RunConfig  `toml:"run"`
}

// PoolConfig clamps to bytecode.ThreadPoolCapacity; it can only lower the
// effective capacity, never raise it past the compiled-in hard limit.
type PoolConfig struct {
	Capacity int `toml:"capacity"`
}

// HeapConfig pre-reserves backing storage on the shared heap.
type HeapConfig struct {
	InitialCapacity int `toml:"initial_capacity"`
}

// RunConfig controls dispatcher tracing and the depletion-poll interval.
type RunConfig struct {
	Trace          bool `toml:"trace"`
	PollIntervalMs int  `toml:"poll_interval_ms"`
}

// Default returns the compiled-in defaults: full pool capacity, no heap
// pre-reservation, no trace, 1ms depletion polling.
func Default() Config {
	return Config{
		Pool: PoolConfig{Capacity: 64},
		Run:  RunConfig{PollIntervalMs: 1},
	}
}

// Load parses path as TOML into a Config seeded with Default, so any
// field the file omits keeps its default value.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: cannot read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse error in %s: %w", path, err)
	}
	return cfg, nil
}
