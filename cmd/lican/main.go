// lican is the command-line entry point for running lican bytecode
// chunks.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/lican-lang/lican/internal/config"
	"github.com/lican-lang/lican/internal/snapshot"
	"github.com/lican-lang/lican/internal/vmlog"
	"github.com/lican-lang/lican/pkg/bytecode"
)

func main() {
	verbose := flag.Bool("v", false, "Report chunk size, literal count, and static memory size")
	trace := flag.Bool("trace", false, "Log every dispatched opcode to stderr")
	configPath := flag.String("config", "", "Path to a TOML config file overriding pool/heap/run defaults")
	dumpPath := flag.String("dump", "", "Write a CBOR diagnostic snapshot to this path after the run completes")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: lican [options] <chunk-file>\n\n")
		fmt.Fprintf(os.Stderr, "Loads a chunk, runs thread 0 to completion, and waits for any desynced threads.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0), *verbose, *trace, *configPath, *dumpPath); err != nil {
		fmt.Fprintf(os.Stderr, "lican: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, verbose, trace bool, configPath, dumpPath string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	chunk, err := bytecode.LoadChunk(buf)
	if err != nil {
		return fmt.Errorf("cannot load chunk %s: %w", path, err)
	}

	if verbose {
		fmt.Printf("chunk %s: %d code bytes, %d literals, %d bytes static memory\n",
			path, chunk.Len(), len(chunk.Literals), chunk.StaticSize)
	}

	verbosity := 0
	if verbose {
		verbosity = 1
	}
	logger := vmlog.New(verbosity)

	state := bytecode.NewRunState(chunk, cfg.Heap.InitialCapacity, logger)
	state.SetStdout(os.Stdout)
	state.SetPoolCapacity(cfg.Pool.Capacity)
	state.SetTrace(trace || cfg.Run.Trace)

	thread, err := state.ThreadZero(0)
	if err != nil {
		return fmt.Errorf("starting thread 0: %w", err)
	}
	bytecode.Run(state, thread)

	for !state.AreThreadsDepleted() {
		// DESYNC'd threads may still be running concurrently; poll until drained.
		pollDepletion(cfg.Run.PollIntervalMs)
	}

	if dumpPath != "" {
		if err := writeSnapshot(state, dumpPath); err != nil {
			return err
		}
	}

	return nil
}

func pollDepletion(intervalMs int) {
	if intervalMs <= 0 {
		intervalMs = 1
	}
	time.Sleep(time.Duration(intervalMs) * time.Millisecond)
}

func writeSnapshot(state *bytecode.RunState, path string) error {
	free := state.Heap.FreeRegions()
	regions := make([]snapshot.FreeRegion, len(free))
	for i, r := range free {
		regions[i] = snapshot.FreeRegion{Addr: r.Addr, Size: r.Size}
	}

	var registers [256]uint64
	if t := state.ThreadZeroHandle(); t != nil {
		registers = t.LastRegisters()
	}

	snap := &snapshot.Snapshot{
		HeapBytes:   state.Heap.Bytes(),
		FreeRegions: regions,
		StaticBytes: state.StaticBytes(),
		Registers:   registers,
	}

	data, err := snapshot.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot to %s: %w", path, err)
	}
	return nil
}
