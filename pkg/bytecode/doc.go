// Package bytecode implements a register-based bytecode virtual machine:
// a chunk loader, a per-thread interpreter with a 256-register call frame
// model, a shared heap and static memory region, and a bounded pool of
// cooperatively-desynced threads. See codec, chunk, frame, thread, heap,
// state, and dispatch for the pieces in their natural dependency order.
package bytecode
