package bytecode

import "sync"

// Thread is one interpreter instance: an instruction pointer, a call
// stack of frames, and an active flag guarded by its own mutex because
// the thread pool's depletion check consults IsActive concurrently with
// the dispatcher mutating everything else. A thread's register files,
// call stack, local stacks, and IP are otherwise exclusively owned by the
// goroutine running its dispatch loop and need no synchronization.
type Thread struct {
	chunk *Chunk

	ip    int
	stack []*CallFrame

	lastRegisters [NumRegisters]uint64

	activeMu sync.Mutex
	active   bool
}

// newThread allocates an inactive thread bound to the given chunk. Init
// must be called before it is dispatched.
func newThread(chunk *Chunk) *Thread {
	return &Thread{chunk: chunk}
}

// Init resets the thread to run starting at startPos: a single bottom
// frame with return address 0 and return descriptor 0 (no return), IP at
// startPos, and the active flag set.
func (t *Thread) Init(startPos int) {
	t.ip = startPos
	t.stack = []*CallFrame{newCallFrame(0, 0)}

	t.activeMu.Lock()
	t.active = true
	t.activeMu.Unlock()
}

// CleanUp marks the thread empty and releases its call stack. Called by
// the dispatch loop on exit, whether the call stack emptied naturally or
// IP ran past the chunk end.
func (t *Thread) CleanUp() {
	t.stack = nil
	t.ip = 0

	t.activeMu.Lock()
	t.active = false
	t.activeMu.Unlock()
}

// IsActive reports whether this thread slot currently holds a running
// thread. Safe to call from any goroutine.
func (t *Thread) IsActive() bool {
	t.activeMu.Lock()
	defer t.activeMu.Unlock()
	return t.active
}

// Now peeks the byte under IP without advancing; 0 past chunk end.
func (t *Thread) Now() byte {
	if t.ip < 0 || t.ip >= len(t.chunk.Code) {
		return 0
	}
	return t.chunk.Code[t.ip]
}

// Next returns the byte at IP then advances IP by one; 0 past chunk end.
func (t *Thread) Next() byte {
	b := t.Now()
	t.ip++
	return b
}

// Next16 reads a little-endian 16-bit operand and advances IP by two.
func (t *Thread) Next16() uint16 {
	lo := t.Next()
	hi := t.Next()
	return mergeL16(lo, hi)
}

// Next32 reads a little-endian 32-bit operand and advances IP by four.
func (t *Thread) Next32() uint32 {
	b0 := t.Next()
	b1 := t.Next()
	b2 := t.Next()
	b3 := t.Next()
	return mergeL32(b0, b1, b2, b3)
}

// AtEOF reports whether IP has reached or passed the chunk's code length.
func (t *Thread) AtEOF() bool {
	return t.ip >= len(t.chunk.Code)
}

// IP returns the current instruction pointer, mainly for disassembly and
// the CALL/DESYNC/jump handlers that must record it before consuming
// operands.
func (t *Thread) IP() int {
	return t.ip
}

// SetIP overwrites the instruction pointer, used by CALL/DESYNC/jump
// handlers after computing a target.
func (t *Thread) SetIP(ip int) {
	t.ip = ip
}

// TopFrame borrows the innermost call frame. Only valid while the call
// stack is non-empty.
func (t *Thread) TopFrame() *CallFrame {
	return t.stack[len(t.stack)-1]
}

// CallerFrame borrows the frame directly below the top, used by RETURN to
// write a result back to its caller.
func (t *Thread) CallerFrame() *CallFrame {
	return t.stack[len(t.stack)-2]
}

// PushFrame opens a new call frame, e.g. in response to CALL.
func (t *Thread) PushFrame(f *CallFrame) {
	t.stack = append(t.stack, f)
}

// PopFrame discards the top call frame, e.g. in response to RETURN. It
// remembers the popped frame's register file so LastRegisters can still
// report it after the thread fully depletes and its call stack is gone.
func (t *Thread) PopFrame() {
	t.lastRegisters = t.stack[len(t.stack)-1].Registers
	t.stack = t.stack[:len(t.stack)-1]
}

// LastRegisters returns the register file of the most recently popped
// frame — a diagnostic convenience for the -dump snapshot, since a
// depleted thread's own call stack is already empty by the time CleanUp
// runs.
func (t *Thread) LastRegisters() [NumRegisters]uint64 {
	return t.lastRegisters
}

// StackEmpty reports whether the call stack has been fully unwound — the
// dispatch loop's other termination condition alongside AtEOF.
func (t *Thread) StackEmpty() bool {
	return len(t.stack) == 0
}

// Abort discards the call stack so the dispatch loop's StackEmpty check
// ends Run on its next iteration without dispatching another opcode.
// Used when a handler hits an unrecoverable condition (e.g. DESYNC
// finding the thread pool exhausted) that must terminate this thread
// without touching any other thread or the process.
func (t *Thread) Abort() {
	t.stack = nil
}
