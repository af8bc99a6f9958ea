package bytecode

import "sync"

// FreeRegion is a contiguous unallocated extent of the heap, keyed by its
// starting address.
type FreeRegion struct {
	Addr uint64
	Size uint64
}

// Heap is the process-wide shared memory subsystem: a growable byte
// buffer plus an address-ordered set of free regions, first-fit
// allocated and coalesced on free.
//
// Bytes and free regions share a single mutex rather than one each:
// splitting them admits a race between a free's set-insert and an
// allocate's bytes-extend, and nothing is gained by separating two
// resources that every MALLOC/MFREE/MWRITE/MREAD already touches
// together.
type Heap struct {
	mu    sync.Mutex
	bytes []byte
	free  []FreeRegion // kept sorted by Addr
}

// NewHeap returns an empty heap, optionally pre-reserving capacity bytes
// of backing storage (a pure performance knob; the heap is still
// logically empty and length 0).
func NewHeap(capacity int) *Heap {
	return &Heap{bytes: make([]byte, 0, capacity)}
}

// Malloc allocates size bytes using first-fit over the free-region set in
// address order, splitting the chosen region if it is larger than needed,
// or growing the backing buffer if no region fits.
func (h *Heap) Malloc(size uint64) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, r := range h.free {
		if r.Size >= size {
			addr := r.Addr
			if r.Size > size {
				h.free[i] = FreeRegion{Addr: addr + size, Size: r.Size - size}
			} else {
				h.free = append(h.free[:i], h.free[i+1:]...)
			}
			h.ensureLen(addr + size)
			return addr
		}
	}

	addr := uint64(len(h.bytes))
	h.ensureLen(addr + size)
	return addr
}

// ensureLen grows bytes to at least n bytes. Must be called with mu held.
func (h *Heap) ensureLen(n uint64) {
	if uint64(len(h.bytes)) >= n {
		return
	}
	h.bytes = append(h.bytes, make([]byte, n-uint64(len(h.bytes)))...)
}

// Free returns {addr, size} to the free-region set, then coalesces with
// the immediate successor (if addr+size touches it) and the immediate
// predecessor (if it touches addr), preserving the invariant that the
// set never holds two adjacent regions.
func (h *Heap) Free(addr, size uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	idx := h.insertSorted(FreeRegion{Addr: addr, Size: size})
	h.coalesceAt(idx)
}

// insertSorted inserts r into h.free keeping address order and returns
// its index.
func (h *Heap) insertSorted(r FreeRegion) int {
	i := 0
	for i < len(h.free) && h.free[i].Addr < r.Addr {
		i++
	}
	h.free = append(h.free, FreeRegion{})
	copy(h.free[i+1:], h.free[i:])
	h.free[i] = r
	return i
}

// coalesceAt merges the region at idx with its successor (if touching)
// then its predecessor (if touching), in that order, matching the
// source's free() sequence.
func (h *Heap) coalesceAt(idx int) {
	if idx+1 < len(h.free) {
		r, succ := h.free[idx], h.free[idx+1]
		if r.Addr+r.Size == succ.Addr {
			h.free[idx] = FreeRegion{Addr: r.Addr, Size: r.Size + succ.Size}
			h.free = append(h.free[:idx+1], h.free[idx+2:]...)
		}
	}
	if idx > 0 {
		pred, r := h.free[idx-1], h.free[idx]
		if pred.Addr+pred.Size == r.Addr {
			h.free[idx-1] = FreeRegion{Addr: pred.Addr, Size: pred.Size + r.Size}
			h.free = append(h.free[:idx], h.free[idx+1:]...)
		}
	}
}

// Write stores the low size bytes of value into the heap at addr,
// little-endian, growing the backing buffer if necessary. size is
// constrained to 0..8 by the register cell width; out-of-range addr/size
// combinations are a trusted-chunk contract violation.
func (h *Heap) Write(addr, value, size uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.ensureLen(addr + size)
	splitL(h.bytes[addr:addr+size], value, int(size))
}

// Read accumulates size bytes from the heap at addr into a 64-bit word,
// little-endian. Reading past the backing buffer's length returns 0 for
// the missing bytes rather than panicking.
func (h *Heap) Read(addr, size uint64) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()

	var v uint64
	for i := uint64(0); i < size; i++ {
		a := addr + i
		var b byte
		if a < uint64(len(h.bytes)) {
			b = h.bytes[a]
		}
		v |= uint64(b) << (8 * i)
	}
	return v
}

// FreeRegions returns a snapshot copy of the current free-region set, in
// address order. Used by tests and the diagnostic snapshot dump.
func (h *Heap) FreeRegions() []FreeRegion {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]FreeRegion, len(h.free))
	copy(out, h.free)
	return out
}

// Len reports the current backing-buffer length in bytes.
func (h *Heap) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.bytes)
}

// Bytes returns a copy of the current heap backing buffer. Used only by
// the diagnostic snapshot dump.
func (h *Heap) Bytes() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]byte, len(h.bytes))
	copy(out, h.bytes)
	return out
}
