package bytecode

import "testing"

func TestHeapWriteReadRoundTrip(t *testing.T) {
	for size := uint64(1); size <= 8; size++ {
		h := NewHeap(0)
		addr := h.Malloc(size)
		value := uint64(0x0102030405060708) & mask64(int(size) * 8)

		h.Write(addr, value, size)
		got := h.Read(addr, size)

		if got != value {
			t.Errorf("size %d: Read = %#x, want %#x", size, got, value)
		}
	}
}

func TestHeapFirstFit(t *testing.T) {
	h := NewHeap(0)
	// Build free set {(0,4),(8,4)} by allocating 12 bytes then freeing
	// the two 4-byte halves, leaving an allocated 4-byte hole at [4,8).
	h.Malloc(12)
	h.Free(0, 4)
	h.Free(8, 4)

	addr := h.Malloc(4)
	if addr != 0 {
		t.Errorf("first-fit address = %d, want 0", addr)
	}
}

func TestHeapFreeCoalescesAdjacentRegions(t *testing.T) {
	h := NewHeap(0)
	h.Malloc(12)
	h.Free(0, 4)
	h.Free(4, 4)
	h.Free(8, 4)

	free := h.FreeRegions()
	if len(free) != 1 {
		t.Fatalf("FreeRegions = %v, want a single coalesced region", free)
	}
	if free[0].Addr != 0 || free[0].Size != 12 {
		t.Errorf("coalesced region = %+v, want {0 12}", free[0])
	}
}

func TestHeapDisjointAfterRandomSequence(t *testing.T) {
	h := NewHeap(0)
	addrs := make([]uint64, 0, 8)
	for i := 0; i < 8; i++ {
		addrs = append(addrs, h.Malloc(4))
	}
	for _, a := range addrs[1:] {
		h.Free(a, 4)
	}
	h.Free(addrs[0], 4)

	free := h.FreeRegions()
	for i := 1; i < len(free); i++ {
		if free[i-1].Addr+free[i-1].Size >= free[i].Addr {
			t.Errorf("free regions not disjoint/coalesced: %+v then %+v", free[i-1], free[i])
		}
	}
}

func TestHeapGrowsOnMiss(t *testing.T) {
	h := NewHeap(0)
	a := h.Malloc(4)
	b := h.Malloc(4)
	if b != a+4 {
		t.Errorf("second alloc addr = %d, want %d", b, a+4)
	}
}
