package snapshot

import "testing"

func TestSnapshot_CBORRoundTrip(t *testing.T) {
	s := &Snapshot{
		HeapBytes:   []byte{1, 2, 3, 4},
		FreeRegions: []FreeRegion{{Addr: 4, Size: 12}},
		StaticBytes: []byte{0xAA, 0xBB},
	}
	s.Registers[0] = 42
	s.Registers[255] = 0xDEADBEEF

	data, err := Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if string(got.HeapBytes) != string(s.HeapBytes) {
		t.Errorf("HeapBytes: got %v, want %v", got.HeapBytes, s.HeapBytes)
	}
	if len(got.FreeRegions) != 1 || got.FreeRegions[0] != s.FreeRegions[0] {
		t.Errorf("FreeRegions: got %v, want %v", got.FreeRegions, s.FreeRegions)
	}
	if got.Registers[0] != 42 || got.Registers[255] != 0xDEADBEEF {
		t.Errorf("Registers round trip failed: %v", got.Registers)
	}
}

func TestMarshal_Deterministic(t *testing.T) {
	s := &Snapshot{FreeRegions: []FreeRegion{{Addr: 1, Size: 2}, {Addr: 3, Size: 4}}}

	a, err := Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	b, err := Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(a) != string(b) {
		t.Error("canonical encoding produced different bytes across calls")
	}
}
