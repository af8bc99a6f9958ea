package bytecode

import "testing"

func TestLoadChunkHeader(t *testing.T) {
	buf := []byte{
		0x10, 0x00, 0x00, 0x00, // static size = 16
		0x01, 0x00, // literal count = 1
		4, 25, 0, 0, 0, // literal 0: size 4, value 25
		0xAA, 0xBB, // 2 code bytes
	}

	c, err := LoadChunk(buf)
	if err != nil {
		t.Fatalf("LoadChunk: %v", err)
	}
	if c.StaticSize != 16 {
		t.Errorf("StaticSize = %d, want 16", c.StaticSize)
	}
	if len(c.Literals) != 1 || c.Literals[0] != 25 {
		t.Errorf("Literals = %v, want [25]", c.Literals)
	}
	if len(c.Code) != 2 || c.Code[0] != 0xAA || c.Code[1] != 0xBB {
		t.Errorf("Code = %v, want [0xAA 0xBB]", c.Code)
	}
}

func TestLoadChunkLiteralSizes(t *testing.T) {
	buf := []byte{
		0, 0, 0, 0, // static size = 0
		4, 0, // literal count = 4
		1, 0xFF, // u8 literal
		2, 0xCD, 0xAB, // u16 literal -> 0xABCD
		4, 0x78, 0x56, 0x34, 0x12, // u32 literal -> 0x12345678
		8, 1, 0, 0, 0, 0, 0, 0, 0, // u64 literal -> 1
	}

	c, err := LoadChunk(buf)
	if err != nil {
		t.Fatalf("LoadChunk: %v", err)
	}

	want := []uint64{0xFF, 0xABCD, 0x12345678, 1}
	for i, w := range want {
		if c.Literals[i] != w {
			t.Errorf("Literals[%d] = %#x, want %#x", i, c.Literals[i], w)
		}
	}
}

func TestLoadChunkMalformedLiteralSizeZeroFills(t *testing.T) {
	buf := []byte{
		0, 0, 0, 0,
		1, 0, // one literal
		3, // unrecognized size -> zero-filled, no payload bytes consumed
		0x01,
	}

	c, err := LoadChunk(buf)
	if err != nil {
		t.Fatalf("LoadChunk: %v", err)
	}
	if c.Literals[0] != 0 {
		t.Errorf("Literals[0] = %d, want 0", c.Literals[0])
	}
	if len(c.Code) != 1 || c.Code[0] != 0x01 {
		t.Errorf("Code = %v, want [0x01]", c.Code)
	}
}

func TestLoadChunkTruncatedHeader(t *testing.T) {
	if _, err := LoadChunk([]byte{0, 0, 0}); err == nil {
		t.Error("expected error for truncated header, got nil")
	}
}

func TestChunkLiteralOutOfRange(t *testing.T) {
	c := &Chunk{Literals: []uint64{1, 2}}
	if c.Literal(5) != 0 {
		t.Errorf("Literal(5) = %d, want 0", c.Literal(5))
	}
}
