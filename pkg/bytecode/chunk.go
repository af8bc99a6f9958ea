package bytecode

import "fmt"

// Chunk is the immutable, shared-read program image produced by the
// upstream compiler: the raw code stream plus the decoded literal pool and
// static memory size read from its header. Nothing in Chunk is mutated
// after LoadChunk returns.
type Chunk struct {
	// Code is the full opcode/operand byte stream, starting at the first
	// byte past the literal pool. Thread IPs index directly into Code.
	Code []byte

	// Literals is the decoded constant table, indexed 0..N-1 by LOAD's
	// 16-bit operand. Every cell is a uniform 64-bit word regardless of
	// the literal's declared size.
	Literals []uint64

	// StaticSize is the static memory buffer size in bytes, read from the
	// chunk header. The run state reserves exactly this many bytes.
	StaticSize uint32
}

// LoadChunk decodes a chunk buffer per the header format: a 32-bit static
// memory size, a 16-bit literal count, that many {size, payload} literal
// records, then the remaining bytes are code. It performs no validation
// beyond recognizing the four known literal sizes (1, 2, 4, 8) — a malformed size
// byte silently yields a zero cell, matching the upstream compiler's
// trusted-input contract.
func LoadChunk(buf []byte) (*Chunk, error) {
	if len(buf) < 6 {
		return nil, fmt.Errorf("bytecode: chunk header truncated: need 6 bytes, have %d", len(buf))
	}

	staticSize := mergeL32(buf[0], buf[1], buf[2], buf[3])
	literalCount := mergeL16(buf[4], buf[5])

	pos := 6
	literals := make([]uint64, 0, literalCount)

	for i := uint16(0); i < literalCount; i++ {
		if pos >= len(buf) {
			return nil, fmt.Errorf("bytecode: literal %d size byte past end of chunk", i)
		}
		size := buf[pos]
		pos++

		known := size == 1 || size == 2 || size == 4 || size == 8
		if known && pos+int(size) > len(buf) {
			return nil, fmt.Errorf("bytecode: literal %d payload (size %d) past end of chunk", i, size)
		}

		var cell uint64
		switch size {
		case 1:
			cell = uint64(buf[pos])
		case 2:
			cell = uint64(mergeL16(buf[pos], buf[pos+1]))
		case 4:
			cell = uint64(mergeL32(buf[pos], buf[pos+1], buf[pos+2], buf[pos+3]))
		case 8:
			var b [8]byte
			copy(b[:], buf[pos:pos+8])
			cell = mergeL64(b)
		default:
			cell = 0
			size = 0 // nothing to advance past for an unrecognized size
		}
		pos += int(size)

		literals = append(literals, cell)
	}

	var code []byte
	if pos < len(buf) {
		code = buf[pos:]
	}

	return &Chunk{
		Code:       code,
		Literals:   literals,
		StaticSize: staticSize,
	}, nil
}

// Literal returns the literal pool cell at index l, or 0 if l is out of
// range. Out-of-range indices are a trusted-chunk contract violation
// returning 0 rather than panicking keeps a malformed chunk from
// crashing the process.
func (c *Chunk) Literal(l uint16) uint64 {
	if int(l) >= len(c.Literals) {
		return 0
	}
	return c.Literals[l]
}

// Len reports the number of code bytes, the boundary the dispatcher loop
// compares an IP against to detect end-of-chunk.
func (c *Chunk) Len() int {
	return len(c.Code)
}
