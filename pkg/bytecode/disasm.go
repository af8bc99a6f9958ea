package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of the chunk's code
// stream, one line per instruction, with the byte offset of each opcode
// in the left column. It is a debugging aid only — never consulted by
// the dispatcher — and tolerates a truncated trailing instruction by
// printing it with whatever operand bytes are actually present.
func (c *Chunk) Disassemble() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "; literals: %d, static size: %d\n", len(c.Literals), c.StaticSize)
	for i, l := range c.Literals {
		fmt.Fprintf(&sb, ";   L%d = %d\n", i, l)
	}

	pos := 0
	for pos < len(c.Code) {
		pos = disasmOne(&sb, c, pos)
	}
	return sb.String()
}

// disasmOne writes one instruction starting at pos and returns the
// offset of the next instruction.
func disasmOne(sb *strings.Builder, c *Chunk, pos int) int {
	op := Opcode(c.byteAt(pos))
	start := pos
	pos++

	fmt.Fprintf(sb, "%04d  %-14s", start, op)

	switch op {
	case OpOut:
		t, r := c.byteAt(pos), c.byteAt(pos+1)
		fmt.Fprintf(sb, "%s R%d", ValueType(t), r)
		pos += 2
	case OpLoad:
		r := c.byteAt(pos)
		l := mergeL16(c.byteAt(pos+1), c.byteAt(pos+2))
		fmt.Fprintf(sb, "R%d, L%d", r, l)
		pos += 3
	case OpAdd, OpSub, OpMul, OpDiv, OpMore, OpLess:
		t, r, a, b := c.byteAt(pos), c.byteAt(pos+1), c.byteAt(pos+2), c.byteAt(pos+3)
		fmt.Fprintf(sb, "%s R%d, R%d, R%d", ValueType(t), r, a, b)
		pos += 4
	case OpEqual:
		r, a, b := c.byteAt(pos), c.byteAt(pos+1), c.byteAt(pos+2)
		fmt.Fprintf(sb, "R%d, R%d, R%d", r, a, b)
		pos += 3
	case OpMalloc, OpMfree:
		a, b := c.byteAt(pos), c.byteAt(pos+1)
		fmt.Fprintf(sb, "R%d, R%d", a, b)
		pos += 2
	case OpMwrite, OpMread:
		a, b, s := c.byteAt(pos), c.byteAt(pos+1), c.byteAt(pos+2)
		fmt.Fprintf(sb, "R%d, R%d, R%d", a, b, s)
		pos += 3
	case OpPushLocal:
		r := c.byteAt(pos)
		fmt.Fprintf(sb, "R%d", r)
		pos++
	case OpCopyLocal:
		r := c.byteAt(pos)
		i := mergeL16(c.byteAt(pos+1), c.byteAt(pos+2))
		fmt.Fprintf(sb, "R%d, L%d", r, i)
		pos += 3
	case OpCall, OpDesync:
		delta := int32(mergeL32(c.byteAt(pos), c.byteAt(pos+1), c.byteAt(pos+2), c.byteAt(pos+3)))
		pos += 4
		var v byte
		if op == OpCall {
			v = c.byteAt(pos)
			pos++
		}
		k := c.byteAt(pos)
		pos++
		fmt.Fprintf(sb, "delta=%d", delta)
		if op == OpCall {
			fmt.Fprintf(sb, ", ret=%d", v)
		}
		fmt.Fprintf(sb, ", args=[")
		for i := byte(0); i < k; i++ {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "R%d", c.byteAt(pos))
			pos++
		}
		sb.WriteString("]")
	case OpReturn:
		// V is only present in the encoded stream when the enclosing
		// frame expects a return value; the disassembler has no frame
		// context to know that, so it cannot reliably print V here.
	case OpJumpI8:
		d := int8(c.byteAt(pos))
		fmt.Fprintf(sb, "%d", d)
		pos++
	case OpJumpI16:
		d := int16(mergeL16(c.byteAt(pos), c.byteAt(pos+1)))
		fmt.Fprintf(sb, "%d", d)
		pos += 2
	case OpJumpIfFalse:
		d := int16(mergeL16(c.byteAt(pos), c.byteAt(pos+1)))
		r := c.byteAt(pos + 2)
		fmt.Fprintf(sb, "%d, R%d", d, r)
		pos += 3
	case OpUNot, OpUNeg:
		r, a := c.byteAt(pos), c.byteAt(pos+1)
		fmt.Fprintf(sb, "R%d, R%d", r, a)
		pos += 2
	}

	sb.WriteString("\n")
	return pos
}

// byteAt returns the code byte at pos, or 0 past the end — the same
// tolerant-EOF behavior as Thread.Now, so a truncated trailing
// instruction disassembles instead of panicking.
func (c *Chunk) byteAt(pos int) byte {
	if pos < 0 || pos >= len(c.Code) {
		return 0
	}
	return c.Code[pos]
}

func (t ValueType) String() string {
	names := [...]string{
		ValNil: "NIL", ValPtr: "PTR", ValBool: "BOOL",
		ValU8: "U8", ValU16: "U16", ValU32: "U32", ValU64: "U64",
		ValI8: "I8", ValI16: "I16", ValI32: "I32", ValI64: "I64",
		ValF32: "F32", ValF64: "F64",
	}
	if int(t) < len(names) && names[t] != "" {
		return names[t]
	}
	return fmt.Sprintf("VAL_0x%02X", byte(t))
}
