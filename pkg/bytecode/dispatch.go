package bytecode

import (
	"fmt"
	"os"
)

// handler executes one decoded instruction against the run state and
// thread, reading any operand bytes itself from the thread's stream and
// mutating the thread's top frame and/or the run state. It returns
// normally in all but RETURN (which may empty the call stack, detected
// by the dispatch loop rather than the handler's return value).
type handler func(s *RunState, t *Thread)

// dispatchTable is indexed by Opcode; every opcode in the set gets an
// entry. An index past opcodeCount or at an unassigned slot is a
// trusted-chunk contract violation and is not guarded against.
var dispatchTable [opcodeCount]handler

func init() {
	dispatchTable = [opcodeCount]handler{
		OpOut:         opOut,
		OpLoad:        opLoad,
		OpAdd:         opBinary('+'),
		OpSub:         opBinary('-'),
		OpMul:         opBinary('*'),
		OpDiv:         opBinary('/'),
		OpMore:        opBinary('>'),
		OpLess:        opBinary('<'),
		OpEqual:       opEqual,
		OpMalloc:      opMalloc,
		OpMfree:       opMfree,
		OpMwrite:      opMwrite,
		OpMread:       opMread,
		OpPushLocal:   opPushLocal,
		OpCopyLocal:   opCopyLocal,
		OpCall:        opCall,
		OpDesync:      opDesync,
		OpReturn:      opReturn,
		OpJumpI8:      opJumpI8,
		OpJumpI16:     opJumpI16,
		OpJumpIfFalse: opJumpIfFalse,
		OpUNot:        opUNot,
		OpUNeg:        opUNeg,
	}
}

// Run executes t's dispatch loop to completion: read one opcode byte,
// invoke its handler, repeat until the call stack empties or the IP
// crosses the chunk end. CleanUp runs unconditionally on exit. When
// s.trace is set, each decoded opcode is logged to stderr before its
// handler runs.
func Run(s *RunState, t *Thread) {
	defer t.CleanUp()

	for !t.StackEmpty() && !t.AtEOF() {
		pos := t.IP()
		op := Opcode(t.Next())
		if s.trace {
			fmt.Fprintf(os.Stderr, "[%04d] %-14s\n", pos, op)
		}
		h := dispatchTable[op]
		h(s, t)
	}
}

func opOut(s *RunState, t *Thread) {
	typ := ValueType(t.Next())
	r := t.Next()
	s.stdout.Out(typ, t.TopFrame().Registers[r])
}

func opLoad(s *RunState, t *Thread) {
	r := t.Next()
	l := t.Next16()
	t.TopFrame().Registers[r] = s.Chunk.Literal(l)
}

func opEqual(s *RunState, t *Thread) {
	r := t.Next()
	a := t.Next()
	b := t.Next()
	f := t.TopFrame()
	if f.Registers[a] == f.Registers[b] {
		f.Registers[r] = 1
	} else {
		f.Registers[r] = 0
	}
}

func opMalloc(s *RunState, t *Thread) {
	r := t.Next()
	sizeReg := t.Next()
	f := t.TopFrame()
	size := f.Registers[sizeReg]
	f.Registers[r] = s.Heap.Malloc(size)
}

func opMfree(s *RunState, t *Thread) {
	pReg := t.Next()
	sReg := t.Next()
	f := t.TopFrame()
	s.Heap.Free(f.Registers[pReg], f.Registers[sReg])
}

func opMwrite(s *RunState, t *Thread) {
	pReg := t.Next()
	vReg := t.Next()
	sReg := t.Next()
	f := t.TopFrame()
	s.Heap.Write(f.Registers[pReg], f.Registers[vReg], f.Registers[sReg])
}

func opMread(s *RunState, t *Thread) {
	pReg := t.Next()
	rReg := t.Next()
	sReg := t.Next()
	f := t.TopFrame()
	addr := f.Registers[pReg]
	size := f.Registers[sReg]
	f.Registers[rReg] = s.Heap.Read(addr, size)
}

func opPushLocal(s *RunState, t *Thread) {
	r := t.Next()
	f := t.TopFrame()
	f.PushLocal(f.Registers[r])
}

func opCopyLocal(s *RunState, t *Thread) {
	r := t.Next()
	i := t.Next16()
	f := t.TopFrame()
	f.Registers[r] = f.Local(i)
}

// opCall decodes CALL's variable-length operand list, opens a new frame
// whose return address is the IP immediately after the last argument
// byte, and finally sets IP to the opcode's own byte position plus delta
// — a plain assignment, not an additive correction on top of an
// already-advanced IP.
func opCall(s *RunState, t *Thread) {
	instrPos := t.IP() - 1 // Next already consumed the opcode byte
	delta := int32(t.Next32())
	returnReg := t.Next()
	k := t.Next()

	caller := t.TopFrame()
	args := make([]uint8, k)
	for i := range args {
		args[i] = t.Next()
	}

	callee := newCallFrame(t.IP(), returnReg)
	for _, a := range args {
		callee.PushLocal(caller.Registers[a])
	}

	t.PushFrame(callee)
	t.SetIP(instrPos + int(delta))
}

// opDesync mirrors opCall's operand decoding but spawns an independent
// thread rather than a nested frame; the caller continues immediately.
// Thread-pool exhaustion is fatal to the issuing thread only: it logs
// and aborts its own call stack rather than the process, so Run's loop
// ends on this iteration instead of falling through to the next opcode.
func opDesync(s *RunState, t *Thread) {
	instrPos := t.IP() - 1
	delta := int32(t.Next32())
	k := t.Next()

	caller := t.TopFrame()
	args := make([]uint8, k)
	for i := range args {
		args[i] = t.Next()
	}

	child, err := s.Spawn(instrPos + int(delta))
	if err != nil {
		s.infof("bytecode: desync failed: %v", err)
		t.Abort()
		return
	}
	bottom := child.TopFrame()
	for _, a := range args {
		bottom.PushLocal(caller.Registers[a])
	}

	go Run(s, child)
}

// opReturn reads its operand byte only when the current frame's
// descriptor demands a return value, writes it to the caller's
// register, restores IP to the return address, and pops the frame.
func opReturn(s *RunState, t *Thread) {
	f := t.TopFrame()

	if f.HasReturn() {
		v := t.Next()
		value := f.Registers[v]
		t.CallerFrame().Registers[f.CallerRegister()] = value
	}

	t.SetIP(f.ReturnAddr)
	t.PopFrame()
}

func opJumpI8(s *RunState, t *Thread) {
	delta := int8(t.Next())
	t.SetIP(t.IP() + int(delta) - 2)
}

func opJumpI16(s *RunState, t *Thread) {
	delta := int16(t.Next16())
	t.SetIP(t.IP() + int(delta) - 3)
}

func opJumpIfFalse(s *RunState, t *Thread) {
	delta := int16(t.Next16())
	r := t.Next()
	if t.TopFrame().Registers[r] == 0 {
		t.SetIP(t.IP() + int(delta))
	}
}

func opUNot(s *RunState, t *Thread) {
	r := t.Next()
	a := t.Next()
	f := t.TopFrame()
	f.Registers[r] = f.Registers[a] ^ 1
}

func opUNeg(s *RunState, t *Thread) {
	r := t.Next()
	a := t.Next()
	f := t.TopFrame()
	f.Registers[r] = f.Registers[a] ^ (uint64(1) << 63)
}

// opBinary returns a handler for one of B_ADD/SUB/MUL/DIV/MORE/LESS,
// parameterized over the arithmetic operator. All six share the same
// type:8, R:8, A:8, B:8 operand layout.
func opBinary(op byte) handler {
	return func(s *RunState, t *Thread) {
		typ := ValueType(t.Next())
		r := t.Next()
		a := t.Next()
		b := t.Next()
		f := t.TopFrame()
		f.Registers[r] = typedBinary(typ, f.Registers[a], f.Registers[b], op)
	}
}

// typedBinary reinterprets a and b as typ, applies op, and reinterprets
// the result back into a zero-extended 64-bit cell. Comparisons yield
// 0/1 regardless of typ. Division by zero is undefined by contract
// and is not guarded against.
func typedBinary(typ ValueType, a, b uint64, op byte) uint64 {
	if typ == ValF32 {
		return binaryFloat32(a, b, op)
	}
	if typ == ValF64 {
		return binaryFloat64(a, b, op)
	}

	width := widthOf(typ)
	if isSigned(typ) {
		return binarySigned(a, b, op, width)
	}
	return binaryUnsigned(a, b, op, width)
}

func isSigned(typ ValueType) bool {
	switch typ {
	case ValI8, ValI16, ValI32, ValI64:
		return true
	default:
		return false
	}
}

func binaryUnsigned(a, b uint64, op byte, width int) uint64 {
	m := mask64(width)
	av, bv := a&m, b&m
	switch op {
	case '+':
		return (av + bv) & m
	case '-':
		return (av - bv) & m
	case '*':
		return (av * bv) & m
	case '/':
		return (av / bv) & m
	case '>':
		return boolCell(av > bv)
	case '<':
		return boolCell(av < bv)
	default:
		return 0
	}
}

func binarySigned(a, b uint64, op byte, width int) uint64 {
	m := mask64(width)
	av := int64(signExtend(a, width))
	bv := int64(signExtend(b, width))
	switch op {
	case '+':
		return uint64(av+bv) & m
	case '-':
		return uint64(av-bv) & m
	case '*':
		return uint64(av*bv) & m
	case '/':
		return uint64(av/bv) & m
	case '>':
		return boolCell(av > bv)
	case '<':
		return boolCell(av < bv)
	default:
		return 0
	}
}

func binaryFloat32(a, b uint64, op byte) uint64 {
	av, bv := asFloat32Bits(a), asFloat32Bits(b)
	switch op {
	case '+':
		return float32ToBits(av + bv)
	case '-':
		return float32ToBits(av - bv)
	case '*':
		return float32ToBits(av * bv)
	case '/':
		return float32ToBits(av / bv)
	case '>':
		return boolCell(av > bv)
	case '<':
		return boolCell(av < bv)
	default:
		return 0
	}
}

func binaryFloat64(a, b uint64, op byte) uint64 {
	av, bv := asFloat64Bits(a), asFloat64Bits(b)
	switch op {
	case '+':
		return float64ToBits(av + bv)
	case '-':
		return float64ToBits(av - bv)
	case '*':
		return float64ToBits(av * bv)
	case '/':
		return float64ToBits(av / bv)
	case '>':
		return boolCell(av > bv)
	case '<':
		return boolCell(av < bv)
	default:
		return 0
	}
}

func boolCell(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}
