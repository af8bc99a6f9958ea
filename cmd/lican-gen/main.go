// lican-gen writes sample bytecode chunks to disk for manual testing and
// bug reports. It is a developer convenience external to the VM core:
// named, selectable scenarios written out as ordinary .lch ("lican
// chunk") files.
package main

import (
	"bytes"
	"encoding/binary"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/lican-lang/lican/pkg/bytecode"
)

func main() {
	name := flag.String("scenario", "add", "Scenario to generate: add, float-add, bool-not, heap-roundtrip")
	out := flag.String("o", "", "Output path (defaults to <scenario>.lch)")
	flag.Parse()

	gen, ok := scenarios[*name]
	if !ok {
		fmt.Fprintf(os.Stderr, "lican-gen: unknown scenario %q\n", *name)
		os.Exit(1)
	}

	path := *out
	if path == "" {
		path = *name + ".lch"
	}

	if err := os.WriteFile(path, gen(), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "lican-gen: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", path)
}

var scenarios = map[string]func() []byte{
	"add":            genAdd,
	"float-add":      genFloatAdd,
	"bool-not":       genBoolNot,
	"heap-roundtrip": genHeapRoundTrip,
}

func u16le(v uint16) []byte { b := make([]byte, 2); binary.LittleEndian.PutUint16(b, v); return b }
func u32le(v uint32) []byte { b := make([]byte, 4); binary.LittleEndian.PutUint32(b, v); return b }

func header(staticSize uint32, literals [][]byte) []byte {
	var buf bytes.Buffer
	buf.Write(u32le(staticSize))
	buf.Write(u16le(uint16(len(literals))))
	for _, l := range literals {
		buf.Write(l)
	}
	return buf.Bytes()
}

func u32Literal(v uint32) []byte { return append([]byte{4}, u32le(v)...) }
func u8Literal(v uint8) []byte   { return []byte{1, v} }

// genAdd produces scenario 1: LOAD R0,L0; LOAD R1,L1; B_ADD U32,R2,R0,R1; OUT U32,R2; RETURN.
func genAdd() []byte {
	chunk := header(0, [][]byte{u32Literal(25), u32Literal(12)})
	chunk = append(chunk, byte(bytecode.OpLoad), 0)
	chunk = append(chunk, u16le(0)...)
	chunk = append(chunk, byte(bytecode.OpLoad), 1)
	chunk = append(chunk, u16le(1)...)
	chunk = append(chunk, byte(bytecode.OpAdd), byte(bytecode.ValU32), 2, 0, 1)
	chunk = append(chunk, byte(bytecode.OpOut), byte(bytecode.ValU32), 2)
	chunk = append(chunk, byte(bytecode.OpReturn))
	return chunk
}

// genFloatAdd produces scenario 2: -52.0 + 24.0 as f32.
func genFloatAdd() []byte {
	chunk := header(0, [][]byte{u32Literal(math.Float32bits(-52.0)), u32Literal(math.Float32bits(24.0))})
	chunk = append(chunk, byte(bytecode.OpLoad), 0)
	chunk = append(chunk, u16le(0)...)
	chunk = append(chunk, byte(bytecode.OpLoad), 1)
	chunk = append(chunk, u16le(1)...)
	chunk = append(chunk, byte(bytecode.OpAdd), byte(bytecode.ValF32), 2, 0, 1)
	chunk = append(chunk, byte(bytecode.OpOut), byte(bytecode.ValF32), 2)
	chunk = append(chunk, byte(bytecode.OpReturn))
	return chunk
}

// genBoolNot produces scenario 3: LOAD R0,L0(=0); U_NOT R1,R0; OUT BOOL R0; OUT BOOL R1; RETURN.
func genBoolNot() []byte {
	chunk := header(0, [][]byte{u8Literal(0)})
	chunk = append(chunk, byte(bytecode.OpLoad), 0)
	chunk = append(chunk, u16le(0)...)
	chunk = append(chunk, byte(bytecode.OpUNot), 1, 0)
	chunk = append(chunk, byte(bytecode.OpOut), byte(bytecode.ValBool), 0)
	chunk = append(chunk, byte(bytecode.OpOut), byte(bytecode.ValBool), 1)
	chunk = append(chunk, byte(bytecode.OpReturn))
	return chunk
}

// genHeapRoundTrip produces scenario 4: (5+3) written to a freshly
// malloc'd 4-byte cell and read back.
func genHeapRoundTrip() []byte {
	chunk := header(0, [][]byte{u32Literal(5), u32Literal(3), u32Literal(4)})
	chunk = append(chunk, byte(bytecode.OpLoad), 0)
	chunk = append(chunk, u16le(0)...)
	chunk = append(chunk, byte(bytecode.OpLoad), 1)
	chunk = append(chunk, u16le(1)...)
	chunk = append(chunk, byte(bytecode.OpAdd), byte(bytecode.ValI32), 2, 0, 1)
	chunk = append(chunk, byte(bytecode.OpLoad), 4)
	chunk = append(chunk, u16le(2)...)
	chunk = append(chunk, byte(bytecode.OpMalloc), 3, 4)
	chunk = append(chunk, byte(bytecode.OpMwrite), 3, 2, 4)
	chunk = append(chunk, byte(bytecode.OpMread), 3, 4, 4)
	chunk = append(chunk, byte(bytecode.OpOut), byte(bytecode.ValI32), 4)
	chunk = append(chunk, byte(bytecode.OpReturn))
	return chunk
}
