package bytecode

import "testing"

func TestMergeAndSplitRoundTrip(t *testing.T) {
	got16 := mergeL16(0xCD, 0xAB)
	if got16 != 0xABCD {
		t.Errorf("mergeL16 = %#x, want 0xABCD", got16)
	}

	got32 := mergeL32(0x78, 0x56, 0x34, 0x12)
	if got32 != 0x12345678 {
		t.Errorf("mergeL32 = %#x, want 0x12345678", got32)
	}

	b := [8]byte{1, 0, 0, 0, 0, 0, 0, 0}
	if got := mergeL64(b); got != 1 {
		t.Errorf("mergeL64 = %d, want 1", got)
	}

	dst := make([]byte, 4)
	splitL(dst, 0x12345678, 4)
	if mergeL32(dst[0], dst[1], dst[2], dst[3]) != 0x12345678 {
		t.Errorf("splitL/mergeL32 round trip failed: %v", dst)
	}
}

func TestMask64(t *testing.T) {
	cases := map[int]uint64{8: 0xFF, 16: 0xFFFF, 32: 0xFFFFFFFF, 64: ^uint64(0)}
	for width, want := range cases {
		if got := mask64(width); got != want {
			t.Errorf("mask64(%d) = %#x, want %#x", width, got, want)
		}
	}
}

func TestSignExtend(t *testing.T) {
	// 0xFF as an 8-bit signed value is -1; sign-extended to 64 bits that's
	// all ones.
	if got := signExtend(0xFF, 8); got != ^uint64(0) {
		t.Errorf("signExtend(0xFF, 8) = %#x, want all-ones", got)
	}
	if got := signExtend(0x7F, 8); got != 0x7F {
		t.Errorf("signExtend(0x7F, 8) = %#x, want 0x7F", got)
	}
}

func TestFloatBitsRoundTrip(t *testing.T) {
	f := float32(-28.0)
	bits := float32ToBits(f)
	if asFloat32Bits(bits) != f {
		t.Errorf("float32 round trip failed for %v", f)
	}

	d := 3.25
	dbits := float64ToBits(d)
	if asFloat64Bits(dbits) != d {
		t.Errorf("float64 round trip failed for %v", d)
	}
}
