// Package snapshot serializes a point-in-time diagnostic view of a VM
// run to CBOR (github.com/fxamacker/cbor/v2 with canonical encoding
// options). A snapshot is never read back by the VM itself — it exists
// only for -dump, a debugging aid external to the chunk format.
package snapshot

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("snapshot: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// FreeRegion mirrors the heap's internal free-region record for
// serialization purposes.
type FreeRegion struct {
	Addr uint64 `cbor:"addr"`
	Size uint64 `cbor:"size"`
}

// Snapshot captures final heap bytes, the free-region list, static
// memory, and thread 0's last register file after a run completes.
type Snapshot struct {
	HeapBytes   []byte       `cbor:"heap_bytes"`
	FreeRegions []FreeRegion `cbor:"free_regions"`
	StaticBytes []byte       `cbor:"static_bytes"`
	Registers   [256]uint64  `cbor:"registers"`
}

// Marshal serializes s to CBOR bytes using canonical (deterministic)
// encoding.
func Marshal(s *Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// Unmarshal decodes CBOR bytes produced by Marshal. Provided for
// symmetry and for tests; the VM itself never calls it.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("snapshot: unmarshal: %w", err)
	}
	return &s, nil
}
