package nrf

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/marcinbor85/gohex"

	"github.com/q0jt/go-mfghex/ihex"
)

// Segment is a contiguous run of bytes read from a HEX file.
type Segment struct {
	Address uint32
	Data    []byte
}

// ReadSegments parses an Intel HEX file with checksum verification and
// returns its data segments in address order.
func ReadSegments(name string) ([]Segment, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, &IOError{Op: "read", Path: name, Err: err}
	}
	defer f.Close()
	return readSegments(f)
}

func readSegments(r io.Reader) ([]Segment, error) {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(r); err != nil {
		return nil, err
	}
	var segs []Segment
	for _, s := range mem.GetDataSegments() {
		segs = append(segs, Segment{Address: s.Address, Data: s.Data})
	}
	return segs, nil
}

// RegionToBinary returns the bytes of r from HEX data, with undefined
// addresses set to pad.
func RegionToBinary(b []byte, r ihex.Range, pad byte) ([]byte, error) {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(bytes.NewReader(b)); err != nil {
		return nil, err
	}
	return mem.ToBinary(r.Start, uint32(r.Len()), pad), nil
}

// verifyHexFile reads a written file back and checks it holds exactly one
// segment equal to want starting at r.Start.
func verifyHexFile(name string, r ihex.Range, want []byte) error {
	segs, err := ReadSegments(name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrVerifyFailed, err)
	}
	if len(segs) != 1 {
		return fmt.Errorf("%w: %d segments, want 1", ErrVerifyFailed, len(segs))
	}
	s := segs[0]
	if s.Address != r.Start || !bytes.Equal(s.Data, want) {
		return fmt.Errorf("%w: segment 0x%08X+%d does not match %s", ErrVerifyFailed, s.Address, len(s.Data), r)
	}
	return nil
}
