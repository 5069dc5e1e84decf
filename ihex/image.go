package ihex

import (
	"fmt"
	"slices"
)

// Range is an inclusive address range.
type Range struct {
	Start uint32
	End   uint32
}

// NewRange returns the range [start, end].
func NewRange(start, end uint32) (Range, error) {
	if start > end {
		return Range{}, fmt.Errorf("%w: 0x%08X > 0x%08X", ErrInvalidRange, start, end)
	}
	return Range{Start: start, End: end}, nil
}

// Len returns the number of addresses in the range.
func (r Range) Len() uint64 {
	return uint64(r.End) - uint64(r.Start) + 1
}

func (r Range) Contains(addr uint32) bool {
	return addr >= r.Start && addr <= r.End
}

// SingleSegment reports whether both ends share the same upper 16 address bits.
func (r Range) SingleSegment() bool {
	return r.Start>>16 == r.End>>16
}

func (r Range) String() string {
	return fmt.Sprintf("[0x%08X, 0x%08X]", r.Start, r.End)
}

// Image is a sparse memory image holding only explicitly defined bytes.
type Image struct {
	mem map[uint32]byte
}

func NewImage() *Image {
	return &Image{mem: make(map[uint32]byte)}
}

func (m *Image) Set(addr uint32, b byte) {
	m.mem[addr] = b
}

func (m *Image) Get(addr uint32) (byte, bool) {
	b, ok := m.mem[addr]
	return b, ok
}

func (m *Image) Has(addr uint32) bool {
	_, ok := m.mem[addr]
	return ok
}

func (m *Image) Len() int {
	return len(m.mem)
}

// Addresses returns all defined addresses in ascending order.
func (m *Image) Addresses() []uint32 {
	addrs := make([]uint32, 0, len(m.mem))
	for a := range m.mem {
		addrs = append(addrs, a)
	}
	slices.Sort(addrs)
	return addrs
}

// Equal reports whether both images define the same bytes.
func (m *Image) Equal(o *Image) bool {
	if len(m.mem) != len(o.mem) {
		return false
	}
	for a, b := range m.mem {
		if v, ok := o.mem[a]; !ok || v != b {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the image.
func (m *Image) Clone() *Image {
	c := &Image{mem: make(map[uint32]byte, len(m.mem))}
	for a, b := range m.mem {
		c.mem[a] = b
	}
	return c
}

// Build applies records in order to a new image. The upper address set by
// extended address records stays in effect until the next one.
// Record types other than data, extended address and end of file are ignored.
func Build(records []Record) *Image {
	img := NewImage()
	var upper uint32
	for _, rec := range records {
		switch rec.Type {
		case ExtendedLinearAddress:
			upper = uint32(rec.Value()) << 16
		case ExtendedSegmentAddress:
			upper = uint32(rec.Value()) << 4
		case Data:
			addr := upper + uint32(rec.Offset)
			for i, b := range rec.Payload {
				img.Set(addr+uint32(i), b)
			}
		case EndOfFile:
			return img
		}
	}
	return img
}

// Pad defines every missing address in r with filler and returns how many
// bytes were added. Bytes already present are left as they are.
func (m *Image) Pad(r Range, filler byte) int {
	added := 0
	for a := uint64(r.Start); a <= uint64(r.End); a++ {
		addr := uint32(a)
		if _, ok := m.mem[addr]; ok {
			continue
		}
		m.mem[addr] = filler
		added++
	}
	return added
}

// Bytes returns the contents of r, failing on the first undefined address.
func (m *Image) Bytes(r Range) ([]byte, error) {
	out := make([]byte, 0, r.Len())
	for a := uint64(r.Start); a <= uint64(r.End); a++ {
		b, ok := m.mem[uint32(a)]
		if !ok {
			return nil, fmt.Errorf("%w: 0x%08X", ErrUndefinedAddress, a)
		}
		out = append(out, b)
	}
	return out, nil
}
