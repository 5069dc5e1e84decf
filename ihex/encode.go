package ihex

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

type encoder struct {
	size  int
	split bool
}

// EncodeOption configures Encode.
type EncodeOption func(*encoder)

// WithRecordSize sets the maximum payload of each data record, 1 to
// MaxRecordSize. Smaller records suit loaders with short line buffers.
func WithRecordSize(n int) EncodeOption {
	return func(e *encoder) {
		e.size = n
	}
}

// WithSegmentSplit allows ranges spanning several 64KiB segments by emitting
// an extended linear address record at each segment boundary.
func WithSegmentSplit() EncodeOption {
	return func(e *encoder) {
		e.split = true
	}
}

// NewRecord builds a record with its byte count and checksum filled in.
func NewRecord(t RecordType, offset uint16, payload []byte) Record {
	rec := Record{
		ByteCount: byte(len(payload)),
		Offset:    offset,
		Type:      t,
		Payload:   payload,
	}
	rec.Checksum = Checksum(rec.bytes())
	return rec
}

func linearAddressRecord(segment uint32) Record {
	return NewRecord(ExtendedLinearAddress, 0, []byte{byte(segment >> 8), byte(segment)})
}

// String formats the record as a line without terminator.
func (r Record) String() string {
	var sb strings.Builder
	sb.Grow(11 + 2*len(r.Payload))
	sb.WriteByte(StartCode)
	fmt.Fprintf(&sb, "%02X%04X%02X", r.ByteCount, r.Offset, byte(r.Type))
	sb.WriteString(strings.ToUpper(hex.EncodeToString(r.Payload)))
	fmt.Fprintf(&sb, "%02X", r.Checksum)
	return sb.String()
}

// Encode writes the bytes of r as one extended linear address record, data
// records of at most 16 bytes and an end of file record. Every address in r
// must be defined in img. It returns the number of records written.
func Encode(w io.Writer, img *Image, r Range, opts ...EncodeOption) (int, error) {
	e := &encoder{size: MaxRecordSize}
	for _, opt := range opts {
		opt(e)
	}
	if e.size < 1 || e.size > MaxRecordSize {
		return 0, fmt.Errorf("ihex: invalid record size %d", e.size)
	}
	if r.Start > r.End {
		return 0, ErrInvalidRange
	}
	if !r.SingleSegment() && !e.split {
		return 0, fmt.Errorf("%w: %s", ErrSegmentCrossing, r)
	}

	bw := bufio.NewWriter(w)
	n := 0
	emit := func(rec Record) error {
		if _, err := bw.WriteString(rec.String() + "\n"); err != nil {
			return err
		}
		n++
		return nil
	}

	segment := r.Start >> 16
	if err := emit(linearAddressRecord(segment)); err != nil {
		return n, err
	}
	end := uint64(r.End)
	for cur := uint64(r.Start); cur <= end; {
		addr := uint32(cur)
		if addr>>16 != segment {
			segment = addr >> 16
			if err := emit(linearAddressRecord(segment)); err != nil {
				return n, err
			}
		}
		count := min(uint64(e.size), end-cur+1)
		// a data record never straddles the segment boundary
		if last := uint64(segment)<<16 | 0xFFFF; cur+count-1 > last {
			count = last - cur + 1
		}
		payload := make([]byte, count)
		for i := range payload {
			b, ok := img.Get(addr + uint32(i))
			if !ok {
				return n, fmt.Errorf("%w: 0x%08X", ErrUndefinedAddress, addr+uint32(i))
			}
			payload[i] = b
		}
		if err := emit(NewRecord(Data, uint16(addr), payload)); err != nil {
			return n, err
		}
		cur += count
	}
	if err := emit(NewRecord(EndOfFile, 0, nil)); err != nil {
		return n, err
	}
	return n, bw.Flush()
}
