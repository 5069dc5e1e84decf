// Package ihex reads and writes Intel HEX memory images and pads address
// ranges so that every byte in them is explicitly defined.
package ihex

import "fmt"

// RecordType is the type field of an Intel HEX record.
type RecordType byte

const (
	Data                   RecordType = 0x00
	EndOfFile              RecordType = 0x01
	ExtendedSegmentAddress RecordType = 0x02
	ExtendedLinearAddress  RecordType = 0x04
)

func (t RecordType) String() string {
	switch t {
	case Data:
		return "data"
	case EndOfFile:
		return "eof"
	case ExtendedSegmentAddress:
		return "extended segment address"
	case ExtendedLinearAddress:
		return "extended linear address"
	}
	return fmt.Sprintf("type 0x%02X", byte(t))
}

const (
	// StartCode marks the beginning of every record line.
	StartCode = ':'

	// MaxRecordSize is the payload size used when writing data records.
	MaxRecordSize = 16

	// FillerByte forces the flashing tool to really write an address.
	// Writing the erased value would leave the cell untouched.
	FillerByte byte = 0x00

	// ErasedByte is the state of unwritten flash.
	ErasedByte byte = 0xFF
)

// Record is one decoded line of an Intel HEX file.
type Record struct {
	ByteCount byte
	Offset    uint16
	Type      RecordType
	Payload   []byte
	// Checksum as read from the line; not recomputed unless verification is enabled.
	Checksum byte
}

// Value returns the 16-bit big-endian value carried by an address record.
func (r Record) Value() uint16 {
	if len(r.Payload) < 2 {
		return 0
	}
	return uint16(r.Payload[0])<<8 | uint16(r.Payload[1])
}

func (r Record) bytes() []byte {
	b := make([]byte, 0, 4+len(r.Payload))
	b = append(b, r.ByteCount, byte(r.Offset>>8), byte(r.Offset), byte(r.Type))
	return append(b, r.Payload...)
}

// Checksum returns the two's complement of the byte sum modulo 256.
func Checksum(b []byte) byte {
	var sum byte
	for _, v := range b {
		sum += v
	}
	return ^sum + 1
}
