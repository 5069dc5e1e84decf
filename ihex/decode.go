package ihex

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// headerLength is byteCount + offset + type in hex characters.
const headerLength = 8

type decoder struct {
	verify bool
}

// DecodeOption configures Decode.
type DecodeOption func(*decoder)

// WithChecksumVerification rejects records whose checksum does not match.
// By default checksums are taken as read.
func WithChecksumVerification() DecodeOption {
	return func(d *decoder) {
		d.verify = true
	}
}

// Decode reads records from r up to and including the first end of file record.
// Lines that do not start with ':' are skipped.
func Decode(r io.Reader, opts ...DecodeOption) ([]Record, error) {
	d := newDecoder(opts)
	br := bufio.NewReader(r)
	var records []Record
	lineNum := 0
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			lineNum++
			rec, ok, derr := d.decodeLine(lineNum, strings.TrimSuffix(line, "\n"))
			if derr != nil {
				return nil, derr
			}
			if ok {
				records = append(records, *rec)
				if rec.Type == EndOfFile {
					return records, nil
				}
			}
		}
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("ihex: read: %w", err)
		}
	}
}

// DecodeLines is Decode over lines that are already split.
func DecodeLines(lines []string, opts ...DecodeOption) ([]Record, error) {
	d := newDecoder(opts)
	var records []Record
	for i, line := range lines {
		rec, ok, err := d.decodeLine(i+1, line)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		records = append(records, *rec)
		if rec.Type == EndOfFile {
			break
		}
	}
	return records, nil
}

func newDecoder(opts []DecodeOption) *decoder {
	d := &decoder{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *decoder) decodeLine(lineNum int, text string) (*Record, bool, error) {
	line := strings.TrimRight(text, " \t\r\n")
	if len(line) == 0 || line[0] != StartCode {
		return nil, false, nil
	}
	fail := func(format string, args ...any) error {
		return &FormatError{Line: lineNum, Text: text, Reason: fmt.Sprintf(format, args...)}
	}

	body := line[1:]
	if len(body) < headerLength+2 {
		return nil, false, fail("record too short: %d characters", len(body))
	}
	head, err := hex.DecodeString(body[:headerLength])
	if err != nil {
		return nil, false, fail("invalid record header: %v", err)
	}
	count := int(head[0])
	need := headerLength + count*2 + 2
	if len(body) < need {
		return nil, false, fail("record declares %d data bytes but is %d characters long", count, len(body))
	}
	rest, err := hex.DecodeString(body[headerLength:need])
	if err != nil {
		return nil, false, fail("invalid record data: %v", err)
	}

	rec := &Record{
		ByteCount: head[0],
		Offset:    uint16(head[1])<<8 | uint16(head[2]),
		Type:      RecordType(head[3]),
		Payload:   rest[:count],
		Checksum:  rest[count],
	}
	switch rec.Type {
	case ExtendedLinearAddress, ExtendedSegmentAddress:
		if count < 2 {
			return nil, false, fail("%s record needs 2 data bytes, has %d", rec.Type, count)
		}
	}
	if d.verify {
		if sum := Checksum(rec.bytes()); sum != rec.Checksum {
			return nil, false, fail("checksum mismatch: got 0x%02X, expected 0x%02X", rec.Checksum, sum)
		}
	}
	return rec, true, nil
}
