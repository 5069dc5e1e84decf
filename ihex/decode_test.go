package ihex

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Record
	}{
		{
			name:  "data record",
			input: ":0300300002337A1E\n:00000001FF\n",
			want: []Record{
				{ByteCount: 3, Offset: 0x0030, Type: Data, Payload: []byte{0x02, 0x33, 0x7A}, Checksum: 0x1E},
				{ByteCount: 0, Offset: 0, Type: EndOfFile, Payload: []byte{}, Checksum: 0xFF},
			},
		},
		{
			name:  "lowercase and crlf",
			input: ":02000004000ded\r\n:00000001ff\r\n",
			want: []Record{
				{ByteCount: 2, Offset: 0, Type: ExtendedLinearAddress, Payload: []byte{0x00, 0x0D}, Checksum: 0xED},
				{ByteCount: 0, Offset: 0, Type: EndOfFile, Payload: []byte{}, Checksum: 0xFF},
			},
		},
		{
			name:  "stray text is skipped",
			input: "# generated\n\n:01000000AB54\nnot a record\n:00000001FF\n",
			want: []Record{
				{ByteCount: 1, Offset: 0, Type: Data, Payload: []byte{0xAB}, Checksum: 0x54},
				{ByteCount: 0, Offset: 0, Type: EndOfFile, Payload: []byte{}, Checksum: 0xFF},
			},
		},
		{
			name:  "stops at end of file",
			input: ":00000001FF\n:ZZ garbage after eof\n:01000000AB54\n",
			want: []Record{
				{ByteCount: 0, Offset: 0, Type: EndOfFile, Payload: []byte{}, Checksum: 0xFF},
			},
		},
		{
			name:  "checksum is trusted",
			input: ":01000000AB00\n",
			want: []Record{
				{ByteCount: 1, Offset: 0, Type: Data, Payload: []byte{0xAB}, Checksum: 0x00},
			},
		},
		{
			name:  "long stray line",
			input: "# " + strings.Repeat("x", 70000) + "\n:01000000AB54\n:00000001FF\n",
			want: []Record{
				{ByteCount: 1, Offset: 0, Type: Data, Payload: []byte{0xAB}, Checksum: 0x54},
				{ByteCount: 0, Offset: 0, Type: EndOfFile, Payload: []byte{}, Checksum: 0xFF},
			},
		},
		{
			name:  "no trailing newline",
			input: ":01000000AB54\n:00000001FF",
			want: []Record{
				{ByteCount: 1, Offset: 0, Type: Data, Payload: []byte{0xAB}, Checksum: 0x54},
				{ByteCount: 0, Offset: 0, Type: EndOfFile, Payload: []byte{}, Checksum: 0xFF},
			},
		},
		{
			name:  "no end of file",
			input: ":01000000AB54\n",
			want: []Record{
				{ByteCount: 1, Offset: 0, Type: Data, Payload: []byte{0xAB}, Checksum: 0x54},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("records = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				assertRecord(t, i, got[i], tt.want[i])
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		errMsg string
	}{
		{"too short", ":0000\n", 1, "record too short"},
		{"invalid header", ":0G000000FF\n", 1, "invalid record header"},
		{"truncated data", "\n:0200000001\n", 2, "declares 2 data bytes"},
		{"invalid data", ":01000000XY54\n", 1, "invalid record data"},
		{"invalid checksum digits", ":01000000AB5Q\n", 1, "invalid record data"},
		{"short address record", ":0100000400FB\n", 1, "needs 2 data bytes"},
		{"after long stray line", strings.Repeat("-", 70000) + "\n:01000000ZZ54\n", 2, "invalid record data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.errMsg)
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("error = %T, want *FormatError", err)
			}
			if fe.Line != tt.line {
				t.Errorf("Line = %d, want %d", fe.Line, tt.line)
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error = %v, want substring %q", err, tt.errMsg)
			}
		})
	}
}

func TestDecodeChecksumVerification(t *testing.T) {
	good := ":01000000AB54\n:00000001FF\n"
	if _, err := Decode(strings.NewReader(good), WithChecksumVerification()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := ":01000000AB00\n:00000001FF\n"
	_, err := Decode(strings.NewReader(bad), WithChecksumVerification())
	if !IsFormatError(err) {
		t.Fatalf("error = %v, want FormatError", err)
	}
	if !strings.Contains(err.Error(), "checksum mismatch") {
		t.Errorf("error = %v, want checksum mismatch", err)
	}
}

func TestDecodeLongRecord(t *testing.T) {
	payload := bytes.Repeat([]byte{0x5A}, 255)
	line := NewRecord(Data, 0x1000, payload).String()
	got, err := DecodeLines([]string{line, ":00000001FF"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("records = %d, want 2", len(got))
	}
	if got[0].ByteCount != 0xFF || !bytes.Equal(got[0].Payload, payload) {
		t.Errorf("long record not decoded: count=%d len=%d", got[0].ByteCount, len(got[0].Payload))
	}
}

func TestDecodeLinesStopsAtEOF(t *testing.T) {
	got, err := DecodeLines([]string{":00000001FF", ":bad"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Type != EndOfFile {
		t.Errorf("records = %v, want single eof", got)
	}
}

func assertRecord(t *testing.T, i int, got, want Record) {
	t.Helper()
	if got.ByteCount != want.ByteCount {
		t.Errorf("Record[%d].ByteCount = %d, want %d", i, got.ByteCount, want.ByteCount)
	}
	if got.Offset != want.Offset {
		t.Errorf("Record[%d].Offset = 0x%04X, want 0x%04X", i, got.Offset, want.Offset)
	}
	if got.Type != want.Type {
		t.Errorf("Record[%d].Type = %s, want %s", i, got.Type, want.Type)
	}
	if !bytes.Equal(got.Payload, want.Payload) {
		t.Errorf("Record[%d].Payload = % X, want % X", i, got.Payload, want.Payload)
	}
	if got.Checksum != want.Checksum {
		t.Errorf("Record[%d].Checksum = 0x%02X, want 0x%02X", i, got.Checksum, want.Checksum)
	}
}
