package ihex

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
)

func TestNewRange(t *testing.T) {
	r, err := NewRange(0xD0000, 0xD0003)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Len() != 4 {
		t.Errorf("Len() = %d, want 4", r.Len())
	}
	if !r.Contains(0xD0003) || r.Contains(0xD0004) {
		t.Errorf("Contains() wrong for %s", r)
	}
	if _, err := NewRange(2, 1); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("error = %v, want ErrInvalidRange", err)
	}
	full := Range{Start: 0, End: 0xFFFFFFFF}
	if full.Len() != 1<<32 {
		t.Errorf("Len() = %d, want 1<<32", full.Len())
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[uint32]byte
	}{
		{
			name:  "linear address",
			input: ":02000004000DED\n:02FFFE00AABB9C\n:00000001FF\n",
			want:  map[uint32]byte{0xDFFFE: 0xAA, 0xDFFFF: 0xBB},
		},
		{
			name:  "segment address",
			input: ":020000021000EC\n:0100040042B9\n:00000001FF\n",
			want:  map[uint32]byte{0x10004: 0x42},
		},
		{
			name:  "context persists until overwritten",
			input: ":020000040001F9\n:0100000011EE\n:0100010022DC\n:020000040002F8\n:0100000033CC\n:00000001FF\n",
			want:  map[uint32]byte{0x10000: 0x11, 0x10001: 0x22, 0x20000: 0x33},
		},
		{
			name:  "last writer wins",
			input: ":020000001122CB\n:0100010033CB\n:00000001FF\n",
			want:  map[uint32]byte{0x0000: 0x11, 0x0001: 0x33},
		},
		{
			name:  "start address record ignored",
			input: ":04000005000000CD2A\n:0100000011EE\n:00000001FF\n",
			want:  map[uint32]byte{0x0000: 0x11},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Decode(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			img := Build(records)
			if img.Len() != len(tt.want) {
				t.Fatalf("Len() = %d, want %d", img.Len(), len(tt.want))
			}
			for addr, want := range tt.want {
				got, ok := img.Get(addr)
				if !ok || got != want {
					t.Errorf("image[0x%08X] = 0x%02X (%v), want 0x%02X", addr, got, ok, want)
				}
			}
		})
	}
}

func TestBuildStopsAtEOF(t *testing.T) {
	records := []Record{
		NewRecord(Data, 0, []byte{0x01}),
		NewRecord(EndOfFile, 0, nil),
		NewRecord(Data, 1, []byte{0x02}),
	}
	img := Build(records)
	if img.Has(1) {
		t.Errorf("record after eof was applied")
	}
}

func TestPadScenario(t *testing.T) {
	img := NewImage()
	img.Set(0xD0000, 0xAB)
	added := img.Pad(Range{Start: 0xD0000, End: 0xD0003}, FillerByte)
	if added != 3 {
		t.Errorf("added = %d, want 3", added)
	}
	want := map[uint32]byte{0xD0000: 0xAB, 0xD0001: 0x00, 0xD0002: 0x00, 0xD0003: 0x00}
	if img.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", img.Len(), len(want))
	}
	for addr, b := range want {
		if got, _ := img.Get(addr); got != b {
			t.Errorf("image[0x%08X] = 0x%02X, want 0x%02X", addr, got, b)
		}
	}
}

func TestPadProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	r := Range{Start: 0xD0100, End: 0xD02FF}

	for iter := 0; iter < 20; iter++ {
		orig := NewImage()
		for i := 0; i < 300; i++ {
			// cover addresses on both sides of the range
			addr := uint32(0xD0000 + rng.Intn(0x400))
			orig.Set(addr, byte(rng.Intn(256)))
		}
		filler := byte(rng.Intn(256))
		padded := orig.Clone()
		padded.Pad(r, filler)

		for a := r.Start; a <= r.End; a++ {
			got, ok := padded.Get(a)
			if !ok {
				t.Fatalf("address 0x%08X undefined after padding", a)
			}
			if want, had := orig.Get(a); had {
				if got != want {
					t.Fatalf("address 0x%08X = 0x%02X, want original 0x%02X", a, got, want)
				}
			} else if got != filler {
				t.Fatalf("address 0x%08X = 0x%02X, want filler 0x%02X", a, got, filler)
			}
		}
		for _, a := range padded.Addresses() {
			if r.Contains(a) {
				continue
			}
			want, had := orig.Get(a)
			if !had {
				t.Fatalf("address 0x%08X outside range was added", a)
			}
			if got, _ := padded.Get(a); got != want {
				t.Fatalf("address 0x%08X outside range was changed", a)
			}
		}
		for _, a := range orig.Addresses() {
			if !padded.Has(a) {
				t.Fatalf("address 0x%08X was removed", a)
			}
		}
	}
}

func TestPadIsIdempotent(t *testing.T) {
	img := NewImage()
	img.Set(0x10, 0x99)
	r := Range{Start: 0x08, End: 0x18}
	img.Pad(r, FillerByte)
	before := img.Clone()
	if added := img.Pad(r, ErasedByte); added != 0 {
		t.Errorf("second pad added %d bytes", added)
	}
	if !img.Equal(before) {
		t.Errorf("second pad changed the image")
	}
}

func TestPadTopOfAddressSpace(t *testing.T) {
	img := NewImage()
	if added := img.Pad(Range{Start: 0xFFFFFFFE, End: 0xFFFFFFFF}, FillerByte); added != 2 {
		t.Errorf("added = %d, want 2", added)
	}
}

func TestImageBytes(t *testing.T) {
	img := NewImage()
	img.Set(1, 0x11)
	img.Set(2, 0x22)
	b, err := img.Bytes(Range{Start: 1, End: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b) != 2 || b[0] != 0x11 || b[1] != 0x22 {
		t.Errorf("Bytes() = % X", b)
	}
	if _, err := img.Bytes(Range{Start: 0, End: 2}); !errors.Is(err, ErrUndefinedAddress) {
		t.Errorf("error = %v, want ErrUndefinedAddress", err)
	}
}
