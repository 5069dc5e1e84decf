package nrf

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
)

const (
	uf2MagicStart0 = 0x0A324655
	uf2MagicStart1 = 0x9E5D5157
	uf2MagicEnd    = 0x0AB16F30

	// UF2FlagFamilyID marks FamilyID as valid.
	UF2FlagFamilyID = 0x00002000

	uf2BlockSize   = 512
	uf2PageSize    = 256
	uf2MaxDataSize = 476
)

var errInvalidUF2 = errors.New("invalid uf2 file")

// UF2Block is one 512-byte block of a UF2 file.
type UF2Block struct {
	Flags      uint32
	TargetAddr uint32
	BlockNo    uint32
	NumBlocks  uint32
	FamilyID   uint32
	Data       []byte
}

// NativeConverter writes UF2 images without an external tool. Like
// uf2conv.py it emits one block per 256-byte page touched by the HEX file;
// bytes of a page the file does not define are zero.
type NativeConverter struct{}

func (NativeConverter) Convert(ctx context.Context, hexPath, imagePath string, family uint32) error {
	segs, err := ReadSegments(hexPath)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := WriteUF2(&buf, pageBlocks(segs, family)); err != nil {
		return err
	}
	return writeFileAtomic(imagePath, buf.Bytes())
}

func pageBlocks(segs []Segment, family uint32) []UF2Block {
	pages := map[uint32][]byte{}
	for _, s := range segs {
		for i, b := range s.Data {
			addr := s.Address + uint32(i)
			base := addr &^ (uf2PageSize - 1)
			page, ok := pages[base]
			if !ok {
				page = make([]byte, uf2PageSize)
				pages[base] = page
			}
			page[addr-base] = b
		}
	}
	bases := make([]uint32, 0, len(pages))
	for base := range pages {
		bases = append(bases, base)
	}
	slices.Sort(bases)

	blocks := make([]UF2Block, len(bases))
	for i, base := range bases {
		blocks[i] = UF2Block{
			Flags:      UF2FlagFamilyID,
			TargetAddr: base,
			BlockNo:    uint32(i),
			NumBlocks:  uint32(len(bases)),
			FamilyID:   family,
			Data:       pages[base],
		}
	}
	return blocks
}

// WriteUF2 writes blocks in UF2 format.
func WriteUF2(w io.Writer, blocks []UF2Block) error {
	b := make([]byte, uf2BlockSize)
	for _, blk := range blocks {
		if len(blk.Data) > uf2MaxDataSize {
			return fmt.Errorf("uf2: block %d: %d data bytes", blk.BlockNo, len(blk.Data))
		}
		clear(b)
		binary.LittleEndian.PutUint32(b[0:], uf2MagicStart0)
		binary.LittleEndian.PutUint32(b[4:], uf2MagicStart1)
		binary.LittleEndian.PutUint32(b[8:], blk.Flags)
		binary.LittleEndian.PutUint32(b[12:], blk.TargetAddr)
		binary.LittleEndian.PutUint32(b[16:], uint32(len(blk.Data)))
		binary.LittleEndian.PutUint32(b[20:], blk.BlockNo)
		binary.LittleEndian.PutUint32(b[24:], blk.NumBlocks)
		binary.LittleEndian.PutUint32(b[28:], blk.FamilyID)
		copy(b[32:], blk.Data)
		binary.LittleEndian.PutUint32(b[508:], uf2MagicEnd)
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// ReadUF2 parses the blocks of a UF2 file.
func ReadUF2(r io.Reader) ([]UF2Block, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || len(data)%uf2BlockSize != 0 {
		return nil, fmt.Errorf("%w: size %d is not a multiple of %d", errInvalidUF2, len(data), uf2BlockSize)
	}
	var blocks []UF2Block
	for i := 0; i < len(data); i += uf2BlockSize {
		b := data[i : i+uf2BlockSize]
		if binary.LittleEndian.Uint32(b[0:]) != uf2MagicStart0 ||
			binary.LittleEndian.Uint32(b[4:]) != uf2MagicStart1 ||
			binary.LittleEndian.Uint32(b[508:]) != uf2MagicEnd {
			return nil, fmt.Errorf("%w: block %d: bad magic", errInvalidUF2, i/uf2BlockSize)
		}
		size := binary.LittleEndian.Uint32(b[16:])
		if size > uf2MaxDataSize {
			return nil, fmt.Errorf("%w: block %d: payload size %d", errInvalidUF2, i/uf2BlockSize, size)
		}
		blocks = append(blocks, UF2Block{
			Flags:      binary.LittleEndian.Uint32(b[8:]),
			TargetAddr: binary.LittleEndian.Uint32(b[12:]),
			BlockNo:    binary.LittleEndian.Uint32(b[20:]),
			NumBlocks:  binary.LittleEndian.Uint32(b[24:]),
			FamilyID:   binary.LittleEndian.Uint32(b[28:]),
			Data:       slices.Clone(b[32 : 32+size]),
		})
	}
	return blocks, nil
}

// ReadUF2File is ReadUF2 on a named file.
func ReadUF2File(name string) ([]UF2Block, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, &IOError{Op: "read", Path: name, Err: err}
	}
	defer f.Close()
	return ReadUF2(f)
}
