package nrf

import (
	"context"
	"errors"
	"fmt"

	"github.com/q0jt/go-mfghex/ihex"
	"github.com/q0jt/go-mfghex/nrf/config"
	"github.com/q0jt/go-mfghex/nrf/config/board"
)

// FamilyNRF52840 is the UF2 family identifier of the nRF52840.
const FamilyNRF52840 uint32 = 0xADA52840

var errBoardNotRegistered = errors.New("board is not registered")

// Built-in layouts, used when no Pkl configuration is given.
var defaultLayouts = map[board.Board]*config.MemoryLayout{
	board.NRF52840: {
		MfgAddr:     0xD0000,
		MfgSize:     0x1000,
		StorageAddr: 0xD1000,
		StorageSize: 0x7000,
		FamilyId:    FamilyNRF52840,
		Filler:      ihex.FillerByte,
	},
	board.NRF52833: {
		MfgAddr:     0x78000,
		MfgSize:     0x1000,
		StorageAddr: 0x79000,
		StorageSize: 0x3000,
		FamilyId:    0x621E937A,
		Filler:      ihex.FillerByte,
	},
}

// Layout is the manufacturing and storage area of one board.
type Layout struct {
	Board board.Board
	config.MemoryLayout
}

// Range returns the window covering both the manufacturing data and the
// storage area. Any gap between them is part of the window.
func (l *Layout) Range() (ihex.Range, error) {
	if l.MfgSize == 0 {
		return ihex.Range{}, fmt.Errorf("%s: empty manufacturing area", l.Board)
	}
	start := min(l.MfgAddr, l.StorageAddr)
	end := uint64(l.MfgAddr) + uint64(l.MfgSize) - 1
	if l.StorageSize != 0 {
		end = max(end, uint64(l.StorageAddr)+uint64(l.StorageSize)-1)
	} else {
		start = l.MfgAddr
	}
	if end > 0xFFFFFFFF {
		return ihex.Range{}, fmt.Errorf("%s: area ends beyond 32-bit address space", l.Board)
	}
	return ihex.NewRange(start, uint32(end))
}

// LoadLayout returns the layout of the named board. The layouts come from
// the Pkl module at path, or the built-in table when path is empty.
func LoadLayout(ctx context.Context, path, name string) (*Layout, error) {
	var b board.Board
	if err := b.UnmarshalBinary([]byte(name)); err != nil {
		return nil, err
	}
	layouts := defaultLayouts
	if path != "" {
		mem, err := loadMemConfig(ctx, path)
		if err != nil {
			return nil, err
		}
		layouts = mem.Layouts
	}
	mem, err := getMemConfWithBoard(layouts, b)
	if err != nil {
		return nil, err
	}
	return &Layout{Board: b, MemoryLayout: *mem}, nil
}

func loadMemConfig(ctx context.Context, path string) (*config.MemoryConfig, error) {
	mem, err := config.LoadFromPath(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return mem, nil
}

func getMemConfWithBoard(layouts map[board.Board]*config.MemoryLayout, b board.Board) (*config.MemoryLayout, error) {
	for chip, layout := range layouts {
		if chip != b {
			continue
		}
		return layout, nil
	}
	return nil, fmt.Errorf("%s: %w", b, errBoardNotRegistered)
}
