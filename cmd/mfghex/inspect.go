package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/q0jt/go-mfghex/ihex"
	"github.com/q0jt/go-mfghex/nrf"
)

func init() {
	inspectCmd.Flags().Uint32Var(&dumpStart, "start", 0, "first address of a .hex dump")
	inspectCmd.Flags().Uint32Var(&dumpEnd, "end", 0, "last address of a .hex dump")
	rootCmd.AddCommand(inspectCmd)
}

var (
	dumpStart uint32
	dumpEnd   uint32
)

var inspectCmd = &cobra.Command{
	Use:   "inspect file",
	Short: "Show the segments of a .hex, the blocks of a .uf2 or a .pb manifest",
	Long:  "Shows the segments of a .hex, the blocks of a .uf2 or a .pb manifest. With --start or --end a .hex region is dumped instead.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, st.title.Render(name))

		ext := strings.ToLower(filepath.Ext(name))
		if cmd.Flags().Changed("start") || cmd.Flags().Changed("end") {
			if ext != ".hex" {
				return fmt.Errorf("%s: --start and --end need a .hex file", name)
			}
			r, err := ihex.NewRange(dumpStart, dumpEnd)
			if err != nil {
				return err
			}
			return dumpRegion(w, name, r)
		}

		switch ext {
		case ".hex":
			segs, err := nrf.ReadSegments(name)
			if err != nil {
				return err
			}
			for _, s := range segs {
				fmt.Fprintf(w, "0x%08X-0x%08X %s\n", s.Address, s.Address+uint32(len(s.Data))-1,
					st.label.Render(fmt.Sprintf("%d bytes", len(s.Data))))
			}
		case ".uf2":
			blocks, err := nrf.ReadUF2File(name)
			if err != nil {
				return err
			}
			for _, b := range blocks {
				family := "-"
				if b.Flags&nrf.UF2FlagFamilyID != 0 {
					family = fmt.Sprintf("0x%08X", b.FamilyID)
				}
				fmt.Fprintf(w, "%4d/%d 0x%08X %s\n", b.BlockNo, b.NumBlocks, b.TargetAddr,
					st.label.Render(fmt.Sprintf("%d bytes family %s", len(b.Data), family)))
			}
		case ".pb":
			m, err := nrf.ReadManifest(name)
			if err != nil {
				return err
			}
			js, err := nrf.ManifestJSON(m)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, js)
		default:
			return fmt.Errorf("%s: unknown file type %q", name, ext)
		}
		return nil
	},
}

// dumpRegion prints r 16 bytes per line. Undefined bytes read as 0xFF.
func dumpRegion(w io.Writer, name string, r ihex.Range) error {
	b, err := os.ReadFile(name)
	if err != nil {
		return &nrf.IOError{Op: "read", Path: name, Err: err}
	}
	data, err := nrf.RegionToBinary(b, r, ihex.ErasedByte)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	for off := 0; off < len(data); off += 16 {
		line := data[off:min(off+16, len(data))]
		fmt.Fprintf(w, "%s % X\n", st.label.Render(fmt.Sprintf("0x%08X", r.Start+uint32(off))), line)
	}
	return nil
}
