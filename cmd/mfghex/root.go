package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/q0jt/go-mfghex/ihex"
	"github.com/q0jt/go-mfghex/nrf"
	"github.com/q0jt/go-mfghex/nrf/config/board"
)

var (
	configPath string
	boardName  string
)

var rootCmd = &cobra.Command{
	Use:           "mfghex",
	Short:         "Extend manufacturing data HEX files",
	Long:          "Pads manufacturing data HEX files over the manufacturing and storage area of a board and converts them to UF2 images.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Pkl memory configuration; built-in layouts when empty")
	rootCmd.PersistentFlags().StringVarP(&boardName, "board", "b", board.NRF52840.String(), "board whose layout is used")
	// glog flags (-v, --logtostderr, ...)
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
}

// Flags shared by extend and batch.
var (
	filler          uint8
	verifyChecksums bool
	splitSegments   bool
	recordSize      int

	converterName string
	uf2convPath   string
	pythonPath    string
	toolTimeout   time.Duration
)

func addExtendFlags(fs *pflag.FlagSet) {
	fs.Uint8Var(&filler, "filler", ihex.FillerByte, "byte written to undefined addresses; the layout's filler when unset")
	fs.BoolVar(&verifyChecksums, "verify-checksums", false, "reject input records with a wrong checksum")
	fs.BoolVar(&splitSegments, "split-segments", false, "allow ranges crossing a 64KiB boundary")
	fs.IntVar(&recordSize, "record-size", ihex.MaxRecordSize, "data bytes per output record, 1 to 16")
}

func addConverterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&converterName, "converter", "native", "UF2 converter: native, external or none")
	fs.StringVar(&uf2convPath, "uf2conv", "uf2conv.py", "uf2conv.py used by the external converter")
	fs.StringVar(&pythonPath, "python", "python3", "interpreter running uf2conv.py")
	fs.DurationVar(&toolTimeout, "timeout", 2*time.Minute, "time limit of one conversion")
}

func extendOptions(fs *pflag.FlagSet) []nrf.ExtendOption {
	var opts []nrf.ExtendOption
	if fs.Changed("filler") {
		opts = append(opts, nrf.WithFiller(filler))
	}
	if verifyChecksums {
		opts = append(opts, nrf.WithInputChecksums())
	}
	if splitSegments {
		opts = append(opts, nrf.WithSegmentSplit())
	}
	return append(opts, nrf.WithRecordSize(recordSize))
}

// newConverter returns nil for "none".
func newConverter() (nrf.Converter, error) {
	var conv nrf.Converter
	switch converterName {
	case "none":
		return nil, nil
	case "native":
		conv = nrf.NativeConverter{}
	case "external":
		conv = &nrf.ExternalConverter{Interpreter: pythonPath, Script: uf2convPath}
	default:
		return nil, fmt.Errorf("unknown converter %q", converterName)
	}
	if toolTimeout <= 0 {
		return conv, nil
	}
	return &timeoutConverter{conv: conv, timeout: toolTimeout}, nil
}

// timeoutConverter bounds each conversion.
type timeoutConverter struct {
	conv    nrf.Converter
	timeout time.Duration
}

func (c *timeoutConverter) Convert(ctx context.Context, hexPath, imagePath string, family uint32) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.conv.Convert(ctx, hexPath, imagePath, family)
}

func printResult(w io.Writer, res *nrf.Result) {
	fmt.Fprintln(w, st.title.Render(res.Output))
	fmt.Fprintf(w, "%s %s\n", st.label.Render("range:  "), res.Range)
	fmt.Fprintf(w, "%s %d defined, %d padded with 0x%02X\n", st.label.Render("bytes:  "), res.Defined, res.Padded, res.Filler)
	fmt.Fprintf(w, "%s %d\n", st.label.Render("records:"), res.Records)
	fmt.Fprintf(w, "%s %x\n", st.label.Render("sha256: "), res.SHA256)
	fmt.Fprintf(w, "%s 0x%08X\n", st.label.Render("crc32:  "), res.Crc)
}
