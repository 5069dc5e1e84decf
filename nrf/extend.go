package nrf

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/q0jt/go-mfghex/ihex"
)

type extendOptions struct {
	filler     byte
	verify     bool
	split      bool
	recordSize int
}

// ExtendOption configures Extend.
type ExtendOption func(*extendOptions)

// WithFiller sets the byte written to undefined addresses. The default is
// ihex.FillerByte.
func WithFiller(b byte) ExtendOption {
	return func(o *extendOptions) {
		o.filler = b
	}
}

// WithInputChecksums rejects input records with a wrong checksum.
func WithInputChecksums() ExtendOption {
	return func(o *extendOptions) {
		o.verify = true
	}
}

// WithSegmentSplit accepts ranges that cross a 64KiB boundary.
func WithSegmentSplit() ExtendOption {
	return func(o *extendOptions) {
		o.split = true
	}
}

// WithRecordSize sets the data record payload size of the output.
func WithRecordSize(n int) ExtendOption {
	return func(o *extendOptions) {
		o.recordSize = n
	}
}

// Result describes one extended file.
type Result struct {
	Input   string
	Output  string
	Range   ihex.Range
	Filler  byte
	Records int    // records written
	Defined uint64 // bytes of the range present in the input
	Padded  uint64 // bytes of the range set to Filler
	SHA256  []byte // digest of the output file
	Crc     uint32 // CRC-32 of the range contents
}

// Extend reads the HEX file input, defines every address of r, and writes
// the result to output. The output holds only the bytes of r.
func Extend(ctx context.Context, input, output string, r ihex.Range, opts ...ExtendOption) (*Result, error) {
	o := &extendOptions{filler: ihex.FillerByte, recordSize: ihex.MaxRecordSize}
	for _, opt := range opts {
		opt(o)
	}
	if r.Start > r.End {
		return nil, ihex.ErrInvalidRange
	}

	src, err := os.ReadFile(input)
	if err != nil {
		return nil, &IOError{Op: "read", Path: input, Err: err}
	}
	var decOpts []ihex.DecodeOption
	if o.verify {
		decOpts = append(decOpts, ihex.WithChecksumVerification())
	}
	records, err := ihex.Decode(bytes.NewReader(src), decOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}
	img := ihex.Build(records)
	glog.V(1).Infof("%s: %d records, %d bytes defined", input, len(records), img.Len())

	added := img.Pad(r, o.filler)
	region, err := img.Bytes(r)
	if err != nil {
		return nil, err
	}

	encOpts := []ihex.EncodeOption{ihex.WithRecordSize(o.recordSize)}
	if o.split {
		encOpts = append(encOpts, ihex.WithSegmentSplit())
	}
	var buf bytes.Buffer
	n, err := ihex.Encode(&buf, img, r, encOpts...)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := writeFileAtomic(output, buf.Bytes()); err != nil {
		return nil, err
	}
	if err := verifyHexFile(output, r, region); err != nil {
		return nil, err
	}

	res := &Result{
		Input:   input,
		Output:  output,
		Range:   r,
		Filler:  o.filler,
		Records: n,
		Defined: r.Len() - uint64(added),
		Padded:  uint64(added),
		SHA256:  sha256Sum(buf.Bytes()),
		Crc:     regionCrc(region),
	}
	glog.Infof("%s: padded %s with 0x%02X (%d of %d bytes), %d records", output, r, o.filler, added, r.Len(), n)
	return res, nil
}
