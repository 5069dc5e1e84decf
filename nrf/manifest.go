package nrf

import (
	"encoding/hex"
	"fmt"
	"os"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/q0jt/go-mfghex/nrf/config/board"
)

// NewManifest describes an extended file. It carries no timestamps so a
// rerun on the same input produces the same manifest.
func NewManifest(res *Result, b board.Board, image string) (*structpb.Struct, error) {
	fields := map[string]any{
		"input":  res.Input,
		"output": res.Output,
		"board":  b.String(),
		"range": map[string]any{
			"start": fmt.Sprintf("0x%08X", res.Range.Start),
			"end":   fmt.Sprintf("0x%08X", res.Range.End),
		},
		"filler":  fmt.Sprintf("0x%02X", res.Filler),
		"records": res.Records,
		"defined": res.Defined,
		"padded":  res.Padded,
		"sha256":  hex.EncodeToString(res.SHA256),
		"crc32":   fmt.Sprintf("0x%08X", res.Crc),
	}
	if image != "" {
		fields["image"] = image
	}
	return structpb.NewStruct(fields)
}

// WriteManifest stores m in deterministic protobuf wire format.
func WriteManifest(name string, m *structpb.Struct) error {
	b, err := proto.MarshalOptions{Deterministic: true}.Marshal(m)
	if err != nil {
		return err
	}
	return writeFileAtomic(name, b)
}

// ReadManifest parses a manifest written by WriteManifest.
func ReadManifest(name string) (*structpb.Struct, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, &IOError{Op: "read", Path: name, Err: err}
	}
	return unmarshalManifest(b)
}

func unmarshalManifest(b []byte) (*structpb.Struct, error) {
	var m structpb.Struct
	if err := proto.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ManifestJSON renders m for display.
func ManifestJSON(m *structpb.Struct) (string, error) {
	b, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
