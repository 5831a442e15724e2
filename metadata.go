package x3fw

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
)

const (
	// MetadataFileName is the descriptor written next to extracted segments.
	MetadataFileName = "metadata.json"
	// FilelistFileName pins RomFS file order across unpack and repack.
	FilelistFileName = "__filelist__.txt"
)

// Metadata is the descriptor persisted in an unpacked firmware directory.
// Its JSON shape is stable: trailer identity fields, the opaque header
// extra region as hex, and the opaque per-segment fields in segment order.
type Metadata struct {
	TrailerMetadata
	HeaderExtra string            `json:"header_extra"`
	Segments    []SegmentMetadata `json:"segments"`
}

// NewMetadata combines trailer and body metadata into one descriptor.
func NewMetadata(tm *TrailerMetadata, bm *BodyMetadata) *Metadata {
	return &Metadata{
		TrailerMetadata: *tm,
		HeaderExtra:     hex.EncodeToString(bm.HeaderExtra),
		Segments:        bm.Segments,
	}
}

// Trailer returns the trailer half of the descriptor.
func (m *Metadata) Trailer() *TrailerMetadata {
	tm := m.TrailerMetadata
	return &tm
}

// Body returns the body half of the descriptor with the header extra
// region decoded back to raw bytes.
func (m *Metadata) Body() (*BodyMetadata, error) {
	extra, err := hex.DecodeString(m.HeaderExtra)
	if err != nil {
		return nil, fmt.Errorf("%w: header_extra: %v", ErrMetadataDecode, err)
	}

	return &BodyMetadata{HeaderExtra: extra, Segments: m.Segments}, nil
}

// LoadMetadata reads a descriptor from path.
func LoadMetadata(path string) (*Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrReadFile, path, err)
	}

	var m Metadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrMetadataDecode, path, err)
	}

	return &m, nil
}

// Save writes the descriptor to path.
func (m *Metadata) Save(path string) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMetadataEncode, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrWriteFile, path, err)
	}

	return nil
}

// segmentFileName names extracted segment payloads by index: f0.bin, f1.bin...
func segmentFileName(i int) string {
	return fmt.Sprintf("f%d.bin", i)
}
