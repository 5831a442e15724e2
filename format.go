package x3fw

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// HeaderMagic marks the firmware body header.
	HeaderMagic uint32 = 0x8732DFE6
	// SegmentMagic marks every segment header inside the body.
	SegmentMagic uint32 = 0xA324EB90
	// SegmentVersion is the only segment header version seen in X3 images.
	SegmentVersion uint32 = 0x01000000
	// RomFSMagic marks a RomFS archive.
	RomFSMagic uint32 = 0x66FC328A

	// ProductOneX3 is the product name required in the trailer.
	ProductOneX3 = "onex3"
	// HWIDOneX3 is the hardware ID required in the trailer.
	HWIDOneX3 = "WFNI3XNO"
	// HWRevOneX3 is the hardware revision required in the trailer.
	HWRevOneX3 uint64 = 1
)

// Fixed layout lengths, little-endian throughout.
const (
	md5Len           = 16
	trailerRecordLen = 100
	bodyHeaderLen    = 48
	slotCount        = 16
	headerExtraLen   = 0x180
	segmentCount     = 6
	segmentHeaderLen = 256

	romFSHeaderRegion = 0xA000
	romFSBlockLen     = 2048
	romFSNameLen      = 64
	romFSEntryLen     = 76
)

// trailerRecord is the 100-byte envelope record between the body and the
// final whole-file MD5.
type trailerRecord struct {
	BodySize    uint32
	ProductName [32]byte
	VersionName [32]byte
	BodyMD5     [md5Len]byte
	HWID        [8]byte
	HWRev       uint64
}

// bodyHeader is the first fixed record of the firmware body.
type bodyHeader struct {
	ZeroPad1 [32]byte
	Magic    uint32
	BodyCRC  uint32
	ZeroPad2 [8]byte
}

// segmentSlot is one entry of the 16-slot table following the body header.
// CRCComplement stores 0xFFFFFFFF minus the running CRC checkpoint taken
// after the slot's segment.
type segmentSlot struct {
	Size          uint32
	CRCComplement uint32
}

// segmentHeader prefixes each segment payload.
type segmentHeader struct {
	DataCRC uint32
	Version uint32
	Date    uint32
	Size    uint32
	Extra1  uint32
	Extra2  uint32
	Magic   uint32
	Padding [228]byte
}

// romFSHeader starts a RomFS archive.
type romFSHeader struct {
	Magic     uint32
	FileCount uint32
}

// romFSEntry is one 76-byte directory entry of a RomFS archive.
type romFSEntry struct {
	Name   [romFSNameLen]byte
	Size   uint32
	Offset uint32
	CRC    uint32
}

// readStruct decodes one fixed-size record from r.
func readStruct(r *bytes.Reader, v any, field string) error {
	if err := binary.Read(r, binary.LittleEndian, v); err != nil {
		return fmt.Errorf("%w: %s", ErrTruncated, field)
	}

	return nil
}

// readBytes consumes exactly n bytes from r.
func readBytes(r *bytes.Reader, n int, field string) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTruncated, field)
	}

	return buf, nil
}

// trimZero decodes a zero-padded fixed-width text field.
func trimZero(b []byte) string {
	return string(bytes.TrimRight(b, "\x00"))
}

// putPadded stores s into a zero-padded fixed-width field.
func putPadded(dst []byte, s, field string) error {
	if len(s) > len(dst) {
		return fmt.Errorf("%w: %s %q exceeds %d bytes", ErrNameTooLong, field, s, len(dst))
	}
	copy(dst, s)

	return nil
}
