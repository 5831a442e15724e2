package x3fw

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// RomFSFile is one named payload inside a RomFS archive. Slice order is
// archive order, which EncodeRomFS must reproduce for a byte-identical
// roundtrip.
type RomFSFile struct {
	Name string
	Data []byte
}

// DecodeRomFS parses a RomFS archive into its files, in directory order.
// Every payload CRC is verified; offsets must be block-aligned and all
// gaps between the directory, payloads and the archive tail must be zero.
func DecodeRomFS(archive []byte) ([]RomFSFile, error) {
	r := bytes.NewReader(archive)

	var hdr romFSHeader
	if err := readStruct(r, &hdr, "romfs header"); err != nil {
		return nil, err
	}
	if err := checkEqual(hdr.Magic, RomFSMagic, "romfs magic"); err != nil {
		return nil, err
	}

	if int64(hdr.FileCount)*romFSEntryLen > int64(r.Len()) {
		return nil, fmt.Errorf("%w: romfs directory", ErrTruncated)
	}
	entries := make([]romFSEntry, hdr.FileCount)
	if err := readStruct(r, entries, "romfs directory"); err != nil {
		return nil, err
	}

	files := make([]RomFSFile, 0, len(entries))
	for i, e := range entries {
		cursor := int(r.Size()) - r.Len()
		if int64(e.Offset) < int64(cursor) {
			return nil, fmt.Errorf("romfs entry %d: %w", i, &FormatError{
				Field:    "file offset",
				Actual:   e.Offset,
				Expected: fmt.Sprintf("at least %d", cursor),
			})
		}

		gap, err := readBytes(r, int(e.Offset)-cursor, "romfs padding")
		if err != nil {
			return nil, fmt.Errorf("romfs entry %d: %w", i, err)
		}
		if err := checkAllZero(gap, "romfs padding"); err != nil {
			return nil, fmt.Errorf("romfs entry %d: %w", i, err)
		}
		if err := checkEqual(e.Offset%romFSBlockLen, 0, "file block alignment"); err != nil {
			return nil, fmt.Errorf("romfs entry %d: %w", i, err)
		}

		data, err := readBytes(r, int(e.Size), "romfs file data")
		if err != nil {
			return nil, fmt.Errorf("romfs entry %d: %w", i, err)
		}
		if err := checkEqual(crc32.ChecksumIEEE(data), e.CRC, "romfs file crc"); err != nil {
			return nil, fmt.Errorf("romfs entry %d: %w", i, err)
		}

		files = append(files, RomFSFile{Name: trimZero(e.Name[:]), Data: data})
	}

	tail, err := readBytes(r, r.Len(), "romfs trailing padding")
	if err != nil {
		return nil, err
	}
	if err := checkAllZero(tail, "romfs trailing padding"); err != nil {
		return nil, err
	}

	return files, nil
}

// EncodeRomFS builds a RomFS archive from files, preserving their order.
// It fails with ErrDirectoryOverflow when the directory would not fit the
// fixed header region, without producing a partial archive.
func EncodeRomFS(files []RomFSFile) ([]byte, error) {
	count, err := u32FromInt(len(files))
	if err != nil {
		return nil, err
	}

	var dir bytes.Buffer
	_ = binary.Write(&dir, binary.LittleEndian, &romFSHeader{Magic: RomFSMagic, FileCount: count})

	var data bytes.Buffer
	for i, f := range files {
		var e romFSEntry
		if err := putPadded(e.Name[:], f.Name, "romfs file name"); err != nil {
			return nil, fmt.Errorf("romfs entry %d: %w", i, err)
		}

		size, err := u32FromInt(len(f.Data))
		if err != nil {
			return nil, fmt.Errorf("romfs entry %d: %w", i, err)
		}
		offset, err := u32FromInt(data.Len() + romFSHeaderRegion)
		if err != nil {
			return nil, fmt.Errorf("romfs entry %d: %w", i, err)
		}

		e.Size = size
		e.Offset = offset
		e.CRC = crc32.ChecksumIEEE(f.Data)
		_ = binary.Write(&dir, binary.LittleEndian, &e)

		data.Write(f.Data)
		// A full block of zeros follows an already-aligned payload; stock
		// archives carry that extra block.
		data.Write(make([]byte, romFSBlockLen-data.Len()%romFSBlockLen))
	}

	if dir.Len() >= romFSHeaderRegion {
		return nil, fmt.Errorf("%w: %d files need %d bytes", ErrDirectoryOverflow, len(files), dir.Len())
	}

	out := make([]byte, romFSHeaderRegion, romFSHeaderRegion+data.Len())
	copy(out, dir.Bytes())

	return append(out, data.Bytes()...), nil
}
