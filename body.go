package x3fw

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// SegmentMetadata carries the opaque per-segment header fields. They are
// preserved verbatim across a roundtrip and never interpreted.
type SegmentMetadata struct {
	Version uint32 `json:"version"`
	Date    uint32 `json:"date"`
	Extra1  uint32 `json:"extra1"`
	Extra2  uint32 `json:"extra2"`
}

// BodyMetadata is everything DecodeBody learns about a firmware body apart
// from the segment payloads themselves. HeaderExtra is the opaque 0x180-byte
// header region, stored raw and replayed on encode.
type BodyMetadata struct {
	HeaderExtra []byte
	Segments    []SegmentMetadata
}

// DecodeBody parses a firmware body into per-segment metadata and payloads.
// Each segment's own CRC, the slot table's running-CRC checkpoints and the
// final body CRC are all verified, as is every padding region.
func DecodeBody(body []byte) (*BodyMetadata, [][]byte, error) {
	r := bytes.NewReader(body)

	var hdr bodyHeader
	if err := readStruct(r, &hdr, "body header"); err != nil {
		return nil, nil, err
	}
	if err := checkAllZero(hdr.ZeroPad1[:], "body header padding"); err != nil {
		return nil, nil, err
	}
	if err := checkEqual(hdr.Magic, HeaderMagic, "header magic"); err != nil {
		return nil, nil, err
	}
	if err := checkAllZero(hdr.ZeroPad2[:], "body header padding"); err != nil {
		return nil, nil, err
	}

	slots := make([]segmentSlot, slotCount)
	if err := readStruct(r, slots, "segment slots"); err != nil {
		return nil, nil, err
	}
	for len(slots) > 0 && slots[len(slots)-1] == (segmentSlot{}) {
		slots = slots[:len(slots)-1]
	}

	// Not interpreted; appears to describe the first segment (the ARM
	// program image). Stored raw so encode can replay it.
	extra, err := readBytes(r, headerExtraLen, "header extra")
	if err != nil {
		return nil, nil, err
	}

	if err := checkEqual(len(slots), segmentCount, "number of segments"); err != nil {
		return nil, nil, err
	}

	md := &BodyMetadata{
		HeaderExtra: extra,
		Segments:    make([]SegmentMetadata, 0, len(slots)),
	}
	segments := make([][]byte, 0, len(slots))
	var running uint32

	for i, slot := range slots {
		rawHeader, err := readBytes(r, segmentHeaderLen, "segment header")
		if err != nil {
			return nil, nil, fmt.Errorf("segment %d: %w", i, err)
		}

		var sh segmentHeader
		_ = binary.Read(bytes.NewReader(rawHeader), binary.LittleEndian, &sh)

		if err := validateSegmentHeader(&sh, slot); err != nil {
			return nil, nil, fmt.Errorf("segment %d: %w", i, err)
		}

		payload, err := readBytes(r, int(sh.Size), "segment payload")
		if err != nil {
			return nil, nil, fmt.Errorf("segment %d: %w", i, err)
		}

		running = crc32.Update(running, crc32.IEEETable, rawHeader)
		running = crc32.Update(running, crc32.IEEETable, payload)

		if err := checkEqual(crc32.ChecksumIEEE(payload), sh.DataCRC, "segment data crc"); err != nil {
			return nil, nil, fmt.Errorf("segment %d: %w", i, err)
		}
		if err := checkEqual(0xFFFFFFFF-running, slot.CRCComplement, "segment running crc"); err != nil {
			return nil, nil, fmt.Errorf("segment %d: %w", i, err)
		}

		md.Segments = append(md.Segments, SegmentMetadata{
			Version: sh.Version,
			Date:    sh.Date,
			Extra1:  sh.Extra1,
			Extra2:  sh.Extra2,
		})
		segments = append(segments, payload)
	}

	if err := checkEqual(r.Len(), 0, "trailing data"); err != nil {
		return nil, nil, err
	}
	if err := checkEqual(running, hdr.BodyCRC, "body crc"); err != nil {
		return nil, nil, err
	}

	return md, segments, nil
}

// validateSegmentHeader checks a segment header's fixed fields against the
// format and the header's declared size against its slot. A zero slot size
// skips the cross-check: the last segment's slot is always stored as zero.
func validateSegmentHeader(sh *segmentHeader, slot segmentSlot) error {
	if err := checkEqual(sh.Version, SegmentVersion, "segment version"); err != nil {
		return err
	}
	if err := checkEqual(sh.Magic, SegmentMagic, "segment magic"); err != nil {
		return err
	}
	if err := checkAllZero(sh.Padding[:], "segment header padding"); err != nil {
		return err
	}
	if slot.Size != 0 {
		if err := checkEqual(slot.Size, sh.Size+segmentHeaderLen, "segment size"); err != nil {
			return err
		}
	}

	return nil
}

// EncodeBody builds a firmware body from per-segment metadata and payloads.
// DecodeBody(EncodeBody(md, segments)) returns md and segments unchanged.
func EncodeBody(md *BodyMetadata, segments [][]byte) ([]byte, error) {
	if err := checkEqual(len(md.Segments), len(segments), "number of segments"); err != nil {
		return nil, err
	}
	if err := checkEqual(len(md.HeaderExtra), headerExtraLen, "header extra length"); err != nil {
		return nil, err
	}

	slots := make([]segmentSlot, 0, slotCount)
	var body bytes.Buffer
	var running uint32

	for i, payload := range segments {
		size, err := u32FromInt(len(payload))
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}

		seg := md.Segments[i]
		sh := segmentHeader{
			DataCRC: crc32.ChecksumIEEE(payload),
			Version: seg.Version,
			Date:    seg.Date,
			Size:    size,
			Extra1:  seg.Extra1,
			Extra2:  seg.Extra2,
			Magic:   SegmentMagic,
		}

		var rawHeader bytes.Buffer
		rawHeader.Grow(segmentHeaderLen)
		_ = binary.Write(&rawHeader, binary.LittleEndian, &sh)

		running = crc32.Update(running, crc32.IEEETable, rawHeader.Bytes())
		running = crc32.Update(running, crc32.IEEETable, payload)

		body.Write(rawHeader.Bytes())
		body.Write(payload)

		slots = append(slots, segmentSlot{
			Size:          segmentHeaderLen + size,
			CRCComplement: 0xFFFFFFFF - running,
		})
	}

	zeroLastSlotSize(slots)
	for len(slots) < slotCount {
		slots = append(slots, segmentSlot{})
	}

	var out bytes.Buffer
	out.Grow(bodyHeaderLen + slotCount*8 + headerExtraLen + body.Len())
	_ = binary.Write(&out, binary.LittleEndian, &bodyHeader{Magic: HeaderMagic, BodyCRC: running})
	_ = binary.Write(&out, binary.LittleEndian, slots)
	out.Write(md.HeaderExtra)
	out.Write(body.Bytes())

	return out.Bytes(), nil
}

// zeroLastSlotSize clears the size field of the final slot. Stock X3
// firmware always stores 0 there even though the last segment has a real
// length; decode skips the size cross-check for zero slots to match. This
// asymmetry is intentional, observed in original firmware files.
func zeroLastSlotSize(slots []segmentSlot) {
	if len(slots) > 0 {
		slots[len(slots)-1].Size = 0
	}
}
