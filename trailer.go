package x3fw

import (
	"bytes"
	"crypto/md5" // #nosec G501 -- format-mandated integrity hash, not used for security.
	"encoding/binary"
	"fmt"
)

// TrailerMetadata identifies the device a firmware file targets.
type TrailerMetadata struct {
	ProductName string `json:"product_name"`
	VersionName string `json:"version_name"`
	HWID        string `json:"hw_id"`
	HWRev       uint64 `json:"hw_rev"`
}

// DecodeTrailer splits a firmware file into its trailer metadata and body.
// It verifies the whole-file and body MD5 digests and requires the X3
// product, hardware ID and hardware revision; any other device's firmware
// is rejected. The returned body slice aliases file.
func DecodeTrailer(file []byte) (*TrailerMetadata, []byte, error) {
	tailLen := trailerRecordLen + md5Len
	if len(file) < tailLen {
		return nil, nil, fmt.Errorf("%w: trailer", ErrTruncated)
	}

	body := file[:len(file)-tailLen]
	rawTrailer := file[len(file)-tailLen : len(file)-md5Len]
	finalHash := file[len(file)-md5Len:]

	h := md5.New() // #nosec G401
	h.Write(body)
	bodyHash := h.Sum(nil)
	h.Write(rawTrailer)
	if err := checkEqualBytes(h.Sum(nil), finalHash, "final hash"); err != nil {
		return nil, nil, err
	}

	var rec trailerRecord
	// length checked above, the read cannot fail
	_ = binary.Read(bytes.NewReader(rawTrailer), binary.LittleEndian, &rec)

	md := &TrailerMetadata{
		ProductName: trimZero(rec.ProductName[:]),
		VersionName: trimZero(rec.VersionName[:]),
		HWID:        string(rec.HWID[:]),
		HWRev:       rec.HWRev,
	}

	if err := checkEqual(md.ProductName, ProductOneX3, "product name"); err != nil {
		return nil, nil, err
	}
	if err := checkEqual(md.HWID, HWIDOneX3, "hardware ID"); err != nil {
		return nil, nil, err
	}
	if err := checkEqual(md.HWRev, HWRevOneX3, "hardware revision"); err != nil {
		return nil, nil, err
	}
	if err := checkEqual(int(rec.BodySize), len(body), "size without trailer"); err != nil {
		return nil, nil, err
	}
	if err := checkEqualBytes(bodyHash, rec.BodyMD5[:], "hash without trailer"); err != nil {
		return nil, nil, err
	}

	return md, body, nil
}

// EncodeTrailer wraps body in the trailer envelope described by md and
// appends the whole-file MD5. DecodeTrailer(EncodeTrailer(md, body))
// returns md and body unchanged.
func EncodeTrailer(md *TrailerMetadata, body []byte) ([]byte, error) {
	size, err := u32FromInt(len(body))
	if err != nil {
		return nil, fmt.Errorf("%w: body", err)
	}

	rec := trailerRecord{BodySize: size, HWRev: md.HWRev}
	if err := putPadded(rec.ProductName[:], md.ProductName, "product name"); err != nil {
		return nil, err
	}
	if err := putPadded(rec.VersionName[:], md.VersionName, "version name"); err != nil {
		return nil, err
	}
	if err := putPadded(rec.HWID[:], md.HWID, "hardware ID"); err != nil {
		return nil, err
	}

	h := md5.New() // #nosec G401
	h.Write(body)
	copy(rec.BodyMD5[:], h.Sum(nil))

	var trailer bytes.Buffer
	trailer.Grow(trailerRecordLen)
	_ = binary.Write(&trailer, binary.LittleEndian, &rec)
	h.Write(trailer.Bytes())

	out := make([]byte, 0, len(body)+trailerRecordLen+md5Len)
	out = append(out, body...)
	out = append(out, trailer.Bytes()...)
	out = append(out, h.Sum(nil)...)

	return out, nil
}
