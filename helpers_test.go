package x3fw

import "testing"

// testPayload builds a deterministic non-zero payload of n bytes.
func testPayload(n, seed int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte((i*31 + seed*7 + 1) | 1)
	}
	return p
}

// testBodyMetadata builds metadata for n segments with a non-trivial
// header extra region.
func testBodyMetadata(n int) *BodyMetadata {
	extra := make([]byte, headerExtraLen)
	for i := range extra {
		extra[i] = byte(i * 13)
	}

	segs := make([]SegmentMetadata, n)
	for i := range segs {
		segs[i] = SegmentMetadata{
			Version: SegmentVersion,
			Date:    0x20230500 + uint32(i),
			Extra1:  uint32(i + 1),
			Extra2:  uint32(2 * (i + 1)),
		}
	}

	return &BodyMetadata{HeaderExtra: extra, Segments: segs}
}

// testBody encodes a well-formed six-segment body with the given payload sizes.
func testBody(t testing.TB, sizes ...int) (*BodyMetadata, [][]byte, []byte) {
	t.Helper()

	payloads := make([][]byte, len(sizes))
	for i, n := range sizes {
		payloads[i] = testPayload(n, i)
	}

	md := testBodyMetadata(len(sizes))
	body, err := EncodeBody(md, payloads)
	if err != nil {
		t.Fatalf("EncodeBody: %v", err)
	}

	return md, payloads, body
}

// testTrailerMetadata is a valid X3 identity.
func testTrailerMetadata() *TrailerMetadata {
	return &TrailerMetadata{
		ProductName: ProductOneX3,
		VersionName: "v1.0.82_build1",
		HWID:        HWIDOneX3,
		HWRev:       HWRevOneX3,
	}
}

// testFirmware encodes a complete well-formed firmware file.
func testFirmware(t testing.TB) []byte {
	t.Helper()

	_, _, body := testBody(t, 4, 4, 4, 4, 4, 100)
	file, err := EncodeTrailer(testTrailerMetadata(), body)
	if err != nil {
		t.Fatalf("EncodeTrailer: %v", err)
	}

	return file
}
