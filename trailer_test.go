package x3fw

import (
	"bytes"
	"crypto/md5" // #nosec G501 -- format-mandated hash.
	"errors"
	"testing"
)

func TestTrailerRoundTrip(t *testing.T) {
	t.Parallel()

	md := testTrailerMetadata()
	body := testPayload(1234, 0)

	file, err := EncodeTrailer(md, body)
	if err != nil {
		t.Fatalf("EncodeTrailer: %v", err)
	}
	if len(file) != len(body)+trailerRecordLen+md5Len {
		t.Fatalf("unexpected file length: %d", len(file))
	}

	gotMD, gotBody, err := DecodeTrailer(file)
	if err != nil {
		t.Fatalf("DecodeTrailer: %v", err)
	}
	if *gotMD != *md {
		t.Fatalf("metadata mismatch: %+v != %+v", gotMD, md)
	}
	if !bytes.Equal(gotBody, body) {
		t.Fatalf("body mismatch")
	}

	again, err := EncodeTrailer(gotMD, gotBody)
	if err != nil {
		t.Fatalf("re-encode: %v", err)
	}
	if !bytes.Equal(again, file) {
		t.Fatalf("re-encode not byte-identical")
	}
}

func TestDecodeTrailerRejectsWrongIdentity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		md        *TrailerMetadata
		wantField string
	}{
		{
			name:      "wrong-product",
			md:        &TrailerMetadata{ProductName: "onex4", VersionName: "v1", HWID: HWIDOneX3, HWRev: HWRevOneX3},
			wantField: "product name",
		},
		{
			name:      "wrong-hwid",
			md:        &TrailerMetadata{ProductName: ProductOneX3, VersionName: "v1", HWID: "AAAABBBB", HWRev: HWRevOneX3},
			wantField: "hardware ID",
		},
		{
			name:      "wrong-hwrev",
			md:        &TrailerMetadata{ProductName: ProductOneX3, VersionName: "v1", HWID: HWIDOneX3, HWRev: 2},
			wantField: "hardware revision",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			file, err := EncodeTrailer(tc.md, testPayload(64, 1))
			if err != nil {
				t.Fatalf("EncodeTrailer: %v", err)
			}

			_, _, err = DecodeTrailer(file)
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("expected *FormatError, got %v", err)
			}
			if fe.Field != tc.wantField {
				t.Fatalf("field = %q, want %q", fe.Field, tc.wantField)
			}
		})
	}
}

func TestDecodeTrailerTamperDetection(t *testing.T) {
	t.Parallel()

	md := testTrailerMetadata()
	body := testPayload(300, 2)
	file, err := EncodeTrailer(md, body)
	if err != nil {
		t.Fatalf("EncodeTrailer: %v", err)
	}

	t.Run("body-byte", func(t *testing.T) {
		t.Parallel()

		bad := bytes.Clone(file)
		bad[10] ^= 0xff

		_, _, err := DecodeTrailer(bad)
		assertFormatErrorField(t, err, "final hash")
	})

	t.Run("final-hash-byte", func(t *testing.T) {
		t.Parallel()

		bad := bytes.Clone(file)
		bad[len(bad)-1] ^= 0xff

		_, _, err := DecodeTrailer(bad)
		assertFormatErrorField(t, err, "final hash")
	})

	// The remaining cases tamper with the trailer record and then fix up
	// the final hash so decode reaches the inner checks.
	t.Run("body-size-field", func(t *testing.T) {
		t.Parallel()

		bad := bytes.Clone(file)
		trailerStart := len(bad) - trailerRecordLen - md5Len
		bad[trailerStart] ^= 0xff
		fixupFinalHash(bad)

		_, _, err := DecodeTrailer(bad)
		assertFormatErrorField(t, err, "size without trailer")
	})

	t.Run("body-md5-field", func(t *testing.T) {
		t.Parallel()

		bad := bytes.Clone(file)
		trailerStart := len(bad) - trailerRecordLen - md5Len
		bad[trailerStart+68] ^= 0xff // BodyMD5 begins after size and both names
		fixupFinalHash(bad)

		_, _, err := DecodeTrailer(bad)
		assertFormatErrorField(t, err, "hash without trailer")
	})
}

func TestDecodeTrailerTruncated(t *testing.T) {
	t.Parallel()

	_, _, err := DecodeTrailer(make([]byte, trailerRecordLen+md5Len-1))
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestEncodeTrailerNameTooLong(t *testing.T) {
	t.Parallel()

	md := testTrailerMetadata()
	md.VersionName = string(make([]byte, 33))

	_, err := EncodeTrailer(md, nil)
	if !errors.Is(err, ErrNameTooLong) {
		t.Fatalf("expected ErrNameTooLong, got %v", err)
	}
}

// fixupFinalHash recomputes the trailing whole-file MD5 in place.
func fixupFinalHash(file []byte) {
	sum := md5.Sum(file[:len(file)-md5Len]) // #nosec G401
	copy(file[len(file)-md5Len:], sum[:])
}

// assertFormatErrorField fails unless err is a *FormatError on field.
func assertFormatErrorField(t *testing.T, err error, field string) {
	t.Helper()

	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FormatError, got %v", err)
	}
	if fe.Field != field {
		t.Fatalf("field = %q, want %q", fe.Field, field)
	}
}
