package x3fw

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// checkEqual fails with a *FormatError when actual differs from expected.
// All field, magic, checksum and size validation goes through here.
func checkEqual[T comparable](actual, expected T, field string) error {
	if actual != expected {
		return &FormatError{Field: field, Actual: actual, Expected: expected}
	}

	return nil
}

// checkEqualBytes is checkEqual for byte strings such as MD5 digests,
// rendered as hex in the error.
func checkEqualBytes(actual, expected []byte, field string) error {
	if !bytes.Equal(actual, expected) {
		return &FormatError{
			Field:    field,
			Actual:   hex.EncodeToString(actual),
			Expected: hex.EncodeToString(expected),
		}
	}

	return nil
}

// checkAllZero fails with a *FormatError when a padding region contains a
// non-zero byte.
func checkAllZero(p []byte, field string) error {
	for i, b := range p {
		if b != 0 {
			return &FormatError{
				Field:    field,
				Actual:   fmt.Sprintf("byte %#02x at offset %d of %d padding bytes", b, i, len(p)),
				Expected: "all zero",
			}
		}
	}

	return nil
}
