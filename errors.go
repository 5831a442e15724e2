package x3fw

import (
	"errors"
	"fmt"
)

// FormatError reports a firmware or RomFS field that failed validation.
// Field names the offending value; Actual and Expected carry both sides of
// the failed comparison. Every magic, checksum, size and padding mismatch
// is reported through this type.
type FormatError struct {
	Field    string
	Actual   any
	Expected any
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("validation failed on %s: got %v but expected %v", e.Field, e.Actual, e.Expected)
}

var (
	// ErrSizeOverflow indicates a length exceeds the format's 32-bit fields.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrTruncated indicates the input ended before a required field or region.
	ErrTruncated = errors.New("unexpected end of input")
	// ErrNameTooLong indicates a text value exceeds its fixed-width field.
	ErrNameTooLong = errors.New("name too long for fixed field")
	// ErrDirectoryOverflow indicates too many RomFS files for the fixed header region.
	ErrDirectoryOverflow = errors.New("romfs directory exceeds header region")
	// ErrReadFile indicates reading an input file failed.
	ErrReadFile = errors.New("read file failed")
	// ErrWriteFile indicates writing an output file failed.
	ErrWriteFile = errors.New("write file failed")
	// ErrCreateDir indicates creating the output directory failed.
	ErrCreateDir = errors.New("create directory failed")
	// ErrMetadataDecode indicates the metadata descriptor could not be parsed.
	ErrMetadataDecode = errors.New("decode metadata descriptor failed")
	// ErrMetadataEncode indicates the metadata descriptor could not be written.
	ErrMetadataEncode = errors.New("encode metadata descriptor failed")
)
