package x3fw

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Unpack decodes the firmware file at fwPath into dir: one f<i>.bin per
// segment plus a metadata.json descriptor. The directory is created if
// missing.
func Unpack(fwPath, dir string) error {
	raw, err := os.ReadFile(fwPath)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrReadFile, fwPath, err)
	}

	tm, body, err := DecodeTrailer(raw)
	if err != nil {
		return err
	}
	bm, segments, err := DecodeBody(body)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCreateDir, dir, err)
	}

	if err := NewMetadata(tm, bm).Save(filepath.Join(dir, MetadataFileName)); err != nil {
		return err
	}

	for i, seg := range segments {
		path := filepath.Join(dir, segmentFileName(i))
		if err := os.WriteFile(path, seg, 0o644); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrWriteFile, path, err)
		}
	}

	return nil
}

// UnpackRomFS decodes the RomFS archive at path into dir: one file per
// archive entry plus a __filelist__.txt recording the original order.
func UnpackRomFS(path, dir string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrReadFile, path, err)
	}

	files, err := DecodeRomFS(raw)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrCreateDir, dir, err)
	}

	var list strings.Builder
	for _, f := range files {
		out := filepath.Join(dir, f.Name)
		if err := os.WriteFile(out, f.Data, 0o644); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrWriteFile, out, err)
		}
		list.WriteString(f.Name)
		list.WriteByte('\n')
	}

	listPath := filepath.Join(dir, FilelistFileName)
	if err := os.WriteFile(listPath, []byte(list.String()), 0o644); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrWriteFile, listPath, err)
	}

	return nil
}
