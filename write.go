package x3fw

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Pack rebuilds a firmware file at fwPath from a directory produced by
// Unpack. Given unmodified contents the output is byte-identical to the
// original firmware file.
func Pack(dir, fwPath string) error {
	md, err := LoadMetadata(filepath.Join(dir, MetadataFileName))
	if err != nil {
		return err
	}
	bm, err := md.Body()
	if err != nil {
		return err
	}

	segments := make([][]byte, len(md.Segments))
	for i := range segments {
		path := filepath.Join(dir, segmentFileName(i))
		seg, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("%w: %q: %v", ErrReadFile, path, err)
		}
		segments[i] = seg
	}

	body, err := EncodeBody(bm, segments)
	if err != nil {
		return err
	}
	out, err := EncodeTrailer(md.Trailer(), body)
	if err != nil {
		return err
	}

	if err := os.WriteFile(fwPath, out, 0o644); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrWriteFile, fwPath, err)
	}

	return nil
}

// PackRomFS rebuilds a RomFS archive at path from a directory produced by
// UnpackRomFS. File order comes from __filelist__.txt; without it the
// directory is packed in sorted order and byte-identity with the original
// archive is not guaranteed.
func PackRomFS(dir, path string) error {
	names, err := readFilelist(filepath.Join(dir, FilelistFileName))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logrus.WithField("dir", dir).Warn(
			"__filelist__.txt not found; packing directory entries in sorted order, output may differ from the original archive")
		names, err = listDirNames(dir)
		if err != nil {
			return err
		}
	case err != nil:
		return err
	}

	files := make([]RomFSFile, 0, len(names))
	for _, name := range names {
		in := filepath.Join(dir, name)
		data, err := os.ReadFile(in)
		if err != nil {
			return fmt.Errorf("%w: %q: %v", ErrReadFile, in, err)
		}
		files = append(files, RomFSFile{Name: name, Data: data})
	}

	out, err := EncodeRomFS(files)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrWriteFile, path, err)
	}

	return nil
}

// readFilelist loads the ordered name list, one name per line.
func readFilelist(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %q: %v", ErrReadFile, path, err)
	}

	var names []string
	for _, line := range strings.Split(string(raw), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}

	return names, nil
}

// listDirNames is the fallback ordering when no filelist exists: regular
// files in lexical order, the filelist itself excluded.
func listDirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrReadFile, dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || e.Name() == FilelistFileName {
			continue
		}
		names = append(names, e.Name())
	}

	return names, nil
}
