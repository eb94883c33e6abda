// Package backend provides the byte-oriented file primitives the store is
// built on: existence check, whole-file read, whole-file replace, truncate.
// It knows nothing about the document format.
package backend

import (
	"fmt"
	"os"
	"path/filepath"
)

const filePerm = 0o644

// Exists reports whether the path exists and is a regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Read returns the full byte content of the file.
func Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Replace atomically replaces the file's content: the bytes are written to a
// temporary file in the same directory, synced, and renamed over the target.
// A failed write therefore leaves the previous content intact. The rename is
// atomic on POSIX filesystems, which is sufficient for the single-writer
// contract.
func Replace(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("cannot create temporary file in '%s': %w", dir, err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("cannot write temporary file '%s': %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("cannot sync temporary file '%s': %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("cannot close temporary file '%s': %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("cannot set permissions on '%s': %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("cannot replace '%s': %w", path, err)
	}
	return nil
}

// Truncate resets the file to zero length in place. This is the on-disk
// representation of an empty document.
func Truncate(path string) error {
	return os.Truncate(path, 0)
}
