package fileutil

import (
	"errors"
	"io/fs"
	"os"
)

// RemoveIfExists deletes path, treating a missing file as success so cleanup
// stays idempotent.
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
