// Package scan discovers the input files for a build run. Ordering is
// byte-lexicographic so repeated runs over an unchanged tree process files in
// the same order.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"vidpack/internal/services"
)

// Known video container extensions (lowercase, with leading dot). Applies only
// to directory scans; an explicitly named file is always accepted.
var videoExtensions = map[string]struct{}{
	".mp4":  {},
	".mov":  {},
	".mkv":  {},
	".avi":  {},
	".webm": {},
	".m4v":  {},
	".mpg":  {},
	".mpeg": {},
	".wmv":  {},
	".flv":  {},
}

// IsVideoFile reports whether path carries a known video extension.
func IsVideoFile(path string) bool {
	_, ok := videoExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Inputs resolves a source path into the ordered list of files to process.
// A file path yields itself regardless of extension. A directory yields its
// immediate children, or the whole subtree when recursive is set, filtered by
// the extension allow-list and sorted.
func Inputs(path string, recursive bool) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "scan", "", fmt.Sprintf("input path not found: %s", path), nil)
		}
		return nil, fmt.Errorf("stat input: %w", err)
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	if recursive {
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsVideoFile(p) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk input directory: %w", err)
		}
	} else {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("read input directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			full := filepath.Join(path, entry.Name())
			if IsVideoFile(full) {
				files = append(files, full)
			}
		}
	}

	sort.Strings(files)
	return files, nil
}
