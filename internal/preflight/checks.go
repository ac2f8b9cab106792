package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"vidpack/internal/services/ffmpeg"
)

var statfs = func(path string) (freeBytes uint64, err error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

// CheckEncoder verifies that an ffmpeg binary resolves.
func CheckEncoder(override string) Result {
	const name = "FFmpeg"
	res, err := ffmpeg.Resolve(override)
	if err != nil {
		return Result{Name: name, Detail: "no ffmpeg binary found (set encoder.ffmpeg or use --ffmpeg)"}
	}
	detail := fmt.Sprintf("%s (%s)", res.Binary, res.Source)
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies the filesystem holding path has at least minFreeMiB
// available.
func CheckFreeSpace(path string, minFreeMiB int64) Result {
	const name = "Free space"
	free, err := statfs(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("statfs %s: %v", path, err)}
	}
	required := uint64(minFreeMiB) << 20
	if free < required {
		return Result{Name: name, Detail: fmt.Sprintf("%d MiB free, need %d MiB", free>>20, minFreeMiB)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d MiB free", free>>20)}
}
