package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"vidpack/internal/services"
)

// Test hooks.
var (
	executablePath = os.Executable
	lookPath       = exec.LookPath
	goos           = runtime.GOOS
)

// Resolution describes where the encoder binary came from.
type Resolution struct {
	Binary string
	// LibraryDir is non-empty only for the bundled binary; it must be
	// injected into the dynamic-library search path before execution.
	LibraryDir string
	Source     string // "explicit", "bundled", or "path"
}

// Resolve locates the ffmpeg binary. An explicit override wins; otherwise a
// binary bundled next to the tool under third_party/ffmpeg/bin is preferred,
// with its lib directory recorded for library-path injection; finally the
// standard executable search path is consulted.
func Resolve(override string) (Resolution, error) {
	if override != "" {
		return Resolution{Binary: override, Source: "explicit"}, nil
	}

	if bundled, libDir, ok := bundledBinary(); ok {
		return Resolution{Binary: bundled, LibraryDir: libDir, Source: "bundled"}, nil
	}

	if path, err := lookPath("ffmpeg"); err == nil {
		return Resolution{Binary: path, Source: "path"}, nil
	}

	return Resolution{}, services.Wrap(services.ErrNotFound, "encode", "",
		"ffmpeg not found in PATH (or use --ffmpeg)", nil)
}

func bundledBinary() (binary, libDir string, ok bool) {
	self, err := executablePath()
	if err != nil {
		return "", "", false
	}
	root := filepath.Dir(self)

	name := "ffmpeg"
	if goos == "windows" {
		name += ".exe"
	}
	candidate := filepath.Join(root, "third_party", "ffmpeg", "bin", name)
	info, err := os.Stat(candidate)
	if err != nil || info.IsDir() || !isExecutable(info) {
		return "", "", false
	}

	lib := filepath.Join(root, "third_party", "ffmpeg", "lib")
	if info, err := os.Stat(lib); err != nil || !info.IsDir() {
		lib = ""
	}
	return candidate, lib, true
}

func isExecutable(info os.FileInfo) bool {
	if goos == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

// LibraryPathVar returns the environment variable that extends the dynamic
// library search path on the current platform.
func LibraryPathVar() string {
	return libraryPathVar(goos)
}

func libraryPathVar(platform string) string {
	switch platform {
	case "windows":
		return "PATH"
	case "darwin":
		return "DYLD_LIBRARY_PATH"
	default:
		return "LD_LIBRARY_PATH"
	}
}

// PrepareEnv prepends libDir to the platform's dynamic-library search path
// variable. With an empty libDir the environment is returned unchanged.
func PrepareEnv(env []string, libDir string) []string {
	return prepareEnv(env, libDir, goos)
}

func prepareEnv(env []string, libDir, platform string) []string {
	if libDir == "" {
		return env
	}

	key := libraryPathVar(platform)
	prefix := key + "="
	out := make([]string, 0, len(env)+1)
	found := false
	for _, entry := range env {
		if len(entry) >= len(prefix) && entry[:len(prefix)] == prefix {
			out = append(out, fmt.Sprintf("%s%s%c%s", prefix, libDir, os.PathListSeparator, entry[len(prefix):]))
			found = true
			continue
		}
		out = append(out, entry)
	}
	if !found {
		out = append(out, prefix+libDir)
	}
	return out
}
