package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vidpack/internal/container"
	"vidpack/internal/services"
	"vidpack/internal/testsupport"
)

func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf(`
[paths]
log_dir = %q

[manifest]
enabled = true
path = %q

[preflight]
min_free_mib = 0
`, filepath.Join(dir, "logs"), filepath.Join(dir, "manifest.db"))
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// fake ffmpeg: writes a fixed payload to the destination (its last argument).
const stubEncoderScript = `#!/bin/sh
for last; do :; done
printf 'fake webm payload' > "$last"
exit 0
`

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBuildCommandEndToEnd(t *testing.T) {
	base := t.TempDir()
	cfgPath := writeTestConfig(t, base)
	stub := testsupport.WriteScript(t, filepath.Join(base, "bin", "ffmpeg"), stubEncoderScript)

	srcDir := filepath.Join(base, "src")
	testsupport.WriteFile(t, filepath.Join(srcDir, "a.mp4"), 1000)
	testsupport.WriteFile(t, filepath.Join(srcDir, "b.txt"), 10)
	outDir := filepath.Join(base, "out")

	output, err := runCommand(t, "build", srcDir, outDir, "--config", cfgPath, "--ffmpeg", stub)
	if err != nil {
		t.Fatalf("build: %v\n%s", err, output)
	}

	final := filepath.Join(outDir, "a.video")
	if !strings.Contains(output, "Built "+final) {
		t.Fatalf("missing progress line in output:\n%s", output)
	}

	header, err := container.ReadHeader(final)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if header.PayloadSize != uint64(len("fake webm payload")) {
		t.Fatalf("payload size %d", header.PayloadSize)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("read out dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".webm") {
			t.Fatalf("intermediate %s not cleaned up", entry.Name())
		}
	}
}

func TestBuildCommandKeepWebM(t *testing.T) {
	base := t.TempDir()
	cfgPath := writeTestConfig(t, base)
	stub := testsupport.WriteScript(t, filepath.Join(base, "bin", "ffmpeg"), stubEncoderScript)

	srcDir := filepath.Join(base, "src")
	testsupport.WriteFile(t, filepath.Join(srcDir, "a.mp4"), 100)
	outDir := filepath.Join(base, "out")

	if output, err := runCommand(t, "build", srcDir, outDir, "--config", cfgPath, "--ffmpeg", stub, "--keep-webm"); err != nil {
		t.Fatalf("build: %v\n%s", err, output)
	}
	if _, err := os.Stat(filepath.Join(outDir, "a.webm")); err != nil {
		t.Fatalf("expected intermediate to be kept: %v", err)
	}
}

func TestBuildCommandEmptyInputExitsDistinctly(t *testing.T) {
	base := t.TempDir()
	cfgPath := writeTestConfig(t, base)
	stub := testsupport.WriteScript(t, filepath.Join(base, "bin", "ffmpeg"), stubEncoderScript)

	_, err := runCommand(t, "build", t.TempDir(), filepath.Join(base, "out"), "--config", cfgPath, "--ffmpeg", stub)
	if !errors.Is(err, services.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if code := services.ExitCode(err); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
}

func TestBuildCommandEncoderFailure(t *testing.T) {
	base := t.TempDir()
	cfgPath := writeTestConfig(t, base)
	stub := testsupport.WriteScript(t, filepath.Join(base, "bin", "ffmpeg"), "#!/bin/sh\necho 'boom' >&2\nexit 1\n")

	srcDir := filepath.Join(base, "src")
	testsupport.WriteFile(t, filepath.Join(srcDir, "a.mp4"), 100)

	_, err := runCommand(t, "build", srcDir, filepath.Join(base, "out"), "--config", cfgPath, "--ffmpeg", stub)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if code := services.ExitCode(err); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}

func TestBuildCommandRejectsBadDeadline(t *testing.T) {
	base := t.TempDir()
	cfgPath := writeTestConfig(t, base)

	_, err := runCommand(t, "build", base, filepath.Join(base, "out"), "--config", cfgPath, "--deadline", "fastest")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestInspectCommand(t *testing.T) {
	base := t.TempDir()
	payload := filepath.Join(base, "clip.webm")
	testsupport.WriteFile(t, payload, 512)
	target := filepath.Join(base, "clip.video")
	if _, err := container.Wrap(payload, target, container.Options{}); err != nil {
		t.Fatalf("Wrap: %v", err)
	}

	output, err := runCommand(t, "inspect", target)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, fragment := range []string{"Magic:        VID0", "Version:      1", "Payload size: 512 bytes", "Total size:   528 bytes"} {
		if !strings.Contains(output, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, output)
		}
	}
}

func TestInspectCommandRejectsForeignFile(t *testing.T) {
	base := t.TempDir()
	bogus := filepath.Join(base, "bogus.video")
	if err := os.WriteFile(bogus, []byte("definitely not a container"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := runCommand(t, "inspect", bogus); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "config.toml")

	output, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(output, target) {
		t.Fatalf("expected target path in output:\n%s", output)
	}

	output, err = runCommand(t, "config", "show", "--config", target)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, fragment := range []string{"[encoder]", "crf = 30", "deadline = 'good'"} {
		if !strings.Contains(output, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, output)
		}
	}
}

func TestDepsCommandPlainOutput(t *testing.T) {
	base := t.TempDir()
	cfgPath := writeTestConfig(t, base)
	stub := testsupport.WriteScript(t, filepath.Join(base, "bin", "ffmpeg"), stubEncoderScript)

	output, err := runCommand(t, "deps", "--config", cfgPath, "--ffmpeg", stub)
	if err != nil {
		t.Fatalf("deps: %v\n%s", err, output)
	}
	if !strings.Contains(output, "FFmpeg: ok") {
		t.Fatalf("expected FFmpeg availability in output:\n%s", output)
	}
}
