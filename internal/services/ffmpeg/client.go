package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"vidpack/internal/services"
)

var commandContext = exec.CommandContext

// Deadline names accepted by the VP9 encoder.
const (
	DeadlineRealtime = "realtime"
	DeadlineGood     = "good"
	DeadlineBest     = "best"
)

// ValidDeadline reports whether value is one of the encoder's deadline presets.
func ValidDeadline(value string) bool {
	switch value {
	case DeadlineRealtime, DeadlineGood, DeadlineBest:
		return true
	}
	return false
}

// Options carries the per-encode parameters.
type Options struct {
	// CRF is the constant-quality level; lower means higher quality.
	CRF      int
	Deadline string
	CPUUsed  int
	// Audio re-encodes the audio track with Opus at AudioBitrate kbps.
	// When false the track is stripped.
	Audio        bool
	AudioBitrate int
	// Force lets ffmpeg overwrite an existing output; otherwise ffmpeg is
	// told to refuse and the encode fails if the output exists.
	Force bool
}

// Client defines encoder behaviour so the pipeline can run against a fake.
type Client interface {
	Encode(ctx context.Context, inputPath, outputPath string, opts Options) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithLibraryDir injects a shared-library directory into the encoder's
// dynamic-library search path. Used with the bundled binary.
func WithLibraryDir(dir string) Option {
	return func(c *CLI) {
		c.libraryDir = dir
	}
}

// CLI wraps the ffmpeg command-line encoder.
type CLI struct {
	binary     string
	libraryDir string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Encode transcodes inputPath to a VP9 WebM file at outputPath and blocks
// until ffmpeg exits. Stdout and stderr are captured combined; on a non-zero
// exit the captured text is part of the returned error.
func (c *CLI) Encode(ctx context.Context, inputPath, outputPath string, opts Options) error {
	if inputPath == "" {
		return errors.New("input path required")
	}
	if outputPath == "" {
		return errors.New("output path required")
	}

	args := buildArgs(inputPath, outputPath, opts)
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	cmd.Env = PrepareEnv(os.Environ(), c.libraryDir)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		return services.Wrap(services.ErrExternalTool, "encode", "ffmpeg",
			fmt.Sprintf("failed for %s\n%s", inputPath, output.String()), err)
	}
	return nil
}

func buildArgs(inputPath, outputPath string, opts Options) []string {
	overwrite := "-n"
	if opts.Force {
		overwrite = "-y"
	}
	args := []string{
		overwrite,
		"-i", inputPath,
		"-c:v", "libvpx-vp9",
		"-b:v", "0",
		"-crf", strconv.Itoa(opts.CRF),
		"-row-mt", "1",
		"-deadline", opts.Deadline,
		"-cpu-used", strconv.Itoa(opts.CPUUsed),
	}
	if opts.Audio {
		args = append(args, "-c:a", "libopus", "-b:a", fmt.Sprintf("%dk", opts.AudioBitrate))
	} else {
		args = append(args, "-an")
	}
	return append(args, outputPath)
}

var _ Client = (*CLI)(nil)
