package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	c.Encoder.FFmpeg = strings.TrimSpace(c.Encoder.FFmpeg)
	if c.Encoder.FFmpeg != "" {
		if c.Encoder.FFmpeg, err = expandPath(c.Encoder.FFmpeg); err != nil {
			return fmt.Errorf("encoder.ffmpeg: %w", err)
		}
	}
	c.Encoder.Deadline = strings.ToLower(strings.TrimSpace(c.Encoder.Deadline))
	if c.Encoder.Deadline == "" {
		c.Encoder.Deadline = defaultDeadline
	}

	if strings.TrimSpace(c.Manifest.Path) == "" {
		c.Manifest.Path = defaultManifestPath
	}
	if c.Manifest.Path, err = expandPath(c.Manifest.Path); err != nil {
		return fmt.Errorf("manifest.path: %w", err)
	}

	if c.Preflight.MinFreeMiB < 0 {
		c.Preflight.MinFreeMiB = 0
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}
