package config

import (
	"errors"
	"fmt"
	"strings"
)

// Deadline presets libvpx-vp9 accepts. Kept local so config stays a leaf
// package.
var validDeadlines = map[string]struct{}{
	"realtime": {},
	"good":     {},
	"best":     {},
}

// Validate checks configured values against the ranges the encoder accepts.
func (c *Config) Validate() error {
	var problems []string

	if c.Encoder.CRF < 0 || c.Encoder.CRF > 63 {
		problems = append(problems, fmt.Sprintf("encoder.crf must be between 0 and 63, got %d", c.Encoder.CRF))
	}
	if _, ok := validDeadlines[c.Encoder.Deadline]; !ok {
		problems = append(problems, fmt.Sprintf("encoder.deadline must be one of realtime, good, best; got %q", c.Encoder.Deadline))
	}
	if c.Encoder.CPUUsed < 0 || c.Encoder.CPUUsed > 8 {
		problems = append(problems, fmt.Sprintf("encoder.cpu_used must be between 0 and 8, got %d", c.Encoder.CPUUsed))
	}
	if c.Encoder.AudioBitrate <= 0 {
		problems = append(problems, fmt.Sprintf("encoder.audio_bitrate must be positive, got %d", c.Encoder.AudioBitrate))
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("logging.format must be console or json, got %q", c.Logging.Format))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("logging.level must be debug, info, warn, or error; got %q", c.Logging.Level))
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}
