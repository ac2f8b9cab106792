package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"vidpack/internal/services/ffmpeg"
)

// Requirement defines an external dependency vidpack relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// CheckFFmpeg reports which ffmpeg binary the tool would execute, following
// the explicit-override, bundled-sidecar, PATH lookup order.
func CheckFFmpeg(override string) Status {
	status := Status{
		Name:        "FFmpeg",
		Description: "Required for encoding",
	}

	res, err := ffmpeg.Resolve(override)
	if err != nil {
		status.Command = "ffmpeg"
		status.Detail = `binary "ffmpeg" not found`
		return status
	}

	status.Command = res.Binary
	status.Available = true
	status.Detail = res.Source
	if res.LibraryDir != "" {
		status.Detail = fmt.Sprintf("%s, libs %s via %s", res.Source, res.LibraryDir, ffmpeg.LibraryPathVar())
	}
	return status
}
