package preflight

import (
	"vidpack/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the environment checks for a build into outDir: encoder
// availability, output directory access, and free space.
func RunAll(cfg *config.Config, outDir string) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckEncoder(cfg.Encoder.FFmpeg),
		CheckDirectoryAccess("Output directory", outDir),
	}
	if cfg.Preflight.MinFreeMiB > 0 {
		results = append(results, CheckFreeSpace(outDir, cfg.Preflight.MinFreeMiB))
	}
	return results
}

// Failed returns the subset of results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
