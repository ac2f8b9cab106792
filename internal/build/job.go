package build

import (
	"fmt"
	"path/filepath"
	"strings"

	"vidpack/internal/container"
	"vidpack/internal/services"
)

// IntermediateExtension is the suffix of the encoder's native output.
const IntermediateExtension = ".webm"

// Job carries the paths for one source file through the pipeline. Jobs are
// ephemeral; nothing outlives a single run.
type Job struct {
	SourcePath       string
	IntermediatePath string
	FinalPath        string
}

// Stem returns the output base name shared by both derived paths.
func (j Job) Stem() string {
	base := filepath.Base(j.SourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	return stem
}

// NewJobs maps inputs to per-file jobs with outputs flattened into outDir.
// Inputs from different subdirectories that share a stem would silently
// overwrite each other, so duplicates are rejected up front.
func NewJobs(inputs []string, outDir string) ([]Job, error) {
	jobs := make([]Job, 0, len(inputs))
	seen := make(map[string]string, len(inputs))

	for _, input := range inputs {
		job := Job{SourcePath: input}
		stem := job.Stem()
		if previous, ok := seen[stem]; ok {
			return nil, services.Wrap(services.ErrValidation, "scan", "",
				fmt.Sprintf("output name collision: %s and %s both map to %s%s", previous, input, stem, container.Extension), nil)
		}
		seen[stem] = input

		job.IntermediatePath = filepath.Join(outDir, stem+IntermediateExtension)
		job.FinalPath = filepath.Join(outDir, stem+container.Extension)
		jobs = append(jobs, job)
	}
	return jobs, nil
}
