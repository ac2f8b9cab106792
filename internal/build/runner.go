package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"vidpack/internal/container"
	"vidpack/internal/fileutil"
	"vidpack/internal/logging"
	"vidpack/internal/manifest"
	"vidpack/internal/scan"
	"vidpack/internal/services"
	"vidpack/internal/services/ffmpeg"
)

const lockFileName = ".vidpack.lock"

// Options configures a batch run.
type Options struct {
	Encoder ffmpeg.Options
	// KeepWebM retains the intermediate encoder output next to the container.
	KeepWebM bool
	// Force overwrites existing intermediate and final outputs.
	Force bool
	// SkipUnchanged consults the manifest and skips sources whose size and
	// mtime match the last successful build. Requires a manifest store.
	SkipUnchanged bool
}

// Result reports one completed job.
type Result struct {
	Job      Job
	Header   container.Header
	Duration time.Duration
	Skipped  bool
}

// Runner executes jobs strictly sequentially in enumeration order. A job
// failure aborts the batch; completed outputs are left in place.
type Runner struct {
	encoder ffmpeg.Client
	store   *manifest.Store
	logger  *slog.Logger
	runID   string
}

// New constructs a Runner. The manifest store may be nil; logger nil means
// silent.
func New(encoder ffmpeg.Client, store *manifest.Store, logger *slog.Logger) *Runner {
	return &Runner{
		encoder: encoder,
		store:   store,
		logger:  logging.NewComponentLogger(logger, "build"),
		runID:   uuid.NewString(),
	}
}

// RunID identifies this batch in logs and manifest rows.
func (r *Runner) RunID() string {
	return r.runID
}

// Run enumerates src, then encodes and wraps every input into outDir. It
// returns one Result per processed file, in processing order.
func (r *Runner) Run(ctx context.Context, src, outDir string, recursive bool, opts Options) ([]Result, error) {
	inputs, err := scan.Inputs(src, recursive)
	if err != nil {
		return nil, err
	}
	if len(inputs) == 0 {
		return nil, services.Wrap(services.ErrEmptyInput, "scan", "", "no input videos found", nil)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	lock := flock.New(filepath.Join(outDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire build lock: %w", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrConfiguration, "build", "",
			fmt.Sprintf("another build is writing to %s", outDir), nil)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	jobs, err := NewJobs(inputs, outDir)
	if err != nil {
		return nil, err
	}

	ctx = services.WithRunID(ctx, r.runID)
	logger := r.logger.With(logging.String(logging.FieldRunID, r.runID))
	logger.Info("starting batch", logging.Int("files", len(jobs)), logging.String("output_dir", outDir))

	results := make([]Result, 0, len(jobs))
	for _, job := range jobs {
		result, err := r.process(ctx, logger, job, opts)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}

	logger.Info("batch complete", logging.Int("built", len(results)))
	return results, nil
}

func (r *Runner) process(ctx context.Context, logger *slog.Logger, job Job, opts Options) (Result, error) {
	jobLogger := logger.With(logging.String(logging.FieldSource, job.SourcePath))
	start := time.Now()

	info, err := os.Stat(job.SourcePath)
	if err != nil {
		return Result{}, fmt.Errorf("stat source: %w", err)
	}

	if opts.SkipUnchanged && r.store != nil {
		upToDate, err := r.store.UpToDate(ctx, job.SourcePath, info.Size(), info.ModTime())
		if err != nil {
			jobLogger.Warn("manifest lookup failed", logging.Error(err))
		} else if upToDate {
			jobLogger.Info("unchanged, skipping")
			return Result{Job: job, Skipped: true}, nil
		}
	}

	encOpts := opts.Encoder
	encOpts.Force = opts.Force
	if err := r.encoder.Encode(ctx, job.SourcePath, job.IntermediatePath, encOpts); err != nil {
		return Result{}, err
	}

	header, err := container.Wrap(job.IntermediatePath, job.FinalPath, container.Options{Force: opts.Force})
	if err != nil {
		return Result{}, err
	}

	if !opts.KeepWebM {
		if err := fileutil.RemoveIfExists(job.IntermediatePath); err != nil {
			jobLogger.Warn("could not remove intermediate file", logging.Error(err))
		}
	}

	elapsed := time.Since(start)
	if r.store != nil {
		if _, err := r.store.Add(ctx, manifest.Record{
			RunID:       r.runID,
			SourcePath:  job.SourcePath,
			SourceSize:  info.Size(),
			SourceMTime: info.ModTime(),
			OutputPath:  job.FinalPath,
			PayloadSize: header.PayloadSize,
			Duration:    elapsed,
		}); err != nil {
			jobLogger.Warn("manifest record failed", logging.Error(err))
		}
	}

	jobLogger.Info("built container",
		logging.String(logging.FieldOutput, job.FinalPath),
		logging.Uint64("payload_bytes", header.PayloadSize),
		logging.Duration("elapsed", elapsed))

	return Result{Job: job, Header: header, Duration: elapsed}, nil
}
